// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"math"
	"strings"
)

// Heuristics carries the cursor-movement thresholds used to re-insert line
// and column breaks. The values are tuned against VIAC statement layouts;
// they are not a general property of PDF text placement.
type Heuristics struct {
	// LineEpsilon bounds a vertical movement still considered "same line".
	LineEpsilon float64 `validate:"gt=0"`
	// TabThreshold is the horizontal magnitude beyond which a movement is
	// treated as a column gap.
	TabThreshold float64 `validate:"gt=0"`
}

// DefaultHeuristics returns the thresholds the VIAC layouts were tuned with.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		LineEpsilon:  1e-6,
		TabThreshold: 3.0,
	}
}

// AssembleText consumes the ordered (operator, state) pairs of one page and
// builds its text. Drawing operators decode through the paired state's font;
// cursor movements turn into '\n' and '\t' separators:
//
//   - the explicit newline operator always emits '\n';
//   - a generic translate emits '\n' when its vertical component is within
//     LineEpsilon of zero (a carriage return on the same baseline), '\t'
//     when the horizontal magnitude exceeds TabThreshold, otherwise nothing;
//   - replacing the text matrix emits '\n' when the vertical translation
//     moved by more than LineEpsilon relative to the previous matrix, '\t'
//     for horizontal-only repositioning.
//
// A decode failure or malformed marked-content properties aborts the page.
func AssembleText(pairs []OpState, h Heuristics) (string, error) {
	var out strings.Builder
	prevMatrix := Identity()

	for _, pair := range pairs {
		switch op := pair.Op.(type) {
		case OpDrawText:
			if err := pair.State.Font.Decode(op.Data, &out); err != nil {
				return "", err
			}
		case OpDrawAdjusted:
			for _, item := range op.Items {
				if !item.IsText {
					continue
				}
				if err := pair.State.Font.Decode(item.Data, &out); err != nil {
					return "", err
				}
			}
		case OpNewline:
			out.WriteByte('\n')
		case OpTranslate:
			if math.Abs(op.DY) < h.LineEpsilon {
				out.WriteByte('\n')
			} else if math.Abs(op.DX) > h.TabThreshold {
				out.WriteByte('\t')
			}
		case OpSetMatrix:
			if math.Abs(op.Matrix.F-prevMatrix.F) > h.LineEpsilon {
				out.WriteByte('\n')
			} else {
				out.WriteByte('\t')
			}
		case OpMarkedContent:
			if err := appendActualText(op, pair.State, &out); err != nil {
				return "", err
			}
		}
		prevMatrix = pair.State.Matrix
	}
	return out.String(), nil
}

// appendActualText handles the alternate text channel some generators use
// for ligatures and special glyphs: a "Span" marked-content sequence whose
// properties dictionary carries an /ActualText string.
func appendActualText(op OpMarkedContent, state *TextState, out *strings.Builder) error {
	if op.Tag != "Span" || op.Props == nil {
		return nil
	}
	dict, ok := op.Props.(DictPrim)
	if !ok {
		return &UnexpectedPrimitiveError{Expected: "Dictionary", Found: op.Props.DebugName()}
	}
	if text, ok := dict["ActualText"].(StringPrim); ok {
		return state.Font.Decode([]byte(text), out)
	}
	return nil
}
