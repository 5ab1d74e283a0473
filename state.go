// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

// TextState is the text-relevant slice of graphics state: the active font
// decoder, its size, the line leading, and the text matrix. Snapshots are
// immutable; a mutating operator produces a fresh value and earlier
// snapshots stay attached, unchanged, to already-emitted operators.
type TextState struct {
	Font     GlyphDecoder
	FontSize float64
	Leading  float64
	Matrix   Matrix
}

// OpState pairs one operator with the state snapshot valid after that
// operator was processed.
type OpState struct {
	Op    Operator
	State *TextState
}

// OpsWithState runs the single forward pass over a page's operators,
// emitting one (operator, state-after) pair per operator in document order.
//
// BeginText deliberately leaves the state alone: fonts selected before a
// text object must stay active across BT boundaries for decoding.
func OpsWithState(page *Page, reg *FontRegistry) []OpState {
	current := &TextState{
		Font:   reg.Default(),
		Matrix: Identity(),
	}
	out := make([]OpState, 0, len(page.Ops))

	mutate := func(fn func(s *TextState)) {
		next := *current
		fn(&next)
		current = &next
	}

	for _, op := range page.Ops {
		switch o := op.(type) {
		case OpSetFont:
			mutate(func(s *TextState) {
				s.Font = reg.ByName(o.Name)
				s.FontSize = o.Size
			})
		case OpSetGState:
			mutate(func(s *TextState) {
				if dec, size, ok := reg.ByGraphicsState(o.Name); ok {
					s.Font = dec
					s.FontSize = size
				}
			})
		case OpSetLeading:
			mutate(func(s *TextState) {
				s.Leading = o.Leading
			})
		case OpNewline:
			mutate(func(s *TextState) {
				s.Matrix = s.Matrix.Translated(0, s.Leading)
			})
		case OpTranslate:
			mutate(func(s *TextState) {
				s.Matrix = s.Matrix.Translated(o.DX, o.DY)
			})
		case OpSetMatrix:
			mutate(func(s *TextState) {
				s.Matrix = o.Matrix
			})
		}
		out = append(out, OpState{Op: op, State: current})
	}
	return out
}
