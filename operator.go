// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

// Matrix is the 2D affine text transform [a b c d e f], mapping text-space
// coordinates to page coordinates. E and F carry the translation.
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Translated returns the matrix pre-translated by (dx, dy): the translation
// is applied in text space, before the existing transform.
func (m Matrix) Translated(dx, dy float64) Matrix {
	m.E += dx*m.A + dy*m.C
	m.F += dx*m.B + dy*m.D
	return m
}

// Operator is one already-tokenized content-stream operator with resolved
// operands. The set is closed over the operators relevant to text
// reconstruction; everything else arrives as OpOther.
type Operator interface {
	op()
}

// OpBeginText starts a text object (BT).
type OpBeginText struct{}

// OpSetFont selects the active font resource and size (Tf).
type OpSetFont struct {
	Name string
	Size float64
}

// OpSetLeading sets the line leading (TL).
type OpSetLeading struct {
	Leading float64
}

// OpNewline is the explicit next-line operator (T*).
type OpNewline struct{}

// OpTranslate moves the text position (Td, TD).
type OpTranslate struct {
	DX, DY float64
}

// OpSetMatrix replaces the text matrix outright (Tm).
type OpSetMatrix struct {
	Matrix Matrix
}

// OpDrawText draws a string of raw glyph codes (Tj, ', ").
type OpDrawText struct {
	Data []byte
}

// OpDrawAdjusted draws an array of glyph strings interleaved with numeric
// kerning adjustments (TJ).
type OpDrawAdjusted struct {
	Items []AdjustedItem
}

// AdjustedItem is one element of a TJ array: either glyph codes or a kerning
// adjustment, never both.
type AdjustedItem struct {
	Data   []byte
	Adjust float64
	IsText bool
}

// OpSetGState applies a named graphics-state resource (gs), which may carry
// its own font and size.
type OpSetGState struct {
	Name string
}

// OpMarkedContent begins a marked-content sequence with properties (BDC).
// Props is nil when the operand was a bare name without properties.
type OpMarkedContent struct {
	Tag   string
	Props Primitive
}

// OpOther is any operator the text pass ignores.
type OpOther struct {
	Name string
}

func (OpBeginText) op()     {}
func (OpSetFont) op()       {}
func (OpSetLeading) op()    {}
func (OpNewline) op()       {}
func (OpTranslate) op()     {}
func (OpSetMatrix) op()     {}
func (OpDrawText) op()      {}
func (OpDrawAdjusted) op()  {}
func (OpSetGState) op()     {}
func (OpMarkedContent) op() {}
func (OpOther) op()         {}

// Primitive is a resolved operand value attached to a marked-content
// operator. Only the shapes the assembler inspects are modeled.
type Primitive interface {
	// DebugName identifies the primitive shape in diagnostics.
	DebugName() string
}

// StringPrim is a PDF string operand, raw glyph bytes.
type StringPrim []byte

// NamePrim is a PDF name operand.
type NamePrim string

// NumberPrim is a numeric operand.
type NumberPrim float64

// ArrayPrim is an array operand.
type ArrayPrim []Primitive

// DictPrim is a dictionary operand.
type DictPrim map[string]Primitive

func (StringPrim) DebugName() string { return "String" }
func (NamePrim) DebugName() string   { return "Name" }
func (NumberPrim) DebugName() string { return "Number" }
func (ArrayPrim) DebugName() string  { return "Array" }
func (DictPrim) DebugName() string   { return "Dictionary" }
