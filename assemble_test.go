// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assembleRawPage(t *testing.T, ops ...Operator) (string, error) {
	t.Helper()
	page := rawFontPage(ops...)
	return PageText(page, DefaultHeuristics())
}

func TestAssembleSimpleText(t *testing.T) {
	text, err := assembleRawPage(t,
		OpBeginText{},
		OpSetFont{Name: "F1", Size: 12},
		OpDrawText{Data: []byte("Hello")},
	)
	require.NoError(t, err)
	assert.Equal(t, "Hello", text)
}

func TestAssembleWinAnsiFont(t *testing.T) {
	page := &Page{
		Resources: Resources{
			Fonts: map[string]*FontDescriptor{
				"F1": {
					Name:     "F1",
					Encoding: &FontEncoding{Base: "WinAnsiEncoding"},
				},
			},
		},
		Ops: []Operator{
			OpBeginText{},
			OpSetFont{Name: "F1", Size: 12},
			OpDrawText{Data: []byte{'H', 'e', 'l', 'l', 'o', ' ', 0xFC, 0x80}},
		},
	}
	text, err := PageText(page, DefaultHeuristics())
	require.NoError(t, err)
	assert.Equal(t, "Hello ü€", text)
}

// A zero-vertical translate is a carriage return on the same baseline.
func TestAssembleTranslateNewline(t *testing.T) {
	text, err := assembleRawPage(t,
		OpSetFont{Name: "F1", Size: 12},
		OpDrawText{Data: []byte("Hello")},
		OpTranslate{DX: 0, DY: 0},
		OpDrawText{Data: []byte("World")},
	)
	require.NoError(t, err)
	assert.Equal(t, "Hello\nWorld", text)
}

// A small horizontal move with a vertical component is a column gap.
func TestAssembleTranslateTab(t *testing.T) {
	text, err := assembleRawPage(t,
		OpSetFont{Name: "F1", Size: 12},
		OpDrawText{Data: []byte("CHF")},
		OpTranslate{DX: 5, DY: -14},
		OpDrawText{Data: []byte("123.45")},
	)
	require.NoError(t, err)
	assert.Equal(t, "CHF\t123.45", text)
}

// A vertical move with a horizontal component at or below the threshold
// emits no separator at all.
func TestAssembleTranslateNoSeparator(t *testing.T) {
	text, err := assembleRawPage(t,
		OpSetFont{Name: "F1", Size: 12},
		OpDrawText{Data: []byte("a")},
		OpTranslate{DX: 2, DY: -14},
		OpDrawText{Data: []byte("b")},
	)
	require.NoError(t, err)
	assert.Equal(t, "ab", text)
}

func TestAssembleExplicitNewline(t *testing.T) {
	text, err := assembleRawPage(t,
		OpSetFont{Name: "F1", Size: 12},
		OpSetLeading{Leading: 14},
		OpDrawText{Data: []byte("line1")},
		OpNewline{},
		OpDrawText{Data: []byte("line2")},
	)
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2", text)
}

// Replacing the text matrix emits a newline when the vertical translation
// changed, a tab when only the horizontal position moved.
func TestAssembleSetMatrixSeparators(t *testing.T) {
	text, err := assembleRawPage(t,
		OpSetFont{Name: "F1", Size: 12},
		OpSetMatrix{Matrix: Matrix{A: 1, D: 1, E: 50, F: 700}},
		OpDrawText{Data: []byte("title")},
		OpSetMatrix{Matrix: Matrix{A: 1, D: 1, E: 300, F: 700}},
		OpDrawText{Data: []byte("value")},
		OpSetMatrix{Matrix: Matrix{A: 1, D: 1, E: 50, F: 680}},
		OpDrawText{Data: []byte("next")},
	)
	require.NoError(t, err)
	assert.Equal(t, "\ntitle\tvalue\nnext", text)
}

// The matrix comparison is against the matrix before the operator, however
// it was produced.
func TestAssembleSetMatrixAfterTranslate(t *testing.T) {
	text, err := assembleRawPage(t,
		OpSetFont{Name: "F1", Size: 12},
		OpTranslate{DX: 0, DY: 700},
		OpDrawText{Data: []byte("a")},
		OpSetMatrix{Matrix: Matrix{A: 1, D: 1, E: 200, F: 700}},
		OpDrawText{Data: []byte("b")},
	)
	require.NoError(t, err)
	assert.Equal(t, "a\tb", text)
}

func TestAssembleAdjustedText(t *testing.T) {
	text, err := assembleRawPage(t,
		OpSetFont{Name: "F1", Size: 12},
		OpDrawAdjusted{Items: []AdjustedItem{
			{Data: []byte("Bet"), IsText: true},
			{Adjust: -120},
			{Data: []byte("rag"), IsText: true},
		}},
	)
	require.NoError(t, err)
	assert.Equal(t, "Betrag", text)
}

func TestAssembleActualTextSpan(t *testing.T) {
	text, err := assembleRawPage(t,
		OpSetFont{Name: "F1", Size: 12},
		OpMarkedContent{Tag: "Span", Props: DictPrim{
			"ActualText": StringPrim("ück"),
		}},
	)
	require.NoError(t, err)
	assert.Equal(t, "ück", text)
}

// Non-Span tags and property-less sequences contribute nothing.
func TestAssembleMarkedContentIgnored(t *testing.T) {
	text, err := assembleRawPage(t,
		OpSetFont{Name: "F1", Size: 12},
		OpMarkedContent{Tag: "P", Props: DictPrim{"ActualText": StringPrim("no")}},
		OpMarkedContent{Tag: "Span"},
		OpMarkedContent{Tag: "Span", Props: DictPrim{"Lang": NamePrim("de")}},
	)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestAssembleSpanPropsMustBeDict(t *testing.T) {
	_, err := assembleRawPage(t,
		OpSetFont{Name: "F1", Size: 12},
		OpMarkedContent{Tag: "Span", Props: NamePrim("Attached")},
	)
	var unexpected *UnexpectedPrimitiveError
	require.ErrorAs(t, err, &unexpected)
	assert.Equal(t, "Dictionary", unexpected.Expected)
	assert.Equal(t, "Name", unexpected.Found)
}

// A decode failure aborts the page.
func TestAssembleDecodeErrorFailsPage(t *testing.T) {
	_, err := assembleRawPage(t,
		OpSetFont{Name: "F1", Size: 12},
		OpDrawText{Data: []byte{0xC3, 0x28}},
	)
	assert.ErrorIs(t, err, ErrUTF8Decode)
}

// Text drawn before any font selection goes through the no-op default.
func TestAssembleNoFontSelected(t *testing.T) {
	text, err := assembleRawPage(t,
		OpDrawText{Data: []byte{0xC3, 0x28}},
	)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestAssembleDeterministic(t *testing.T) {
	ops := []Operator{
		OpSetFont{Name: "F1", Size: 12},
		OpSetLeading{Leading: 14},
		OpDrawText{Data: []byte("Valuta")},
		OpNewline{},
		OpDrawText{Data: []byte("CHF")},
		OpTranslate{DX: 5, DY: -14},
		OpDrawText{Data: []byte("1'234.56")},
	}
	first, err := assembleRawPage(t, ops...)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := assembleRawPage(t, ops...)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
