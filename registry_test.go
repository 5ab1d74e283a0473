// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryByNameIsTotal(t *testing.T) {
	page := &Page{Resources: Resources{
		Fonts: map[string]*FontDescriptor{"F1": {Name: "F1"}},
	}}
	reg := NewFontRegistry(page)

	assert.IsType(t, &rawDecoder{}, reg.ByName("F1"))
	// Unknown names resolve to the default decoder, never nil.
	assert.Same(t, reg.Default(), reg.ByName("F9"))
}

// A font with an unsupported base encoding is dropped and resolves to the
// default decoder. The rest of the page keeps working.
func TestRegistryDropsUnsupportedEncoding(t *testing.T) {
	page := &Page{Resources: Resources{
		Fonts: map[string]*FontDescriptor{
			"F1": {Name: "F1", Encoding: &FontEncoding{Base: "PDFDocEncoding"}},
			"F2": {Name: "F2"},
		},
	}}
	reg := NewFontRegistry(page)
	assert.Same(t, reg.Default(), reg.ByName("F1"))
	assert.IsType(t, &rawDecoder{}, reg.ByName("F2"))
}

func TestRegistryGraphicsStateFont(t *testing.T) {
	page := &Page{Resources: Resources{
		GraphicsStates: map[string]*ExtGState{
			"GS1": {Font: &FontDescriptor{Name: "Helv"}, FontSize: 9},
			"GS2": {FontSize: 11},
		},
	}}
	reg := NewFontRegistry(page)

	dec, size, ok := reg.ByGraphicsState("GS1")
	require.True(t, ok)
	assert.Equal(t, 9.0, size)
	assert.IsType(t, &rawDecoder{}, dec)

	// A state without a font reports not-ok.
	_, _, ok = reg.ByGraphicsState("GS2")
	assert.False(t, ok)

	_, _, ok = reg.ByGraphicsState("missing")
	assert.False(t, ok)
}

// A named font resource wins over a graphics-state font of the same name.
func TestRegistryNamedFontWins(t *testing.T) {
	page := &Page{Resources: Resources{
		Fonts: map[string]*FontDescriptor{
			"F1": {Name: "F1", ToUnicode: map[uint32]string{1: "x"}},
		},
		GraphicsStates: map[string]*ExtGState{
			"GS1": {Font: &FontDescriptor{Name: "F1"}, FontSize: 9},
		},
	}}
	reg := NewFontRegistry(page)
	assert.IsType(t, &unicodeMapDecoder{}, reg.ByName("F1"))

	dec, _, ok := reg.ByGraphicsState("GS1")
	require.True(t, ok)
	assert.IsType(t, &unicodeMapDecoder{}, dec)
}
