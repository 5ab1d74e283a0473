// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"fmt"

	"github.com/mike-kfed/viac-pdf-import/logger"
)

// Resources is the slice of a page's resource dictionary the text pass
// needs: named fonts and graphics states, indirect references already
// resolved by the container.
type Resources struct {
	Fonts          map[string]*FontDescriptor
	GraphicsStates map[string]*ExtGState
}

// ExtGState is a graphics-state resource. Font is nil when the state names
// no font.
type ExtGState struct {
	Font     *FontDescriptor
	FontSize float64
}

// Page is one page's materialized input: resources plus the tokenized
// content-stream operators in document order.
type Page struct {
	Resources Resources
	Ops       []Operator
}

// FontRegistry maps every font a page can reference to its resolved
// decoder. It is built once per page and read-only afterwards; lookups are
// total, falling back to a per-registry no-op decoder.
type FontRegistry struct {
	fonts       map[string]GlyphDecoder
	resources   Resources
	defaultFont GlyphDecoder
}

// NewFontRegistry resolves a page's fonts in two passes: every named font
// resource, then every font reached through a graphics-state resource,
// registered under its internal name. Fonts with unsupported encodings are
// dropped, not fatal.
func NewFontRegistry(page *Page) *FontRegistry {
	r := &FontRegistry{
		fonts:       make(map[string]GlyphDecoder),
		resources:   page.Resources,
		defaultFont: &nopDecoder{},
	}
	for name, fd := range page.Resources.Fonts {
		r.add(name, fd)
	}
	for _, gs := range page.Resources.GraphicsStates {
		if gs.Font == nil || gs.Font.Name == "" {
			continue
		}
		if _, ok := r.fonts[gs.Font.Name]; !ok {
			r.add(gs.Font.Name, gs.Font)
		}
	}
	return r
}

func (r *FontRegistry) add(name string, fd *FontDescriptor) {
	dec, err := ResolveEncoding(fd)
	if err != nil {
		logger.Warn(fmt.Sprintf("dropping font %q: %v", name, err))
		return
	}
	r.fonts[name] = dec
}

// ByName returns the decoder registered under a resource name, or the
// default no-op decoder. It never fails.
func (r *FontRegistry) ByName(name string) GlyphDecoder {
	if dec, ok := r.fonts[name]; ok {
		return dec
	}
	return r.defaultFont
}

// ByGraphicsState returns the decoder and font size carried by a named
// graphics-state resource. ok is false when the state is unknown or names
// no font.
func (r *FontRegistry) ByGraphicsState(name string) (GlyphDecoder, float64, bool) {
	gs, found := r.resources.GraphicsStates[name]
	if !found || gs.Font == nil {
		return nil, 0, false
	}
	dec := r.defaultFont
	if gs.Font.Name != "" {
		dec = r.ByName(gs.Font.Name)
	}
	return dec, gs.FontSize, true
}

// Default returns the registry's no-op decoder.
func (r *FontRegistry) Default() GlyphDecoder {
	return r.defaultFont
}
