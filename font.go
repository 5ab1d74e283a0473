// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mike-kfed/viac-pdf-import/logger"
)

// utf16BOM marks string data encoded as big-endian UTF-16 code units.
var utf16BOM = []byte{0xFE, 0xFF}

// A GlyphDecoder translates the raw glyph codes of one drawing operator into
// Unicode text appended to out. Implementations are immutable once built and
// shared read-only across every state snapshot referencing them.
//
// The variant set is closed: an embedded ToUnicode map, a Differences
// override over a base encoding table, a raw UTF-16BE/UTF-8 fallback, and
// the no-op default.
type GlyphDecoder interface {
	Decode(data []byte, out *strings.Builder) error
}

// FontDescriptor is a page font as materialized by the container layer:
// indirect references already resolved, the ToUnicode CMap already flattened
// to a forward map.
type FontDescriptor struct {
	// Name is the font's internal name (/Name, falling back to /BaseFont),
	// used when the font is reached through a graphics-state resource.
	Name string
	// ToUnicode maps glyph codes to Unicode text; nil when the font embeds
	// no code map.
	ToUnicode map[uint32]string
	// Encoding is the /Encoding entry; nil when absent.
	Encoding *FontEncoding
}

// FontEncoding is a named base encoding plus sparse per-code overrides.
type FontEncoding struct {
	// Base names the base encoding table, "" when only Differences apply.
	Base string
	// Differences maps glyph codes to glyph names overriding the base table.
	Differences map[byte]string
}

// ResolveEncoding picks the decode strategy for a font. First match wins:
// embedded ToUnicode map, then Differences over a named base table, then the
// raw fallback. It fails only for an unsupported base encoding name; the
// caller drops that font rather than aborting the page.
func ResolveEncoding(fd *FontDescriptor) (GlyphDecoder, error) {
	if fd.ToUnicode != nil {
		return &unicodeMapDecoder{codes: fd.ToUnicode}, nil
	}
	if fd.Encoding != nil {
		var base *[256]rune
		if fd.Encoding.Base != "" {
			base = baseEncodingTable(fd.Encoding.Base)
			if base == nil {
				return nil, &UnsupportedEncodingError{Encoding: fd.Encoding.Base}
			}
		}
		return newDifferenceDecoder(base, fd.Encoding.Differences), nil
	}
	return &rawDecoder{}, nil
}

// nopDecoder produces no output for any input. It is the registry default
// for unresolvable font references.
type nopDecoder struct{}

func (*nopDecoder) Decode(data []byte, out *strings.Builder) error {
	return nil
}

// unicodeMapDecoder looks codes up in a flattened ToUnicode map. Data
// prefixed with the UTF-16 BOM is read as 2-byte big-endian code units,
// otherwise as single bytes. Unmapped codes are skipped.
type unicodeMapDecoder struct {
	codes map[uint32]string
}

func (d *unicodeMapDecoder) Decode(data []byte, out *strings.Builder) error {
	if bytes.HasPrefix(data, utf16BOM) {
		data = data[2:]
		for i := 0; i+1 < len(data); i += 2 {
			code := uint32(data[i])<<8 | uint32(data[i+1])
			if s, ok := d.codes[code]; ok {
				out.WriteString(s)
			}
		}
		return nil
	}
	for _, b := range data {
		if s, ok := d.codes[uint32(b)]; ok {
			out.WriteString(s)
		}
	}
	return nil
}

// differenceDecoder holds the forward map built from a base encoding table
// with Differences overrides applied on top. Unmapped bytes are skipped.
type differenceDecoder struct {
	forward [256]string
}

func newDifferenceDecoder(base *[256]rune, differences map[byte]string) *differenceDecoder {
	d := &differenceDecoder{}
	if base != nil {
		for code, r := range base {
			if r != 0 {
				d.forward[code] = string(r)
			}
		}
	}
	for code, glyph := range differences {
		if text := glyphNameToText(glyph); text != "" {
			d.forward[code] = text
		}
	}
	return d
}

func (d *differenceDecoder) Decode(data []byte, out *strings.Builder) error {
	for _, b := range data {
		out.WriteString(d.forward[b])
	}
	return nil
}

// rawDecoder interprets data without any font mapping: UTF-16BE when the BOM
// is present, UTF-8 otherwise. Invalid sequences are fatal to the page.
type rawDecoder struct{}

func (*rawDecoder) Decode(data []byte, out *strings.Builder) error {
	if bytes.HasPrefix(data, utf16BOM) {
		return decodeUTF16BE(data[2:], out)
	}
	if !utf8.Valid(data) {
		logger.Error(fmt.Sprintf("raw fallback: invalid UTF-8 data: %#x", data))
		return fmt.Errorf("%w: %#x", ErrUTF8Decode, data)
	}
	out.Write(data)
	return nil
}

func decodeUTF16BE(data []byte, out *strings.Builder) error {
	if len(data)%2 != 0 {
		return fmt.Errorf("%w: odd length %d", ErrUTF16Decode, len(data))
	}
	units := make([]uint16, len(data)/2)
	for i := range units {
		units[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u >= 0xD800 && u < 0xDC00:
			if i+1 >= len(units) || units[i+1] < 0xDC00 || units[i+1] >= 0xE000 {
				return fmt.Errorf("%w: unpaired high surrogate %#04x", ErrUTF16Decode, u)
			}
			out.WriteRune(utf16.DecodeRune(rune(u), rune(units[i+1])))
			i++
		case u >= 0xDC00 && u < 0xE000:
			return fmt.Errorf("%w: unpaired low surrogate %#04x", ErrUTF16Decode, u)
		default:
			out.WriteRune(rune(u))
		}
	}
	return nil
}
