// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/ledongthuc/pdf"

	"github.com/mike-kfed/viac-pdf-import/logger"
)

// File is a fully materialized PDF document: trailer metadata plus one
// tokenized Page per document page, ready for text reconstruction. Nothing
// in it refers back to the underlying file handle.
type File struct {
	Path   string
	Title  string
	Author string
	Pages  []*Page
}

// ReadFile opens a PDF and tokenizes every page's content streams and
// resources. All stream data is consumed before the file handle is closed.
func ReadFile(path string) (*File, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	doc, err := readDocument(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

func readDocument(r *pdf.Reader) (doc *File, err error) {
	// The underlying reader panics on malformed cross-reference data.
	defer func() {
		if p := recover(); p != nil {
			doc = nil
			err = fmt.Errorf("malformed document: %v", p)
		}
	}()
	info := r.Trailer().Key("Info")
	doc = &File{
		Title:  info.Key("Title").Text(),
		Author: info.Key("Author").Text(),
	}
	for i := 1; i <= r.NumPage(); i++ {
		page, perr := readPage(r.Page(i))
		if perr != nil {
			return nil, fmt.Errorf("page %d: %w", i, perr)
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc, nil
}

func readPage(p pdf.Page) (*Page, error) {
	res := Resources{
		Fonts:          make(map[string]*FontDescriptor),
		GraphicsStates: make(map[string]*ExtGState),
	}
	fonts := p.Resources().Key("Font")
	for _, name := range fonts.Keys() {
		res.Fonts[name] = readFont(name, fonts.Key(name))
	}
	gstates := p.Resources().Key("ExtGState")
	for _, name := range gstates.Keys() {
		if gs := readGState(gstates.Key(name)); gs != nil {
			res.GraphicsStates[name] = gs
		}
	}
	ops, err := readContent(p.V.Key("Contents"))
	if err != nil {
		return nil, err
	}
	return &Page{Resources: res, Ops: ops}, nil
}

func readFont(name string, v pdf.Value) *FontDescriptor {
	fd := &FontDescriptor{Name: name}
	if tu := v.Key("ToUnicode"); tu.Kind() == pdf.Stream {
		m, err := readToUnicode(tu)
		if err != nil {
			logger.Warn(fmt.Sprintf("font %s: unreadable ToUnicode cmap: %v", name, err))
		} else {
			fd.ToUnicode = m
		}
	}
	if enc := v.Key("Encoding"); !enc.IsNull() {
		fd.Encoding = readEncoding(enc)
	}
	return fd
}

func readEncoding(v pdf.Value) *FontEncoding {
	switch v.Kind() {
	case pdf.Name:
		return &FontEncoding{Base: v.Name()}
	case pdf.Dict:
		fe := &FontEncoding{Base: v.Key("BaseEncoding").Name()}
		diffs := v.Key("Differences")
		if diffs.Kind() == pdf.Array {
			fe.Differences = make(map[byte]string)
			code := 0
			for i := 0; i < diffs.Len(); i++ {
				item := diffs.Index(i)
				switch item.Kind() {
				case pdf.Integer:
					code = int(item.Int64())
				case pdf.Name:
					if code >= 0 && code < 256 {
						fe.Differences[byte(code)] = item.Name()
					}
					code++
				}
			}
		}
		return fe
	}
	return nil
}

// readGState extracts the font a /ExtGState resource carries, if any. The
// gs operator can select a font without a Tf, so the font needs a name the
// registry can resolve it under. /Name is preferred, /BaseFont is the
// fallback seen in generators that omit it.
func readGState(v pdf.Value) *ExtGState {
	fontRef := v.Key("Font")
	if fontRef.Kind() != pdf.Array || fontRef.Len() != 2 {
		return nil
	}
	fv := fontRef.Index(0)
	name := fv.Key("Name").Name()
	if name == "" {
		name = fv.Key("BaseFont").Name()
	}
	return &ExtGState{
		Font:     readFont(name, fv),
		FontSize: fontRef.Index(1).Float64(),
	}
}

// readContent tokenizes a page's content, which is a single stream or an
// array of streams forming one logical stream.
func readContent(contents pdf.Value) (ops []Operator, err error) {
	defer func() {
		if p := recover(); p != nil {
			ops = nil
			err = fmt.Errorf("malformed content stream: %v", p)
		}
	}()
	switch contents.Kind() {
	case pdf.Stream:
		ops = appendStreamOps(ops, contents)
	case pdf.Array:
		for i := 0; i < contents.Len(); i++ {
			ops = appendStreamOps(ops, contents.Index(i))
		}
	}
	return ops, nil
}

func appendStreamOps(ops []Operator, strm pdf.Value) []Operator {
	pdf.Interpret(strm, func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]pdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		switch op {
		case "BT":
			ops = append(ops, OpBeginText{})
		case "Tf":
			if len(args) == 2 {
				ops = append(ops, OpSetFont{Name: args[0].Name(), Size: args[1].Float64()})
			}
		case "TL":
			if len(args) == 1 {
				ops = append(ops, OpSetLeading{Leading: args[0].Float64()})
			}
		case "T*":
			ops = append(ops, OpNewline{})
		case "Td":
			if len(args) == 2 {
				ops = append(ops, OpTranslate{DX: args[0].Float64(), DY: args[1].Float64()})
			}
		case "TD":
			// TD is TL + Td with the leading set to -ty.
			if len(args) == 2 {
				ops = append(ops,
					OpSetLeading{Leading: -args[1].Float64()},
					OpTranslate{DX: args[0].Float64(), DY: args[1].Float64()})
			}
		case "Tm":
			if len(args) == 6 {
				ops = append(ops, OpSetMatrix{Matrix: Matrix{
					A: args[0].Float64(), B: args[1].Float64(),
					C: args[2].Float64(), D: args[3].Float64(),
					E: args[4].Float64(), F: args[5].Float64(),
				}})
			}
		case "Tj":
			if len(args) == 1 {
				ops = append(ops, OpDrawText{Data: []byte(args[0].RawString())})
			}
		case "'":
			if len(args) == 1 {
				ops = append(ops, OpNewline{}, OpDrawText{Data: []byte(args[0].RawString())})
			}
		case "\"":
			// Word and character spacing operands are irrelevant here.
			if len(args) == 3 {
				ops = append(ops, OpNewline{}, OpDrawText{Data: []byte(args[2].RawString())})
			}
		case "TJ":
			if len(args) == 1 && args[0].Kind() == pdf.Array {
				arr := args[0]
				items := make([]AdjustedItem, 0, arr.Len())
				for i := 0; i < arr.Len(); i++ {
					el := arr.Index(i)
					switch el.Kind() {
					case pdf.String:
						items = append(items, AdjustedItem{Data: []byte(el.RawString()), IsText: true})
					case pdf.Integer, pdf.Real:
						items = append(items, AdjustedItem{Adjust: el.Float64()})
					}
				}
				ops = append(ops, OpDrawAdjusted{Items: items})
			}
		case "gs":
			if len(args) == 1 {
				ops = append(ops, OpSetGState{Name: args[0].Name()})
			}
		case "BDC":
			if len(args) == 2 {
				ops = append(ops, OpMarkedContent{Tag: args[0].Name(), Props: primitiveOf(args[1])})
			}
		default:
			ops = append(ops, OpOther{Name: op})
		}
	})
	return ops
}

func primitiveOf(v pdf.Value) Primitive {
	switch v.Kind() {
	case pdf.String:
		return StringPrim(v.RawString())
	case pdf.Name:
		return NamePrim(v.Name())
	case pdf.Integer, pdf.Real:
		return NumberPrim(v.Float64())
	case pdf.Array:
		arr := make(ArrayPrim, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			arr = append(arr, primitiveOf(v.Index(i)))
		}
		return arr
	case pdf.Dict:
		keys := v.Keys()
		d := make(DictPrim, len(keys))
		for _, k := range keys {
			d[k] = primitiveOf(v.Key(k))
		}
		return d
	}
	return nil
}

// maxCMapEntries bounds the flattened ToUnicode table so a hostile bfrange
// cannot allocate without limit.
const maxCMapEntries = 1 << 16

// readToUnicode flattens a ToUnicode CMap stream into a code-to-text table.
// The bfchar and bfrange sections are scanned textually; the surrounding
// PostScript scaffolding carries no mapping data and is ignored.
func readToUnicode(v pdf.Value) (map[uint32]string, error) {
	rd := v.Reader()
	defer rd.Close()
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	m := make(map[uint32]string)
	content := string(data)
	forEachCMapSection(content, "beginbfchar", "endbfchar", func(section string) {
		parseBFChars(m, section)
	})
	forEachCMapSection(content, "beginbfrange", "endbfrange", func(section string) {
		parseBFRanges(m, section)
	})
	return m, nil
}

func forEachCMapSection(content, begin, end string, fn func(section string)) {
	for {
		i := strings.Index(content, begin)
		if i < 0 {
			return
		}
		rest := content[i+len(begin):]
		j := strings.Index(rest, end)
		if j < 0 {
			return
		}
		fn(rest[:j])
		content = rest[j+len(end):]
	}
}

// parseBFChars reads "<src> <dst>" pairs, one mapping per line.
func parseBFChars(m map[uint32]string, section string) {
	for _, line := range strings.Split(section, "\n") {
		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) < 2 {
			continue
		}
		src, ok := hexCode(parts[0])
		if !ok {
			continue
		}
		dst, ok := hexBytes(parts[1])
		if !ok || len(m) >= maxCMapEntries {
			continue
		}
		m[src] = utf16BEString(dst)
	}
}

// parseBFRanges reads "<lo> <hi> <dst>" and "<lo> <hi> [<d0> <d1> ...]"
// lines. The array form may wrap across lines.
func parseBFRanges(m map[uint32]string, section string) {
	lines := strings.Split(section, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.Contains(line, "[") {
			for !strings.Contains(line, "]") && i+1 < len(lines) {
				i++
				line += " " + strings.TrimSpace(lines[i])
			}
			parseBFRangeArray(m, line)
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 3 {
			continue
		}
		lo, okLo := hexCode(parts[0])
		hi, okHi := hexCode(parts[1])
		dst, okDst := hexBytes(parts[2])
		if !okLo || !okHi || !okDst || hi < lo {
			continue
		}
		for code := lo; code <= hi; code++ {
			if len(m) >= maxCMapEntries {
				return
			}
			m[code] = utf16BEString(offsetReplacement(dst, code-lo))
		}
	}
}

func parseBFRangeArray(m map[uint32]string, line string) {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return
	}
	lo, okLo := hexCode(parts[0])
	hi, okHi := hexCode(parts[1])
	if !okLo || !okHi || hi < lo {
		return
	}
	open := strings.Index(line, "[")
	closing := strings.Index(line, "]")
	if open < 0 || closing < open {
		return
	}
	code := lo
	for _, tok := range strings.Fields(line[open+1 : closing]) {
		dst, ok := hexBytes(tok)
		if ok && code <= hi && len(m) < maxCMapEntries {
			m[code] = utf16BEString(dst)
		}
		code++
	}
}

// offsetReplacement advances a bfrange destination by off, incrementing the
// final UTF-16 code unit the way consecutive range entries do.
func offsetReplacement(dst []byte, off uint32) []byte {
	if off == 0 {
		return dst
	}
	b := append([]byte(nil), dst...)
	if len(b) >= 2 {
		last := (uint32(b[len(b)-2])<<8 | uint32(b[len(b)-1])) + off
		b[len(b)-2] = byte(last >> 8)
		b[len(b)-1] = byte(last)
	} else if len(b) == 1 {
		b[0] += byte(off)
	}
	return b
}

// hexCode parses a "<XXXX>" token into a character code.
func hexCode(tok string) (uint32, bool) {
	h, ok := stripAngles(tok)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// hexBytes parses a "<XXXX>" token into raw bytes.
func hexBytes(tok string) ([]byte, bool) {
	h, ok := stripAngles(tok)
	if !ok {
		return nil, false
	}
	if len(h)%2 != 0 {
		h = "0" + h
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, false
	}
	return b, true
}

func stripAngles(tok string) (string, bool) {
	if len(tok) < 3 || tok[0] != '<' || tok[len(tok)-1] != '>' {
		return "", false
	}
	return tok[1 : len(tok)-1], true
}

// utf16BEString decodes mapping destinations leniently: a leading BOM is
// stripped, a single byte maps directly, unpaired surrogates become the
// replacement rune. Strictness belongs to the text decoders, not the table
// loader.
func utf16BEString(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		b = b[2:]
	}
	if len(b) == 1 {
		return string(rune(b[0]))
	}
	u := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u = append(u, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return string(utf16.Decode(u))
}
