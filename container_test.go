// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCMap = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CMapName /Adobe-Identity-UCS def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
3 beginbfchar
<0003> <0020>
<0041> <0041>
<0100> <FEFF004100300300>
endbfchar
2 beginbfrange
<0010> <0012> <0048>
<0020> <0021> [<0056> <0049>]
endbfrange
endcmap
CMapName currentdict /CMap defineresource pop
end
end`

func TestParseCMapSections(t *testing.T) {
	m := make(map[uint32]string)
	forEachCMapSection(sampleCMap, "beginbfchar", "endbfchar", func(section string) {
		parseBFChars(m, section)
	})
	forEachCMapSection(sampleCMap, "beginbfrange", "endbfrange", func(section string) {
		parseBFRanges(m, section)
	})

	assert.Equal(t, " ", m[0x0003])
	assert.Equal(t, "A", m[0x0041])
	// destination with its own BOM, combining mark kept as-is
	assert.Equal(t, "A0̀", m[0x0100])

	// flattened range increments the destination
	assert.Equal(t, "H", m[0x0010])
	assert.Equal(t, "I", m[0x0011])
	assert.Equal(t, "J", m[0x0012])

	// array destinations map positionally
	assert.Equal(t, "V", m[0x0020])
	assert.Equal(t, "I", m[0x0021])
}

func TestParseBFRangeArrayAcrossLines(t *testing.T) {
	section := "\n<0001> <0002> [<0041>\n<0042>]\n"
	m := make(map[uint32]string)
	parseBFRanges(m, section)
	assert.Equal(t, "A", m[1])
	assert.Equal(t, "B", m[2])
}

func TestParseBFRangesIgnoresGarbage(t *testing.T) {
	m := make(map[uint32]string)
	parseBFRanges(m, "\nnot hex at all\n<0001>\n<zz> <01> <41>\n")
	assert.Empty(t, m)
}

func TestOffsetReplacement(t *testing.T) {
	assert.Equal(t, []byte{0x00, 0x48}, offsetReplacement([]byte{0x00, 0x48}, 0))
	assert.Equal(t, []byte{0x00, 0x4A}, offsetReplacement([]byte{0x00, 0x48}, 2))
	// carry into the high byte
	assert.Equal(t, []byte{0x01, 0x01}, offsetReplacement([]byte{0x00, 0xFF}, 2))
	assert.Equal(t, []byte{0x43}, offsetReplacement([]byte{0x41}, 2))
}

func TestUTF16BEStringLenient(t *testing.T) {
	assert.Equal(t, "A", utf16BEString([]byte{0x00, 0x41}))
	assert.Equal(t, "A", utf16BEString([]byte{0xFE, 0xFF, 0x00, 0x41}))
	assert.Equal(t, "A", utf16BEString([]byte{0x41}))
	assert.Equal(t, "\U0001F600", utf16BEString([]byte{0xD8, 0x3D, 0xDE, 0x00}))
}

func TestHexCodeAndBytes(t *testing.T) {
	code, ok := hexCode("<0041>")
	require.True(t, ok)
	assert.Equal(t, uint32(0x41), code)

	_, ok = hexCode("<zz>")
	assert.False(t, ok)
	_, ok = hexCode("0041")
	assert.False(t, ok)

	b, ok := hexBytes("<FEFF0041>")
	require.True(t, ok)
	assert.Equal(t, []byte{0xFE, 0xFF, 0x00, 0x41}, b)

	// odd-length hex is zero-padded
	b, ok = hexBytes("<041>")
	require.True(t, ok)
	assert.Equal(t, []byte{0x00, 0x41}, b)
}
