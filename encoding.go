// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import "strconv"

// Base encoding tables map single-byte glyph codes to Unicode. A zero entry
// means the code is undefined in that encoding. See PDF Reference appendix D.

// standardEncoding is the Adobe standard Latin encoding (Table D.1).
var standardEncoding = [256]rune{
	0x20: 0x0020, 0x21: 0x0021, 0x22: 0x0022, 0x23: 0x0023,
	0x24: 0x0024, 0x25: 0x0025, 0x26: 0x0026, 0x27: 0x2019,
	0x28: 0x0028, 0x29: 0x0029, 0x2A: 0x002A, 0x2B: 0x002B,
	0x2C: 0x002C, 0x2D: 0x002D, 0x2E: 0x002E, 0x2F: 0x002F,
	0x30: 0x0030, 0x31: 0x0031, 0x32: 0x0032, 0x33: 0x0033,
	0x34: 0x0034, 0x35: 0x0035, 0x36: 0x0036, 0x37: 0x0037,
	0x38: 0x0038, 0x39: 0x0039, 0x3A: 0x003A, 0x3B: 0x003B,
	0x3C: 0x003C, 0x3D: 0x003D, 0x3E: 0x003E, 0x3F: 0x003F,
	0x40: 0x0040, 0x41: 0x0041, 0x42: 0x0042, 0x43: 0x0043,
	0x44: 0x0044, 0x45: 0x0045, 0x46: 0x0046, 0x47: 0x0047,
	0x48: 0x0048, 0x49: 0x0049, 0x4A: 0x004A, 0x4B: 0x004B,
	0x4C: 0x004C, 0x4D: 0x004D, 0x4E: 0x004E, 0x4F: 0x004F,
	0x50: 0x0050, 0x51: 0x0051, 0x52: 0x0052, 0x53: 0x0053,
	0x54: 0x0054, 0x55: 0x0055, 0x56: 0x0056, 0x57: 0x0057,
	0x58: 0x0058, 0x59: 0x0059, 0x5A: 0x005A, 0x5B: 0x005B,
	0x5C: 0x005C, 0x5D: 0x005D, 0x5E: 0x005E, 0x5F: 0x005F,
	0x60: 0x2018, 0x61: 0x0061, 0x62: 0x0062, 0x63: 0x0063,
	0x64: 0x0064, 0x65: 0x0065, 0x66: 0x0066, 0x67: 0x0067,
	0x68: 0x0068, 0x69: 0x0069, 0x6A: 0x006A, 0x6B: 0x006B,
	0x6C: 0x006C, 0x6D: 0x006D, 0x6E: 0x006E, 0x6F: 0x006F,
	0x70: 0x0070, 0x71: 0x0071, 0x72: 0x0072, 0x73: 0x0073,
	0x74: 0x0074, 0x75: 0x0075, 0x76: 0x0076, 0x77: 0x0077,
	0x78: 0x0078, 0x79: 0x0079, 0x7A: 0x007A, 0x7B: 0x007B,
	0x7C: 0x007C, 0x7D: 0x007D, 0x7E: 0x007E,
	0xA1: 0x00A1, 0xA2: 0x00A2, 0xA3: 0x00A3, 0xA4: 0x2044,
	0xA5: 0x00A5, 0xA6: 0x0192, 0xA7: 0x00A7, 0xA8: 0x00A4,
	0xA9: 0x0027, 0xAA: 0x201C, 0xAB: 0x00AB, 0xAC: 0x2039,
	0xAD: 0x203A, 0xAE: 0xFB01, 0xAF: 0xFB02,
	0xB1: 0x2013, 0xB2: 0x2020, 0xB3: 0x2021, 0xB4: 0x00B7,
	0xB6: 0x00B6, 0xB7: 0x2022, 0xB8: 0x201A, 0xB9: 0x201E,
	0xBA: 0x201D, 0xBB: 0x00BB, 0xBC: 0x2026, 0xBD: 0x2030,
	0xBF: 0x00BF, 0xC1: 0x0060, 0xC2: 0x00B4, 0xC3: 0x02C6,
	0xC4: 0x02DC, 0xC5: 0x00AF, 0xC6: 0x02D8, 0xC7: 0x02D9,
	0xC8: 0x00A8, 0xCA: 0x02DA, 0xCB: 0x00B8, 0xCD: 0x02DD,
	0xCE: 0x02DB, 0xCF: 0x02C7, 0xD0: 0x2014,
	0xE1: 0x00C6, 0xE3: 0x00AA, 0xE8: 0x0141, 0xE9: 0x00D8,
	0xEA: 0x0152, 0xEB: 0x00BA, 0xF1: 0x00E6, 0xF5: 0x0131,
	0xF8: 0x0142, 0xF9: 0x00F8, 0xFA: 0x0153, 0xFB: 0x00DF,
}

// winAnsiEncoding is Windows code page 1252 (Table D.2).
var winAnsiEncoding = buildWinAnsi()

func buildWinAnsi() [256]rune {
	var t [256]rune
	for i := 0x20; i <= 0x7E; i++ {
		t[i] = rune(i)
	}
	// 0x80-0x9F differ from Latin-1
	for code, r := range map[int]rune{
		0x80: 0x20AC, 0x82: 0x201A, 0x83: 0x0192, 0x84: 0x201E,
		0x85: 0x2026, 0x86: 0x2020, 0x87: 0x2021, 0x88: 0x02C6,
		0x89: 0x2030, 0x8A: 0x0160, 0x8B: 0x2039, 0x8C: 0x0152,
		0x8E: 0x017D, 0x91: 0x2018, 0x92: 0x2019, 0x93: 0x201C,
		0x94: 0x201D, 0x95: 0x2022, 0x96: 0x2013, 0x97: 0x2014,
		0x98: 0x02DC, 0x99: 0x2122, 0x9A: 0x0161, 0x9B: 0x203A,
		0x9C: 0x0153, 0x9E: 0x017E, 0x9F: 0x0178,
	} {
		t[code] = r
	}
	for i := 0xA0; i <= 0xFF; i++ {
		t[i] = rune(i)
	}
	return t
}

// macRomanEncoding is the Mac OS standard Latin encoding (Table D.2).
var macRomanEncoding = buildMacRoman()

func buildMacRoman() [256]rune {
	var t [256]rune
	for i := 0x20; i <= 0x7E; i++ {
		t[i] = rune(i)
	}
	high := [128]rune{
		0x00C4, 0x00C5, 0x00C7, 0x00C9, 0x00D1, 0x00D6, 0x00DC, 0x00E1,
		0x00E0, 0x00E2, 0x00E4, 0x00E3, 0x00E5, 0x00E7, 0x00E9, 0x00E8,
		0x00EA, 0x00EB, 0x00ED, 0x00EC, 0x00EE, 0x00EF, 0x00F1, 0x00F3,
		0x00F2, 0x00F4, 0x00F6, 0x00F5, 0x00FA, 0x00F9, 0x00FB, 0x00FC,
		0x2020, 0x00B0, 0x00A2, 0x00A3, 0x00A7, 0x2022, 0x00B6, 0x00DF,
		0x00AE, 0x00A9, 0x2122, 0x00B4, 0x00A8, 0x2260, 0x00C6, 0x00D8,
		0x221E, 0x00B1, 0x2264, 0x2265, 0x00A5, 0x00B5, 0x2202, 0x2211,
		0x220F, 0x03C0, 0x222B, 0x00AA, 0x00BA, 0x03A9, 0x00E6, 0x00F8,
		0x00BF, 0x00A1, 0x00AC, 0x221A, 0x0192, 0x2248, 0x2206, 0x00AB,
		0x00BB, 0x2026, 0x00A0, 0x00C0, 0x00C3, 0x00D5, 0x0152, 0x0153,
		0x2013, 0x2014, 0x201C, 0x201D, 0x2018, 0x2019, 0x00F7, 0x25CA,
		0x00FF, 0x0178, 0x2044, 0x20AC, 0x2039, 0x203A, 0xFB01, 0xFB02,
		0x2021, 0x00B7, 0x201A, 0x201E, 0x2030, 0x00C2, 0x00CA, 0x00C1,
		0x00CB, 0x00C8, 0x00CD, 0x00CE, 0x00CF, 0x00CC, 0x00D3, 0x00D4,
		0xF8FF, 0x00D2, 0x00DA, 0x00DB, 0x00D9, 0x0131, 0x02C6, 0x02DC,
		0x00AF, 0x02D8, 0x02D9, 0x02DA, 0x00B8, 0x02DD, 0x02DB, 0x02C7,
	}
	copy(t[0x80:], high[:])
	return t
}

// symbolEncoding is the Symbol font encoding (Table D.4): Greek letters and
// mathematical symbols. Only the populated ranges are listed.
var symbolEncoding = [256]rune{
	0x20: 0x0020, 0x21: 0x0021, 0x22: 0x2200, 0x23: 0x0023,
	0x24: 0x2203, 0x25: 0x0025, 0x26: 0x0026, 0x27: 0x220B,
	0x28: 0x0028, 0x29: 0x0029, 0x2A: 0x2217, 0x2B: 0x002B,
	0x2C: 0x002C, 0x2D: 0x2212, 0x2E: 0x002E, 0x2F: 0x002F,
	0x30: 0x0030, 0x31: 0x0031, 0x32: 0x0032, 0x33: 0x0033,
	0x34: 0x0034, 0x35: 0x0035, 0x36: 0x0036, 0x37: 0x0037,
	0x38: 0x0038, 0x39: 0x0039, 0x3A: 0x003A, 0x3B: 0x003B,
	0x3C: 0x003C, 0x3D: 0x003D, 0x3E: 0x003E, 0x3F: 0x003F,
	0x40: 0x2245, 0x41: 0x0391, 0x42: 0x0392, 0x43: 0x03A7,
	0x44: 0x0394, 0x45: 0x0395, 0x46: 0x03A6, 0x47: 0x0393,
	0x48: 0x0397, 0x49: 0x0399, 0x4A: 0x03D1, 0x4B: 0x039A,
	0x4C: 0x039B, 0x4D: 0x039C, 0x4E: 0x039D, 0x4F: 0x039F,
	0x50: 0x03A0, 0x51: 0x0398, 0x52: 0x03A1, 0x53: 0x03A3,
	0x54: 0x03A4, 0x55: 0x03A5, 0x56: 0x03C2, 0x57: 0x03A9,
	0x58: 0x039E, 0x59: 0x03A8, 0x5A: 0x0396, 0x5B: 0x005B,
	0x5C: 0x2234, 0x5D: 0x005D, 0x5E: 0x22A5, 0x5F: 0x005F,
	0x60: 0xF8E5, 0x61: 0x03B1, 0x62: 0x03B2, 0x63: 0x03C7,
	0x64: 0x03B4, 0x65: 0x03B5, 0x66: 0x03C6, 0x67: 0x03B3,
	0x68: 0x03B7, 0x69: 0x03B9, 0x6A: 0x03D5, 0x6B: 0x03BA,
	0x6C: 0x03BB, 0x6D: 0x03BC, 0x6E: 0x03BD, 0x6F: 0x03BF,
	0x70: 0x03C0, 0x71: 0x03B8, 0x72: 0x03C1, 0x73: 0x03C3,
	0x74: 0x03C4, 0x75: 0x03C5, 0x76: 0x03D6, 0x77: 0x03C9,
	0x78: 0x03BE, 0x79: 0x03C8, 0x7A: 0x03B6, 0x7B: 0x007B,
	0x7C: 0x007C, 0x7D: 0x007D, 0x7E: 0x223C,
	0xA0: 0x20AC, 0xA1: 0x03D2, 0xA2: 0x2032, 0xA3: 0x2264,
	0xA4: 0x2044, 0xA5: 0x221E, 0xA6: 0x0192, 0xA7: 0x2663,
	0xA8: 0x2666, 0xA9: 0x2665, 0xAA: 0x2660, 0xAB: 0x2194,
	0xAC: 0x2190, 0xAD: 0x2191, 0xAE: 0x2192, 0xAF: 0x2193,
	0xB0: 0x00B0, 0xB1: 0x00B1, 0xB2: 0x2033, 0xB3: 0x2265,
	0xB4: 0x00D7, 0xB5: 0x221D, 0xB6: 0x2202, 0xB7: 0x2022,
	0xB8: 0x00F7, 0xB9: 0x2260, 0xBA: 0x2261, 0xBB: 0x2248,
	0xBC: 0x2026, 0xBD: 0x23D0, 0xBE: 0x23AF, 0xBF: 0x21B5,
	0xC0: 0x2135, 0xC1: 0x2111, 0xC2: 0x211C, 0xC3: 0x2118,
	0xC4: 0x2297, 0xC5: 0x2295, 0xC6: 0x2205, 0xC7: 0x2229,
	0xC8: 0x222A, 0xC9: 0x2283, 0xCA: 0x2287, 0xCB: 0x2284,
	0xCC: 0x2282, 0xCD: 0x2286, 0xCE: 0x2208, 0xCF: 0x2209,
	0xD0: 0x2220, 0xD1: 0x2207, 0xD2: 0x00AE, 0xD3: 0x00A9,
	0xD4: 0x2122, 0xD5: 0x220F, 0xD6: 0x221A, 0xD7: 0x22C5,
	0xD8: 0x00AC, 0xD9: 0x2227, 0xDA: 0x2228, 0xDB: 0x21D4,
	0xDC: 0x21D0, 0xDD: 0x21D1, 0xDE: 0x21D2, 0xDF: 0x21D3,
	0xE0: 0x25CA, 0xE1: 0x2329, 0xE2: 0x00AE, 0xE3: 0x00A9,
	0xE4: 0x2122, 0xE5: 0x2211, 0xF1: 0x232A, 0xF2: 0x222B,
}

// baseEncodingTable returns the named base encoding, or nil when the name
// is not one of the supported tables.
func baseEncodingTable(name string) *[256]rune {
	switch name {
	case "StandardEncoding":
		return &standardEncoding
	case "SymbolEncoding":
		return &symbolEncoding
	case "WinAnsiEncoding":
		return &winAnsiEncoding
	case "MacRomanEncoding":
		return &macRomanEncoding
	}
	return nil
}

// glyphNameToText resolves an Adobe glyph name from a Differences array to
// its Unicode text. Unknown names resolve to "" and the code stays unmapped.
func glyphNameToText(name string) string {
	if r, ok := glyphNames[name]; ok {
		return string(r)
	}
	// uniXXXX and uXXXX..XXXXXX carry the code point in the name itself
	if len(name) == 7 && name[:3] == "uni" {
		if v, err := strconv.ParseUint(name[3:], 16, 32); err == nil {
			return string(rune(v))
		}
	}
	if len(name) >= 5 && len(name) <= 7 && name[0] == 'u' {
		if v, err := strconv.ParseUint(name[1:], 16, 32); err == nil && v <= 0x10FFFF {
			return string(rune(v))
		}
	}
	return ""
}

// glyphNames is the subset of the Adobe Glyph List the statements we parse
// actually exercise: ASCII, Western European accents, and the punctuation
// PDF generators commonly redefine through Differences arrays.
var glyphNames = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"parenleft": '(', "parenright": ')', "asterisk": '*', "plus": '+',
	"comma": ',', "hyphen": '-', "period": '.', "slash": '/',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"colon": ':', "semicolon": ';', "less": '<', "equal": '=',
	"greater": '>', "question": '?', "at": '@',
	"A": 'A', "B": 'B', "C": 'C', "D": 'D', "E": 'E', "F": 'F', "G": 'G',
	"H": 'H', "I": 'I', "J": 'J', "K": 'K', "L": 'L', "M": 'M', "N": 'N',
	"O": 'O', "P": 'P', "Q": 'Q', "R": 'R', "S": 'S', "T": 'T', "U": 'U',
	"V": 'V', "W": 'W', "X": 'X', "Y": 'Y', "Z": 'Z',
	"bracketleft": '[', "backslash": '\\', "bracketright": ']',
	"asciicircum": '^', "underscore": '_', "grave": '`',
	"a": 'a', "b": 'b', "c": 'c', "d": 'd', "e": 'e', "f": 'f', "g": 'g',
	"h": 'h', "i": 'i', "j": 'j', "k": 'k', "l": 'l', "m": 'm', "n": 'n',
	"o": 'o', "p": 'p', "q": 'q', "r": 'r', "s": 's', "t": 't', "u": 'u',
	"v": 'v', "w": 'w', "x": 'x', "y": 'y', "z": 'z',
	"braceleft": '{', "bar": '|', "braceright": '}', "asciitilde": '~',

	"adieresis": 'ä', "odieresis": 'ö', "udieresis": 'ü',
	"Adieresis": 'Ä', "Odieresis": 'Ö', "Udieresis": 'Ü',
	"germandbls": 'ß',
	"agrave":     'à', "aacute": 'á', "acircumflex": 'â',
	"egrave": 'è', "eacute": 'é', "ecircumflex": 'ê', "edieresis": 'ë',
	"igrave": 'ì', "iacute": 'í', "icircumflex": 'î', "idieresis": 'ï',
	"ograve": 'ò', "oacute": 'ó', "ocircumflex": 'ô',
	"ugrave": 'ù', "uacute": 'ú', "ucircumflex": 'û',
	"ccedilla": 'ç', "Ccedilla": 'Ç',
	"Agrave":   'À', "Aacute": 'Á', "Acircumflex": 'Â',
	"Egrave": 'È', "Eacute": 'É', "Ecircumflex": 'Ê', "Edieresis": 'Ë',
	"ntilde": 'ñ', "Ntilde": 'Ñ',
	"oe": 'œ', "OE": 'Œ', "ae": 'æ', "AE": 'Æ',
	"oslash": 'ø', "Oslash": 'Ø', "aring": 'å', "Aring": 'Å',

	"Euro": '€', "sterling": '£', "yen": '¥', "cent": '¢',
	"currency": '¤', "section": '§', "paragraph": '¶',
	"copyright": '©', "registered": '®', "trademark": '™',
	"degree": '°', "plusminus": '±', "multiply": '×', "divide": '÷',
	"onehalf": '½', "onequarter": '¼', "threequarters": '¾',
	"exclamdown": '¡', "questiondown": '¿',
	"guillemotleft": '«', "guillemotright": '»',
	"guilsinglleft": '‹', "guilsinglright": '›',
	"quoteleft": '‘', "quoteright": '’',
	"quotedblleft": '“', "quotedblright": '”',
	"quotesinglbase": '‚', "quotedblbase": '„',
	"endash": '–', "emdash": '—', "bullet": '•', "dagger": '†',
	"daggerdbl": '‡', "ellipsis": '…', "perthousand": '‰',
	"fraction": '⁄', "florin": 'ƒ', "fi": 'ﬁ', "fl": 'ﬂ',
	"dotlessi": 'ı', "circumflex": 'ˆ', "tilde": '˜', "macron": '¯',
	"dieresis": '¨', "acute": '´', "cedilla": '¸', "caron": 'ˇ',
	"breve": '˘', "dotaccent": '˙', "ring": '˚', "ogonek": '˛',
	"hungarumlaut": '˝', "minus": '−', "middot": '·', "periodcentered": '·',
	"nbspace": ' ', "softhyphen": '­',
}
