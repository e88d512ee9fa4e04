// Package glyph turns a phrase into grids of cells using a 7×5 bitmap
// font, with every ink pixel assigned a sprite, a terrain, and a random
// transform drawn from a caller-supplied generator.
package glyph

// Ink marks a lit pixel in a glyph pattern. Any character other than a
// space counts as ink.
const Ink = 'X'

// GlyphRows and GlyphCols are the size of every pattern in Font.
const (
	GlyphRows = 7
	GlyphCols = 5
)

// Font is the bitmap glyph table. Characters missing from the table
// render as the space glyph.
var Font = map[rune][]string{
	'A':  {" XXX ", "X   X", "X   X", "XXXXX", "X   X", "X   X", "X   X"},
	'B':  {"XXXX ", "X   X", "X   X", "XXXX ", "X   X", "X   X", "XXXX "},
	'C':  {" XXX ", "X   X", "X    ", "X    ", "X    ", "X   X", " XXX "},
	'D':  {"XXXX ", "X   X", "X   X", "X   X", "X   X", "X   X", "XXXX "},
	'E':  {"XXXXX", "X    ", "X    ", "XXXX ", "X    ", "X    ", "XXXXX"},
	'F':  {"XXXXX", "X    ", "X    ", "XXXX ", "X    ", "X    ", "X    "},
	'G':  {" XXX ", "X   X", "X    ", "X XXX", "X   X", "X   X", " XXX "},
	'H':  {"X   X", "X   X", "X   X", "XXXXX", "X   X", "X   X", "X   X"},
	'I':  {"XXXXX", "  X  ", "  X  ", "  X  ", "  X  ", "  X  ", "XXXXX"},
	'J':  {"  XXX", "    X", "    X", "    X", "    X", "X   X", " XXX "},
	'K':  {"X   X", "X  X ", "X X  ", "XX   ", "X X  ", "X  X ", "X   X"},
	'L':  {"X    ", "X    ", "X    ", "X    ", "X    ", "X    ", "XXXXX"},
	'M':  {"X   X", "XX XX", "X X X", "X X X", "X   X", "X   X", "X   X"},
	'N':  {"X   X", "XX  X", "XX  X", "X X X", "X  XX", "X  XX", "X   X"},
	'O':  {" XXX ", "X   X", "X   X", "X   X", "X   X", "X   X", " XXX "},
	'P':  {"XXXX ", "X   X", "X   X", "XXXX ", "X    ", "X    ", "X    "},
	'Q':  {" XXX ", "X   X", "X   X", "X   X", "X X X", "X  X ", " XX X"},
	'R':  {"XXXX ", "X   X", "X   X", "XXXX ", "X X  ", "X  X ", "X   X"},
	'S':  {" XXX ", "X   X", "X    ", " XXX ", "    X", "X   X", " XXX "},
	'T':  {"XXXXX", "  X  ", "  X  ", "  X  ", "  X  ", "  X  ", "  X  "},
	'U':  {"X   X", "X   X", "X   X", "X   X", "X   X", "X   X", " XXX "},
	'V':  {"X   X", "X   X", "X   X", "X   X", "X   X", " X X ", "  X  "},
	'W':  {"X   X", "X   X", "X   X", "X X X", "X X X", "XX XX", "X   X"},
	'X':  {"X   X", "X   X", " X X ", "  X  ", " X X ", "X   X", "X   X"},
	'Y':  {"X   X", "X   X", " X X ", "  X  ", "  X  ", "  X  ", "  X  "},
	'Z':  {"XXXXX", "    X", "   X ", "  X  ", " X   ", "X    ", "XXXXX"},
	'\'': {"X    ", " X   ", " X   ", "     ", "     ", "     ", "     "},
	'!':  {"  X  ", "  X  ", "  X  ", "  X  ", "  X  ", "     ", "  X  "},
	'?':  {" XXX ", "X   X", "    X", "   X ", "  X  ", "     ", "  X  "},
	'.':  {"     ", "     ", "     ", "     ", "     ", "     ", "  X  "},
	'-':  {"     ", "     ", "     ", " XXX ", "     ", "     ", "     "},
	' ':  {"     ", "     ", "     ", "     ", "     ", "     ", "     "},
}

// Supported reports whether r has its own glyph.
func Supported(r rune) bool {
	_, ok := Font[r]
	return ok
}

// Expand thickens or thins a glyph pattern.
//
// A positive v repeats every row v extra times. A negative v keeps rows
// 0, s+1, 2(s+1), ... where s = max(1, floor(1/(1+|v|))). A positive h
// repeats every column 1+h times. A negative h leaves columns unchanged.
func Expand(pattern []string, h, v int) []string {
	if h == 0 && v == 0 {
		return pattern
	}

	expanded := make([]string, 0, len(pattern)*(1+max(v, 0)))
	for _, row := range pattern {
		expanded = append(expanded, row)
		for range max(v, 0) {
			expanded = append(expanded, row)
		}
	}

	if v < 0 {
		step := max(1, int(1/float64(1+abs(v))))
		thinned := expanded[:0:0]
		for i := 0; i < len(expanded); i += step + 1 {
			thinned = append(thinned, expanded[i])
		}
		expanded = thinned
	}

	if h > 0 {
		widened := make([]string, len(expanded))
		for i, row := range expanded {
			buf := make([]rune, 0, len(row)*(1+h))
			for _, c := range row {
				for range 1 + h {
					buf = append(buf, c)
				}
			}
			widened[i] = string(buf)
		}
		expanded = widened
	}

	return expanded
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
