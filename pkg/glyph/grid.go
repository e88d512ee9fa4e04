package glyph

import "math/rand/v2"

// Cell describes one ink pixel of a rendered glyph. Cells are never
// mutated once built.
type Cell struct {
	Item     string  `json:"item"`
	Terrain  string  `json:"terrain"`
	Rotation float64 `json:"rotation"`
	FlipH    bool    `json:"flip_h"`
	OffsetX  float64 `json:"offset_x"`
	OffsetY  float64 `json:"offset_y"`
}

// Grid is one word laid out as rows of optional cells. A nil cell is blank.
type Grid [][]*Cell

// Width returns the widest row length.
func (g Grid) Width() int {
	w := 0
	for _, row := range g {
		w = max(w, len(row))
	}
	return w
}

// Height returns the number of rows.
func (g Grid) Height() int { return len(g) }

// Cells counts the non-blank cells.
func (g Grid) Cells() int {
	n := 0
	for _, row := range g {
		for _, c := range row {
			if c != nil {
				n++
			}
		}
	}
	return n
}

// Builder lays out text as a Grid. The zero value is not usable: Items
// and Terrains must both be set.
type Builder struct {
	Items    *Catalog
	Terrains []string

	// Spacing is the number of blank columns between characters.
	Spacing int
	// ThickH and ThickV are passed to Expand for every glyph.
	ThickH, ThickV int

	RotationMax float64
	JitterX     float64
	JitterY     float64
}

// Build lays out text, drawing every random attribute from rng. For a
// fixed rng state the result is fully determined by the text and the
// builder settings.
//
// Per ink pixel the draws happen in a fixed order: item, terrain,
// rotation, flip, horizontal jitter, vertical jitter. Pixels are visited
// character by character, row by row, column by column.
func (b *Builder) Build(text string, rng *rand.Rand) Grid {
	chars := []rune(text)
	patterns := make([][]string, len(chars))
	rows := 0
	for i, r := range chars {
		patterns[i] = Expand(b.pattern(r), b.ThickH, b.ThickV)
		rows = max(rows, len(patterns[i]))
	}

	grid := make(Grid, rows)
	for i, pattern := range patterns {
		width := patternWidth(pattern)
		for y := range rows {
			var line string
			if y < len(pattern) {
				line = pattern[y]
			}
			ink := []rune(line)
			for x := range width {
				var cell *Cell
				if x < len(ink) && ink[x] != ' ' {
					cell = b.cell(rng)
				}
				grid[y] = append(grid[y], cell)
			}
			if i < len(patterns)-1 {
				for range b.Spacing {
					grid[y] = append(grid[y], nil)
				}
			}
		}
	}
	return grid
}

// BuildWords builds one grid per word with a single shared generator,
// so the draws for later words depend on the earlier ones.
func (b *Builder) BuildWords(words []string, rng *rand.Rand) []Grid {
	grids := make([]Grid, len(words))
	for i, w := range words {
		grids[i] = b.Build(w, rng)
	}
	return grids
}

func (b *Builder) cell(rng *rand.Rand) *Cell {
	c := &Cell{Item: b.Items.Pick(rng)}
	c.Terrain = b.Terrains[rng.IntN(len(b.Terrains))]
	c.Rotation = rng.Float64() * b.RotationMax
	c.FlipH = rng.IntN(2) == 0
	c.OffsetX = (rng.Float64() - 0.5) * b.JitterX
	c.OffsetY = (rng.Float64() - 0.5) * b.JitterY
	return c
}

func (b *Builder) pattern(r rune) []string {
	if p, ok := Font[r]; ok {
		return p
	}
	return Font[' ']
}

func patternWidth(pattern []string) int {
	w := 0
	for _, row := range pattern {
		w = max(w, len([]rune(row)))
	}
	return w
}
