package render

import (
	"image/color"
	"testing"

	"github.com/matzehuels/dontpanic/pkg/atlas"
	"github.com/matzehuels/dontpanic/pkg/glyph"
)

func TestCanvasSize(t *testing.T) {
	c := NewCompositor(testIndex(t), flatStyle(), nil)
	grids := []glyph.Grid{
		make(glyph.Grid, 3),
		make(glyph.Grid, 2),
	}
	for i := range grids[0] {
		grids[0][i] = make([]*glyph.Cell, 4)
	}
	for i := range grids[1] {
		grids[1][i] = make([]*glyph.Cell, 6)
	}

	img := c.Canvas(grids)
	// 6 columns and 5 rows of 28px, one 40px word gap, 48px margins.
	if got := img.Bounds().Dx(); got != 6*28+96 {
		t.Errorf("width = %d, want %d", got, 6*28+96)
	}
	if got := img.Bounds().Dy(); got != 5*28+40+96 {
		t.Errorf("height = %d, want %d", got, 5*28+40+96)
	}
}

func TestCanvasBackground(t *testing.T) {
	grids := []glyph.Grid{{{nil}}}

	transparent := NewCompositor(testIndex(t), flatStyle(), nil).Canvas(grids)
	if got := transparent.RGBAAt(1, 1); got != (color.RGBA{}) {
		t.Errorf("transparent canvas pixel = %v", got)
	}

	style := flatStyle()
	style.Transparent = false
	solid := NewCompositor(testIndex(t), style, nil).Canvas(grids)
	if got := solid.RGBAAt(1, 1); got != (color.RGBA{0x12, 0x12, 0x12, 0xff}) {
		t.Errorf("solid canvas pixel = %v", got)
	}
}

func TestCellLayers(t *testing.T) {
	c := NewCompositor(testIndex(t), flatStyle(), nil)

	tests := []struct {
		name        string
		cell        glyph.Cell
		left, right color.RGBA
		terrain     bool
		item        bool
	}{
		{"item over terrain", glyph.Cell{Item: "mon_zombie", Terrain: "t_grass"}, red, green, true, true},
		{"missing item keeps terrain", glyph.Cell{Item: "mon_ghost", Terrain: "t_grass"}, green, green, true, false},
		{"missing terrain keeps item", glyph.Cell{Item: "mon_zombie", Terrain: "t_nowhere"}, red, white, false, true},
		{"empty foreground is skipped", glyph.Cell{Item: "mon_zombie", Terrain: "t_void"}, red, white, false, true},
		{"nothing resolves", glyph.Cell{Item: "mon_ghost", Terrain: "t_nowhere"}, white, white, false, false},
		{"flip", glyph.Cell{Item: "mon_split", Terrain: "t_grass", FlipH: true}, blue, red, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, stats := c.Cell(&tt.cell)
			if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
				t.Fatalf("size = %v, want 32x32", img.Bounds())
			}
			if got := img.RGBAAt(8, 16); got != tt.left {
				t.Errorf("left pixel = %v, want %v", got, tt.left)
			}
			if got := img.RGBAAt(24, 16); got != tt.right {
				t.Errorf("right pixel = %v, want %v", got, tt.right)
			}
			if stats.Terrain != tt.terrain || stats.Item != tt.item {
				t.Errorf("stats = %+v, want terrain=%v item=%v", stats, tt.terrain, tt.item)
			}
		})
	}
}

func TestCellBorder(t *testing.T) {
	style := flatStyle()
	style.BorderWidth = 2
	style.Padding = 3
	c := NewCompositor(testIndex(t), style, nil)

	img, _ := c.Cell(&glyph.Cell{Item: "mon_split", Terrain: "t_grass"})
	if img.Bounds().Dx() != 38 {
		t.Fatalf("box = %d, want 38", img.Bounds().Dx())
	}
	for _, p := range [][2]int{{0, 0}, {1, 1}, {37, 37}, {36, 20}, {20, 1}} {
		if got := img.RGBAAt(p[0], p[1]); got != ink {
			t.Errorf("border pixel %v = %v, want %v", p, got, ink)
		}
	}
	if got := img.RGBAAt(2, 20); got != white {
		t.Errorf("padding pixel = %v, want %v", got, white)
	}
	if got := img.RGBAAt(3+8, 3+16); got != red {
		t.Errorf("sprite pixel = %v, want %v", got, red)
	}
}

func TestCellRotationExpandsBounds(t *testing.T) {
	c := NewCompositor(testIndex(t), flatStyle(), nil)

	img, _ := c.Cell(&glyph.Cell{Item: "mon_zombie", Terrain: "t_grass", Rotation: 10})
	b := img.Bounds()
	if b.Dx() != 38 || b.Dy() != 38 {
		t.Fatalf("rotated size = %v, want 38x38", b)
	}
	if got := img.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("corner pixel = %v, want transparent", got)
	}
	if got := img.RGBAAt(b.Dx()/2, b.Dy()/2); got.A < 250 {
		t.Errorf("centre pixel = %v, want opaque", got)
	}
}

func TestCellRotationIsClockwise(t *testing.T) {
	style := flatStyle()
	style.BorderWidth = 0
	c := NewCompositor(testIndex(t), style, nil)

	// Left half red, right half blue. A clockwise quarter turn moves the
	// red half to the top.
	img, _ := c.Cell(&glyph.Cell{Item: "mon_split", Terrain: "t_grass", Rotation: 90})
	b := img.Bounds()
	top := img.RGBAAt(b.Dx()/2, b.Dy()/4)
	bottom := img.RGBAAt(b.Dx()/2, 3*b.Dy()/4)
	if top.R < 150 || top.B > 50 {
		t.Errorf("top pixel = %v, want red", top)
	}
	if bottom.B < 150 || bottom.R > 50 {
		t.Errorf("bottom pixel = %v, want blue", bottom)
	}
}

func TestRenderPlacesCells(t *testing.T) {
	c := NewCompositor(testIndex(t), flatStyle(), nil)
	cell := &glyph.Cell{Item: "mon_zombie", Terrain: "t_grass"}
	grids := []glyph.Grid{{{cell, nil, cell}}}

	img, stats := c.Render(grids)
	if img.Bounds().Dx() != 3*28+96 || img.Bounds().Dy() != 28+96 {
		t.Fatalf("canvas = %v", img.Bounds())
	}
	if stats.Cells != 2 || stats.Layers != 4 || stats.Skipped != 0 {
		t.Errorf("stats = %+v", stats)
	}

	// The first box is centred on the cell at x=48: 48 + 14 - 16 = 46.
	if got := img.RGBAAt(46, 46); got != ink {
		t.Errorf("box corner = %v, want border", got)
	}
	if got := img.RGBAAt(45, 46); got.A != 0 {
		t.Errorf("pixel left of box = %v, want transparent", got)
	}
	if got := img.RGBAAt(46+8, 46+16); got != red {
		t.Errorf("item pixel = %v, want red", got)
	}
	if got := img.RGBAAt(90, 62); got.A != 0 {
		t.Errorf("blank cell pixel = %v, want transparent", got)
	}
	if got := img.RGBAAt(102+8, 46+16); got != red {
		t.Errorf("third cell item pixel = %v, want red", got)
	}
}

func TestRenderJitterTruncates(t *testing.T) {
	c := NewCompositor(testIndex(t), flatStyle(), nil)

	img, _ := c.Render([]glyph.Grid{{{&glyph.Cell{Item: "mon_zombie", Terrain: "t_grass", OffsetX: 3.7, OffsetY: -1.5}}}})
	// x: int(46 + 3.7) = 49, y: int(46 - 1.5) = 44.
	if got := img.RGBAAt(49, 44); got != ink {
		t.Errorf("jittered corner = %v, want border", got)
	}
	if got := img.RGBAAt(48, 44); got.A != 0 {
		t.Errorf("pixel left of jittered box = %v, want transparent", got)
	}
}

func TestRenderWordGap(t *testing.T) {
	c := NewCompositor(testIndex(t), flatStyle(), nil)
	cell := &glyph.Cell{Item: "mon_zombie", Terrain: "t_grass"}

	img, _ := c.Render([]glyph.Grid{{{cell}}, {{cell}}})
	// Second word starts at 48 + 28 + 40 = 116, box top at 116 + 14 - 16.
	if got := img.RGBAAt(46, 114); got != ink {
		t.Errorf("second word corner = %v, want border", got)
	}
	if got := img.RGBAAt(46, 113); got.A != 0 {
		t.Errorf("pixel above second word = %v, want transparent", got)
	}
}

func TestRenderMissingIDOmitsOneLayer(t *testing.T) {
	c := NewCompositor(testIndex(t), flatStyle(), nil)

	img, stats := c.Render([]glyph.Grid{{{&glyph.Cell{Item: "mon_ghost", Terrain: "t_grass"}}}})
	if stats.Cells != 1 || stats.Layers != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Unresolved["mon_ghost"] != 1 {
		t.Errorf("Unresolved = %v", stats.Unresolved)
	}
	if got := img.RGBAAt(46+8, 46+16); got != green {
		t.Errorf("cell pixel = %v, want terrain green", got)
	}
}

func TestStatsAdd(t *testing.T) {
	var s Stats
	s.Add(Stats{Cells: 2, Layers: 3, Skipped: 1, Unresolved: map[string]int{"a": 1}})
	s.Add(Stats{Cells: 1, Layers: 2, Unresolved: map[string]int{"a": 2, "b": 1}})
	if s.Cells != 3 || s.Layers != 5 || s.Skipped != 1 {
		t.Errorf("s = %+v", s)
	}
	if s.Unresolved["a"] != 3 || s.Unresolved["b"] != 1 {
		t.Errorf("Unresolved = %v", s.Unresolved)
	}
}

func TestCellCountsPlaceholders(t *testing.T) {
	manifest := []byte(`{
		"tile_info": [{"width": 32, "height": 32}],
		"tiles-new": [{"file": "gone.png", "sprite_width": 32, "sprite_height": 32, "tiles": [
			{"id": "t_gone", "fg": 0}
		]}]
	}`)
	idx, err := atlas.Parse(manifest, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewCompositor(idx, flatStyle(), nil)

	tests := []struct {
		name string
		c    *Compositor
		cell glyph.Cell
		want int
	}{
		{"sheet on disk", NewCompositor(testIndex(t), flatStyle(), nil), glyph.Cell{Terrain: "t_grass"}, 0},
		{"sheet missing", c, glyph.Cell{Terrain: "t_gone"}, 1},
		{"unresolved id", c, glyph.Cell{Terrain: "t_nowhere"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stats := tt.c.Cell(&tt.cell)
			if stats.Placeholders != tt.want {
				t.Errorf("Placeholders = %d, want %d", stats.Placeholders, tt.want)
			}
		})
	}

	_, stats := c.Render([]glyph.Grid{{{&glyph.Cell{Terrain: "t_gone"}, &glyph.Cell{Terrain: "t_gone"}}}})
	if stats.Placeholders != 2 {
		t.Errorf("Render Placeholders = %d, want 2", stats.Placeholders)
	}
}
