package render

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/dontpanic/pkg/atlas"
)

var (
	green = color.RGBA{0, 200, 0, 255}
	red   = color.RGBA{200, 0, 0, 255}
	blue  = color.RGBA{0, 0, 200, 255}
	white = color.RGBA{255, 255, 255, 255}
	ink   = color.RGBA{10, 10, 10, 255}
)

// testIndex builds an index over a 3×1 sheet of 32px tiles:
//
//	0 t_grass     solid green
//	1 mon_zombie  left half red, right half transparent
//	2 mon_split   left half red, right half blue
//
// t_void is listed without a foreground.
func testIndex(t *testing.T) *atlas.Index {
	t.Helper()
	dir := t.TempDir()

	sheet := image.NewRGBA(image.Rect(0, 0, 96, 32))
	for y := range 32 {
		for x := range 96 {
			local := x % 32
			switch x / 32 {
			case 0:
				sheet.SetRGBA(x, y, green)
			case 1:
				if local < 16 {
					sheet.SetRGBA(x, y, red)
				}
			case 2:
				if local < 16 {
					sheet.SetRGBA(x, y, red)
				} else {
					sheet.SetRGBA(x, y, blue)
				}
			}
		}
	}
	f, err := os.Create(filepath.Join(dir, "sheet.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, sheet); err != nil {
		t.Fatal(err)
	}
	f.Close()

	manifest := map[string]any{
		"tile_info": []any{map[string]any{"width": 32, "height": 32}},
		"tiles-new": []any{map[string]any{
			"file": "sheet.png",
			"tiles": []any{
				map[string]any{"id": "t_grass", "fg": 0},
				map[string]any{"id": "mon_zombie", "fg": 1},
				map[string]any{"id": "mon_split", "fg": []int{2}},
				map[string]any{"id": "t_void"},
			},
		}},
	}
	data, err := json.Marshal(manifest)
	if err != nil {
		t.Fatal(err)
	}
	idx, err := atlas.Parse(data, dir)
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

func flatStyle() Style {
	s := DefaultStyle()
	s.Border = ink
	s.SpriteBackground = white
	return s
}
