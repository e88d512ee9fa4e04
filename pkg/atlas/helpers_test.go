package atlas

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// tileColor is the solid color written into tile (col, row) of test sheets.
func tileColor(col, row int) color.RGBA {
	return color.RGBA{R: uint8(col * 40), G: uint8(row * 40), B: 100, A: 255}
}

// writeSheet writes a cols×rows spritesheet of w×h tiles to dir/name.
func writeSheet(t *testing.T, dir, name string, cols, rows, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, cols*w, rows*h))
	for y := 0; y < rows*h; y++ {
		for x := 0; x < cols*w; x++ {
			img.SetRGBA(x, y, tileColor(x/w, y/h))
		}
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// writeManifest marshals m to dir/tile_config.json and returns the path.
func writeManifest(t *testing.T, dir string, m any) string {
	t.Helper()
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "tile_config.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type obj = map[string]any

func tileInfo(w, h int) []obj {
	return []obj{{"width": w, "height": h, "pixelscale": 1}}
}
