package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dontpanic/pkg/cache"
	apperr "github.com/matzehuels/dontpanic/pkg/errors"
	"github.com/matzehuels/dontpanic/pkg/glyph"
)

// writeTileset creates root/tileset/tile_config.json with one 2×1 sheet
// of 16px tiles: tile 0 is "t_grass", tile 1 is "mon_zombie".
func writeTileset(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "tileset")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	sheet := image.NewRGBA(image.Rect(0, 0, 32, 16))
	for y := range 16 {
		for x := range 32 {
			c := color.RGBA{0, 160, 0, 255}
			if x >= 16 {
				c = color.RGBA{160, 0, 0, 255}
			}
			sheet.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, sheet); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sheet.png"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	manifest := map[string]any{
		"tile_info": []any{map[string]any{"width": 16, "height": 16}},
		"tiles-new": []any{map[string]any{
			"file": "sheet.png",
			"tiles": []any{
				map[string]any{"id": "t_grass", "fg": 0},
				map[string]any{"id": []string{"mon_zombie", "mon_zombie_fat"}, "fg": 1},
			},
		}},
	}
	data, err := json.Marshal(manifest)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tile_config.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func testOptions(t *testing.T) Options {
	t.Helper()
	opts := DefaultOptions()
	opts.Root = writeTileset(t)
	opts.OutputDir = t.TempDir()
	opts.BaseName = "test"
	opts.Words = []string{"DO", "IT"}
	opts.Variations = 3
	opts.Items = []glyph.WeightedID{{ID: "mon_zombie", Weight: 3}, {ID: "mon_ghost", Weight: 1}, {ID: "mon_zombie_fat", Weight: 0}}
	opts.Terrains = []string{"t_grass"}
	return opts
}

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestExecuteWritesArtifacts(t *testing.T) {
	opts := testOptions(t)
	result, err := quietRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if result.RunID == "" {
		t.Error("RunID is empty")
	}
	if result.Legend != filepath.Join(opts.OutputDir, "test_index.png") {
		t.Errorf("Legend = %q", result.Legend)
	}
	want := []string{
		filepath.Join(opts.OutputDir, "test_1.png"),
		filepath.Join(opts.OutputDir, "test_2.png"),
		filepath.Join(opts.OutputDir, "test_3.png"),
	}
	if len(result.Files) != len(want) {
		t.Fatalf("Files = %v", result.Files)
	}
	for i, path := range append(want, result.Legend) {
		if i < len(want) && result.Files[i] != path {
			t.Errorf("Files[%d] = %q, want %q", i, result.Files[i], path)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		_, err = png.Decode(f)
		f.Close()
		if err != nil {
			t.Errorf("%s is not a PNG: %v", path, err)
		}
	}

	// D, O, I and T have 18, 16, 15 and 11 ink cells.
	perRun := 18 + 16 + 15 + 11
	if result.Stats.Cells != 3*perRun {
		t.Errorf("Stats.Cells = %d, want %d", result.Stats.Cells, 3*perRun)
	}
	if result.Stats.Unresolved["mon_ghost"] == 0 {
		t.Error("mon_ghost should be reported unresolved")
	}
}

func TestExecuteNoLegend(t *testing.T) {
	opts := testOptions(t)
	opts.Legend = false
	result, err := quietRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.Legend != "" {
		t.Errorf("Legend = %q, want empty", result.Legend)
	}
	if _, err := os.Stat(filepath.Join(opts.OutputDir, "test_index.png")); !os.IsNotExist(err) {
		t.Error("legend written although disabled")
	}
}

func TestExecuteDeterministic(t *testing.T) {
	opts := testOptions(t)
	first, err := quietRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	a := readFiles(t, first.Files)

	opts.OutputDir = t.TempDir()
	opts.Workers = 3
	second, err := quietRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	b := readFiles(t, second.Files)

	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			t.Errorf("variation %d differs between sequential and parallel runs", i+1)
		}
	}
	if bytes.Equal(a[0], a[1]) {
		t.Error("variations 1 and 2 are identical")
	}
}

func TestExecuteUsesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := quietRunner(fc)
	opts := testOptions(t)

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHits != 0 {
		t.Errorf("first run CacheHits = %d, want 0", first.CacheHits)
	}
	want := readFiles(t, first.Files)

	opts.OutputDir = t.TempDir()
	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.CacheHits != opts.Variations {
		t.Errorf("second run CacheHits = %d, want %d", second.CacheHits, opts.Variations)
	}
	got := readFiles(t, second.Files)
	for i := range want {
		if !bytes.Equal(want[i], got[i]) {
			t.Errorf("cached variation %d differs", i+1)
		}
	}

	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHits != 0 {
		t.Errorf("refresh run CacheHits = %d, want 0", third.CacheHits)
	}
}

func TestExecuteManifestErrors(t *testing.T) {
	t.Run("no manifest", func(t *testing.T) {
		opts := testOptions(t)
		opts.Root = t.TempDir()
		_, err := quietRunner(nil).Execute(context.Background(), opts)
		if !apperr.Is(err, apperr.ErrCodeConfiguration) {
			t.Errorf("error = %v, want CONFIGURATION_ERROR", err)
		}
	})

	t.Run("malformed manifest", func(t *testing.T) {
		opts := testOptions(t)
		path := filepath.Join(opts.Root, "tileset", "tile_config.json")
		if err := os.WriteFile(path, []byte(`{"tiles-new": []}`), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := quietRunner(nil).Execute(context.Background(), opts)
		if !apperr.Is(err, apperr.ErrCodeManifest) {
			t.Errorf("error = %v, want MANIFEST_ERROR", err)
		}
		entries, _ := os.ReadDir(opts.OutputDir)
		if len(entries) != 0 {
			t.Errorf("output written after fatal error: %v", entries)
		}
	})
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := testOptions(t)
	opts.Legend = false
	if _, err := quietRunner(nil).Execute(ctx, opts); err == nil {
		t.Error("Execute with cancelled context should fail")
	}
}

func TestRenderVariationMatchesExecute(t *testing.T) {
	opts := testOptions(t)
	runner := quietRunner(nil)
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	idx, err := runner.LoadIndex(context.Background(), opts.Root)
	if err != nil {
		t.Fatal(err)
	}
	v, err := runner.RenderVariation(context.Background(), idx, opts, 2)
	if err != nil {
		t.Fatal(err)
	}
	if v.Seed != 84 {
		t.Errorf("Seed = %d, want 84", v.Seed)
	}
	if !bytes.Equal(v.PNG, readFiles(t, result.Files[1:2])[0]) {
		t.Error("RenderVariation(2) differs from the file Execute wrote")
	}
}

func readFiles(t *testing.T, paths []string) [][]byte {
	t.Helper()
	out := make([][]byte, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		out[i] = data
	}
	return out
}

func TestExecuteSkipsCachingPlaceholderRenders(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := quietRunner(fc)
	opts := testOptions(t)
	sheet := filepath.Join(opts.Root, "tileset", "sheet.png")
	if err := os.Rename(sheet, sheet+".bak"); err != nil {
		t.Fatal(err)
	}

	degraded, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if degraded.Stats.Placeholders == 0 {
		t.Fatal("render without the sheet reported no placeholders")
	}
	missing := readFiles(t, append(degraded.Files, degraded.Legend))

	if err := os.Rename(sheet+".bak", sheet); err != nil {
		t.Fatal(err)
	}
	opts.OutputDir = t.TempDir()
	restored, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if restored.CacheHits != 0 {
		t.Errorf("CacheHits after restoring the sheet = %d, want 0", restored.CacheHits)
	}
	if restored.Stats.Placeholders != 0 {
		t.Errorf("Placeholders = %d, want 0", restored.Stats.Placeholders)
	}

	opts.OutputDir = t.TempDir()
	fresh, err := quietRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	got := readFiles(t, append(restored.Files, restored.Legend))
	want := readFiles(t, append(fresh.Files, fresh.Legend))
	for i := range want {
		if !bytes.Equal(got[i], want[i]) {
			t.Errorf("artifact %d differs from an uncached render", i)
		}
		if bytes.Equal(got[i], missing[i]) {
			t.Errorf("artifact %d still shows the placeholder", i)
		}
	}

	opts.OutputDir = t.TempDir()
	again, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if again.CacheHits != opts.Variations {
		t.Errorf("CacheHits = %d, want %d once the sheet is back", again.CacheHits, opts.Variations)
	}
}

func TestExecuteCacheFollowsSheets(t *testing.T) {
	recolor := func(t *testing.T, root string) {
		t.Helper()
		sheet := image.NewRGBA(image.Rect(0, 0, 32, 16))
		for y := range 16 {
			for x := range 32 {
				sheet.SetRGBA(x, y, color.RGBA{0, 0, 160, 255})
			}
		}
		f, err := os.Create(filepath.Join(root, "tileset", "sheet.png"))
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		if err := png.Encode(f, sheet); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name    string
		change  func(t *testing.T, opts *Options)
		samePNG bool
	}{
		{
			name: "sheet redrawn",
			change: func(t *testing.T, opts *Options) {
				recolor(t, opts.Root)
				later := time.Now().Add(time.Hour)
				if err := os.Chtimes(filepath.Join(opts.Root, "tileset", "sheet.png"), later, later); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "sheet touched",
			change: func(t *testing.T, opts *Options) {
				later := time.Now().Add(time.Hour)
				if err := os.Chtimes(filepath.Join(opts.Root, "tileset", "sheet.png"), later, later); err != nil {
					t.Fatal(err)
				}
			},
			samePNG: true,
		},
		{
			name: "same manifest in another tileset",
			change: func(t *testing.T, opts *Options) {
				opts.Root = writeTileset(t)
				recolor(t, opts.Root)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc, err := cache.NewFileCache(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			runner := quietRunner(fc)
			opts := testOptions(t)

			first, err := runner.Execute(context.Background(), opts)
			if err != nil {
				t.Fatal(err)
			}
			before := readFiles(t, first.Files)

			tt.change(t, &opts)
			opts.OutputDir = t.TempDir()
			second, err := runner.Execute(context.Background(), opts)
			if err != nil {
				t.Fatal(err)
			}
			if second.CacheHits != 0 {
				t.Errorf("CacheHits = %d, want 0", second.CacheHits)
			}
			after := readFiles(t, second.Files)
			for i := range before {
				if bytes.Equal(before[i], after[i]) != tt.samePNG {
					t.Errorf("variation %d: identical = %v, want %v", i+1, !tt.samePNG, tt.samePNG)
				}
			}
		})
	}
}
