// Package pkg holds the dontpanic libraries.
//
// # Overview
//
// dontpanic draws a phrase with a 7×5 block font in which every lit cell
// is a sprite from a Cataclysm-style tileset. The pkg directory splits the
// work into small packages:
//
//  1. [atlas] - tile_config.json schema, id resolution, spritesheet cache
//  2. [glyph] - block font, weighted sprite catalog, seeded grid builder
//  3. [render] - per-cell compositing, canvas layout, legend, PNG encoding
//  4. [pipeline] - options, the batch [pipeline.Runner], artifact caching
//  5. [cache] - file, Redis and no-op artifact caches
//
// # Architecture
//
// Data flows in one direction:
//
//	tile_config.json + spritesheets
//	         ↓
//	    [atlas] (symbolic id → sheet, column, row)
//	         ↓
//	    [glyph] (phrase + seed → grid of cells)
//	         ↓
//	    [render] (grid → RGBA canvas → PNG)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/dontpanic/pkg/atlas"
//	    "github.com/matzehuels/dontpanic/pkg/glyph"
//	    "github.com/matzehuels/dontpanic/pkg/render"
//	)
//
//	idx, _ := atlas.Open("./gfx/UNDEAD_PEOPLE")
//	items, _ := glyph.NewCatalog([]glyph.WeightedID{{ID: "mon_zombie", Weight: 1}})
//	b := &glyph.Builder{Items: items, Terrains: []string{"t_grass"}, Spacing: 1}
//
//	grids := b.BuildWords([]string{"DON'T", "PANIC"}, glyph.NewRand(42))
//	img, stats := render.NewCompositor(idx, render.DefaultStyle(), nil).Render(grids)
//	data, _ := render.EncodePNG(img)
//
// Most callers go through [pipeline.Runner] instead, which adds the legend,
// seeding per variation, caching and parallelism.
//
// # Supporting Packages
//
// [errors] - coded errors (MANIFEST_ERROR, ASSET_MISSING, …) and input
// validation.
//
// [observability] - pipeline, cache and HTTP hooks with a logging
// implementation.
//
// [buildinfo] - version information stamped at build time.
//
// [atlas]: https://pkg.go.dev/github.com/matzehuels/dontpanic/pkg/atlas
// [glyph]: https://pkg.go.dev/github.com/matzehuels/dontpanic/pkg/glyph
// [render]: https://pkg.go.dev/github.com/matzehuels/dontpanic/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/dontpanic/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/dontpanic/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/dontpanic/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/dontpanic/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/dontpanic/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/dontpanic/pkg/buildinfo
package pkg
