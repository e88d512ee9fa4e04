// Package atlas resolves symbolic sprite ids to pixel rectangles in a
// tile atlas described by a Cataclysm-style tile_config.json manifest.
//
// # Manifest
//
// A manifest holds a tile_info record (global sprite width and height)
// and an ordered list of chunks under "tiles-new". Each chunk names a
// spritesheet file, optionally declares its grid (nx, ny) and sprite size
// overrides, and binds symbolic ids to foreground/background tile indices.
//
// # Global Index Space
//
// Chunks are numbered implicitly in manifest order. Chunk i owns the
// half-open range [Start, Start+Columns*Rows) where Start is the sum of
// the tile counts of all preceding chunks. A tile index therefore maps to
// exactly one chunk, and to a row-major column/row inside its sheet:
//
//	col = (index - Start) % Columns
//	row = (index - Start) / Columns
//
// # Usage
//
//	idx, err := atlas.Load("tileset/tile_config.json", "tileset")
//	if err != nil {
//	    return err // MANIFEST_ERROR
//	}
//	canvas := image.NewRGBA(image.Rect(0, 0, 64, 64))
//	tile, ok := idx.FindTile("mon_zombie")
//	if ok && tile.FG != nil {
//	    sprite := idx.Images().Extract(*tile.FG)
//	    draw.Draw(canvas, sprite.Bounds().Add(image.Pt(16, 16)), sprite, image.Point{}, draw.Over)
//	}
//
// FindTile reports false for unknown ids and for entries whose foreground
// and background both miss every sheet.
//
// An Index and its ImageCache are populated once and are read-only
// afterwards; [Index.Warm] forces both to be fully built so that the index
// can be shared by goroutines rendering variations in parallel.
package atlas
