// Package render composites glyph grids into raster images.
//
// # Cells
//
// Every non-blank [glyph.Cell] becomes a square sprite box built in a
// fixed layer order:
//
//  1. a solid fill of [Style.SpriteBackground]
//  2. the terrain sprite, nearest-neighbour scaled to [Style.TileSize]
//  3. the item sprite, scaled the same way
//  4. a border of [Style.BorderWidth] pixels
//
// A layer whose id does not resolve in the [atlas.Index] is left out; the
// other layers still draw. The finished box is then mirrored (when the
// cell says so) and rotated clockwise with Catmull-Rom resampling into a
// larger box that holds the rotated corners.
//
// # Canvas
//
// [Compositor.Render] stacks one grid per word top to bottom, separated by
// [Style.WordGap], inside a margin. Each box is centred on its cell and
// shifted by the cell's jitter.
//
//	c := render.NewCompositor(idx, render.DefaultStyle(), logger)
//	img, stats := c.Render(grids)
//	data, err := render.EncodePNG(img)
//
// [Legend] draws the companion index image listing every cataloged id
// next to its sprite.
package render
