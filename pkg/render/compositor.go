package render

import (
	"image"
	"image/color"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/image/draw"

	"github.com/matzehuels/dontpanic/pkg/atlas"
	"github.com/matzehuels/dontpanic/pkg/glyph"
)

// CellStats reports which layers of one sprite box were drawn.
type CellStats struct {
	Terrain bool
	Item    bool
	// Placeholders counts drawn layers cut from a substituted sheet.
	Placeholders int
}

// Stats summarizes one Render call.
type Stats struct {
	Cells      int            `json:"cells"`
	Layers     int            `json:"layers"`
	Skipped    int            `json:"skipped"`
	Unresolved map[string]int `json:"unresolved,omitempty"`
	// Placeholders counts layers drawn from a missing sheet's placeholder.
	// Such a render is not worth caching.
	Placeholders int `json:"placeholders,omitempty"`
}

// Add merges o into s.
func (s *Stats) Add(o Stats) {
	s.Cells += o.Cells
	s.Layers += o.Layers
	s.Skipped += o.Skipped
	s.Placeholders += o.Placeholders
	for id, n := range o.Unresolved {
		if s.Unresolved == nil {
			s.Unresolved = make(map[string]int)
		}
		s.Unresolved[id] += n
	}
}

// Compositor paints glyph grids using sprites from an atlas index.
//
// A Compositor memoizes scaled sprites per id and must not be shared
// between goroutines. The index it reads from may be shared.
type Compositor struct {
	idx     *atlas.Index
	style   Style
	logger  *log.Logger
	sprites map[string]cachedSprite
}

type cachedSprite struct {
	img         *image.RGBA
	placeholder bool
}

// NewCompositor returns a compositor for idx. A nil logger discards output.
func NewCompositor(idx *atlas.Index, style Style, logger *log.Logger) *Compositor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Compositor{
		idx:     idx,
		style:   style,
		logger:  logger,
		sprites: make(map[string]cachedSprite),
	}
}

// Style returns the compositor's style.
func (c *Compositor) Style() Style { return c.style }

// Canvas allocates the output image for grids, filled with the background
// unless the style is transparent.
func (c *Compositor) Canvas(grids []glyph.Grid) *image.RGBA {
	cols, rows := 0, 0
	for _, g := range grids {
		cols = max(cols, g.Width())
		rows += g.Height()
	}
	gaps := max(len(grids)-1, 0)

	w := cols*c.style.CellPitch + 2*c.style.Margin
	h := rows*c.style.CellPitch + gaps*c.style.WordGap + 2*c.style.Margin
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if !c.style.Transparent && c.style.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(c.style.Background), image.Point{}, draw.Src)
	}
	return img
}

// Cell builds the transformed sprite box for one cell. The returned
// image's bounds start at the origin; its size grows with the rotation.
func (c *Compositor) Cell(cell *glyph.Cell) (*image.RGBA, CellStats) {
	var stats CellStats
	size := c.style.BoxSize()
	box := image.NewRGBA(image.Rect(0, 0, size, size))

	if c.style.SpriteBackground != nil {
		draw.Draw(box, box.Bounds(), image.NewUniform(c.style.SpriteBackground), image.Point{}, draw.Src)
	}

	at := image.Pt(c.style.Padding, c.style.Padding)
	for _, layer := range []struct {
		id    string
		drawn *bool
	}{{cell.Terrain, &stats.Terrain}, {cell.Item, &stats.Item}} {
		s := c.sprite(layer.id)
		if s.img == nil {
			continue
		}
		draw.Draw(box, s.img.Bounds().Add(at), s.img, image.Point{}, draw.Over)
		*layer.drawn = true
		if s.placeholder {
			stats.Placeholders++
		}
	}

	if c.style.Border != nil {
		for i := range c.style.BorderWidth {
			strokeRect(box, image.Rect(i, i, size-i, size-i), c.style.Border)
		}
	}

	out := box
	if cell.FlipH {
		out = flipH(out)
	}
	out = rotate(out, cell.Rotation)
	return out, stats
}

// Render paints every cell of grids onto a fresh canvas.
func (c *Compositor) Render(grids []glyph.Grid) (*image.RGBA, Stats) {
	canvas := c.Canvas(grids)
	stats := Stats{}
	pitch := float64(c.style.CellPitch)

	y := c.style.Margin
	for gi, g := range grids {
		for _, row := range g {
			x := c.style.Margin
			for _, cell := range row {
				if cell != nil {
					sq, cs := c.Cell(cell)
					c.count(&stats, cell, cs)

					b := sq.Bounds()
					px := int(float64(x) + pitch/2 - float64(b.Dx())/2 + cell.OffsetX)
					py := int(float64(y) + pitch/2 - float64(b.Dy())/2 + cell.OffsetY)
					draw.Draw(canvas, b.Add(image.Pt(px, py)), sq, b.Min, draw.Over)
				}
				x += c.style.CellPitch
			}
			y += c.style.CellPitch
		}
		if gi < len(grids)-1 {
			y += c.style.WordGap
		}
	}

	for id, n := range stats.Unresolved {
		c.logger.Warn("sprite not found", "id", id, "cells", n)
	}
	return canvas, stats
}

func (c *Compositor) count(s *Stats, cell *glyph.Cell, cs CellStats) {
	s.Cells++
	s.Placeholders += cs.Placeholders
	for _, l := range []struct {
		id    string
		drawn bool
	}{{cell.Terrain, cs.Terrain}, {cell.Item, cs.Item}} {
		if l.drawn {
			s.Layers++
			continue
		}
		s.Skipped++
		if s.Unresolved == nil {
			s.Unresolved = make(map[string]int)
		}
		s.Unresolved[l.id]++
	}
}

// sprite returns the foreground sprite for id scaled to the tile size. Its
// image is nil when id does not resolve to a foreground.
func (c *Compositor) sprite(id string) cachedSprite {
	if s, ok := c.sprites[id]; ok {
		return s
	}
	var s cachedSprite
	if tile, ok := c.idx.FindTile(id); ok && tile.FG != nil {
		images := c.idx.Images()
		s.img = scale(images.Extract(*tile.FG), c.style.TileSize)
		s.placeholder = images.IsPlaceholder(tile.FG.File)
	}
	c.sprites[id] = s
	return s
}

// scale resizes src to size×size with nearest-neighbour sampling.
func scale(src *image.RGBA, size int) *image.RGBA {
	b := src.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// strokeRect draws a one-pixel outline along the inside edge of r.
func strokeRect(dst draw.Image, r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	u := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e, u, image.Point{}, draw.Src)
	}
}
