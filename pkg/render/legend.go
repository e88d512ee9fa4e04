package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/dontpanic/pkg/atlas"
)

// Legend geometry.
const (
	LegendRowHeight = 40
	LegendColWidth  = 350
	LegendColumns   = 2
	LegendWidth     = LegendColumns*LegendColWidth + 40
	LegendFontSize  = 16
)

var (
	legendBackground = color.RGBA{18, 18, 18, 255}
	legendHeader     = color.RGBA{200, 200, 200, 255}
	legendRule       = color.RGBA{60, 60, 60, 255}
	legendLabel      = color.RGBA{170, 170, 170, 255}
)

// Legend draws an index of items and terrains: two sections, each a
// header with a rule under it and two columns of sprite + id rows.
// Sprites are drawn at their native size; ids that do not resolve get a
// label only.
func Legend(idx *atlas.Index, items, terrains []string) (*image.RGBA, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse legend font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    LegendFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create legend face: %w", err)
	}
	defer face.Close()

	itemRows := legendRows(len(items))
	terrainRows := legendRows(len(terrains))
	h := (itemRows+terrainRows)*LegendRowHeight + 140

	img := image.NewRGBA(image.Rect(0, 0, LegendWidth, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(legendBackground), image.Point{}, draw.Src)

	l := &legend{idx: idx, img: img, face: face}
	y := 15
	y = l.section("Monster / Item Index", items, y)
	y += itemRows*LegendRowHeight + 30
	l.section("Terrain Index", terrains, y)
	return img, nil
}

type legend struct {
	idx  *atlas.Index
	img  *image.RGBA
	face font.Face
}

// section draws a header at top and the entries below it. It returns the
// y coordinate of the first entry row.
func (l *legend) section(title string, ids []string, top int) int {
	l.text(20, top, title, legendHeader)
	rule := image.Rect(20, top+25, LegendWidth-20+1, top+26)
	draw.Draw(l.img, rule, image.NewUniform(legendRule), image.Point{}, draw.Src)
	top += 40

	for i, id := range ids {
		x := 20 + (i%LegendColumns)*LegendColWidth
		y := top + (i/LegendColumns)*LegendRowHeight

		if tile, ok := l.idx.FindTile(id); ok && tile.FG != nil {
			icon := l.idx.Images().Extract(*tile.FG)
			at := image.Pt(x, y+(LegendRowHeight-32)/2)
			draw.Draw(l.img, icon.Bounds().Add(at), icon, image.Point{}, draw.Over)
		}
		l.text(x+40, y+(LegendRowHeight-20)/2, id, legendLabel)
	}
	return top
}

// text draws s with its top edge at y.
func (l *legend) text(x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  l.img,
		Src:  image.NewUniform(c),
		Face: l.face,
		Dot:  fixed.P(x, y+l.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

func legendRows(n int) int {
	return (n + LegendColumns - 1) / LegendColumns
}
