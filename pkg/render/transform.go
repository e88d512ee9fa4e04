package render

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// flipH mirrors src left to right.
func flipH(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	m := f64.Aff3{
		-1, 0, float64(b.Max.X),
		0, 1, float64(-b.Min.Y),
	}
	draw.NearestNeighbor.Transform(dst, m, src, b, draw.Src, nil)
	return dst
}

// rotate turns src clockwise by deg degrees about its centre. The result
// is large enough to hold every rotated corner.
func rotate(src *image.RGBA, deg float64) *image.RGBA {
	if deg == 0 {
		return src
	}
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)

	minX, maxX, minY, maxY := math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)
	for _, p := range [][2]float64{{-w / 2, -h / 2}, {w / 2, -h / 2}, {-w / 2, h / 2}, {w / 2, h / 2}} {
		x := cos*p[0] - sin*p[1]
		y := sin*p[0] + cos*p[1]
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	dw := int(math.Ceil(maxX) - math.Floor(minX))
	dh := int(math.Ceil(maxY) - math.Floor(minY))
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	// Map source pixels to destination pixels: move the source centre to
	// the origin, rotate, then move to the destination centre.
	cx := float64(b.Min.X) + w/2
	cy := float64(b.Min.Y) + h/2
	tx := float64(dw) / 2
	ty := float64(dh) / 2
	m := f64.Aff3{
		cos, -sin, tx - cos*cx + sin*cy,
		sin, cos, ty - sin*cx - cos*cy,
	}
	draw.CatmullRom.Transform(dst, m, src, b, draw.Over, nil)
	return dst
}
