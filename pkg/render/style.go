package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Style holds the geometry and colors of a rendered phrase.
type Style struct {
	TileSize    int // sprite size inside the box
	CellPitch   int // distance between cell centres
	Margin      int
	WordGap     int
	Padding     int // fill around the sprite
	BorderWidth int

	Transparent      bool
	Background       color.Color
	SpriteBackground color.Color
	Border           color.Color
}

// DefaultStyle returns the classic look: 32px sprites on a 28px pitch
// with white boxes and a thin dark border on a transparent canvas.
func DefaultStyle() Style {
	return Style{
		TileSize:         32,
		CellPitch:        28,
		Margin:           48,
		WordGap:          40,
		Padding:          0,
		BorderWidth:      1,
		Transparent:      true,
		Background:       color.RGBA{0x12, 0x12, 0x12, 0xff},
		SpriteBackground: color.RGBA{0xff, 0xff, 0xff, 0xff},
		Border:           color.RGBA{0x0a, 0x0a, 0x0a, 0xff},
	}
}

// BoxSize is the edge length of an untransformed sprite box.
func (s Style) BoxSize() int { return s.TileSize + 2*s.Padding }

// ParseColor parses "#RGB", "#RRGGBB", "#RRGGBBAA", "transparent", or an
// SVG color name such as "darkslategray". Hex alpha is straight alpha; the
// result is premultiplied like every color.RGBA.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color")
	}
	if !strings.HasPrefix(s, "#") {
		name := strings.ToLower(s)
		if name == "transparent" {
			return color.RGBA{}, nil
		}
		if c, ok := colornames.Map[name]; ok {
			return c, nil
		}
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}

	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	c := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(c).(color.RGBA), nil
}

// HexColor formats c as "#RRGGBBAA" with straight (non-premultiplied) alpha.
func HexColor(c color.Color) string {
	r := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02X%02X%02X%02X", r.R, r.G, r.B, r.A)
}
