package piste

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw submission time.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorBlack = Color{0, 0, 0, 1}
	ColorWhite = Color{1, 1, 1, 1}
)

// RGB returns an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// ParseHexColor parses "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	switch len(h) {
	case 3, 4:
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("piste: bad color %q", s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("piste: bad color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// MustHexColor is like ParseHexColor but panics on malformed input.
// Intended for package-level color literals.
func MustHexColor(s string) Color {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(c.R*c.A*255 + 0.5),
		G: uint8(c.G*c.A*255 + 0.5),
		B: uint8(c.B*c.A*255 + 0.5),
		A: uint8(c.A*255 + 0.5),
	}
}

// Point is a position on the ground plane.
type Point struct {
	X, Y float64
}

// Box is an axis-aligned bounding box given by its edges. The coordinate
// system has its origin at the top-left, with Y increasing downward.
// Corners may be stored in either orientation; use Normalize to get
// Left <= Right and Top <= Bottom.
type Box struct {
	Left, Top, Right, Bottom float64
}

// Width returns the signed horizontal extent.
func (b Box) Width() float64 { return b.Right - b.Left }

// Height returns the signed vertical extent.
func (b Box) Height() float64 { return b.Bottom - b.Top }

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	return Point{(b.Left + b.Right) / 2, (b.Top + b.Bottom) / 2}
}

// Normalize returns the box with its corners ordered.
func (b Box) Normalize() Box {
	return Box{
		Left:   min(b.Left, b.Right),
		Top:    min(b.Top, b.Bottom),
		Right:  max(b.Left, b.Right),
		Bottom: max(b.Top, b.Bottom),
	}
}

// Offset returns the box translated by (dx, dy).
func (b Box) Offset(dx, dy float64) Box {
	return Box{b.Left + dx, b.Top + dy, b.Right + dx, b.Bottom + dy}
}

// WhitePixel is a 1x1 white image used for solid fills.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}
