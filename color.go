package rastermesh

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1]. Colors are straight (not premultiplied);
// mesh colors keep straight alpha and are premultiplied per vertex when drawn.
type RGBA struct {
	R, G, B, A float64
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R*255 + 0.5)),
		G: uint8(clamp255(c.G*255 + 0.5)),
		B: uint8(clamp255(c.B*255 + 0.5)),
		A: uint8(clamp255(c.A*255 + 0.5)),
	}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// Hex parses a CSS hex color: "#RGB", "#RGBA", "#RRGGBB" or "#RRGGBBAA".
// The leading '#' is optional.
func Hex(s string) (RGBA, error) {
	if s != "" && s[0] != '#' {
		s = "#" + s
	}
	alpha := 1.0
	switch len(s) {
	case 4, 7:
		// plain RGB forms, handled by colorful below
	case 5:
		a, err := colorful.Hex("#" + s[4:5] + s[4:5] + "0000")
		if err != nil {
			return RGBA{}, fmt.Errorf("rastermesh: invalid color %q: %w", s, err)
		}
		alpha = a.R
		s = s[:4]
	case 9:
		a, err := colorful.Hex("#" + s[7:9] + "0000")
		if err != nil {
			return RGBA{}, fmt.Errorf("rastermesh: invalid color %q: %w", s, err)
		}
		alpha = a.R
		s = s[:7]
	default:
		return RGBA{}, fmt.Errorf("rastermesh: invalid color %q", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBA{}, fmt.Errorf("rastermesh: invalid color %q: %w", s, err)
	}
	return RGBA{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

// MustHex is like Hex but panics on malformed input.
// Intended for package-level color tables.
func MustHex(s string) RGBA {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Lerp performs linear interpolation between two colors.
func (c RGBA) Lerp(other RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// Float32 returns the components in vertex buffer order.
func (c RGBA) Float32() [4]float32 {
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

func (c RGBA) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Transparent = RGBA{}
)
