package style

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette returns n distinct, deterministic colours spread around the
// hue wheel.
func Palette(n int) []drawing.Color {
	if n <= 0 {
		return nil
	}
	out := make([]drawing.Color, n)
	for i := 0; i < n; i++ {
		out[i] = hsv(360*float64(i)/float64(n), 0.65, 0.85)
	}
	return out
}

// Gradient maps a normalized parameter value onto the fixed
// green -> black -> red colouring gradient.
func Gradient(t float64) drawing.Color {
	t = math.Max(0, math.Min(1, t))
	if t <= 0.5 {
		g := uint8(math.Round(200 * (1 - 2*t)))
		return drawing.Color{G: g, A: 255}
	}
	r := uint8(math.Round(200 * (2*t - 1)))
	return drawing.Color{R: r, A: 255}
}

func hsv(h, s, v float64) drawing.Color {
	h = math.Mod(h, 360) / 60
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h, 2)-1))
	var r, g, b float64
	switch int(h) {
	case 0:
		r, g, b = c, x, 0
	case 1:
		r, g, b = x, c, 0
	case 2:
		r, g, b = 0, c, x
	case 3:
		r, g, b = 0, x, c
	case 4:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := v - c
	return drawing.Color{
		R: uint8(math.Round(255 * (r + m))),
		G: uint8(math.Round(255 * (g + m))),
		B: uint8(math.Round(255 * (b + m))),
		A: 255,
	}
}
