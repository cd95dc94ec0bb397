package plot

import (
	"image/color"
	"math"
)

// Vec3 is a point in data coordinates. Z is drawn upward.
type Vec3 struct {
	X, Y, Z float64
}

// Kind selects how a Series is drawn.
type Kind uint8

const (
	// Line joins consecutive points.
	Line Kind = iota
	// Scatter marks each point.
	Scatter
)

// Series is one legend entry.
type Series struct {
	Label  string
	Kind   Kind
	Points []Vec3
	Color  color.RGBA
	Dashed bool
}

// Figure is everything Render draws.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	ZLabel string

	Series []Series
	View   View
}

// View is the camera orientation. Yaw turns around the Z axis; Pitch is the
// elevation above the XY plane. Both are radians.
type View struct {
	Yaw   float64
	Pitch float64
	Zoom  float64
}

// Pitch is kept short of straight up or down so the Z axis never collapses.
const (
	MaxPitch = math.Pi/2 - 0.05
	MinPitch = -MaxPitch

	MinZoom = 0.25
	MaxZoom = 4.0
)

// Rotate returns v turned by the given deltas, with pitch clamped.
func (v View) Rotate(dYaw, dPitch float64) View {
	v.Yaw = math.Remainder(v.Yaw+dYaw, 2*math.Pi)
	v.Pitch = clampF(v.Pitch+dPitch, MinPitch, MaxPitch)
	return v
}

// Scale returns v with its zoom multiplied by f, clamped to [MinZoom, MaxZoom].
func (v View) Scale(f float64) View {
	z := v.Zoom
	if z <= 0 || math.IsNaN(z) || math.IsInf(z, 0) {
		z = 1
	}
	v.Zoom = clampF(z*f, MinZoom, MaxZoom)
	return v
}

// Theme is the figure palette.
type Theme struct {
	Background color.RGBA
	Pane       color.RGBA
	Box        color.RGBA
	Grid       color.RGBA
	Text       color.RGBA
	Dim        color.RGBA
	LegendBG   color.RGBA
}

// DefaultTheme is dark text on a light background.
var DefaultTheme = Theme{
	Background: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	Pane:       color.RGBA{R: 0xF2, G: 0xF2, B: 0xF2, A: 0xFF},
	Box:        color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF},
	Grid:       color.RGBA{R: 0xD0, G: 0xD0, B: 0xD0, A: 0xFF},
	Text:       color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xFF},
	Dim:        color.RGBA{R: 0x50, G: 0x50, B: 0x50, A: 0xFF},
	LegendBG:   color.RGBA{R: 0xFA, G: 0xFA, B: 0xFA, A: 0xFF},
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
