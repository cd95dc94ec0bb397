package plot

import (
	"fmt"
	"math"
)

// cameraDist is the distance from the cube centre to the eye, in cube
// half-widths.
const cameraDist = 6.0

// axisRange is a tick-aligned data interval.
type axisRange struct {
	lo, hi, step float64
}

func (a axisRange) center() float64 { return (a.lo + a.hi) / 2 }
func (a axisRange) half() float64   { return (a.hi - a.lo) / 2 }

// normalize maps v from [lo, hi] to [-1, 1].
func (a axisRange) normalize(v float64) float64 {
	h := a.half()
	if h == 0 {
		return 0
	}
	return (v - a.center()) / h
}

// ticks returns the tick values inside the range.
func (a axisRange) ticks() []float64 {
	if a.step <= 0 || a.hi <= a.lo {
		return nil
	}
	var out []float64
	n := int(math.Round((a.hi - a.lo) / a.step))
	for i := 0; i <= n && i <= 20; i++ {
		out = append(out, a.lo+float64(i)*a.step)
	}
	return out
}

// niceRange widens [lo, hi] to tick-aligned bounds with about four steps.
func niceRange(lo, hi float64) axisRange {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		lo, hi = 0, 1
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi-lo < 1e-12 {
		lo -= 1
		hi += 1
	}
	step := niceStep((hi - lo) / 4)
	return axisRange{
		lo:   math.Floor(lo/step+1e-9) * step,
		hi:   math.Ceil(hi/step-1e-9) * step,
		step: step,
	}
}

// dataRanges returns the X, Y and Z ranges of every finite point in series,
// always including the origin.
func dataRanges(series []Series) [3]axisRange {
	var lo, hi [3]float64
	for _, s := range series {
		for _, p := range s.Points {
			for i, v := range [3]float64{p.X, p.Y, p.Z} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					continue
				}
				if v < lo[i] {
					lo[i] = v
				}
				if v > hi[i] {
					hi[i] = v
				}
			}
		}
	}
	return [3]axisRange{
		niceRange(lo[0], hi[0]),
		niceRange(lo[1], hi[1]),
		niceRange(lo[2], hi[2]),
	}
}

// projector maps data points into plot-local pixel coordinates.
type projector struct {
	ranges [3]axisRange
	view   View
	w, h   int16
}

// project maps a data point. depth grows away from the viewer.
func (p projector) project(v Vec3) (px, py, depth float64, ok bool) {
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) {
		return 0, 0, 0, false
	}
	return p.projectUnit(
		p.ranges[0].normalize(v.X),
		p.ranges[1].normalize(v.Y),
		p.ranges[2].normalize(v.Z),
	)
}

// projectUnit maps a point of the [-1, 1]³ cube.
func (p projector) projectUnit(x, y, z float64) (px, py, depth float64, ok bool) {
	if p.w <= 0 || p.h <= 0 {
		return 0, 0, 0, false
	}

	zoom := p.view.Zoom
	if zoom <= 0 || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		zoom = 1
	}

	cYaw := math.Cos(p.view.Yaw)
	sYaw := math.Sin(p.view.Yaw)
	x1 := x*cYaw - y*sYaw
	y1 := x*sYaw + y*cYaw

	cPitch := math.Cos(p.view.Pitch)
	sPitch := math.Sin(p.view.Pitch)
	up := z*cPitch + y1*sPitch
	toward := z*sPitch - y1*cPitch

	denom := cameraDist - toward
	if denom <= 0.2 {
		return 0, 0, 0, false
	}

	persp := zoom * cameraDist / denom
	size := 0.27 * math.Min(float64(p.w-1), float64(p.h-1))
	if size <= 1 {
		return 0, 0, 0, false
	}

	px = float64(p.w-1)/2 + x1*persp*size
	py = float64(p.h-1)/2 - up*persp*size
	return px, py, denom, true
}

// depthToByte quantizes a projector depth for the z-buffer. 0xFF is "empty".
func depthToByte(depth float64) uint8 {
	if math.IsNaN(depth) || math.IsInf(depth, 0) {
		return 0xFE
	}
	v := int((depth - (cameraDist - 2)) * 63)
	if v < 0 {
		v = 0
	}
	if v > 0xFE {
		v = 0xFE
	}
	return uint8(v)
}

// clipLineToRectWithT clips the segment (x0, y0)-(x1, y1) to the rectangle
// with Liang-Barsky. u1 and u2 are the clipped end points' positions along
// the unclipped segment, 0 at (x0, y0) and 1 at (x1, y1); drawSegment uses
// them to interpolate the end depths of the visible part.
func clipLineToRectWithT(x0, y0, x1, y1, xmin, ymin, xmax, ymax float64) (cx0, cy0, cx1, cy1, u1, u2 float64, ok bool) {
	dx := x1 - x0
	dy := y1 - y0
	u1 = 0.0
	u2 = 1.0

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - xmin, xmax - x0, y0 - ymin, ymax - y0}
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, 0, 0, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > u2 {
				return 0, 0, 0, 0, 0, 0, false
			}
			if t > u1 {
				u1 = t
			}
		} else {
			if t < u1 {
				return 0, 0, 0, 0, 0, 0, false
			}
			if t < u2 {
				u2 = t
			}
		}
	}

	cx0 = clampF(x0+u1*dx, xmin, xmax)
	cy0 = clampF(y0+u1*dy, ymin, ymax)
	cx1 = clampF(x0+u2*dx, xmin, xmax)
	cy1 = clampF(y0+u2*dy, ymin, ymax)
	return cx0, cy0, cx1, cy1, u1, u2, true
}

func niceStep(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 1
	}
	pow := math.Pow(10, math.Floor(math.Log10(raw)))
	if pow == 0 || math.IsNaN(pow) || math.IsInf(pow, 0) {
		return 1
	}
	frac := raw / pow
	switch {
	case frac <= 1:
		return 1 * pow
	case frac <= 2:
		return 2 * pow
	case frac <= 5:
		return 5 * pow
	default:
		return 10 * pow
	}
}

func fmtAxis(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if math.Abs(v) < 1e-12 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 1000 || av < 0.01:
		return fmt.Sprintf("%.2g", v)
	case av >= 10 || av == math.Trunc(av):
		return fmt.Sprintf("%.0f", v)
	case av >= 1:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
