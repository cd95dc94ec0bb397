package plot

import (
	"image/color"
	"math"

	"tinygo.org/x/tinyfont"

	"lightcone/fonts/font6x8"
)

const (
	lineWidth    = 2
	markerRadius = 3
	dashOn       = 4
	dashOff      = 3

	tickLen        = 4
	tickLabelGap   = 10
	axisLabelGap   = 26
	legendSwatchPx = 18
)

// Renderer rasterizes Figures. It reuses its depth buffer between calls and
// is not safe for concurrent use.
type Renderer struct {
	Theme Theme

	font       tinyfont.Fonter
	fontWidth  int16
	fontHeight int16
	fontOffset int16

	zbuf []uint8
}

// NewRenderer returns a Renderer using DefaultTheme and the 6x8 font.
func NewRenderer() *Renderer {
	r := &Renderer{
		Theme:      DefaultTheme,
		font:       font6x8.Font,
		fontHeight: font6x8.Height,
		fontOffset: font6x8.Ascent,
	}
	_, outboxWidth := tinyfont.LineWidth(r.font, "0")
	r.fontWidth = int16(outboxWidth)
	return r
}

// plotArea is the region of the canvas the cube is drawn into.
type plotArea struct {
	x, y, w, h int16
	proj       projector
	zbuf       []uint8
}

func (a *plotArea) bounds() (xmin, ymin, xmax, ymax float64) {
	return 0, 0, float64(a.w - 1), float64(a.h - 1)
}

// Render draws f onto c. It does not call c.Display.
func (r *Renderer) Render(c Canvas, f *Figure) {
	if c == nil || f == nil {
		return
	}
	w, h := c.Size()
	if w <= 0 || h <= 0 {
		return
	}
	th := r.Theme

	_ = c.FillRectangle(0, 0, w, h, th.Background)

	top := int16(2)
	if f.Title != "" {
		r.drawText(c, (w-r.textWidth(f.Title))/2, top, f.Title, th.Text)
		top += r.fontHeight + 2
	}

	a := &plotArea{x: 1, y: top, w: w - 2, h: h - top - 1}
	if a.w <= 8 || a.h <= 8 {
		return
	}
	_ = c.FillRectangle(a.x, a.y, a.w, a.h, th.Pane)

	n := int(a.w) * int(a.h)
	if cap(r.zbuf) < n {
		r.zbuf = make([]uint8, n)
	}
	a.zbuf = r.zbuf[:n]
	for i := range a.zbuf {
		a.zbuf[i] = 0xFF
	}
	a.proj = projector{ranges: dataRanges(f.Series), view: f.View, w: a.w, h: a.h}

	r.drawBox(c, a)
	r.drawTicks(c, a)
	r.drawAxisLabels(c, a, f)

	for _, s := range f.Series {
		if s.Kind == Line {
			r.drawSeriesLine(c, a, s)
		}
	}
	for _, s := range f.Series {
		if s.Kind == Scatter {
			r.drawSeriesMarkers(c, a, s)
		}
	}

	r.drawLegend(c, a, f.Series)
}

var boxEdges = [12][2][3]float64{
	{{-1, -1, -1}, {1, -1, -1}},
	{{-1, 1, -1}, {1, 1, -1}},
	{{-1, -1, 1}, {1, -1, 1}},
	{{-1, 1, 1}, {1, 1, 1}},

	{{-1, -1, -1}, {-1, 1, -1}},
	{{1, -1, -1}, {1, 1, -1}},
	{{-1, -1, 1}, {-1, 1, 1}},
	{{1, -1, 1}, {1, 1, 1}},

	{{-1, -1, -1}, {-1, -1, 1}},
	{{1, -1, -1}, {1, -1, 1}},
	{{-1, 1, -1}, {-1, 1, 1}},
	{{1, 1, -1}, {1, 1, 1}},
}

func (r *Renderer) drawBox(c Canvas, a *plotArea) {
	for _, e := range boxEdges {
		x0, y0, d0, ok0 := a.proj.projectUnit(e[0][0], e[0][1], e[0][2])
		x1, y1, d1, ok1 := a.proj.projectUnit(e[1][0], e[1][1], e[1][2])
		if !ok0 || !ok1 {
			continue
		}
		r.drawSegment(c, a, x0, y0, d0, x1, y1, d1, r.Theme.Box, 1, false)
	}
}

// axisGuide describes where one axis gets its ticks: at(u) is the unit-cube
// point for normalized value u, and out(u) a point it is pushed away from.
type axisGuide struct {
	axis int
	at   func(u float64) [3]float64
	out  func(u float64) [3]float64
}

var axisGuides = [3]axisGuide{
	{
		axis: 0,
		at:   func(u float64) [3]float64 { return [3]float64{u, -1, -1} },
		out:  func(u float64) [3]float64 { return [3]float64{u, 0, -1} },
	},
	{
		axis: 1,
		at:   func(u float64) [3]float64 { return [3]float64{1, u, -1} },
		out:  func(u float64) [3]float64 { return [3]float64{0, u, -1} },
	},
	{
		axis: 2,
		at:   func(u float64) [3]float64 { return [3]float64{-1, -1, u} },
		out:  func(u float64) [3]float64 { return [3]float64{0, 0, u} },
	},
}

// outward projects guide g at u and returns the screen point plus a unit
// vector pointing away from the cube.
func (a *plotArea) outward(g axisGuide, u float64) (px, py, dx, dy float64, ok bool) {
	p := g.at(u)
	q := g.out(u)
	px, py, _, ok0 := a.proj.projectUnit(p[0], p[1], p[2])
	qx, qy, _, ok1 := a.proj.projectUnit(q[0], q[1], q[2])
	if !ok0 || !ok1 {
		return 0, 0, 0, 0, false
	}
	dx = px - qx
	dy = py - qy
	l := math.Hypot(dx, dy)
	if l < 1e-6 {
		return px, py, 0, 1, true
	}
	return px, py, dx / l, dy / l, true
}

func (r *Renderer) drawTicks(c Canvas, a *plotArea) {
	for _, g := range axisGuides {
		rng := a.proj.ranges[g.axis]
		for _, v := range rng.ticks() {
			px, py, dx, dy, ok := a.outward(g, rng.normalize(v))
			if !ok {
				continue
			}
			r.drawFlatLine(c, a, px, py, px+dx*tickLen, py+dy*tickLen, r.Theme.Box)

			label := fmtAxis(v)
			lx := px + dx*tickLabelGap
			ly := py + dy*tickLabelGap
			r.drawTextCentered(c, a, lx, ly, label, r.Theme.Dim)
		}
	}
}

func (r *Renderer) drawAxisLabels(c Canvas, a *plotArea, f *Figure) {
	labels := [3]string{f.XLabel, f.YLabel, f.ZLabel}
	for _, g := range axisGuides {
		s := labels[g.axis]
		if s == "" {
			continue
		}
		px, py, dx, dy, ok := a.outward(g, 0)
		if !ok {
			continue
		}
		r.drawTextCentered(c, a, px+dx*axisLabelGap, py+dy*axisLabelGap, s, r.Theme.Text)
	}
}

func (r *Renderer) drawSeriesLine(c Canvas, a *plotArea, s Series) {
	var prevX, prevY, prevD float64
	prevOK := false
	for _, p := range s.Points {
		curX, curY, curD, ok := a.proj.project(p)
		if !ok {
			prevOK = false
			continue
		}
		if prevOK {
			r.drawSegment(c, a, prevX, prevY, prevD, curX, curY, curD, s.Color, lineWidth, s.Dashed)
		}
		prevOK = true
		prevX = curX
		prevY = curY
		prevD = curD
	}
}

func (r *Renderer) drawSeriesMarkers(c Canvas, a *plotArea, s Series) {
	for _, p := range s.Points {
		px, py, d, ok := a.proj.project(p)
		if !ok {
			continue
		}
		// Markers sit slightly in front of lines ending at the same point.
		z := depthToByte(d - 0.05)
		cx := int(roundInt16(px))
		cy := int(roundInt16(py))
		for oy := -markerRadius; oy <= markerRadius; oy++ {
			for ox := -markerRadius; ox <= markerRadius; ox++ {
				if ox*ox+oy*oy > markerRadius*markerRadius+1 {
					continue
				}
				a.plot(c, cx+ox, cy+oy, z, s.Color)
			}
		}
	}
}

// drawSegment clips a projected segment to the plot area and draws it
// through the depth buffer.
func (r *Renderer) drawSegment(c Canvas, a *plotArea, x0, y0, d0, x1, y1, d1 float64, col color.RGBA, width int, dashed bool) {
	xmin, ymin, xmax, ymax := a.bounds()
	cx0, cy0, cx1, cy1, u0, u1, ok := clipLineToRectWithT(x0, y0, x1, y1, xmin, ymin, xmax, ymax)
	if !ok {
		return
	}
	cd0 := d0 + u0*(d1-d0)
	cd1 := d0 + u1*(d1-d0)
	r.drawLineDepth(c, a, cx0, cy0, cd0, cx1, cy1, cd1, col, width, dashed)
}

func (r *Renderer) drawLineDepth(c Canvas, a *plotArea, x0, y0, d0, x1, y1, d1 float64, col color.RGBA, width int, dashed bool) {
	dx := x1 - x0
	dy := y1 - y0
	steps := math.Abs(dx)
	if ay := math.Abs(dy); ay > steps {
		steps = ay
	}
	// Thicken across the dominant direction.
	thickX := math.Abs(dy) > math.Abs(dx)

	n := int(steps)
	if n <= 0 {
		a.plotWide(c, int(roundInt16(x0)), int(roundInt16(y0)), depthToByte(d0), col, width, thickX)
		return
	}

	for i := 0; i <= n; i++ {
		if dashed && !dashVisible(i) {
			continue
		}
		tp := float64(i) / float64(n)
		x := x0 + dx*tp
		y := y0 + dy*tp
		d := d0 + (d1-d0)*tp
		a.plotWide(c, int(roundInt16(x)), int(roundInt16(y)), depthToByte(d), col, width, thickX)
	}
}

// dashVisible reports whether step i of a dashed line is drawn.
func dashVisible(i int) bool {
	return i%(dashOn+dashOff) < dashOn
}

func (a *plotArea) plotWide(c Canvas, ix, iy int, z uint8, col color.RGBA, width int, thickX bool) {
	for k := 0; k < width; k++ {
		if thickX {
			a.plot(c, ix+k, iy, z, col)
		} else {
			a.plot(c, ix, iy+k, z, col)
		}
	}
}

// plot sets one plot-local pixel if it is nearer than what is already there.
func (a *plotArea) plot(c Canvas, ix, iy int, z uint8, col color.RGBA) {
	w := int(a.w)
	h := int(a.h)
	if ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}
	idx := iy*w + ix
	if z > a.zbuf[idx] {
		return
	}
	a.zbuf[idx] = z
	c.SetPixel(a.x+int16(ix), a.y+int16(iy), col)
}

// drawFlatLine draws a plot-local line without depth testing.
func (r *Renderer) drawFlatLine(c Canvas, a *plotArea, x0, y0, x1, y1 float64, col color.RGBA) {
	xmin, ymin, xmax, ymax := a.bounds()
	cx0, cy0, cx1, cy1, ok := clipLineToRect(x0, y0, x1, y1, xmin, ymin, xmax, ymax)
	if !ok {
		return
	}
	drawLine(c, a.x+roundInt16(cx0), a.y+roundInt16(cy0), a.x+roundInt16(cx1), a.y+roundInt16(cy1), col)
}

func clipLineToRect(x0, y0, x1, y1, xmin, ymin, xmax, ymax float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	cx0, cy0, cx1, cy1, _, _, ok = clipLineToRectWithT(x0, y0, x1, y1, xmin, ymin, xmax, ymax)
	return cx0, cy0, cx1, cy1, ok
}

func drawLine(c Canvas, x0, y0, x1, y1 int16, col color.RGBA) {
	dx := int(math.Abs(float64(x1 - x0)))
	dy := -int(math.Abs(float64(y1 - y0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.SetPixel(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += int16(sx)
		}
		if e2 <= dx {
			err += dx
			y0 += int16(sy)
		}
	}
}

func roundInt16(v float64) int16 {
	if v < 0 {
		return int16(v - 0.5)
	}
	return int16(v + 0.5)
}

func (r *Renderer) drawLegend(c Canvas, a *plotArea, series []Series) {
	if len(series) == 0 {
		return
	}

	maxLabel := int16(0)
	for _, s := range series {
		if w := r.textWidth(s.Label); w > maxLabel {
			maxLabel = w
		}
	}

	rowH := r.fontHeight + 4
	boxW := 4 + legendSwatchPx + r.fontWidth + maxLabel + 4
	boxH := int16(len(series))*rowH + 4
	if boxW > a.w-4 {
		boxW = a.w - 4
	}
	if boxH > a.h-4 {
		boxH = a.h - 4
	}
	if boxW <= legendSwatchPx || boxH <= rowH {
		return
	}

	x := a.x + a.w - boxW - 3
	y := a.y + 3
	th := r.Theme

	_ = c.FillRectangle(x, y, boxW, boxH, th.LegendBG)
	_ = c.FillRectangle(x, y, boxW, 1, th.Box)
	_ = c.FillRectangle(x, y+boxH-1, boxW, 1, th.Box)
	_ = c.FillRectangle(x, y, 1, boxH, th.Box)
	_ = c.FillRectangle(x+boxW-1, y, 1, boxH, th.Box)

	for i, s := range series {
		cy := y + 2 + int16(i)*rowH
		if cy+rowH > y+boxH {
			break
		}
		sx := x + 4
		mid := cy + rowH/2 - 1

		switch s.Kind {
		case Scatter:
			cx := sx + legendSwatchPx/2
			for oy := int16(-markerRadius); oy <= markerRadius; oy++ {
				for ox := int16(-markerRadius); ox <= markerRadius; ox++ {
					if ox*ox+oy*oy > markerRadius*markerRadius+1 {
						continue
					}
					c.SetPixel(cx+ox, mid+oy, s.Color)
				}
			}
		default:
			for k := 0; k < legendSwatchPx; k++ {
				if s.Dashed && !dashVisible(k) {
					continue
				}
				_ = c.FillRectangle(sx+int16(k), mid, 1, lineWidth, s.Color)
			}
		}

		r.drawText(c, sx+legendSwatchPx+r.fontWidth, cy+2, s.Label, th.Text)
	}
}

func (r *Renderer) textWidth(s string) int16 {
	_, outboxWidth := tinyfont.LineWidth(r.font, s)
	return int16(outboxWidth)
}

// drawText draws s with its top-left corner at (x, y).
func (r *Renderer) drawText(c Canvas, x, y int16, s string, col color.RGBA) {
	if s == "" {
		return
	}
	tinyfont.WriteLine(c, r.font, x, y+r.fontOffset, s, col)
}

// drawTextCentered centers s on a plot-local point, nudged to stay inside
// the plot area.
func (r *Renderer) drawTextCentered(c Canvas, a *plotArea, px, py float64, s string, col color.RGBA) {
	tw := r.textWidth(s)
	x := a.x + roundInt16(px) - tw/2
	y := a.y + roundInt16(py) - r.fontHeight/2

	if maxX := a.x + a.w - tw - 1; x > maxX {
		x = maxX
	}
	if x < a.x+1 {
		x = a.x + 1
	}
	if maxY := a.y + a.h - r.fontHeight - 1; y > maxY {
		y = maxY
	}
	if y < a.y+1 {
		y = a.y + 1
	}
	r.drawText(c, x, y, s, col)
}
