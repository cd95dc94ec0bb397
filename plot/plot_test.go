package plot

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightcone/hal"
)

type imageCanvas struct {
	img *image.RGBA
}

func newImageCanvas(w, h int) *imageCanvas {
	return &imageCanvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (c *imageCanvas) Size() (x, y int16) {
	b := c.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (c *imageCanvas) SetPixel(x, y int16, col color.RGBA) {
	if !(image.Point{X: int(x), Y: int(y)}).In(c.img.Bounds()) {
		return
	}
	c.img.SetRGBA(int(x), int(y), col)
}

func (c *imageCanvas) Display() error { return nil }

func (c *imageCanvas) FillRectangle(x, y, width, height int16, col color.RGBA) error {
	for py := y; py < y+height; py++ {
		for px := x; px < x+width; px++ {
			c.SetPixel(px, py, col)
		}
	}
	return nil
}

func (c *imageCanvas) count(col color.RGBA) int {
	n := 0
	b := c.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c.img.RGBAAt(x, y) == col {
				n++
			}
		}
	}
	return n
}

var (
	red   = color.RGBA{R: 0xFF, A: 0xFF}
	blue  = color.RGBA{B: 0xFF, A: 0xFF}
	green = color.RGBA{G: 0x80, A: 0xFF}
	black = color.RGBA{A: 0xFF}
)

func triangleFigure(dashed bool, withPoints bool) *Figure {
	o := Vec3{}
	a := Vec3{X: 3, Z: 5}
	b := Vec3{Y: 4, Z: 5}
	pts := func(p ...Vec3) []Vec3 {
		if !withPoints {
			return nil
		}
		return p
	}
	return &Figure{
		Title:  "title",
		XLabel: "x",
		YLabel: "y",
		ZLabel: "ct",
		View:   View{Yaw: -0.6, Pitch: 0.5, Zoom: 1},
		Series: []Series{
			{Label: "path", Kind: Scatter, Points: pts(o, a, b), Color: red},
			{Label: "hyp", Kind: Line, Points: pts(o, a), Color: blue},
			{Label: "y", Kind: Line, Points: pts(o, b), Color: green},
			{Label: "x", Kind: Line, Points: pts(a, b), Color: black, Dashed: dashed},
		},
	}
}

func TestProjectUnit_ZIsUp(t *testing.T) {
	p := projector{
		ranges: [3]axisRange{niceRange(-1, 1), niceRange(-1, 1), niceRange(-1, 1)},
		view:   View{Yaw: -0.6, Pitch: 0.5, Zoom: 1},
		w:      200,
		h:      200,
	}

	_, yTop, _, ok := p.projectUnit(0, 0, 1)
	require.True(t, ok)
	_, yBottom, _, ok := p.projectUnit(0, 0, -1)
	require.True(t, ok)
	assert.Less(t, yTop, yBottom)
}

func TestProjectUnit_Depth(t *testing.T) {
	p := projector{view: View{Zoom: 1}, w: 100, h: 100}

	x, y, d, ok := p.projectUnit(0, 0, 0)
	require.True(t, ok)
	assert.InDelta(t, 49.5, x, 1e-9)
	assert.InDelta(t, 49.5, y, 1e-9)
	assert.InDelta(t, cameraDist, d, 1e-9)

	_, _, near, ok := p.projectUnit(0, -1, 0)
	require.True(t, ok)
	_, _, far, ok := p.projectUnit(0, 1, 0)
	require.True(t, ok)
	assert.Less(t, near, far)
	assert.Less(t, depthToByte(near), depthToByte(far))
}

func TestProjectUnit_Zoom(t *testing.T) {
	p := projector{view: View{Zoom: 1}, w: 100, h: 100}
	x1, _, _, ok := p.projectUnit(1, 0, 0)
	require.True(t, ok)

	p.view.Zoom = 2
	x2, _, _, ok := p.projectUnit(1, 0, 0)
	require.True(t, ok)
	assert.InDelta(t, 2*(x1-49.5), x2-49.5, 1e-9)
}

func TestProjectUnit_EmptyArea(t *testing.T) {
	p := projector{view: View{Zoom: 1}}
	_, _, _, ok := p.projectUnit(0, 0, 0)
	assert.False(t, ok)

	_, _, _, ok = projector{w: 10, h: 10}.project(Vec3{X: math.NaN()})
	assert.False(t, ok)
}

func TestNiceStep(t *testing.T) {
	tcs := []struct {
		raw  float64
		want float64
	}{
		{raw: 0, want: 1},
		{raw: -3, want: 1},
		{raw: math.NaN(), want: 1},
		{raw: 1, want: 1},
		{raw: 0.3, want: 0.5},
		{raw: 1.25, want: 2},
		{raw: 7, want: 10},
	}
	for _, tc := range tcs {
		assert.InDelta(t, tc.want, niceStep(tc.raw), 1e-12, "raw=%v", tc.raw)
	}
}

func TestNiceRange(t *testing.T) {
	tcs := []struct {
		name         string
		lo, hi       float64
		wantLo       float64
		wantHi       float64
		wantNumTicks int
	}{
		{name: "already nice", lo: 0, hi: 4, wantLo: 0, wantHi: 4, wantNumTicks: 5},
		{name: "rounded up", lo: 0, hi: 5, wantLo: 0, wantHi: 6, wantNumTicks: 4},
		{name: "degenerate", lo: 0, hi: 0, wantLo: -1, wantHi: 1, wantNumTicks: 5},
		{name: "swapped", lo: 3, hi: 0, wantLo: 0, wantHi: 3, wantNumTicks: 4},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			r := niceRange(tc.lo, tc.hi)
			assert.InDelta(t, tc.wantLo, r.lo, 1e-9)
			assert.InDelta(t, tc.wantHi, r.hi, 1e-9)
			assert.Len(t, r.ticks(), tc.wantNumTicks)
		})
	}
}

func TestDataRanges_IncludeOriginAndSkipNonFinite(t *testing.T) {
	r := dataRanges([]Series{{Points: []Vec3{
		{X: 3, Y: 4, Z: 5},
		{X: math.Inf(1), Y: math.NaN(), Z: 1},
	}}})

	assert.InDelta(t, 0, r[0].lo, 1e-9)
	assert.InDelta(t, 3, r[0].hi, 1e-9)
	assert.InDelta(t, 0, r[1].lo, 1e-9)
	assert.InDelta(t, 4, r[1].hi, 1e-9)
	assert.InDelta(t, 0, r[2].lo, 1e-9)
	assert.InDelta(t, 6, r[2].hi, 1e-9)
}

func TestAxisRange_Normalize(t *testing.T) {
	r := axisRange{lo: 0, hi: 4, step: 1}
	assert.InDelta(t, -1, r.normalize(0), 1e-12)
	assert.InDelta(t, 0, r.normalize(2), 1e-12)
	assert.InDelta(t, 1, r.normalize(4), 1e-12)
	assert.Equal(t, 0.0, axisRange{}.normalize(7))
}

func TestFmtAxis(t *testing.T) {
	tcs := map[float64]string{
		0:     "0",
		1e-15: "0",
		2:     "2",
		-3:    "-3",
		2.5:   "2.5",
		0.25:  "0.25",
		15:    "15",
		1500:  "1.5e+03",
	}
	for in, want := range tcs {
		assert.Equal(t, want, fmtAxis(in), "in=%v", in)
	}
	assert.Equal(t, "", fmtAxis(math.NaN()))
}

func TestClipLineToRectWithT(t *testing.T) {
	cx0, cy0, cx1, cy1, u0, u1, ok := clipLineToRectWithT(-10, 5, 10, 5, 0, 0, 10, 10)
	require.True(t, ok)
	assert.InDelta(t, 0, cx0, 1e-12)
	assert.InDelta(t, 5, cy0, 1e-12)
	assert.InDelta(t, 10, cx1, 1e-12)
	assert.InDelta(t, 5, cy1, 1e-12)
	assert.InDelta(t, 0.5, u0, 1e-12)
	assert.InDelta(t, 1, u1, 1e-12)

	_, _, _, _, _, _, ok = clipLineToRectWithT(-10, -5, 10, -5, 0, 0, 10, 10)
	assert.False(t, ok)
}

func TestView_Rotate(t *testing.T) {
	v := View{Yaw: 0.1, Pitch: 0.5, Zoom: 1}.Rotate(2*math.Pi, 0)
	assert.InDelta(t, 0.1, v.Yaw, 1e-9)

	v = v.Rotate(0, 10)
	assert.Equal(t, MaxPitch, v.Pitch)
	v = v.Rotate(0, -10)
	assert.Equal(t, MinPitch, v.Pitch)
}

func TestView_Scale(t *testing.T) {
	v := View{Zoom: 1}.Scale(1.5)
	assert.InDelta(t, 1.5, v.Zoom, 1e-12)
	assert.Equal(t, MaxZoom, v.Scale(100).Zoom)
	assert.Equal(t, MinZoom, v.Scale(0.001).Zoom)
	assert.InDelta(t, 2, View{}.Scale(2).Zoom, 1e-12)
}

func TestDashVisible(t *testing.T) {
	var got []bool
	for i := 0; i < 8; i++ {
		got = append(got, dashVisible(i))
	}
	assert.Equal(t, []bool{true, true, true, true, false, false, false, true}, got)
}

func TestRender_DrawsEverySeries(t *testing.T) {
	r := NewRenderer()

	legendOnly := newImageCanvas(480, 400)
	r.Render(legendOnly, triangleFigure(false, false))

	full := newImageCanvas(480, 400)
	r.Render(full, triangleFigure(false, true))

	for _, col := range []color.RGBA{red, blue, green, black} {
		assert.Greater(t, full.count(col), legendOnly.count(col), "colour %v", col)
	}
	assert.Greater(t, full.count(DefaultTheme.Text), 0)
	assert.Greater(t, full.count(DefaultTheme.Background), 0)
}

func TestRender_DashedLineHasGaps(t *testing.T) {
	r := NewRenderer()

	solid := newImageCanvas(480, 400)
	r.Render(solid, triangleFigure(false, true))

	dashed := newImageCanvas(480, 400)
	r.Render(dashed, triangleFigure(true, true))

	legendOnly := newImageCanvas(480, 400)
	r.Render(legendOnly, triangleFigure(true, false))

	assert.Less(t, dashed.count(black), solid.count(black))
	assert.Greater(t, dashed.count(black), legendOnly.count(black))
}

func TestRender_SmallAndResizedCanvas(t *testing.T) {
	r := NewRenderer()
	f := triangleFigure(true, true)

	assert.NotPanics(t, func() {
		r.Render(newImageCanvas(4, 4), f)
		r.Render(newImageCanvas(64, 48), f)
		r.Render(newImageCanvas(640, 480), f)
		r.Render(newImageCanvas(32, 32), f)
		r.Render(nil, f)
		r.Render(newImageCanvas(32, 32), nil)
	})
}

func TestFramebufferCanvas(t *testing.T) {
	h := hal.New(hal.Options{Width: 8, Height: 4})
	fb := h.Display().Framebuffer()
	c := NewFramebufferCanvas(fb)
	require.NotNil(t, c)

	w, ht := c.Size()
	assert.Equal(t, int16(8), w)
	assert.Equal(t, int16(4), ht)

	require.NoError(t, c.FillRectangle(-2, -2, 4, 4, red))
	assert.Equal(t, red, hal.ColorAt(fb, 0, 0))
	assert.Equal(t, red, hal.ColorAt(fb, 1, 1))
	assert.Equal(t, black, hal.ColorAt(fb, 2, 2))

	c.SetPixel(7, 3, blue)
	c.SetPixel(8, 3, blue)
	assert.Equal(t, blue, hal.ColorAt(fb, 7, 3))

	require.NoError(t, c.Display())
	assert.Nil(t, NewFramebufferCanvas(nil))
}
