package plot

import (
	"image/color"

	"tinygo.org/x/drivers"

	"lightcone/hal"
)

// Canvas is a pixel surface Render can draw on.
type Canvas interface {
	drivers.Displayer
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

// FramebufferCanvas draws into an RGB565 hal.Framebuffer.
type FramebufferCanvas struct {
	fb hal.Framebuffer
}

var _ Canvas = (*FramebufferCanvas)(nil)

// NewFramebufferCanvas wraps fb. It returns nil unless fb is RGB565.
func NewFramebufferCanvas(fb hal.Framebuffer) *FramebufferCanvas {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	return &FramebufferCanvas{fb: fb}
}

// Size returns the framebuffer dimensions in pixels.
func (d *FramebufferCanvas) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

// SetPixel writes one pixel. Out-of-range coordinates are ignored.
func (d *FramebufferCanvas) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil {
		return
	}
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	hal.PutRGB565(d.fb.Buffer(), iy*d.fb.StrideBytes()+ix*2, hal.RGB565(c))
}

// Display presents the framebuffer.
func (d *FramebufferCanvas) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

// FillRectangle fills the rectangle clipped to the framebuffer.
func (d *FramebufferCanvas) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.fb == nil {
		return nil
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return nil
	}

	w := d.fb.Width()
	h := d.fb.Height()

	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, h)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := hal.RGB565(c)
	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
		for px := x0; px < x1; px++ {
			hal.PutRGB565(buf, row+px*2, pixel)
		}
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
