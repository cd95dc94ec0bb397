package hal

import "image/color"

// RGB565 packs an 8-bit-per-channel colour into the framebuffer encoding.
func RGB565(c color.RGBA) uint16 {
	return rgb565(c.R, c.G, c.B)
}

// PutRGB565 stores p little-endian at buf[off:off+2]. Out-of-range offsets are
// ignored.
func PutRGB565(buf []byte, off int, p uint16) {
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(p)
	buf[off+1] = byte(p >> 8)
}

// ColorAt decodes the pixel at (x, y) of fb. Out-of-range reads are black.
func ColorAt(fb Framebuffer, x, y int) color.RGBA {
	if fb == nil || x < 0 || y < 0 || x >= fb.Width() || y >= fb.Height() {
		return color.RGBA{A: 0xFF}
	}
	buf := fb.Buffer()
	off := y*fb.StrideBytes() + x*2
	if off < 0 || off+1 >= len(buf) {
		return color.RGBA{A: 0xFF}
	}
	r, g, b := rgb888From565(uint16(buf[off]) | uint16(buf[off+1])<<8)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

func rgb565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}
