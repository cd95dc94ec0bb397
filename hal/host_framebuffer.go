package hal

import "sync"

type hostFramebuffer struct {
	mu      sync.Mutex
	width   int
	height  int
	stride  int
	buf     []byte
	version uint64
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := width * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }

// Present marks the buffer as changed so the window re-uploads it.
func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	f.version++
	f.mu.Unlock()
	return nil
}

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

// snapshotRGBA converts the buffer into dst (RGBA, 4 bytes per pixel) if it
// changed since version seen. It returns the current version.
func (f *hostFramebuffer) snapshotRGBA(dst []byte, seen uint64) (uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seen == f.version && seen != 0 {
		return seen, false
	}
	for i := 0; i+1 < len(f.buf) && (i/2)*4+3 < len(dst); i += 2 {
		r, g, b := rgb888From565(uint16(f.buf[i]) | uint16(f.buf[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = g
		dst[j+2] = b
		dst[j+3] = 0xFF
	}
	if f.version == 0 {
		f.version = 1
	}
	return f.version, true
}
