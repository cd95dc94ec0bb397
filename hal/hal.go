package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// ErrQuit is returned by an app step to close the window normally.
var ErrQuit = errors.New("quit")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyPageUp
	KeyPageDown
)

// KeyEvent is a keyboard event. Text input arrives with Code == KeyUnknown
// and Rune set.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
}

// HAL is the only contact point between the plot app and the host.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
}

// Options configures the host HAL.
type Options struct {
	// Width and Height size the framebuffer in pixels.
	Width  int
	Height int

	// Scale multiplies the framebuffer size for the initial window size.
	Scale int

	// TPS is the window update rate.
	TPS int

	// Title is the window title.
	Title string

	// Logger receives host diagnostics. Nil discards them.
	Logger Logger
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 480
	}
	if o.Height <= 0 {
		o.Height = 400
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.TPS <= 0 {
		o.TPS = 60
	}
	if o.Title == "" {
		o.Title = "lightcone"
	}
	if o.Logger == nil {
		o.Logger = discardLogger{}
	}
	return o
}

type discardLogger struct{}

func (discardLogger) WriteLineString(string) {}
func (discardLogger) WriteLineBytes([]byte)  {}
