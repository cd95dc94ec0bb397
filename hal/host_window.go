//go:build cgo

package hal

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow opens a desktop window that displays the framebuffer and forwards
// keyboard input. It blocks until the window closes or the app step returns
// ErrQuit; both end with a nil error.
func RunWindow(opts Options, newApp func(HAL) func() error) error {
	opts = opts.withDefaults()
	h := newHost(opts)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(h.fb.width*opts.Scale, h.fb.height*opts.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(opts.TPS)

	h.logger.WriteLineString(fmt.Sprintf("window: open %dx%d", h.fb.width, h.fb.height))
	err := ebiten.RunGame(g)
	h.logger.WriteLineString("window: closed")
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}

type hostGame struct {
	h       *hostHAL
	rgba    []byte
	fbImg   *ebiten.Image
	version uint64
	step    func() error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	if g.step == nil {
		return nil
	}
	if err := g.step(); err != nil {
		if errors.Is(err, ErrQuit) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.fbImg == nil {
		g.rgba = make([]byte, fb.width*fb.height*4)
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
		g.version = 0
	}

	if v, changed := fb.snapshotRGBA(g.rgba, g.version); changed {
		g.version = v
		g.fbImg.WritePixels(g.rgba)
	}
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
