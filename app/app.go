// Package app turns a spacetime.Result into the interactive plot shown by
// the hal window or headless runners.
package app

import (
	"image/color"
	"io"

	"go.uber.org/zap"

	"lightcone/hal"
	"lightcone/internal/config"
	"lightcone/internal/report"
	"lightcone/plot"
	"lightcone/spacetime"
)

// Series colours.
var (
	ColorPhoton = color.RGBA{R: 0xE0, G: 0x10, B: 0x10, A: 0xFF}
	ColorHyp    = color.RGBA{R: 0x10, G: 0x30, B: 0xE0, A: 0xFF}
	ColorSpaceY = color.RGBA{R: 0x00, G: 0x90, B: 0x20, A: 0xFF}
	ColorSpaceX = color.RGBA{A: 0xFF}
)

// View controls.
const (
	rotateStep = 0.04
	zoomStep   = 1.1
)

// Config is what a session needs to start.
type Config struct {
	Result spacetime.Result
	Lang   report.Lang
	View   plot.View

	// Tolerance is used to re-evaluate reloaded inputs.
	Tolerance spacetime.Tolerance

	// Reload delivers new configurations from config.Watch. Nil disables
	// live reload.
	Reload <-chan *config.Config

	// Out receives the report again after each reload. Nil discards it.
	Out io.Writer

	Log *zap.Logger
}

// ViewOf converts the config view block.
func ViewOf(v config.ViewConfig) plot.View {
	return plot.View{Yaw: v.Yaw, Pitch: v.Pitch, Zoom: v.Zoom}
}

// FigureFor builds the triangle figure for r with the strings of t.
func FigureFor(r spacetime.Result, t report.Text, v plot.View) *plot.Figure {
	tri := spacetime.TriangleOf(r)

	vertices := tri.Vertices()
	pts := make([]plot.Vec3, 0, len(vertices))
	for _, p := range vertices {
		pts = append(pts, vec(p))
	}

	edge := func(e spacetime.Edge) []plot.Vec3 {
		a, b := tri.Segment(e)
		return []plot.Vec3{vec(a), vec(b)}
	}

	return &plot.Figure{
		Title:  t.Title,
		XLabel: t.XLabel,
		YLabel: t.YLabel,
		ZLabel: t.ZLabel,
		View:   v,
		Series: []plot.Series{
			{Label: t.PhotonPath, Kind: plot.Scatter, Points: pts, Color: ColorPhoton},
			{Label: t.HypLegend, Kind: plot.Line, Points: edge(spacetime.EdgeHypotenuse), Color: ColorHyp},
			{Label: t.SpaceYLabel, Kind: plot.Line, Points: edge(spacetime.EdgeSpaceY), Color: ColorSpaceY},
			{Label: t.SpaceXLabel, Kind: plot.Line, Points: edge(spacetime.EdgeSpaceX), Color: ColorSpaceX, Dashed: true},
		},
	}
}

func vec(p spacetime.Point) plot.Vec3 {
	return plot.Vec3{X: p.X, Y: p.Y, Z: p.CT}
}

type session struct {
	cfg Config
	log *zap.Logger

	kbd      hal.Keyboard
	canvas   *plot.FramebufferCanvas
	renderer *plot.Renderer

	figure *plot.Figure
	base   plot.View
	held   map[hal.KeyCode]bool
	dirty  bool
}

// New prepares a session on h and returns its step function. Each step
// handles input and reloads, then redraws the framebuffer if anything
// changed. A step returns hal.ErrQuit when the user asks to close.
func New(h hal.HAL, cfg Config) func() error {
	s := newSession(h, cfg)
	return s.step
}

func newSession(h hal.HAL, cfg Config) *session {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}

	s := &session{
		cfg:      cfg,
		log:      log,
		renderer: plot.NewRenderer(),
		base:     cfg.View,
		held:     make(map[hal.KeyCode]bool),
		dirty:    true,
	}
	if h != nil {
		if d := h.Display(); d != nil {
			s.canvas = plot.NewFramebufferCanvas(d.Framebuffer())
		}
		if in := h.Input(); in != nil {
			s.kbd = in.Keyboard()
		}
	}
	if s.canvas == nil {
		log.Warn("app: no RGB565 framebuffer, nothing will be drawn")
	}

	s.figure = FigureFor(cfg.Result, report.TextFor(cfg.Lang), cfg.View)
	return s
}

func (s *session) step() error {
	if err := s.pollKeys(); err != nil {
		return err
	}
	s.applyHeld()
	s.pollReload()

	if !s.dirty || s.canvas == nil {
		return nil
	}
	s.renderer.Render(s.canvas, s.figure)
	s.dirty = false
	return s.canvas.Display()
}

func (s *session) pollKeys() error {
	if s.kbd == nil {
		return nil
	}
	ch := s.kbd.Events()
	for {
		select {
		case ev := <-ch:
			if err := s.handleKey(ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (s *session) handleKey(ev hal.KeyEvent) error {
	if ev.Code != hal.KeyUnknown {
		s.held[ev.Code] = ev.Press
		if !ev.Press {
			return nil
		}
		switch ev.Code {
		case hal.KeyEscape:
			return hal.ErrQuit
		case hal.KeyEnter:
			s.setView(s.base)
		case hal.KeyPageUp:
			s.setView(s.figure.View.Scale(zoomStep))
		case hal.KeyPageDown:
			s.setView(s.figure.View.Scale(1 / zoomStep))
		}
		return nil
	}
	if !ev.Press {
		return nil
	}

	switch ev.Rune {
	case 'q', 'Q':
		return hal.ErrQuit
	case '+', '=':
		s.setView(s.figure.View.Scale(zoomStep))
	case '-', '_':
		s.setView(s.figure.View.Scale(1 / zoomStep))
	case 'r', 'R':
		s.setView(s.base)
	}
	return nil
}

// applyHeld orbits the camera while an arrow key is down.
func (s *session) applyHeld() {
	var dYaw, dPitch float64
	if s.held[hal.KeyLeft] {
		dYaw -= rotateStep
	}
	if s.held[hal.KeyRight] {
		dYaw += rotateStep
	}
	if s.held[hal.KeyUp] {
		dPitch += rotateStep
	}
	if s.held[hal.KeyDown] {
		dPitch -= rotateStep
	}
	if dYaw == 0 && dPitch == 0 {
		return
	}
	s.setView(s.figure.View.Rotate(dYaw, dPitch))
}

func (s *session) setView(v plot.View) {
	if v == s.figure.View {
		return
	}
	s.figure.View = v
	s.dirty = true
}

func (s *session) pollReload() {
	if s.cfg.Reload == nil {
		return
	}
	for {
		select {
		case c, ok := <-s.cfg.Reload:
			if !ok {
				s.cfg.Reload = nil
				return
			}
			if c != nil {
				s.apply(c)
			}
		default:
			return
		}
	}
}

// apply recomputes the figure for a reloaded config. The current camera is
// kept unless the configured view itself changed.
func (s *session) apply(c *config.Config) {
	s.cfg.Tolerance = c.Tolerance.Tolerance()
	s.cfg.Lang = c.Lang
	s.cfg.Result = spacetime.Evaluate(c.Space.X, c.Space.Y, s.cfg.Tolerance)

	view := s.figure.View
	if nb := ViewOf(c.View); nb != s.base {
		s.base = nb
		view = nb
	}

	s.figure = FigureFor(s.cfg.Result, report.TextFor(s.cfg.Lang), view)
	s.dirty = true

	s.log.Info("app: inputs reloaded",
		zap.Float64("x", s.cfg.Result.X),
		zap.Float64("y", s.cfg.Result.Y),
		zap.Float64("ct", s.cfg.Result.CT),
		zap.Bool("holds", s.cfg.Result.Holds),
	)
	if err := report.Write(s.cfg.Out, s.cfg.Result, s.cfg.Lang); err != nil {
		s.log.Error("app: report", zap.Error(err))
	}
}
