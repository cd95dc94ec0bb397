package app

import (
	"bytes"
	"context"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"lightcone/hal"
	"lightcone/internal/config"
	"lightcone/internal/report"
	"lightcone/plot"
	"lightcone/spacetime"
)

// testHAL is a host HAL whose keyboard the test feeds directly.
type testHAL struct {
	hal.HAL
	keys chan hal.KeyEvent
}

func newTestHAL() *testHAL {
	return &testHAL{
		HAL:  hal.New(hal.Options{Width: 160, Height: 120}),
		keys: make(chan hal.KeyEvent, 16),
	}
}

func (h *testHAL) Input() hal.Input            { return h }
func (h *testHAL) Keyboard() hal.Keyboard      { return h }
func (h *testHAL) Events() <-chan hal.KeyEvent { return h.keys }

func (h *testHAL) press(code hal.KeyCode)   { h.keys <- hal.KeyEvent{Code: code, Press: true} }
func (h *testHAL) release(code hal.KeyCode) { h.keys <- hal.KeyEvent{Code: code} }
func (h *testHAL) typeRune(r rune)          { h.keys <- hal.KeyEvent{Press: true, Rune: r} }

func (h *testHAL) snapshot() []byte {
	return append([]byte(nil), h.Display().Framebuffer().Buffer()...)
}

func (h *testHAL) changedSince(before []byte) bool {
	return !bytes.Equal(before, h.Display().Framebuffer().Buffer())
}

var defaultView = plot.View{Yaw: config.DefaultYaw, Pitch: config.DefaultPitch, Zoom: config.DefaultZoom}

func defaultConfig() Config {
	return Config{
		Result:    spacetime.Evaluate(3, 4, spacetime.DefaultTolerance),
		Lang:      report.LangDE,
		View:      defaultView,
		Tolerance: spacetime.DefaultTolerance,
	}
}

func TestFigureFor(t *testing.T) {
	r := spacetime.Evaluate(3, 4, spacetime.DefaultTolerance)
	f := FigureFor(r, report.TextFor(report.LangDE), defaultView)

	assert.Equal(t, "Beweis des Satzes des Pythagoras in der Raumzeit", f.Title)
	assert.Equal(t, "X (Raumdimension in Metern)", f.XLabel)
	assert.Equal(t, "Y (Raumdimension in Metern)", f.YLabel)
	assert.Equal(t, "ct (Raumzeit in Metern)", f.ZLabel)
	assert.Equal(t, defaultView, f.View)

	require.Len(t, f.Series, 4)

	photon := f.Series[0]
	assert.Equal(t, "Photon Pfad", photon.Label)
	assert.Equal(t, plot.Scatter, photon.Kind)
	assert.Equal(t, ColorPhoton, photon.Color)
	assert.Equal(t, []plot.Vec3{{}, {X: 3, Z: 5}, {Y: 4, Z: 5}}, photon.Points)

	tcs := []struct {
		label  string
		color  color.RGBA
		dashed bool
		points []plot.Vec3
	}{
		{label: "Hypotenuse (ct)", color: ColorHyp, points: []plot.Vec3{{}, {X: 3, Z: 5}}},
		{label: "Raumdimension Y", color: ColorSpaceY, points: []plot.Vec3{{}, {Y: 4, Z: 5}}},
		{label: "Raumdimension X", color: ColorSpaceX, dashed: true, points: []plot.Vec3{{X: 3, Z: 5}, {Y: 4, Z: 5}}},
	}
	for i, tc := range tcs {
		s := f.Series[i+1]
		assert.Equal(t, tc.label, s.Label)
		assert.Equal(t, plot.Line, s.Kind)
		assert.Equal(t, tc.color, s.Color)
		assert.Equal(t, tc.dashed, s.Dashed)
		assert.Equal(t, tc.points, s.Points)
	}
}

func TestFigureFor_English(t *testing.T) {
	r := spacetime.Evaluate(3, 4, spacetime.DefaultTolerance)
	f := FigureFor(r, report.TextFor(report.LangEN), defaultView)
	assert.Equal(t, "Photon path", f.Series[0].Label)
	assert.Equal(t, "Space dimension X", f.Series[3].Label)
}

func TestStep_FirstStepDraws(t *testing.T) {
	h := newTestHAL()
	step := New(h, defaultConfig())

	require.NoError(t, step())
	assert.Equal(t, plot.DefaultTheme.Background, hal.ColorAt(h.Display().Framebuffer(), 0, 0))

	before := h.snapshot()
	require.NoError(t, step())
	assert.False(t, h.changedSince(before), "idle step must not redraw")
}

func TestStep_QuitKeys(t *testing.T) {
	tcs := []struct {
		name string
		send func(h *testHAL)
	}{
		{name: "q", send: func(h *testHAL) { h.typeRune('q') }},
		{name: "Q", send: func(h *testHAL) { h.typeRune('Q') }},
		{name: "escape", send: func(h *testHAL) { h.press(hal.KeyEscape) }},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHAL()
			step := New(h, defaultConfig())
			require.NoError(t, step())

			tc.send(h)
			assert.ErrorIs(t, step(), hal.ErrQuit)
		})
	}
}

func TestStep_ArrowOrbitsWhileHeld(t *testing.T) {
	h := newTestHAL()
	s := newSession(h, defaultConfig())
	require.NoError(t, s.step())

	h.press(hal.KeyRight)
	require.NoError(t, s.step())
	yaw1 := s.figure.View.Yaw
	assert.InDelta(t, defaultView.Yaw+rotateStep, yaw1, 1e-12)

	before := h.snapshot()
	require.NoError(t, s.step())
	assert.InDelta(t, defaultView.Yaw+2*rotateStep, s.figure.View.Yaw, 1e-12)
	assert.True(t, h.changedSince(before))

	h.release(hal.KeyRight)
	require.NoError(t, s.step())
	yaw := s.figure.View.Yaw
	require.NoError(t, s.step())
	assert.Equal(t, yaw, s.figure.View.Yaw)

	h.press(hal.KeyUp)
	require.NoError(t, s.step())
	assert.InDelta(t, defaultView.Pitch+rotateStep, s.figure.View.Pitch, 1e-12)
}

func TestStep_ZoomAndReset(t *testing.T) {
	h := newTestHAL()
	s := newSession(h, defaultConfig())
	require.NoError(t, s.step())

	h.typeRune('+')
	require.NoError(t, s.step())
	assert.InDelta(t, zoomStep, s.figure.View.Zoom, 1e-12)

	h.typeRune('-')
	h.typeRune('-')
	require.NoError(t, s.step())
	assert.InDelta(t, 1/zoomStep, s.figure.View.Zoom, 1e-12)

	h.press(hal.KeyLeft)
	require.NoError(t, s.step())
	h.release(hal.KeyLeft)
	h.typeRune('r')
	require.NoError(t, s.step())
	assert.Equal(t, defaultView, s.figure.View)

	h.press(hal.KeyPageUp)
	h.release(hal.KeyPageUp)
	require.NoError(t, s.step())
	assert.InDelta(t, zoomStep, s.figure.View.Zoom, 1e-12)

	h.press(hal.KeyEnter)
	h.release(hal.KeyEnter)
	require.NoError(t, s.step())
	assert.Equal(t, defaultView, s.figure.View)
}

func TestStep_Reload(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	reload := make(chan *config.Config, 1)
	var out bytes.Buffer

	cfg := defaultConfig()
	cfg.Reload = reload
	cfg.Out = &out
	cfg.Log = zap.New(core)

	h := newTestHAL()
	s := newSession(h, cfg)
	require.NoError(t, s.step())

	// Orbit first; a reload with the same view keeps the camera.
	h.press(hal.KeyRight)
	require.NoError(t, s.step())
	h.release(hal.KeyRight)
	require.NoError(t, s.step())
	orbited := s.figure.View

	next := config.Defaults()
	next.Space = config.SpaceConfig{X: 6, Y: 8}
	next.Lang = report.LangEN
	reload <- next

	before := h.snapshot()
	require.NoError(t, s.step())
	assert.True(t, h.changedSince(before))

	assert.InDelta(t, 10, s.cfg.Result.CT, 1e-12)
	assert.True(t, s.cfg.Result.Holds)
	assert.Equal(t, orbited, s.figure.View)
	assert.Equal(t, "Photon path", s.figure.Series[0].Label)
	assert.Equal(t, []plot.Vec3{{}, {X: 6, Z: 10}, {Y: 8, Z: 10}}, s.figure.Series[0].Points)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"Proof of the Pythagorean theorem in spacetime:",
		"Length of the hypotenuse (ct): 10.00",
		"Sum of the squares of the legs (x² + y²): 100.00",
		"Does the Pythagorean theorem hold? Yes",
	}, lines)
	assert.Equal(t, 1, logs.FilterMessage("app: inputs reloaded").Len())

	// A new configured view replaces the camera.
	moved := config.Defaults()
	moved.View.Yaw = 1
	reload <- moved
	require.NoError(t, s.step())
	assert.Equal(t, plot.View{Yaw: 1, Pitch: config.DefaultPitch, Zoom: config.DefaultZoom}, s.figure.View)

	close(reload)
	require.NoError(t, s.step())
	assert.Nil(t, s.cfg.Reload)
}

func TestNew_WithoutFramebuffer(t *testing.T) {
	step := New(nil, defaultConfig())
	assert.NoError(t, step())
}

func TestRunHeadless(t *testing.T) {
	err := hal.RunHeadless(context.Background(), hal.Options{Width: 96, Height: 72}, func(h hal.HAL) func() error {
		return New(h, defaultConfig())
	}, hal.HeadlessConfig{Hz: 1000, Ticks: 3})
	assert.NoError(t, err)
}
