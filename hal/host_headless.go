package hal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
}

// RunHeadless runs the app against an off-screen framebuffer. It returns
// after cfg.Ticks steps (0 = until ctx ends) or when a step returns ErrQuit.
func RunHeadless(ctx context.Context, opts Options, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	_, err := runHeadless(ctx, opts, newApp, cfg)
	return err
}

func runHeadless(ctx context.Context, opts Options, newApp func(HAL) func() error, cfg HeadlessConfig) (*hostHAL, error) {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	h := newHost(opts.withDefaults())
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return h, fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return h, ctx.Err()
		case <-t.C:
			if step != nil {
				if err := step(); err != nil {
					if errors.Is(err, ErrQuit) {
						return h, nil
					}
					return h, err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return h, nil
			}
		}
	}
}
