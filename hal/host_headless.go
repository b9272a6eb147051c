//go:build !tinygo

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

// RunHeadless runs the OS without opening a window. On cancellation or after
// cfg.Ticks frames the app is shut down before RunHeadless returns.
func RunHeadless(ctx context.Context, newApp func(HAL) App, host HostConfig, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := newHostHAL(host)
	app := newApp(h)
	err := runFrames(ctx, h, app, d, cfg.Ticks)
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return errors.Join(err, h.shutdown(app))
}

func runFrames(ctx context.Context, h *hostHAL, app App, d time.Duration, limit uint64) error {
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.step()
			if app != nil {
				if err := app.Step(); err != nil {
					return err
				}
			}
			tick++
			if limit > 0 && tick >= limit {
				return nil
			}
		}
	}
}
