package hal

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Width, Height int
	Hz            int
	Ticks         uint64
	// Snapshot, when set, is a path the final framebuffer is written to as
	// PNG.
	Snapshot string
}

// RunHeadless runs the app without opening a window. It returns nil after
// cfg.Ticks steps or when a step returns ErrQuit, and ctx.Err() when ctx
// ends first.
func RunHeadless(ctx context.Context, cfg HeadlessConfig, newApp func(HAL) func() error) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := New(cfg.Width, cfg.Height).(*hostHAL)
	err := runTicks(ctx, h, d, cfg.Ticks, newApp(h))
	if cfg.Snapshot != "" && (err == nil || errors.Is(err, context.Canceled)) {
		if serr := writeSnapshot(h.fb, cfg.Snapshot); serr != nil {
			return serr
		}
	}
	return err
}

func runTicks(ctx context.Context, h *hostHAL, d time.Duration, ticks uint64, step func() error) error {
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.t.step(1)
			if step != nil {
				if err := step(); err != nil {
					if errors.Is(err, ErrQuit) {
						return nil
					}
					return err
				}
			}
			tick++
			if ticks > 0 && tick >= ticks {
				return nil
			}
		}
	}
}

func writeSnapshot(fb *hostFramebuffer, path string) error {
	img := fb.snapshotRGBA(nil)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: %w", err)
	}
	return f.Close()
}
