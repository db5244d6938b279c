// Package app wires the viewer task to a HAL.
package app

import (
	"context"
	"errors"

	"github.com/Raysphere24/HenonViewer4D/hal"
	"github.com/Raysphere24/HenonViewer4D/henon/logger"
	"github.com/Raysphere24/HenonViewer4D/henon/tasks/viewer"
	"github.com/Raysphere24/HenonViewer4D/internal/buildinfo"
)

type system struct {
	h    hal.HAL
	cfg  Config
	log  *logger.Logger
	task *viewer.Task

	// fatal is set once the viewer hits an unrecoverable error. The error
	// screen stays up until Escape.
	fatal   error
	painted bool
}

// New builds and starts the viewer on h and returns the per-step function
// for the host runner.
func New(ctx context.Context, h hal.HAL, cfg Config) func() error {
	return newSystem(ctx, h, cfg).step
}

func newSystem(ctx context.Context, h hal.HAL, cfg Config) *system {
	log := logger.New(h.Logger(), "")
	s := &system{
		h:   h,
		cfg: cfg,
		log: log,
	}
	log.Printf("HenonViewer4D %s", buildinfo.String())

	s.task = viewer.New(h, log.With("viewer"), cfg.Viewer())
	if err := s.task.Start(ctx); err != nil {
		s.fail(err)
	}
	return s
}

func (s *system) step() error {
	if s.fatal != nil {
		return s.fatalStep()
	}
	err := s.task.Step()
	if err == nil {
		return nil
	}
	if errors.Is(err, hal.ErrQuit) {
		s.task.Close()
		return err
	}
	s.fail(err)
	return s.fatalStep()
}

func (s *system) fail(err error) {
	s.fatal = err
	s.task.Close()
	s.log.Printf("fatal: %v", err)
}

func (s *system) fatalStep() error {
	if s.cfg.ExitOnFatal {
		return s.fatal
	}
	if !s.painted {
		s.painted = true
		paintFatal(s.h, s.fatal)
	}
	in := s.h.Input()
	if in == nil {
		return nil
	}
	kbd := in.Keyboard()
	if kbd == nil {
		return nil
	}
	for {
		select {
		case ev := <-kbd.Events():
			if ev.Press && ev.Code == hal.KeyEscape {
				return s.fatal
			}
		default:
			return nil
		}
	}
}
