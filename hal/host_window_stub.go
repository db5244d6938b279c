//go:build !cgo

package hal

import "errors"

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Width, Height int
	Scale         int
	Title         string
	Tint          [3]float32
	TPS           int
}

func RunWindow(_ WindowConfig, _ func(h HAL) func() error) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
