package orient

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Raysphere24/HenonViewer4D/henon/hypergl"
)

// State is the accumulated 4D viewing orientation.
//
// It starts at identity and only ever changes by right-multiplying an
// incremental rotation, so the most recent delta is applied last.
type State struct {
	view   hypergl.Mat4
	redraw Redraw
}

// New returns an identity orientation with the first frame pending.
func New() *State {
	s := &State{view: hypergl.Identity()}
	s.redraw.Request()
	return s
}

func (s *State) View() hypergl.Mat4 { return s.view }

func (s *State) Redraw() *Redraw { return &s.redraw }

// ApplyDelta rotates the view by a pointer delta already scaled to radians.
// The delta magnitude is the rotation angle and its direction picks the axis.
//
// A zero or non-finite delta changes nothing and reports false. ApplyDelta
// panics on an invalid mode.
func (s *State) ApplyDelta(dx, dy float32, mode Mode) bool {
	ds := math32.Sqrt(dx*dx + dy*dy)
	if ds == 0 || math32.IsNaN(ds) || math32.IsInf(ds, 0) {
		return false
	}
	s.view = hypergl.Mul(s.view, Delta(dx/ds, dy/ds, ds, mode))
	s.redraw.Request()
	return true
}

// Delta returns the incremental rotation for a unit direction (ux, uy) and an
// angle in radians.
func Delta(ux, uy, angle float32, mode Mode) hypergl.Mat4 {
	switch mode {
	case ModeXZW:
		return hypergl.RotationW(hypergl.V3(ux, 0, -uy), angle)
	case ModeXYW:
		return hypergl.RotationW(hypergl.V3(ux, -uy, 0), angle)
	case ModeXYZ:
		return hypergl.Rotation3D(hypergl.V3(uy, ux, 0), angle)
	default:
		panic(fmt.Sprintf("orient: invalid mode %d", uint8(mode)))
	}
}

// Scale converts a raw pointer delta to radians. divisor must be nonzero; a
// negative divisor flips the direction.
func Scale(dx, dy, divisor float32) (float32, float32) {
	return dx / divisor, dy / divisor
}
