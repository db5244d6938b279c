package hal

import (
	"errors"
	"io/fs"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// ErrQuit is returned by an app step to end the run cleanly.
var ErrQuit = errors.New("hal: quit")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
//
// The host may change its size between steps (window resize). Callers
// re-read Width, Height and Buffer at the start of each step.
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
	KeyF1
)

// KeyEvent is a keyboard event. Text input arrives with Code KeyUnknown and
// the typed Rune.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerKind tells where a pointer delta came from.
type PointerKind uint8

const (
	PointerDrag PointerKind = iota + 1
	PointerWheel
	PointerTouch
)

func (k PointerKind) String() string {
	switch k {
	case PointerDrag:
		return "drag"
	case PointerWheel:
		return "wheel"
	case PointerTouch:
		return "touch"
	default:
		return "unknown"
	}
}

// PointerEvent is a relative pointer movement in window pixels.
//
// Wheel deltas use the browser convention: about 100 per notch, positive
// when scrolling down or right.
type PointerEvent struct {
	Kind   PointerKind
	DX, DY float32
}

// Pointer provides mouse, wheel and touch movement.
type Pointer interface {
	Events() <-chan PointerEvent
}

// FileDrop is a file dropped onto the window.
type FileDrop struct {
	FS   fs.FS
	Name string
}

// Dropper provides dropped files, one event per drop.
type Dropper interface {
	Drops() <-chan FileDrop
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
	Dropper() Dropper
}

// Time provides a base tick stream.
//
// The tick duration is platform-defined.
type Time interface {
	Ticks() <-chan uint64
}

// HAL provides the only contact point between the viewer and the host.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Time() Time
}
