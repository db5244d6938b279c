package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	ptr    *hostPointer
	drop   *hostDropper
	t      *hostTime
}

// New returns a host HAL with a width x height framebuffer, logging to
// stdout.
func New(width, height int) HAL {
	return newHost(width, height, os.Stdout)
}

func newHost(width, height int, logOut io.Writer) *hostHAL {
	log := &hostLogger{w: logOut}
	return &hostHAL{
		logger: log,
		fb:     newHostFramebuffer(width, height),
		kbd:    newHostKeyboard(log),
		ptr:    newHostPointer(log),
		drop:   newHostDropper(log),
		t:      newHostTime(),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{h: h} }
func (h *hostHAL) Time() Time       { return h.t }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	h *hostHAL
}

func (in hostInput) Keyboard() Keyboard { return in.h.kbd }
func (in hostInput) Pointer() Pointer   { return in.h.ptr }
func (in hostInput) Dropper() Dropper   { return in.h.drop }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
