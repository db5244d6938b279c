package viewer

import (
	"strings"
	"sync"

	"github.com/Raysphere24/HenonViewer4D/hal"
)

type fakeFB struct {
	w, h     int
	buf      []byte
	presents int
}

func newFakeFB(w, h int) *fakeFB {
	return &fakeFB{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *fakeFB) Width() int              { return f.w }
func (f *fakeFB) Height() int             { return f.h }
func (f *fakeFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *fakeFB) StrideBytes() int        { return f.w * 2 }
func (f *fakeFB) Buffer() []byte          { return f.buf }
func (f *fakeFB) ClearRGB(r, g, b uint8)  {}

func (f *fakeFB) Present() error {
	f.presents++
	return nil
}

func (f *fakeFB) resize(w, h int) {
	f.w, f.h = w, h
	f.buf = make([]byte, w*h*2)
}

func (f *fakeFB) lit() int {
	n := 0
	for i := 0; i+1 < len(f.buf); i += 2 {
		if f.buf[i] != 0 || f.buf[i+1] != 0 {
			n++
		}
	}
	return n
}

type fakeLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *fakeLog) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *fakeLog) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *fakeLog) contains(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.lines {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type fakeHAL struct {
	fb    *fakeFB
	log   *fakeLog
	keys  chan hal.KeyEvent
	ptr   chan hal.PointerEvent
	drops chan hal.FileDrop
	ticks chan uint64
}

func newFakeHAL(w, h int) *fakeHAL {
	return &fakeHAL{
		fb:    newFakeFB(w, h),
		log:   &fakeLog{},
		keys:  make(chan hal.KeyEvent, 16),
		ptr:   make(chan hal.PointerEvent, 16),
		drops: make(chan hal.FileDrop, 4),
		ticks: make(chan uint64, 16),
	}
}

func (h *fakeHAL) Logger() hal.Logger   { return h.log }
func (h *fakeHAL) Display() hal.Display { return h }
func (h *fakeHAL) Input() hal.Input     { return h }
func (h *fakeHAL) Time() hal.Time       { return h }

func (h *fakeHAL) Framebuffer() hal.Framebuffer { return h.fb }
func (h *fakeHAL) Keyboard() hal.Keyboard       { return h }
func (h *fakeHAL) Pointer() hal.Pointer         { return ptrEvents(h.ptr) }
func (h *fakeHAL) Dropper() hal.Dropper         { return h }
func (h *fakeHAL) Ticks() <-chan uint64         { return h.ticks }

func (h *fakeHAL) Events() <-chan hal.KeyEvent { return h.keys }
func (h *fakeHAL) Drops() <-chan hal.FileDrop  { return h.drops }

type ptrEvents chan hal.PointerEvent

func (p ptrEvents) Events() <-chan hal.PointerEvent { return p }
