package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Raysphere24/HenonViewer4D/hal"
	"github.com/Raysphere24/HenonViewer4D/henon/hypergl"
)

type testFB struct {
	w, h     int
	buf      []byte
	presents int
}

func (f *testFB) Width() int              { return f.w }
func (f *testFB) Height() int             { return f.h }
func (f *testFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *testFB) StrideBytes() int        { return f.w * 2 }
func (f *testFB) Buffer() []byte          { return f.buf }

func (f *testFB) ClearRGB(r, g, b uint8) {
	p := hypergl.RGB(r, g, b).RGB565()
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i] = byte(p)
		f.buf[i+1] = byte(p >> 8)
	}
}

func (f *testFB) Present() error {
	f.presents++
	return nil
}

type testLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *testLog) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *testLog) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *testLog) contains(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.lines {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type testHAL struct {
	fb   *testFB
	log  *testLog
	keys chan hal.KeyEvent
}

func newTestHAL(w, h int) *testHAL {
	return &testHAL{
		fb:   &testFB{w: w, h: h, buf: make([]byte, w*h*2)},
		log:  &testLog{},
		keys: make(chan hal.KeyEvent, 8),
	}
}

func (h *testHAL) Logger() hal.Logger   { return h.log }
func (h *testHAL) Display() hal.Display { return h }
func (h *testHAL) Input() hal.Input     { return h }
func (h *testHAL) Time() hal.Time       { return nil }

func (h *testHAL) Framebuffer() hal.Framebuffer { return h.fb }
func (h *testHAL) Keyboard() hal.Keyboard       { return h }
func (h *testHAL) Pointer() hal.Pointer         { return nil }
func (h *testHAL) Dropper() hal.Dropper         { return nil }

func (h *testHAL) Events() <-chan hal.KeyEvent { return h.keys }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Model.Path = ""
	return cfg
}

func TestAppRunsAndQuits(t *testing.T) {
	h := newTestHAL(32, 32)
	step := New(context.Background(), h, testConfig())

	if err := step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.fb.presents != 1 {
		t.Fatalf("expected one present, got %d", h.fb.presents)
	}
	if !h.log.contains("HenonViewer4D") {
		t.Fatal("expected version banner in the log")
	}

	h.keys <- hal.KeyEvent{Code: hal.KeyEscape, Press: true}
	if err := step(); !errors.Is(err, hal.ErrQuit) {
		t.Fatalf("expected ErrQuit, got %v", err)
	}
}

func TestAppExitOnFatal(t *testing.T) {
	h := newTestHAL(0, 0)
	cfg := testConfig()
	cfg.ExitOnFatal = true
	step := New(context.Background(), h, cfg)

	if err := step(); !errors.Is(err, hypergl.ErrShaderLink) {
		t.Fatalf("expected ErrShaderLink, got %v", err)
	}
	if !h.log.contains("fatal:") {
		t.Fatal("expected fatal error in the log")
	}
}

type brokenBackend struct{}

func (brokenBackend) Prepare() error { return nil }

func (brokenBackend) Draw(*hypergl.Frame) error { return errors.New("lost device") }

func TestAppFatalScreenWaitsForEscape(t *testing.T) {
	h := newTestHAL(64, 48)
	s := newSystem(context.Background(), h, testConfig())
	s.task.SetBackend(func(hypergl.Target, bool) hypergl.Backend { return brokenBackend{} })

	if err := s.step(); err != nil {
		t.Fatalf("fatal screen should hold the run, got %v", err)
	}
	if s.fatal == nil || !strings.Contains(s.fatal.Error(), "lost device") {
		t.Fatalf("expected fatal draw error, got %v", s.fatal)
	}
	if h.fb.presents != 1 {
		t.Fatalf("expected the error screen presented once, got %d", h.fb.presents)
	}
	bg := fatalBG.RGB565()
	var other int
	for i := 0; i+1 < len(h.fb.buf); i += 2 {
		if uint16(h.fb.buf[i])|uint16(h.fb.buf[i+1])<<8 != bg {
			other++
		}
	}
	if other == 0 {
		t.Fatal("expected error text on the screen")
	}

	if err := s.step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.fb.presents != 1 {
		t.Fatal("error screen must not be repainted")
	}

	h.keys <- hal.KeyEvent{Code: hal.KeyEnter, Press: true}
	h.keys <- hal.KeyEvent{Code: hal.KeyEscape, Press: true}
	if err := s.step(); err == nil || errors.Is(err, hal.ErrQuit) {
		t.Fatalf("expected the fatal error on Escape, got %v", err)
	}
}

func TestFatalLines(t *testing.T) {
	lines := fatalLines(errors.New("first\nsecond"))
	if lines[0] != "HenonViewer4D: fatal error" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	joined := strings.Join(lines, "|")
	if !strings.Contains(joined, "|first|second|") {
		t.Fatalf("expected message lines, got %q", joined)
	}
	if lines[len(lines)-1] != "press Esc to exit" {
		t.Fatalf("unexpected footer %q", lines[len(lines)-1])
	}
}
