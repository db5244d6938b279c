// Package viewer is the interactive 4D mesh viewer task.
//
// The task runs entirely inside the host's step: each Step drains input,
// applies rotations, swaps in finished mesh loads and renders at most once.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Raysphere24/HenonViewer4D/hal"
	"github.com/Raysphere24/HenonViewer4D/henon/hypergl"
	"github.com/Raysphere24/HenonViewer4D/henon/logger"
	"github.com/Raysphere24/HenonViewer4D/henon/mesh"
	"github.com/Raysphere24/HenonViewer4D/henon/orient"
)

// Config is the viewer's runtime configuration.
type Config struct {
	BoundY      float32
	EyeDistance float32

	DragDivisor  float32
	WheelDivisor float32
	Mode         orient.Mode

	Model       string
	MaxBytes    int64
	HTTPTimeout time.Duration

	ClearColor hypergl.Color
	Color      hypergl.Color
	Depth      bool

	HUD          bool
	Console      bool
	ConsoleLines int
}

// arrowStep is the pointer distance, in pixels, one arrow key press rotates
// by.
const arrowStep = 16

type Task struct {
	h   hal.HAL
	log *logger.Logger
	cfg Config

	ctx context.Context

	fb     hal.Framebuffer
	width  int
	height int
	target hypergl.RGB565Target

	backend hypergl.Backend
	proj    hypergl.Mat4

	state *orient.State
	mode  orient.Mode

	loader  *mesh.Loader
	client  *http.Client
	current *mesh.Buffer
	loading string

	hud         *hud
	console     *console
	showConsole bool

	now    uint64
	frames frameCounter

	started bool
}

func New(h hal.HAL, log *logger.Logger, cfg Config) *Task {
	if cfg.DragDivisor == 0 {
		cfg.DragDivisor = 128
	}
	if cfg.WheelDivisor == 0 {
		cfg.WheelDivisor = -256
	}
	t := &Task{
		h:       h,
		log:     log,
		cfg:     cfg,
		state:   orient.New(),
		mode:    cfg.Mode,
		loader:  mesh.NewLoader(cfg.MaxBytes),
		client:  &http.Client{Timeout: cfg.HTTPTimeout},
		hud:     &hud{},
		console: newConsole(cfg.ConsoleLines),
	}
	t.showConsole = cfg.Console
	return t
}

// SetBackend replaces the software renderer. It must be called before
// Start. The backend draws into the target passed to newBackend.
func (t *Task) SetBackend(newBackend func(target hypergl.Target, depth bool) hypergl.Backend) {
	t.backend = newBackend(&t.target, t.cfg.Depth)
}

// Start binds the framebuffer, prepares the backend and requests the initial
// model. A backend preparation error is fatal.
func (t *Task) Start(ctx context.Context) error {
	if t.h == nil || t.h.Display() == nil || t.h.Display().Framebuffer() == nil {
		return errors.New("viewer: no framebuffer")
	}
	t.ctx = ctx
	t.fb = t.h.Display().Framebuffer()
	if t.fb.Format() != hal.PixelFormatRGB565 {
		return fmt.Errorf("viewer: unsupported pixel format %d", t.fb.Format())
	}
	if t.backend == nil {
		r := hypergl.NewRenderer(&t.target, t.cfg.Depth)
		r.ClearColor = t.cfg.ClearColor
		r.Color = t.cfg.Color
		t.backend = r
	}
	if err := t.Resize(t.fb.Width(), t.fb.Height()); err != nil {
		return err
	}
	t.console.attach(t.log)
	t.started = true

	t.log.Printf("mode %s, backend ready (%dx%d)", t.mode, t.width, t.height)
	if t.cfg.Model != "" {
		t.request(mesh.SourceFor(t.cfg.Model, t.client))
	}
	return nil
}

// Resize rebinds the target to the framebuffer and recomputes the
// projection for the new aspect ratio.
func (t *Task) Resize(w, h int) error {
	t.width, t.height = w, h
	t.target = hypergl.RGB565Target{
		Buf:    t.fb.Buffer(),
		Stride: t.fb.StrideBytes(),
		W:      w,
		H:      h,
	}
	if err := t.backend.Prepare(); err != nil {
		return fmt.Errorf("viewer: prepare backend: %w", err)
	}
	t.proj = hypergl.Projection(float32(w)/float32(h), t.cfg.BoundY, t.cfg.EyeDistance)
	t.console.resize(w)
	t.state.Redraw().Request()
	return nil
}

// Step runs one host tick. It returns hal.ErrQuit when the user asks to
// leave and a non-nil error for fatal backend failures.
func (t *Task) Step() error {
	if !t.started {
		return errors.New("viewer: step before start")
	}
	if w, h := t.fb.Width(), t.fb.Height(); w != t.width || h != t.height || len(t.fb.Buffer()) != len(t.target.Buf) {
		if err := t.Resize(w, h); err != nil {
			return err
		}
	}

	t.drainTicks()
	if err := t.drainKeys(); err != nil {
		return err
	}
	t.drainPointer()
	t.drainDrops()
	t.pollLoad()

	if t.showConsole && t.console.takeDirty() {
		t.state.Redraw().Request()
	}
	if !t.state.Redraw().Take() {
		return nil
	}
	return t.render()
}

// Close cancels any load in flight and detaches the console.
func (t *Task) Close() {
	t.loader.Close()
	t.log.SetSink(nil)
}

func (t *Task) Mode() orient.Mode        { return t.mode }
func (t *Task) View() hypergl.Mat4       { return t.state.View() }
func (t *Task) Projection() hypergl.Mat4 { return t.proj }
func (t *Task) Mesh() *mesh.Buffer       { return t.current }
func (t *Task) Loading() bool            { return t.loader.Pending() }

func (t *Task) drainTicks() {
	tm := t.h.Time()
	if tm == nil {
		return
	}
	for {
		select {
		case now := <-tm.Ticks():
			if now > t.now {
				t.now = now
			}
		default:
			return
		}
	}
}

func (t *Task) drainKeys() error {
	kbd := t.h.Input().Keyboard()
	if kbd == nil {
		return nil
	}
	for {
		select {
		case ev := <-kbd.Events():
			if !ev.Press {
				continue
			}
			if err := t.handleKey(ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (t *Task) handleKey(ev hal.KeyEvent) error {
	switch ev.Code {
	case hal.KeyEscape:
		return hal.ErrQuit
	case hal.KeyF1:
		t.showConsole = !t.showConsole
		t.state.Redraw().Request()
		return nil
	case hal.KeyLeft:
		t.rotate(-arrowStep, 0, t.cfg.DragDivisor)
		return nil
	case hal.KeyRight:
		t.rotate(arrowStep, 0, t.cfg.DragDivisor)
		return nil
	case hal.KeyUp:
		t.rotate(0, -arrowStep, t.cfg.DragDivisor)
		return nil
	case hal.KeyDown:
		t.rotate(0, arrowStep, t.cfg.DragDivisor)
		return nil
	}

	switch ev.Rune {
	case '1', '2', '3':
		m, _ := orient.ParseMode(string(ev.Rune))
		t.setMode(m)
	}
	return nil
}

func (t *Task) setMode(m orient.Mode) {
	if m == t.mode {
		return
	}
	t.mode = m
	t.log.Printf("mode %s", m)
	t.state.Redraw().Request()
}

func (t *Task) drainPointer() {
	ptr := t.h.Input().Pointer()
	if ptr == nil {
		return
	}
	for {
		select {
		case ev := <-ptr.Events():
			switch ev.Kind {
			case hal.PointerDrag, hal.PointerTouch:
				t.rotate(ev.DX, ev.DY, t.cfg.DragDivisor)
			case hal.PointerWheel:
				t.rotate(ev.DX, ev.DY, t.cfg.WheelDivisor)
			}
		default:
			return
		}
	}
}

func (t *Task) rotate(dx, dy, divisor float32) {
	dx, dy = orient.Scale(dx, dy, divisor)
	t.state.ApplyDelta(dx, dy, t.mode)
}

func (t *Task) drainDrops() {
	d := t.h.Input().Dropper()
	if d == nil {
		return
	}
	for {
		select {
		case ev := <-d.Drops():
			t.request(mesh.FSSource(ev.FS, ev.Name))
		default:
			return
		}
	}
}

func (t *Task) request(src mesh.Source) {
	gen, err := t.loader.Request(t.ctx, src)
	if err != nil {
		t.log.Printf("ignored %s: %v", src.Name, err)
		return
	}
	t.loading = src.Name
	t.log.Printf("loading %s (#%d)", src.Name, gen)
	t.state.Redraw().Request()
}

func (t *Task) pollLoad() {
	res, ok := t.loader.Poll()
	if !ok {
		return
	}
	t.loading = ""
	t.state.Redraw().Request()
	if res.Err != nil {
		t.log.Printf("load failed: %v", res.Err)
		return
	}
	t.current = res.Buffer
	t.log.Printf("loaded %s: %s vertices, %s", res.Name, groupDigits(res.Buffer.Len()), res.Buffer.Topology)
}

func (t *Task) render() error {
	f := &hypergl.Frame{View: t.state.View(), Proj: t.proj}
	if t.current != nil {
		f.Vertices = t.current.Vertices
		f.Primitive = t.current.Topology.Primitive()
	}
	if err := t.backend.Draw(f); err != nil {
		return fmt.Errorf("viewer: draw: %w", err)
	}
	t.frames.add(t.now)

	if t.cfg.HUD {
		t.hud.draw(&t.target, t.hudLines())
	}
	if t.showConsole {
		t.console.blit(&t.target)
	}
	return t.fb.Present()
}
