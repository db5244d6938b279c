package viewer

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Raysphere24/HenonViewer4D/hal"
	"github.com/Raysphere24/HenonViewer4D/henon/hypergl"
	"github.com/Raysphere24/HenonViewer4D/henon/logger"
	"github.com/Raysphere24/HenonViewer4D/henon/mesh"
	"github.com/Raysphere24/HenonViewer4D/henon/orient"
)

func testConfig() Config {
	return Config{
		BoundY:       2.5,
		EyeDistance:  5,
		DragDivisor:  128,
		WheelDivisor: -256,
		Mode:         orient.ModeXYZ,
		ClearColor:   hypergl.RGB(0, 0, 0),
		Color:        hypergl.RGB(0xFF, 0xFF, 0xFF),
		Depth:        true,
		ConsoleLines: 4,
	}
}

func startTask(t *testing.T, h *fakeHAL, cfg Config) *Task {
	t.Helper()
	task := New(h, logger.New(h.log, "viewer"), cfg)
	if err := task.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(task.Close)
	return task
}

func step(t *testing.T, task *Task) {
	t.Helper()
	if err := task.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
}

func encodeMesh(verts ...hypergl.Vec4) []byte {
	out := make([]byte, len(verts)*mesh.Stride)
	for i, v := range verts {
		for c := 0; c < 4; c++ {
			binary.LittleEndian.PutUint32(out[i*mesh.Stride+c*4:], math.Float32bits(v[c]))
		}
	}
	return out
}

// stepUntil steps the task until cond holds or a deadline passes.
func stepUntil(t *testing.T, task *Task, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		step(t, task)
		time.Sleep(time.Millisecond)
	}
}

func TestFirstStepRendersOnce(t *testing.T) {
	h := newFakeHAL(16, 16)
	task := startTask(t, h, testConfig())

	step(t, task)
	if h.fb.presents != 1 {
		t.Fatalf("expected 1 present, got %d", h.fb.presents)
	}
	step(t, task)
	if h.fb.presents != 1 {
		t.Fatalf("expected no redraw without changes, got %d presents", h.fb.presents)
	}
}

func TestPointerDeltasCoalesce(t *testing.T) {
	h := newFakeHAL(16, 16)
	task := startTask(t, h, testConfig())
	step(t, task)

	moves := [][2]float32{{12, 0}, {0, -30}, {5, 7}}
	want := hypergl.Identity()
	for _, m := range moves {
		h.ptr <- hal.PointerEvent{Kind: hal.PointerDrag, DX: m[0], DY: m[1]}
		dx, dy := m[0]/128, m[1]/128
		ds := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		want = hypergl.Mul(want, orient.Delta(dx/ds, dy/ds, ds, orient.ModeXYZ))
	}
	step(t, task)

	if h.fb.presents != 2 {
		t.Fatalf("expected one render for three deltas, got %d presents", h.fb.presents)
	}
	if !hypergl.ApproxEqual(task.View(), want, 1e-5) {
		t.Fatalf("view\nhave %v\nwant %v", task.View(), want)
	}
}

func TestZeroPointerDeltaDoesNotRedraw(t *testing.T) {
	h := newFakeHAL(16, 16)
	task := startTask(t, h, testConfig())
	step(t, task)

	h.ptr <- hal.PointerEvent{Kind: hal.PointerDrag}
	h.ptr <- hal.PointerEvent{Kind: hal.PointerWheel}
	step(t, task)
	if h.fb.presents != 1 {
		t.Fatalf("zero deltas caused a redraw (%d presents)", h.fb.presents)
	}
	if task.View() != hypergl.Identity() {
		t.Fatal("zero deltas changed the view")
	}
}

func TestWheelUsesWheelDivisor(t *testing.T) {
	h := newFakeHAL(16, 16)
	task := startTask(t, h, testConfig())

	h.ptr <- hal.PointerEvent{Kind: hal.PointerWheel, DY: 100}
	step(t, task)

	dy := float32(100) / -256
	want := orient.Delta(0, -1, -dy, orient.ModeXYZ)
	if !hypergl.ApproxEqual(task.View(), want, 1e-5) {
		t.Fatalf("view\nhave %v\nwant %v", task.View(), want)
	}
}

func TestKeys(t *testing.T) {
	h := newFakeHAL(16, 16)
	task := startTask(t, h, testConfig())
	step(t, task)

	h.keys <- hal.KeyEvent{Press: true, Rune: '1'}
	step(t, task)
	if task.Mode() != orient.ModeXZW {
		t.Fatalf("expected xzw, got %v", task.Mode())
	}
	if h.fb.presents != 2 {
		t.Fatalf("mode change should redraw the HUD, got %d presents", h.fb.presents)
	}

	h.keys <- hal.KeyEvent{Press: true, Rune: '2'}
	h.keys <- hal.KeyEvent{Press: false, Code: hal.KeyEscape}
	step(t, task)
	if task.Mode() != orient.ModeXYW {
		t.Fatalf("expected xyw, got %v", task.Mode())
	}

	h.keys <- hal.KeyEvent{Press: true, Code: hal.KeyRight}
	step(t, task)
	want := orient.Delta(1, 0, float32(arrowStep)/128, orient.ModeXYW)
	if !hypergl.ApproxEqual(task.View(), want, 1e-5) {
		t.Fatalf("arrow key view\nhave %v\nwant %v", task.View(), want)
	}

	h.keys <- hal.KeyEvent{Press: true, Code: hal.KeyEscape}
	if err := task.Step(); !errors.Is(err, hal.ErrQuit) {
		t.Fatalf("expected ErrQuit, got %v", err)
	}
}

func TestConsoleToggle(t *testing.T) {
	h := newFakeHAL(64, 64)
	task := startTask(t, h, testConfig())
	step(t, task)
	before := h.fb.lit()

	h.keys <- hal.KeyEvent{Press: true, Code: hal.KeyF1}
	step(t, task)
	if !task.showConsole {
		t.Fatal("expected console visible")
	}
	if h.fb.lit() <= before {
		t.Fatal("expected console text on screen")
	}
	if got := task.console.recent(); len(got) == 0 {
		t.Fatal("expected console history")
	}
}

func TestLoadInitialModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "depth42.4pa")
	data := encodeMesh(hypergl.V4(0, 0, 0, 0), hypergl.V4(1, 1, 0, 0), hypergl.V4(-1, 0, 0, 1))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	h := newFakeHAL(32, 32)
	cfg := testConfig()
	cfg.Model = path
	cfg.HUD = true
	task := startTask(t, h, cfg)

	stepUntil(t, task, func() bool { return task.Mesh() != nil })
	if task.Mesh().Len() != 3 || task.Mesh().Topology != mesh.Points {
		t.Fatalf("unexpected mesh: %d vertices, %v", task.Mesh().Len(), task.Mesh().Topology)
	}
	if !h.log.contains("3 vertices") {
		t.Fatalf("expected vertex count in log, got %q", h.log.lines)
	}
	if h.fb.lit() == 0 {
		t.Fatal("expected rendered pixels")
	}
}

func TestDropsKeepMeshOnFailure(t *testing.T) {
	h := newFakeHAL(32, 32)
	task := startTask(t, h, testConfig())

	fsys := fstest.MapFS{
		"good.4la": &fstest.MapFile{Data: encodeMesh(hypergl.V4(0, 0, 0, 0), hypergl.V4(1, 0, 0, 0))},
		"bad.4la":  &fstest.MapFile{Data: make([]byte, 17)},
		"note.txt": &fstest.MapFile{Data: []byte("hi")},
	}
	h.drops <- hal.FileDrop{FS: fsys, Name: "good.4la"}
	stepUntil(t, task, func() bool { return task.Mesh() != nil })
	good := task.Mesh()

	h.drops <- hal.FileDrop{FS: fsys, Name: "note.txt"}
	step(t, task)
	if !h.log.contains("ignored note.txt") {
		t.Fatalf("expected unsupported drop to be logged, got %q", h.log.lines)
	}
	if task.Loading() {
		t.Fatal("unsupported drop started a load")
	}

	h.drops <- hal.FileDrop{FS: fsys, Name: "bad.4la"}
	stepUntil(t, task, func() bool { return !task.Loading() && h.log.contains("load failed") })
	if task.Mesh() != good {
		t.Fatal("failed load replaced the mesh")
	}
}

func TestResizeRecomputesProjection(t *testing.T) {
	h := newFakeHAL(20, 10)
	task := startTask(t, h, testConfig())
	if got := task.Projection()[0]; math.Abs(float64(got-1)) > 1e-6 {
		t.Fatalf("expected xx=1 for aspect 2, got %v", got)
	}

	h.fb.resize(10, 10)
	step(t, task)
	if got := task.Projection(); !hypergl.ApproxEqual(got, hypergl.Projection(1, 2.5, 5), 1e-6) {
		t.Fatalf("projection after resize\nhave %v", got)
	}
}

func TestStartFailsOnEmptyFramebuffer(t *testing.T) {
	h := newFakeHAL(0, 0)
	task := New(h, logger.New(h.log, "viewer"), testConfig())
	if err := task.Start(context.Background()); !errors.Is(err, hypergl.ErrShaderLink) {
		t.Fatalf("expected ErrShaderLink, got %v", err)
	}
}

type failingBackend struct{ err error }

func (b failingBackend) Prepare() error            { return nil }
func (b failingBackend) Draw(*hypergl.Frame) error { return b.err }

func TestDrawErrorIsFatal(t *testing.T) {
	h := newFakeHAL(8, 8)
	task := New(h, logger.New(h.log, "viewer"), testConfig())
	task.SetBackend(func(hypergl.Target, bool) hypergl.Backend {
		return failingBackend{err: hypergl.ErrShaderCompile}
	})
	if err := task.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := task.Step(); !errors.Is(err, hypergl.ErrShaderCompile) {
		t.Fatalf("expected ErrShaderCompile, got %v", err)
	}
}

func TestGroupDigits(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}
	for _, tt := range tests {
		if got := groupDigits(tt.n); got != tt.want {
			t.Fatalf("groupDigits(%d): expected %q, got %q", tt.n, tt.want, got)
		}
	}
}

func TestFrameCounter(t *testing.T) {
	var c frameCounter
	c.add(100)
	c.add(600)
	c.add(1050)
	if got := c.rate(1050); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := c.rate(1100); got != 2 {
		t.Fatalf("expected 2 after the window moved, got %d", got)
	}
}
