package viewer

import (
	"sync"

	"tinygo.org/x/tinyterm"

	"github.com/Raysphere24/HenonViewer4D/henon/hypergl"
	"github.com/Raysphere24/HenonViewer4D/henon/logger"
	"github.com/Raysphere24/HenonViewer4D/henon/overlay"
)

// console is an on-screen log panel. It receives every logger line and is
// drawn over the bottom of the frame while visible.
type console struct {
	mu sync.Mutex

	lines   int
	history []string

	target hypergl.RGB565Target
	d      *overlay.Display
	term   *tinyterm.Terminal
	dirty  bool
}

var _ logger.Sink = (*console)(nil)

func newConsole(lines int) *console {
	if lines <= 0 {
		lines = 8
	}
	return &console{lines: lines}
}

func (c *console) attach(log *logger.Logger) { log.SetSink(c) }

// resize rebuilds the terminal for a new frame width and replays the
// retained lines.
func (c *console) resize(w int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if w <= 0 || w == c.target.W {
		return
	}
	h := c.lines * overlay.LineHeight
	c.target = hypergl.RGB565Target{Buf: make([]byte, w*h*2), Stride: w * 2, W: w, H: h}
	c.d = overlay.NewDisplay(&c.target)
	c.term = tinyterm.NewTerminal(c.d)
	c.term.Configure(&tinyterm.Config{
		Font:       overlay.Font,
		FontHeight: overlay.LineHeight,
		FontOffset: overlay.Baseline,
	})
	for _, s := range c.history {
		c.write(s)
	}
	c.dirty = true
}

func (c *console) WriteLineString(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, s)
	if len(c.history) > c.lines {
		c.history = append(c.history[:0], c.history[len(c.history)-c.lines:]...)
	}
	if c.term != nil {
		c.write(s)
	}
	c.dirty = true
}

func (c *console) write(s string) {
	_, _ = c.term.Write([]byte("\n" + s))
}

func (c *console) takeDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.dirty
	c.dirty = false
	return d
}

func (c *console) blit(dst *hypergl.RGB565Target) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.d == nil {
		return
	}
	c.d.Blit(dst, 0, dst.H-c.target.H)
}

// recent returns a copy of the retained lines, oldest first.
func (c *console) recent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.history...)
}
