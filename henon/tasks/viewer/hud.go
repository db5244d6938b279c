package viewer

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/Raysphere24/HenonViewer4D/henon/hypergl"
	"github.com/Raysphere24/HenonViewer4D/henon/overlay"
	"github.com/Raysphere24/HenonViewer4D/internal/buildinfo"
)

var (
	hudColor  = color.RGBA{R: 0xE0, G: 0xE8, B: 0xFF, A: 0xFF}
	hudShadow = color.RGBA{A: 0xFF}
)

const (
	hudMargin = 4
	fpsWindow = 1000
)

type hud struct {
	d overlay.Display
}

func (h *hud) draw(dst *hypergl.RGB565Target, lines []string) {
	h.d.T = dst
	y := hudMargin
	for _, line := range lines {
		overlay.DrawLine(&h.d, hudMargin+1, y+1, line, hudShadow)
		overlay.DrawLine(&h.d, hudMargin, y, line, hudColor)
		y += overlay.LineHeight
	}
}

func (t *Task) hudLines() []string {
	lines := []string{"HenonViewer4D " + buildinfo.Short()}
	if t.current != nil {
		lines = append(lines, fmt.Sprintf("vertices: %s (%s)", groupDigits(t.current.Len()), t.current.Topology))
	} else {
		lines = append(lines, "vertices: -")
	}
	lines = append(lines, fmt.Sprintf("mode: %s  [1]xzw [2]xyw [3]xyz", t.mode))
	if t.loading != "" {
		lines = append(lines, "loading "+t.loading)
	}
	if fps := t.frames.rate(t.now); fps > 0 {
		lines = append(lines, fmt.Sprintf("fps: %d", fps))
	}
	return lines
}

// groupDigits formats n with thousands separators.
func groupDigits(n int) string {
	s := strconv.Itoa(n)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// frameCounter counts renders over the last fpsWindow ticks (milliseconds).
type frameCounter struct {
	ticks []uint64
}

func (c *frameCounter) add(now uint64) {
	c.ticks = append(c.ticks, now)
	c.trim(now)
}

func (c *frameCounter) trim(now uint64) {
	i := 0
	for i < len(c.ticks) && c.ticks[i]+fpsWindow <= now {
		i++
	}
	if i > 0 {
		c.ticks = append(c.ticks[:0], c.ticks[i:]...)
	}
}

func (c *frameCounter) rate(now uint64) int {
	c.trim(now)
	return len(c.ticks)
}
