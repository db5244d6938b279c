// Package overlay draws text over RGB565 surfaces with tinyfont.
package overlay

import (
	"image/color"

	"tinygo.org/x/drivers"

	"github.com/Raysphere24/HenonViewer4D/henon/hypergl"
)

// Display adapts an RGB565 target to the drivers.Displayer family used by
// tinyfont and tinyterm.
//
// SetScroll records the row shown at the top of the surface; Blit honors it.
type Display struct {
	T      *hypergl.RGB565Target
	scroll int
}

var _ drivers.Displayer = (*Display)(nil)

func NewDisplay(t *hypergl.RGB565Target) *Display {
	return &Display{T: t}
}

func (d *Display) Size() (x, y int16) {
	if d.T == nil {
		return 0, 0
	}
	return int16(d.T.W), int16(d.T.H)
}

func (d *Display) SetPixel(x, y int16, c color.RGBA) {
	if d.T == nil {
		return
	}
	d.T.SetPixel(int(x), int(y), hypergl.Color{R: c.R, G: c.G, B: c.B, A: c.A})
}

func (d *Display) Display() error { return nil }

func (d *Display) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.T == nil {
		return nil
	}
	x0 := clampInt(int(x), 0, d.T.W)
	y0 := clampInt(int(y), 0, d.T.H)
	x1 := clampInt(int(x)+int(width), 0, d.T.W)
	y1 := clampInt(int(y)+int(height), 0, d.T.H)
	col := hypergl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			d.T.SetPixel(px, py, col)
		}
	}
	return nil
}

func (d *Display) SetScroll(line int16) {
	if d.T == nil || d.T.H <= 0 {
		return
	}
	d.scroll = int(line) % d.T.H
	if d.scroll < 0 {
		d.scroll += d.T.H
	}
}

func (d *Display) SetRotation(drivers.Rotation) error { return nil }

// ScrollUp shifts the surface up by lines rows and fills the exposed rows
// with bg.
func (d *Display) ScrollUp(lines int16, bg color.RGBA) error {
	if d.T == nil || lines <= 0 {
		return nil
	}
	n := int(lines)
	if n >= d.T.H {
		return d.FillRectangle(0, 0, int16(d.T.W), int16(d.T.H), bg)
	}
	stride := d.T.Stride
	copy(d.T.Buf, d.T.Buf[n*stride:d.T.H*stride])
	return d.FillRectangle(0, int16(d.T.H-n), int16(d.T.W), int16(n), bg)
}

// Blit copies the surface into dst with its top-left corner at (x, y),
// starting from the scrolled-to row. Rows outside dst are skipped.
func (d *Display) Blit(dst *hypergl.RGB565Target, x, y int) {
	if d.T == nil || dst == nil {
		return
	}
	w := d.T.W
	if x < 0 || x >= dst.W {
		return
	}
	if x+w > dst.W {
		w = dst.W - x
	}
	for row := 0; row < d.T.H; row++ {
		dy := y + row
		if dy < 0 || dy >= dst.H {
			continue
		}
		sy := (row + d.scroll) % d.T.H
		src := d.T.Buf[sy*d.T.Stride : sy*d.T.Stride+w*2]
		off := dy*dst.Stride + x*2
		if off+len(src) > len(dst.Buf) {
			continue
		}
		copy(dst.Buf[off:], src)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
