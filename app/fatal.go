package app

import (
	"fmt"
	"strings"

	"github.com/Raysphere24/HenonViewer4D/hal"
	"github.com/Raysphere24/HenonViewer4D/henon/hypergl"
	"github.com/Raysphere24/HenonViewer4D/henon/overlay"
)

var (
	fatalBG = hypergl.RGB(0x60, 0x00, 0x00)
	fatalFG = hypergl.RGB(0xFF, 0xFF, 0xFF).ToRGBA()
)

// fatalLines is the text of the error screen, before wrapping.
func fatalLines(err error) []string {
	lines := []string{"HenonViewer4D: fatal error", ""}
	for _, l := range strings.Split(fmt.Sprint(err), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return append(lines, "", "press Esc to exit")
}

// paintFatal draws err over the whole framebuffer and presents it.
func paintFatal(h hal.HAL, err error) {
	disp := h.Display()
	if disp == nil {
		return
	}
	fb := disp.Framebuffer()
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	w, ht := fb.Width(), fb.Height()
	if w <= 0 || ht <= 0 {
		return
	}
	fb.ClearRGB(fatalBG.R, fatalBG.G, fatalBG.B)

	tgt := &hypergl.RGB565Target{Buf: fb.Buffer(), Stride: fb.StrideBytes(), W: w, H: ht}
	d := overlay.NewDisplay(tgt)

	const margin = 4
	cols := (w - 2*margin) / overlay.CharWidth()
	y := margin
	for _, line := range fatalLines(err) {
		for _, chunk := range overlay.Wrap(line, cols) {
			if y+overlay.LineHeight > ht {
				_ = fb.Present()
				return
			}
			overlay.DrawLine(d, margin, y, chunk, fatalFG)
			y += overlay.LineHeight
		}
		if line == "" {
			y += overlay.LineHeight
		}
	}
	_ = fb.Present()
}
