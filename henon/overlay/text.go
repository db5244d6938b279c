package overlay

import (
	"image/color"
	"unicode/utf8"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Font metrics shared by the HUD, the console and the fatal screen.
var Font = &proggy.TinySZ8pt7b

const (
	LineHeight = 10
	Baseline   = 6
)

// CharWidth returns the advance of one glyph; the font is monospaced.
func CharWidth() int {
	_, w := tinyfont.LineWidth(Font, "0")
	if w == 0 {
		return 1
	}
	return int(w)
}

// DrawLine draws s with its top edge at y.
func DrawLine(d drivers.Displayer, x, y int, s string, c color.RGBA) {
	tinyfont.WriteLine(d, Font, int16(x), int16(y+Baseline), s, c)
}

// Wrap splits s into chunks of at most cols runes.
func Wrap(s string, cols int) []string {
	if cols <= 0 {
		cols = 1
	}
	var out []string
	for s != "" {
		i, n := 0, 0
		for i < len(s) && n < cols {
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size
			n++
		}
		out = append(out, s[:i])
		s = s[i:]
	}
	return out
}
