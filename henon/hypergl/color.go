package hypergl

import "image/color"

// Color is an RGBA color in 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 0xFF} }

// ToRGBA returns c as an image/color value.
func (c Color) ToRGBA() color.RGBA { return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A} }

// RGB565 packs c as rrrrrggggggbbbbb.
func (c Color) RGB565() uint16 {
	return uint16((uint16(c.R>>3)&0x1F)<<11 | (uint16(c.G>>2)&0x3F)<<5 | (uint16(c.B>>3) & 0x1F))
}

// FromRGB565 expands a packed pixel to 8-bit channels, opaque.
func FromRGB565(p uint16) Color {
	r := (p >> 11) & 0x1F
	g := (p >> 5) & 0x3F
	b := p & 0x1F
	return RGB(uint8(r*255/31), uint8(g*255/63), uint8(b*255/31))
}
