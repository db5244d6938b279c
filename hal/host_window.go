//go:build cgo

package hal

import (
	"errors"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Raysphere24/HenonViewer4D/henon/hypergl"
)

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Width, Height int // framebuffer size in pixels
	Scale         int // window pixels per framebuffer pixel
	Title         string
	Tint          [3]float32 // multiplied into every presented pixel
	TPS           int
}

// presentShader samples the framebuffer image and applies the tint.
const presentShader = `//kage:unit pixels

package main

var Tint vec3

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	c := imageSrc0At(srcPos)
	return vec4(c.rgb*Tint, c.a)
}
`

// RunWindow starts a resizable desktop window that displays the framebuffer
// and forwards input. It blocks until the window closes or a step returns an
// error; ErrQuit ends the run without error.
func RunWindow(cfg WindowConfig, newApp func(HAL) func() error) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	if cfg.Tint == ([3]float32{}) {
		cfg.Tint = [3]float32{1, 1, 1}
	}

	shader, err := ebiten.NewShader([]byte(presentShader))
	if err != nil {
		return fmt.Errorf("%w: present: %v", hypergl.ErrShaderCompile, err)
	}

	h := New(cfg.Width, cfg.Height).(*hostHAL)
	g := &hostGame{
		h:      h,
		cfg:    cfg,
		shader: shader,
		input:  &ebitenInput{h: h, scale: float32(cfg.Scale)},
		wantW:  cfg.Width,
		wantH:  cfg.Height,
	}
	g.step = newApp(h)

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)

	err = ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type hostGame struct {
	h      *hostHAL
	cfg    WindowConfig
	shader *ebiten.Shader
	input  *ebitenInput
	step   func() error

	img   *image.RGBA
	fbImg *ebiten.Image

	wantW, wantH int
}

func (g *hostGame) Update() error {
	g.h.fb.resize(g.wantW, g.wantH)
	g.input.poll()
	g.h.t.step(1)
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrQuit) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	g.img = g.h.fb.snapshotRGBA(g.img)
	w, h := g.img.Bounds().Dx(), g.img.Bounds().Dy()
	if w == 0 || h == 0 {
		return
	}
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != w || g.fbImg.Bounds().Dy() != h {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
	}
	g.fbImg.WritePixels(g.img.Pix)

	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = g.fbImg
	op.Uniforms = map[string]any{"Tint": g.cfg.Tint[:]}
	screen.DrawRectShader(w, h, g.shader, op)
}

// Layout sizes the framebuffer to the window. The new size takes effect at
// the start of the next Update, before the app step runs.
func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := outsideWidth / g.cfg.Scale
	h := outsideHeight / g.cfg.Scale
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	g.wantW, g.wantH = w, h
	return w, h
}
