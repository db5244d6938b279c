//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// wheelPixelsPerNotch converts ebiten wheel offsets to browser-style deltas.
const wheelPixelsPerNotch = 100

// ebitenInput turns ebiten's polled input state into HAL events.
type ebitenInput struct {
	h     *hostHAL
	scale float32

	dragging     bool
	lastX, lastY int

	touchID      ebiten.TouchID
	touching     bool
	touchX       int
	touchY       int
	touchScratch []ebiten.TouchID
}

func (in *ebitenInput) poll() {
	in.pollKeyboard()
	in.pollMouse()
	in.pollTouch()
	in.pollDrops()
}

func (in *ebitenInput) pollKeyboard() {
	k := in.h.kbd
	for _, r := range ebiten.AppendInputChars(nil) {
		k.emit(KeyEvent{Press: true, Rune: r})
	}

	keys := []struct {
		key  ebiten.Key
		code KeyCode
	}{
		{ebiten.KeyArrowUp, KeyUp},
		{ebiten.KeyArrowDown, KeyDown},
		{ebiten.KeyArrowLeft, KeyLeft},
		{ebiten.KeyArrowRight, KeyRight},
		{ebiten.KeyEnter, KeyEnter},
		{ebiten.KeyEscape, KeyEscape},
		{ebiten.KeyF1, KeyF1},
	}
	for _, m := range keys {
		if inpututil.IsKeyJustPressed(m.key) {
			k.emit(KeyEvent{Code: m.code, Press: true})
		}
		if inpututil.IsKeyJustReleased(m.key) {
			k.emit(KeyEvent{Code: m.code, Press: false})
		}
	}
}

func (in *ebitenInput) pollMouse() {
	p := in.h.ptr

	// Drag only while the left button alone is held.
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) &&
		!ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) &&
		!ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	x, y := ebiten.CursorPosition()
	if left && in.dragging && (x != in.lastX || y != in.lastY) {
		p.emit(PointerEvent{
			Kind: PointerDrag,
			DX:   float32(x-in.lastX) * in.scale,
			DY:   float32(y-in.lastY) * in.scale,
		})
	}
	in.dragging = left
	in.lastX, in.lastY = x, y

	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		p.emit(PointerEvent{
			Kind: PointerWheel,
			DX:   float32(-wx * wheelPixelsPerNotch),
			DY:   float32(-wy * wheelPixelsPerNotch),
		})
	}
}

func (in *ebitenInput) pollTouch() {
	in.touchScratch = ebiten.AppendTouchIDs(in.touchScratch[:0])
	if len(in.touchScratch) != 1 {
		in.touching = false
		return
	}
	id := in.touchScratch[0]
	x, y := ebiten.TouchPosition(id)
	if in.touching && id == in.touchID && (x != in.touchX || y != in.touchY) {
		in.h.ptr.emit(PointerEvent{
			Kind: PointerTouch,
			DX:   float32(x-in.touchX) * in.scale,
			DY:   float32(y-in.touchY) * in.scale,
		})
	}
	in.touching = true
	in.touchID = id
	in.touchX, in.touchY = x, y
}

func (in *ebitenInput) pollDrops() {
	fsys := ebiten.DroppedFiles()
	if fsys == nil {
		return
	}
	if name, ok := firstFile(fsys); ok {
		in.h.drop.emit(FileDrop{FS: fsys, Name: name})
	}
}
