package hal

import (
	"image"
	"sync"

	"github.com/Raysphere24/HenonViewer4D/henon/hypergl"
)

type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	f := &hostFramebuffer{}
	f.resize(width, height)
	return f
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }
func (f *hostFramebuffer) Present() error      { return nil }

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pixel := hypergl.RGB(r, g, b).RGB565()
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

// resize reallocates the buffer. It must run on the step goroutine.
func (f *hostFramebuffer) resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if width == f.width && height == f.height && f.buf != nil {
		return
	}
	f.width = width
	f.height = height
	f.stride = width * 2
	f.buf = make([]byte, f.stride*height)
}

// snapshotRGBA converts the current contents into dst, reallocating it when
// the size changed.
func (f *hostFramebuffer) snapshotRGBA(dst *image.RGBA) *image.RGBA {
	f.mu.Lock()
	defer f.mu.Unlock()
	if dst == nil || dst.Bounds().Dx() != f.width || dst.Bounds().Dy() != f.height {
		dst = image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	}
	for y := 0; y < f.height; y++ {
		src := f.buf[y*f.stride:]
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < f.width; x++ {
			c := hypergl.FromRGB565(uint16(src[2*x]) | uint16(src[2*x+1])<<8)
			j := x * 4
			row[j+0] = c.R
			row[j+1] = c.G
			row[j+2] = c.B
			row[j+3] = c.A
		}
	}
	return dst
}
