package hypergl

import "fmt"

// Renderer is a fixed-pipeline software Backend.
//
// Create it once and reuse it to avoid allocations.
type Renderer struct {
	Depth      bool
	ClearColor Color
	Color      Color

	target   Target
	prepared bool

	depthBuf []float32
	clip     []Vec4
	poly     []Vec4
	scratch  []Vec4
}

var _ Backend = (*Renderer)(nil)

// NewRenderer creates a renderer drawing into t.
func NewRenderer(t Target, enableDepth bool) *Renderer {
	return &Renderer{
		Depth:      enableDepth,
		ClearColor: RGB(0, 0, 0),
		Color:      RGB(0xFF, 0xFF, 0xFF),
		target:     t,
	}
}

// Prepare binds the renderer to its target.
func (r *Renderer) Prepare() error {
	r.prepared = false
	if r.target == nil {
		return fmt.Errorf("%w: no target", ErrShaderLink)
	}
	w, h := r.target.Size()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: target is %dx%d", ErrShaderLink, w, h)
	}
	r.ensureDepth(w, h)
	r.prepared = true
	return nil
}

func (r *Renderer) ensureDepth(w, h int) {
	if !r.Depth {
		r.depthBuf = nil
		return
	}
	if cap(r.depthBuf) < w*h {
		r.depthBuf = make([]float32, w*h)
	} else {
		r.depthBuf = r.depthBuf[:w*h]
	}
}

func (r *Renderer) clearDepth() {
	for i := range r.depthBuf {
		r.depthBuf[i] = 1
	}
}

// Draw clears the target and renders f.
func (r *Renderer) Draw(f *Frame) error {
	if !r.prepared {
		return ErrNotPrepared
	}
	w, h := r.target.Size()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: target is %dx%d", ErrShaderLink, w, h)
	}
	r.target.Clear(r.ClearColor)
	if r.Depth {
		r.ensureDepth(w, h)
		r.clearDepth()
	}
	if f == nil || len(f.Vertices) == 0 {
		return nil
	}

	if cap(r.clip) < len(f.Vertices) {
		r.clip = make([]Vec4, len(f.Vertices))
	}
	r.clip = r.clip[:len(f.Vertices)]
	for i, v := range f.Vertices {
		r.clip[i] = Transform(f.View, f.Proj, v)
	}

	switch f.Primitive {
	case PrimitivePoints:
		for _, c := range r.clip {
			if insideClip(c) {
				p := toScreen(c, w, h)
				r.plot(w, h, p.x, p.y, p.z)
			}
		}
	case PrimitiveLines:
		for i := 0; i+1 < len(r.clip); i += 2 {
			if c0, c1, ok := clipLine(r.clip[i], r.clip[i+1]); ok {
				r.drawLine(w, h, toScreen(c0, w, h), toScreen(c1, w, h))
			}
		}
	case PrimitiveTriangles:
		for i := 0; i+2 < len(r.clip); i += 3 {
			r.drawTriangle(w, h, r.clip[i], r.clip[i+1], r.clip[i+2])
		}
	default:
		return fmt.Errorf("hypergl: invalid primitive %d", f.Primitive)
	}
	return nil
}

// drawTriangle clips a triangle to the view volume and fills the resulting
// convex polygon as a fan.
func (r *Renderer) drawTriangle(w, h int, c0, c1, c2 Vec4) {
	if insideClip(c0) && insideClip(c1) && insideClip(c2) {
		r.fillTriangle(w, h, toScreen(c0, w, h), toScreen(c1, w, h), toScreen(c2, w, h))
		return
	}
	r.poly = append(r.poly[:0], c0, c1, c2)
	var poly []Vec4
	poly, r.scratch = clipPolygon(r.poly, r.scratch)
	r.poly = poly
	if len(poly) < 3 {
		return
	}
	p0 := toScreen(poly[0], w, h)
	for k := 1; k+1 < len(poly); k++ {
		r.fillTriangle(w, h, p0, toScreen(poly[k], w, h), toScreen(poly[k+1], w, h))
	}
}

type screenPoint struct {
	x, y int
	z    float32
}

// toScreen divides a clipped vertex by w and maps NDC to pixels. The result
// is clamped to the viewport, so rasterization work is bounded by its size
// whatever the input.
func toScreen(c Vec4, w, h int) screenPoint {
	invW := 1 / c[3]
	nx, ny, nz := c[0]*invW, c[1]*invW, c[2]*invW
	sx := (nx*0.5 + 0.5) * float32(w-1)
	sy := (1 - (ny*0.5 + 0.5)) * float32(h-1)
	return screenPoint{
		x: clampPixel(roundInt(sx), w),
		y: clampPixel(roundInt(sy), h),
		z: nz,
	}
}

func clampPixel(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

func roundInt(v float32) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

// depthSlack absorbs rounding at the near and far planes after clipping.
const depthSlack = 1e-4

// plot writes one depth-tested fragment. Fragments outside the NDC depth
// range are dropped.
func (r *Renderer) plot(w, h, x, y int, z float32) {
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	if !(z >= -1-depthSlack && z <= 1+depthSlack) {
		return
	}
	if !r.depthTest(w, x, y, z) {
		return
	}
	r.target.SetPixel(x, y, r.Color)
}

func (r *Renderer) depthTest(w int, x, y int, z float32) bool {
	if !r.Depth || r.depthBuf == nil {
		return true
	}
	idx := y*w + x
	if idx < 0 || idx >= len(r.depthBuf) {
		return false
	}
	// NDC z is in [-1,1]. Map to [0,1].
	d := z*0.5 + 0.5
	if d >= r.depthBuf[idx] {
		return false
	}
	r.depthBuf[idx] = d
	return true
}

func (r *Renderer) drawLine(w, h int, p0, p1 screenPoint) {
	x0, y0, x1, y1 := p0.x, p0.y, p1.x, p1.y
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	steps := dx
	if -dy > steps {
		steps = -dy
	}
	var dz float32
	if steps > 0 {
		dz = (p1.z - p0.z) / float32(steps)
	}
	z := p0.z
	err := dx + dy
	for {
		r.plot(w, h, x0, y0, z)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		moved := false
		if e2 >= dy {
			err += dy
			x0 += sx
			moved = true
		}
		if e2 <= dx {
			err += dx
			y0 += sy
			moved = true
		}
		if moved {
			z += dz
		}
	}
}

func (r *Renderer) fillTriangle(w, h int, p0, p1, p2 screenPoint) {
	area := edgeFn(p0.x, p0.y, p1.x, p1.y, p2.x, p2.y)
	if area == 0 {
		return
	}
	// No face culling: normalize winding so the inside test is one-sided.
	if area < 0 {
		p1, p2 = p2, p1
		area = -area
	}

	minX, maxX := min3(p0.x, p1.x, p2.x), max3(p0.x, p1.x, p2.x)
	minY, maxY := min3(p0.y, p1.y, p2.y), max3(p0.y, p1.y, p2.y)
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if maxY >= h {
		maxY = h - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	invArea := 1.0 / float32(area)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edgeFn(p1.x, p1.y, p2.x, p2.y, x, y)
			w1 := edgeFn(p2.x, p2.y, p0.x, p0.y, x, y)
			w2 := edgeFn(p0.x, p0.y, p1.x, p1.y, x, y)
			if (w0 | w1 | w2) < 0 {
				continue
			}
			z := (float32(w0)*p0.z + float32(w1)*p1.z + float32(w2)*p2.z) * invArea
			r.plot(w, h, x, y, z)
		}
	}
}

func edgeFn(x0, y0, x1, y1, x, y int) int {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min3(a, b, c int) int {
	if a > b {
		a = b
	}
	if a > c {
		a = c
	}
	return a
}

func max3(a, b, c int) int {
	if a < b {
		a = b
	}
	if a < c {
		a = c
	}
	return a
}
