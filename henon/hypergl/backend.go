package hypergl

import "errors"

// Primitive selects how a frame's vertices are assembled.
type Primitive uint8

const (
	PrimitivePoints Primitive = iota + 1
	PrimitiveLines
	PrimitiveTriangles
)

func (p Primitive) String() string {
	switch p {
	case PrimitivePoints:
		return "points"
	case PrimitiveLines:
		return "lines"
	case PrimitiveTriangles:
		return "triangles"
	default:
		return "invalid"
	}
}

// Vertices returns the number of vertices that make up one primitive.
func (p Primitive) Vertices() int {
	switch p {
	case PrimitivePoints:
		return 1
	case PrimitiveLines:
		return 2
	case PrimitiveTriangles:
		return 3
	default:
		return 0
	}
}

// Frame is everything a Backend needs to draw once.
//
// Vertices are transformed by View, then by Proj (see Transform). Incomplete
// trailing primitives are ignored.
type Frame struct {
	View      Mat4
	Proj      Mat4
	Vertices  []Vec4
	Primitive Primitive
}

// Backend rasterizes frames.
//
// Prepare must succeed before the first Draw. A Prepare failure leaves the
// backend unusable for the session.
type Backend interface {
	Prepare() error
	Draw(f *Frame) error
}

var (
	// ErrShaderCompile means the backend could not compile its program.
	ErrShaderCompile = errors.New("hypergl: shader compile failed")

	// ErrShaderLink means the backend could not bind its program to the
	// render target.
	ErrShaderLink = errors.New("hypergl: shader link failed")

	// ErrNotPrepared is returned by Draw before a successful Prepare.
	ErrNotPrepared = errors.New("hypergl: backend not prepared")
)
