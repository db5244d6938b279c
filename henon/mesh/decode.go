package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/chewxy/math32"

	"github.com/Raysphere24/HenonViewer4D/henon/hypergl"
)

// Stride is the size of one encoded vertex: x, y, z, w as little-endian
// float32.
const Stride = 16

var (
	ErrUnsupportedFormat = errors.New("mesh: unsupported format")
	ErrMalformedMesh     = errors.New("mesh: malformed mesh")
	ErrTooLarge          = errors.New("mesh: mesh too large")
)

// Buffer is a decoded mesh. It is not modified after decoding.
type Buffer struct {
	Vertices []hypergl.Vec4
	Topology Topology
}

func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Vertices)
}

// Primitives returns the number of complete primitives. A trailing partial
// primitive is not counted.
func (b *Buffer) Primitives() int {
	n := b.Topology.Primitive().Vertices()
	if n == 0 {
		return 0
	}
	return b.Len() / n
}

// Bounds returns the per-component minimum and maximum. Both are zero for an
// empty buffer.
func (b *Buffer) Bounds() (lo, hi hypergl.Vec4) {
	if b.Len() == 0 {
		return lo, hi
	}
	lo, hi = b.Vertices[0], b.Vertices[0]
	for _, v := range b.Vertices[1:] {
		for i := range v {
			lo[i] = math32.Min(lo[i], v[i])
			hi[i] = math32.Max(hi[i], v[i])
		}
	}
	return lo, hi
}

// Decode decodes a flat vertex list. len(data) must be a multiple of Stride.
func Decode(data []byte, topo Topology) (*Buffer, error) {
	if topo == TopologyUnknown {
		return nil, ErrUnsupportedFormat
	}
	if len(data)%Stride != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrMalformedMesh, len(data), Stride)
	}
	verts := make([]hypergl.Vec4, len(data)/Stride)
	for i := range verts {
		rec := data[i*Stride : (i+1)*Stride]
		for c := 0; c < 4; c++ {
			verts[i][c] = math.Float32frombits(binary.LittleEndian.Uint32(rec[c*4:]))
		}
	}
	return &Buffer{Vertices: verts, Topology: topo}, nil
}

// DecodeReader reads r to EOF and decodes it. A limit above zero bounds the
// number of bytes read; longer input fails with ErrTooLarge.
func DecodeReader(r io.Reader, topo Topology, limit int64) (*Buffer, error) {
	if topo == TopologyUnknown {
		return nil, ErrUnsupportedFormat
	}
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("mesh: read: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return Decode(data, topo)
}
