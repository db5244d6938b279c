package mesh

import (
	"strings"

	"github.com/Raysphere24/HenonViewer4D/henon/hypergl"
)

// Topology is how a mesh's vertex list is grouped into primitives.
type Topology uint8

const (
	TopologyUnknown Topology = iota
	Points
	Lines
	Triangles
)

func (t Topology) String() string {
	switch t {
	case Points:
		return "points"
	case Lines:
		return "lines"
	case Triangles:
		return "triangles"
	default:
		return "unknown"
	}
}

// Primitive maps t to the rasterizer primitive. TopologyUnknown maps to the
// zero Primitive, which backends reject.
func (t Topology) Primitive() hypergl.Primitive {
	switch t {
	case Points:
		return hypergl.PrimitivePoints
	case Lines:
		return hypergl.PrimitiveLines
	case Triangles:
		return hypergl.PrimitiveTriangles
	default:
		return 0
	}
}

// Extensions understood by DetectTopology, without the dot.
const (
	ExtPoints    = "4pa"
	ExtLines     = "4la"
	ExtTriangles = "4ta"
)

// DetectTopology picks a topology from the extension of name, ignoring case.
// The extension is everything after the last dot, or the whole name when it
// has none, so a bare "4pa" names a point mesh. For a URL the query and
// fragment are ignored.
func DetectTopology(name string) Topology {
	if i := strings.IndexAny(name, "?#"); i >= 0 && strings.Contains(name, "://") {
		name = name[:i]
	}
	ext := name[strings.LastIndexByte(name, '.')+1:]
	switch strings.ToLower(ext) {
	case ExtPoints:
		return Points
	case ExtLines:
		return Lines
	case ExtTriangles:
		return Triangles
	default:
		return TopologyUnknown
	}
}
