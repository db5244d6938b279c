package mesh

import (
	"testing"

	"github.com/Raysphere24/HenonViewer4D/henon/hypergl"
)

func TestDetectTopology(t *testing.T) {
	tests := []struct {
		name string
		want Topology
	}{
		{"depth42.4pa", Points},
		{"model.4LA", Lines},
		{"dir/shape.4ta", Triangles},
		{"C:\\meshes\\cube.4Ta", Triangles},
		{"model.obj", TopologyUnknown},
		{"model", TopologyUnknown},
		{"model.4pa.gz", TopologyUnknown},
		{"4pa", Points},
		{"4TA", Triangles},
		{"dir/4la", TopologyUnknown},
		{"", TopologyUnknown},
		{"https://example.com/m/depth42.4pa?v=2", Points},
		{"https://example.com/m/edges.4la#top", Lines},
	}
	for _, tt := range tests {
		if got := DetectTopology(tt.name); got != tt.want {
			t.Fatalf("DetectTopology(%q): expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestTopologyPrimitive(t *testing.T) {
	tests := []struct {
		topo Topology
		want hypergl.Primitive
	}{
		{Points, hypergl.PrimitivePoints},
		{Lines, hypergl.PrimitiveLines},
		{Triangles, hypergl.PrimitiveTriangles},
		{TopologyUnknown, 0},
	}
	for _, tt := range tests {
		if got := tt.topo.Primitive(); got != tt.want {
			t.Fatalf("%v.Primitive(): expected %v, got %v", tt.topo, tt.want, got)
		}
	}
}
