// Package hypergl provides a minimal, predictable software 4D viewing pipeline.
//
// HyperGL is intended for visualization of 4D point, line and triangle meshes
// under an interactively rotated viewpoint. It is not a scene graph and has no
// lighting model.
//
// Pipeline (fixed):
//
//	Vertex (x,y,z,w) → View (4D rotation) → drop w → Projection (3D perspective)
//	→ Clipping → Rasterization → Frame output.
//
// Matrices are row-major [16]float32 values (m[4*r+c]) and points are row
// vectors transformed as p·m, so p·Mul(a, b) applies a first, then b. The
// same array uploaded unchanged to a column-major consumer, as GL does with
// an untransposed uniform, is the transpose; M·v there also applies a first,
// then b.
//
// The software Renderer draws into a caller-provided Target and avoids
// allocations in the render hot path once warmed up.
package hypergl
