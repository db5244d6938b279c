package hypergl

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMulIdentity(t *testing.T) {
	a := Identity()
	b := Mat4{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	if got := Mul(a, b); got != b {
		t.Fatalf("I·b\nhave %v\nwant %v", got, b)
	}
	if got := Mul(b, a); got != b {
		t.Fatalf("b·I\nhave %v\nwant %v", got, b)
	}
}

func TestMulRowMajor(t *testing.T) {
	a := Mat4{
		1, 2, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 3,
		0, 0, 0, 1,
	}
	b := Mat4{
		2, 0, 0, 0,
		1, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 4, 1,
	}
	want := Mat4{
		4, 2, 0, 0,
		1, 1, 0, 0,
		0, 0, 13, 3,
		0, 0, 4, 1,
	}
	if got := Mul(a, b); got != want {
		t.Fatalf("Mul\nhave %v\nwant %v", got, want)
	}
}

// Read as column-major, the same arrays describe transposed matrices, so
// mgl32's b·a must equal our a·b element for element.
func TestMulMatchesColumnMajorReading(t *testing.T) {
	a := Mat4{
		3, -1, 2, 0,
		0, 4, 1, 5,
		-2, 0, 1, 1,
		7, 1, 0, -3,
	}
	b := Mat4{
		1, 0, -2, 6,
		2, 2, 0, 1,
		0, -1, 3, 0,
		4, 0, 1, 1,
	}
	got := Mul(a, b)
	want := Mat4(mgl32.Mat4(b).Mul4(mgl32.Mat4(a)))
	if got != want {
		t.Fatalf("Mul vs mgl32\nhave %v\nwant %v", got, want)
	}
}

func TestTranspose(t *testing.T) {
	m := Mat4{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	tr := Transpose(m)
	if tr[1] != m[4] || tr[14] != m[11] || tr[0] != m[0] {
		t.Fatalf("Transpose\nhave %v", tr)
	}
	if Transpose(tr) != m {
		t.Fatal("Transpose is not an involution")
	}
}

func TestMulVec(t *testing.T) {
	v := V4(1, 2, 3, 4)
	if got := MulVec(v, Identity()); got != v {
		t.Fatalf("v·I\nhave %v\nwant %v", got, v)
	}

	// Row vector on the left: p·(a·b) == (p·a)·b.
	a := Rotation3D(V3(0, 0, 1), 0.3)
	b := RotationW(V3(1, 0, 0), -0.7)
	lhs := MulVec(v, Mul(a, b))
	rhs := MulVec(MulVec(v, a), b)
	for i := range lhs {
		if d := lhs[i] - rhs[i]; d > 1e-5 || d < -1e-5 {
			t.Fatalf("p·(a·b) != (p·a)·b\nhave %v\nwant %v", lhs, rhs)
		}
	}
}

func TestApproxEqual(t *testing.T) {
	a := Identity()
	b := Identity()
	b[5] += 1e-6
	if !ApproxEqual(a, b, 1e-5) {
		t.Fatal("expected approximately equal")
	}
	b[5] += 1e-3
	if ApproxEqual(a, b, 1e-5) {
		t.Fatal("expected not equal")
	}
}

func TestMulAppliesLeftFactorFirst(t *testing.T) {
	a := Rotation3D(V3(0, 0, 1), halfPi)
	b := RotationW(V3(1, 0, 0), halfPi)
	x := V4(1, 0, 0, 0)

	aThenB := MulVec(MulVec(x, a), b)
	bThenA := MulVec(MulVec(x, b), a)
	if near4(aThenB, bThenA) {
		t.Fatal("a and b commute on x; choose other factors")
	}

	if got := MulVec(x, Mul(a, b)); !near4(got, aThenB) {
		t.Fatalf("x·Mul(a, b)\nhave %v\nwant %v", got, aThenB)
	}
	if !near4(aThenB, V4(0, 1, 0, 0)) {
		t.Fatalf("a then b\nhave %v\nwant [0 1 0 0]", aThenB)
	}

	// Column-major reading of the same array, as a GL uniform sees it.
	col := Vec4(mgl32.Mat4(Mul(a, b)).Mul4x1(mgl32.Vec4(x)))
	if !near4(col, aThenB) {
		t.Fatalf("column-major M·x\nhave %v\nwant %v", col, aThenB)
	}
}
