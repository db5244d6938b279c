package hypergl

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// Vec3 is a 3D vector. It is used for rotation axes.
type Vec3 = f32.Vec3

// Vec4 is a 4D vector (x, y, z, w).
type Vec4 = f32.Vec4

// Mat4 is a row-major 4x4 matrix: m[4*r+c].
type Mat4 = f32.Mat4

func V3(x, y, z float32) Vec3    { return Vec3{x, y, z} }
func V4(x, y, z, w float32) Vec4 { return Vec4{x, y, z, w} }

// Identity returns the multiplicative identity, which is also the zero
// rotation.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns the row-major product a·b.
func Mul(a, b Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] =
				a[r*4+0]*b[0*4+c] +
					a[r*4+1]*b[1*4+c] +
					a[r*4+2]*b[2*4+c] +
					a[r*4+3]*b[3*4+c]
		}
	}
	return out
}

func Transpose(m Mat4) Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// MulVec returns the row vector v transformed by m (v·m).
func MulVec(v Vec4, m Mat4) Vec4 {
	return Vec4{
		v[0]*m[0] + v[1]*m[4] + v[2]*m[8] + v[3]*m[12],
		v[0]*m[1] + v[1]*m[5] + v[2]*m[9] + v[3]*m[13],
		v[0]*m[2] + v[1]*m[6] + v[2]*m[10] + v[3]*m[14],
		v[0]*m[3] + v[1]*m[7] + v[2]*m[11] + v[3]*m[15],
	}
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
func ApproxEqual(a, b Mat4, eps float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func Len3(v Vec3) float32 {
	return math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
