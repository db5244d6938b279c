package hypergl

import "github.com/chewxy/math32"

// Rotation3D returns a rotation about axis by angle radians inside the xyz
// hyperplane. The w row and column are left as identity.
//
// axis must be unit length.
func Rotation3D(axis Vec3, angle float32) Mat4 {
	x, y, z := axis[0], axis[1], axis[2]
	c := 1 - math32.Cos(angle)
	s := math32.Sin(angle)
	return Mat4{
		1 + c*(x*x-1), c*x*y + s*z, c*x*z - s*y, 0,
		c*y*x - s*z, 1 + c*(y*y-1), c*y*z + s*x, 0,
		c*z*x + s*y, c*z*y - s*x, 1 + c*(z*z-1), 0,
		0, 0, 0, 1,
	}
}

// RotationW returns a rotation by angle radians in the plane spanned by the
// w axis and axis.
//
// axis must be unit length.
func RotationW(axis Vec3, angle float32) Mat4 {
	x, y, z := axis[0], axis[1], axis[2]
	c := math32.Cos(angle) - 1
	s := math32.Sin(angle)
	return Mat4{
		1 + c*x*x, c*x*y, c*x*z, -s * x,
		c*y*x, 1 + c*y*y, c*y*z, -s * y,
		c*z*x, c*z*y, 1 + c*z*z, -s * z,
		s * x, s * y, s * z, 1 + c,
	}
}
