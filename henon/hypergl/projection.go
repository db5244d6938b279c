package hypergl

// Projection returns the 3D perspective projection used after the view stage.
//
// The eye sits at eyeZ on the z axis looking towards -z; boundY is the half
// height visible at the origin and the near plane is at half the eye
// distance. aspect and boundY must be nonzero.
func Projection(aspect, boundY, eyeZ float32) Mat4 {
	xx := eyeZ / (aspect * boundY)
	nearZ := 0.5 * eyeZ
	return Mat4{
		xx, 0, 0, 0,
		0, eyeZ / boundY, 0, 0,
		0, 0, -1, -1,
		0, 0, nearZ, eyeZ,
	}
}

// Transform maps a 4D vertex to clip space: v·view gives a 4D position whose
// xyz part is lifted to projective 3D coordinates (w=1) and multiplied by
// proj.
func Transform(view, proj Mat4, v Vec4) Vec4 {
	p := MulVec(v, view)
	return MulVec(Vec4{p[0], p[1], p[2], 1}, proj)
}
