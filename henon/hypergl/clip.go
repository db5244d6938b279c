package hypergl

// Clipping runs in clip space, before the divide by w, against the six
// planes -w <= x, y, z <= w. A clipped vertex has w > 0, and its NDC
// coordinates lie in [-1, 1] up to rounding.

const numPlanes = 6

// planeDist is the signed distance of c from clip plane i. It is negative
// outside and linear in c.
func planeDist(c Vec4, i int) float32 {
	switch i {
	case 0:
		return c[3] + c[0]
	case 1:
		return c[3] - c[0]
	case 2:
		return c[3] + c[1]
	case 3:
		return c[3] - c[1]
	case 4:
		return c[3] + c[2]
	default:
		return c[3] - c[2]
	}
}

// minClipW rejects the degenerate vertex at the eye, which is on every
// plane at once.
const minClipW = 1e-6

func insideClip(c Vec4) bool {
	if !(c[3] > minClipW) {
		return false
	}
	for i := 0; i < numPlanes; i++ {
		if !(planeDist(c, i) >= 0) {
			return false
		}
	}
	return true
}

func lerp4(a, b Vec4, t float32) Vec4 {
	return Vec4{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
		a[3] + (b[3]-a[3])*t,
	}
}

// clipLine trims the segment c0-c1 to the view volume (Liang-Barsky). ok is
// false when nothing of it is visible.
func clipLine(c0, c1 Vec4) (Vec4, Vec4, bool) {
	t0, t1 := float32(0), float32(1)
	for i := 0; i < numPlanes; i++ {
		d0, d1 := planeDist(c0, i), planeDist(c1, i)
		switch {
		case d0 < 0 && d1 < 0:
			return c0, c1, false
		case d0 < 0:
			if t := d0 / (d0 - d1); t > t0 {
				t0 = t
			}
		case d1 < 0:
			if t := d0 / (d0 - d1); t < t1 {
				t1 = t
			}
		}
		if t0 > t1 {
			return c0, c1, false
		}
	}
	// NaN input fails every comparison above; catch it here.
	if !(t0 <= t1) {
		return c0, c1, false
	}
	a, b := lerp4(c0, c1, t0), lerp4(c0, c1, t1)
	if !(a[3] > minClipW) || !(b[3] > minClipW) {
		return c0, c1, false
	}
	return a, b, true
}

// clipPolygon clips the convex polygon in poly against every plane
// (Sutherland-Hodgman) and returns the result. scratch is reused storage;
// the returned slice aliases either poly or scratch.
func clipPolygon(poly, scratch []Vec4) (out, spare []Vec4) {
	in := poly
	out = scratch
	for i := 0; i < numPlanes && len(in) > 0; i++ {
		out = out[:0]
		prev := in[len(in)-1]
		dp := planeDist(prev, i)
		for _, cur := range in {
			dc := planeDist(cur, i)
			if dc >= 0 {
				if dp < 0 {
					out = append(out, lerp4(prev, cur, dp/(dp-dc)))
				}
				out = append(out, cur)
			} else if dp >= 0 {
				out = append(out, lerp4(prev, cur, dp/(dp-dc)))
			}
			prev, dp = cur, dc
		}
		in, out = out, in
	}
	for _, c := range in {
		if !(c[3] > minClipW) {
			return in[:0], out
		}
	}
	return in, out
}
