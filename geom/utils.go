package geom

func IsInTriangle(p, a, b, c *Vector3) bool {
	ab, bc, ca := b.Sub(a), c.Sub(b), a.Sub(c)
	c1, c2, c3 := ab.Cross(p.Sub(a)), bc.Cross(p.Sub(b)), ca.Cross(p.Sub(c))
	return c1.Dot(c2) > 0 && c2.Dot(c3) > 0 && c3.Dot(c1) > 0
}

// PolygonNormal returns the (unnormalized) Newell normal of a closed polygon.
func PolygonNormal(poly []*Vector3) *Vector3 {
	n := &Vector3{}
	for i := range poly {
		v0 := poly[(i+len(poly)-1)%len(poly)]
		v1 := poly[i]
		v2 := poly[(i+1)%len(poly)]
		n = n.Add(v0.Sub(v1).Cross(v2.Sub(v1)))
	}
	return n
}

// Triangulate splits a planar polygon into triangles by ear clipping and
// returns indices into poly.
func Triangulate(poly []*Vector3) [][3]int {
	var dst [][3]int
	if len(poly) < 3 {
		return dst
	}
	if len(poly) == 3 {
		return append(dst, [3]int{0, 1, 2})
	}
	n := PolygonNormal(poly).Normalize()
	ii := make([]int, len(poly))
	for i := range poly {
		ii[i] = i
	}

	// O(N*N)
	for len(ii) >= 3 {
		count := len(ii)
		for i := count - 1; i >= 0 && len(ii) >= 3; i-- {
			if i >= len(ii) {
				continue
			}
			c := len(ii)
			i0, i1, i2 := ii[(i+c-1)%c], ii[i], ii[(i+1)%c]
			v0, v1, v2 := poly[i0], poly[i1], poly[i2]
			if v0.Sub(v1).Cross(v2.Sub(v1)).Dot(n) < 0 {
				continue
			}
			rest := make([]int, 0, c-1)
			rest = append(rest, ii[:i]...)
			rest = append(rest, ii[i+1:]...)
			if containsAny(poly, rest, v0, v1, v2) {
				continue
			}
			dst = append(dst, [3]int{i0, i1, i2})
			ii = rest
		}
		if len(ii) == count {
			// self-intersecting or degenerate: fall back to a fan
			for i := 0; i < len(ii)-2; i++ {
				dst = append(dst, [3]int{ii[0], ii[i+1], ii[i+2]})
			}
			break
		}
	}
	return dst
}

func containsAny(poly []*Vector3, indices []int, a, b, c *Vector3) bool {
	for _, i := range indices {
		if IsInTriangle(poly[i], a, b, c) {
			return true
		}
	}
	return false
}
