package tds

import "github.com/binzume/tdsconv/geom"

// FaceNormal returns the unit normal of triangle i.
func (m *Mesh) FaceNormal(i int) *geom.Vector3 {
	t := m.Triangles[i]
	a, b, c := m.Vertices[t.V[0]], m.Vertices[t.V[1]], m.Vertices[t.V[2]]
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// Normals returns one normal per triangle corner. Triangles sharing a vertex
// are smoothed together when their smoothing groups intersect, directly or
// through other triangles around the same vertex. Triangles without a group
// are flat shaded.
func (m *Mesh) Normals() [][3]*geom.Vector3 {
	faceNormals := make([]*geom.Vector3, len(m.Triangles))
	byVertex := make([][]int, len(m.Vertices))
	for i, t := range m.Triangles {
		faceNormals[i] = m.FaceNormal(i)
		for _, v := range t.V {
			byVertex[v] = append(byVertex[v], i)
		}
	}

	normals := make([][3]*geom.Vector3, len(m.Triangles))
	for i, t := range m.Triangles {
		for k, v := range t.V {
			if t.Smoothing == 0 {
				n := *faceNormals[i]
				normals[i][k] = &n
				continue
			}
			group := smoothingGroup(m.Triangles, byVertex[v], t.Smoothing)
			n := &geom.Vector3{}
			for _, f := range group {
				n = n.Add(faceNormals[f])
			}
			normals[i][k] = n.Normalize()
		}
	}
	return normals
}

// smoothingGroup returns the faces among candidates reachable from mask by
// repeatedly merging intersecting smoothing groups.
func smoothingGroup(tris []*Triangle, candidates []int, mask uint32) []int {
	in := make([]bool, len(candidates))
	var group []int
	for changed := true; changed; {
		changed = false
		for j, f := range candidates {
			if !in[j] && tris[f].Smoothing&mask != 0 {
				in[j] = true
				mask |= tris[f].Smoothing
				group = append(group, f)
				changed = true
			}
		}
	}
	return group
}
