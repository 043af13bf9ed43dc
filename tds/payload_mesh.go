package tds

import (
	"math"

	"github.com/binzume/tdsconv/geom"
)

// Face flag bits of FACE_ARRAY entries.
const (
	FaceEdgeCA    = 0x0001
	FaceEdgeBC    = 0x0002
	FaceEdgeAB    = 0x0004
	FaceWrapU     = 0x0008
	FaceWrapV     = 0x0010
	FaceSelected  = 0x0100
	FaceEdgesShow = FaceEdgeAB | FaceEdgeBC | FaceEdgeCA
)

func putCount(w *writer, n int) {
	if n > math.MaxUint16 {
		w.fail(ErrTooMany)
		return
	}
	w.u16(uint16(n))
}

// VertexList is POINT_ARRAY.
type VertexList struct {
	Vertices []geom.Vector3
}

func (p *VertexList) size(*writer) uint32 {
	return 2 + uint32(len(p.Vertices))*12
}

func (p *VertexList) decode(r *reader, _ *decodeContext) {
	n := int(r.u16())
	p.Vertices = make([]geom.Vector3, n)
	for i := 0; i < n && r.err() == nil; i++ {
		p.Vertices[i] = r.vec3()
	}
}

func (p *VertexList) encode(w *writer) {
	putCount(w, len(p.Vertices))
	for _, v := range p.Vertices {
		w.vec3(v)
	}
}

// VertexFlags is POINT_FLAG_ARRAY.
type VertexFlags struct {
	Flags []uint16
}

func (p *VertexFlags) size(*writer) uint32 {
	return 2 + uint32(len(p.Flags))*2
}

func (p *VertexFlags) decode(r *reader, _ *decodeContext) {
	p.Flags = make([]uint16, r.u16())
	for i := range p.Flags {
		p.Flags[i] = r.u16()
	}
}

func (p *VertexFlags) encode(w *writer) {
	putCount(w, len(p.Flags))
	for _, f := range p.Flags {
		w.u16(f)
	}
}

// Face is a triangle of FACE_ARRAY. Flags is passed through unchanged.
type Face struct {
	V     [3]uint16
	Flags uint16
}

// FaceList is FACE_ARRAY. MSH_MAT_GROUP and SMOOTH_GROUP follow it as
// sub-chunks.
type FaceList struct {
	Faces []Face
}

func (p *FaceList) size(*writer) uint32 {
	return 2 + uint32(len(p.Faces))*8
}

func (p *FaceList) decode(r *reader, _ *decodeContext) {
	p.Faces = make([]Face, r.u16())
	for i := range p.Faces {
		f := &p.Faces[i]
		f.V[0], f.V[1], f.V[2], f.Flags = r.u16(), r.u16(), r.u16(), r.u16()
	}
}

func (p *FaceList) encode(w *writer) {
	putCount(w, len(p.Faces))
	for _, f := range p.Faces {
		w.u16(f.V[0])
		w.u16(f.V[1])
		w.u16(f.V[2])
		w.u16(f.Flags)
	}
}

// FaceMaterial is MSH_MAT_GROUP: the faces using a material.
type FaceMaterial struct {
	Name  string
	Faces []uint16
}

func (p *FaceMaterial) size(w *writer) uint32 {
	return w.strlen(p.Name) + 2 + uint32(len(p.Faces))*2
}

func (p *FaceMaterial) decode(r *reader, c *decodeContext) {
	p.Name = r.cstring(c.end)
	p.Faces = make([]uint16, r.u16())
	for i := range p.Faces {
		p.Faces[i] = r.u16()
	}
}

func (p *FaceMaterial) encode(w *writer) {
	w.cstring(p.Name)
	putCount(w, len(p.Faces))
	for _, f := range p.Faces {
		w.u16(f)
	}
}

// MappingCoords is TEX_VERTS, one UV per vertex.
type MappingCoords struct {
	UVs []geom.Vector2
}

func (p *MappingCoords) size(*writer) uint32 {
	return 2 + uint32(len(p.UVs))*8
}

func (p *MappingCoords) decode(r *reader, _ *decodeContext) {
	p.UVs = make([]geom.Vector2, r.u16())
	for i := range p.UVs {
		p.UVs[i] = geom.Vector2{X: r.f32(), Y: r.f32()}
	}
}

func (p *MappingCoords) encode(w *writer) {
	putCount(w, len(p.UVs))
	for _, uv := range p.UVs {
		w.f32(uv.X)
		w.f32(uv.Y)
	}
}

// SmoothingGroups is SMOOTH_GROUP. It has no count of its own: the number
// of masks is the face count of the owning FACE_ARRAY.
type SmoothingGroups struct {
	Groups []uint32
}

func (p *SmoothingGroups) size(*writer) uint32 {
	return uint32(len(p.Groups)) * 4
}

func (p *SmoothingGroups) decode(r *reader, c *decodeContext) {
	faces, ok := c.parent.faceList()
	if !ok {
		r.fail(structuralf("smoothing groups outside of a face list"))
		return
	}
	n := len(faces.Faces)
	if declared := c.end - r.pos(); declared != int64(n)*4 {
		r.fail(structuralf("%d bytes of smoothing groups for %d faces", declared, n))
		return
	}
	p.Groups = make([]uint32, n)
	for i := range p.Groups {
		p.Groups[i] = r.u32()
	}
}

func (p *SmoothingGroups) encode(w *writer) {
	for _, g := range p.Groups {
		w.u32(g)
	}
}

func (c *Chunk) faceList() (*FaceList, bool) {
	if c == nil || c.Tag != TagFaceList {
		return nil, false
	}
	f, ok := c.Payload.(*FaceList)
	return f, ok
}

// LocalAxes is MESH_MATRIX: the axes and origin of the local coordinate
// system of a mesh.
type LocalAxes struct {
	X, Y, Z, Origin geom.Vector3
}

func NewLocalAxes(m *geom.Matrix4) *LocalAxes {
	x, y, z, o := m.Axes()
	return &LocalAxes{X: *x, Y: *y, Z: *z, Origin: *o}
}

func (*LocalAxes) size(*writer) uint32 { return 48 }
func (*LocalAxes) fixedSize() uint32   { return 48 }

func (p *LocalAxes) decode(r *reader, _ *decodeContext) {
	p.X, p.Y, p.Z, p.Origin = r.vec3(), r.vec3(), r.vec3(), r.vec3()
}

func (p *LocalAxes) encode(w *writer) {
	w.vec3(p.X)
	w.vec3(p.Y)
	w.vec3(p.Z)
	w.vec3(p.Origin)
}

// Matrix returns the local-to-world transform.
func (p *LocalAxes) Matrix() *geom.Matrix4 {
	return geom.NewMatrix4FromAxes(&p.X, &p.Y, &p.Z, &p.Origin)
}

// Mapping kinds of MESH_TEXTURE_INFO.
const (
	MappingPlanar      = 0
	MappingCylindrical = 1
	MappingSpherical   = 2
)

// MappingInfo is MESH_TEXTURE_INFO: the mapping icon used to generate
// texture coordinates.
type MappingInfo struct {
	Kind           uint16
	TileX, TileY   float32
	Position       geom.Vector3
	Scale          float32
	Matrix         [12]float32
	PlanarWidth    float32
	PlanarHeight   float32
	CylinderHeight float32
}

func (*MappingInfo) size(*writer) uint32 { return 86 }
func (*MappingInfo) fixedSize() uint32   { return 86 }

func (p *MappingInfo) decode(r *reader, _ *decodeContext) {
	p.Kind = r.u16()
	p.TileX, p.TileY = r.f32(), r.f32()
	p.Position = r.vec3()
	p.Scale = r.f32()
	r.floats(p.Matrix[:])
	p.PlanarWidth, p.PlanarHeight, p.CylinderHeight = r.f32(), r.f32(), r.f32()
}

func (p *MappingInfo) encode(w *writer) {
	w.u16(p.Kind)
	w.f32(p.TileX)
	w.f32(p.TileY)
	w.vec3(p.Position)
	w.f32(p.Scale)
	w.floats(p.Matrix[:])
	w.f32(p.PlanarWidth)
	w.f32(p.PlanarHeight)
	w.f32(p.CylinderHeight)
}
