package tds

import (
	"strings"

	"github.com/binzume/tdsconv/geom"
)

// Scene is the object level view of a 3ds file.
type Scene struct {
	MasterScale      float32
	Ambient          *Color
	Background       *Color
	BackgroundBitmap string

	Materials []*Material
	Meshes    []*Mesh
	Lights    []*Light
	Cameras   []*Camera

	// Keyframer
	AnimName     string
	AnimLength   uint32
	Start, End   uint32
	CurrentFrame uint32
	Nodes        []*Node
}

type Mesh struct {
	Name      string
	Vertices  []*geom.Vector3
	UVs       []*geom.Vector2
	Triangles []*Triangle
	// Matrix is the local coordinate system. Vertices are stored in world
	// space regardless.
	Matrix  *geom.Matrix4
	Color   uint8
	Hidden  bool
	Mapping *MappingInfo
}

type Triangle struct {
	V     [3]int
	Flags uint16
	// Material is the material name, or "" for the default material.
	Material  string
	Smoothing uint32
}

// Material is a MAT_ENTRY. Percentages are fractions in 0..1.
type Material struct {
	Name         string
	Ambient      Color
	Diffuse      Color
	Specular     Color
	Shininess    float32
	ShinStrength float32
	Transparency float32
	TransFalloff float32
	ReflectBlur  float32
	SelfIllum    float32
	TwoSided     bool
	Additive     bool
	Wire         bool
	WireSize     float32
	Shading      uint16

	Texture      *TextureMap
	Texture2     *TextureMap
	OpacityMap   *TextureMap
	BumpMap      *TextureMap
	SpecularMap  *TextureMap
	ShininessMap *TextureMap
	SelfIllumMap *TextureMap
	ReflectMap   *TextureMap
}

// Shading modes of MAT_SHADING.
const (
	ShadingWire    = 0
	ShadingFlat    = 1
	ShadingGouraud = 2
	ShadingPhong   = 3
	ShadingMetal   = 4
)

type TextureMap struct {
	Filename string
	Strength float32
	Flags    uint16
	Blur     float32
	UScale   float32
	VScale   float32
	UOffset  float32
	VOffset  float32
	Rotation float32
}

func NewTextureMap(filename string) *TextureMap {
	return &TextureMap{Filename: filename, Strength: 1, UScale: 1, VScale: 1}
}

// maps pairs each map block tag with its field.
func (m *Material) maps() []struct {
	tag Tag
	ptr **TextureMap
} {
	return []struct {
		tag Tag
		ptr **TextureMap
	}{
		{TagMatTexture, &m.Texture},
		{TagMatTexture2, &m.Texture2},
		{TagMatOpacityMap, &m.OpacityMap},
		{TagMatBumpMap, &m.BumpMap},
		{TagMatSpecularMap, &m.SpecularMap},
		{TagMatShininessMap, &m.ShininessMap},
		{TagMatSelfIllumMap, &m.SelfIllumMap},
		{TagMatReflectionMap, &m.ReflectMap},
	}
}

type Light struct {
	Name       string
	Position   geom.Vector3
	Color      Color
	Off        bool
	Attenuate  bool
	Multiplier float32
	InnerRange float32
	OuterRange float32
	Spot       *Spot
}

// Spot holds the spotlight part of a light. Angles are in degrees.
type Spot struct {
	Target   geom.Vector3
	Hotspot  float32
	Falloff  float32
	Roll     float32
	Shadowed bool
	Raytrace bool
}

type Camera struct {
	Name     string
	Position geom.Vector3
	Target   geom.Vector3
	Bank     float32
	Lens     float32
	Near     float32
	Far      float32
}

// Node is a keyframer node block animating the object named Name.
type Node struct {
	ID       uint16
	Kind     Tag
	Name     string
	Instance string
	Parent   int
	Flags1   uint16
	Flags2   uint16
	Pivot    geom.Vector3
	// Tracks in file order, keyed by track tag.
	Tracks map[Tag]*Track
}

func NewScene() *Scene {
	return &Scene{MasterScale: 1}
}

// NewMaterial returns a grey phong material.
func NewMaterial(name string) *Material {
	return &Material{
		Name:     name,
		Ambient:  Color{0.2, 0.2, 0.2},
		Diffuse:  Color{0.8, 0.8, 0.8},
		Specular: Color{0.9, 0.9, 0.9},
		Shading:  ShadingPhong,
	}
}

func (s *Scene) AddMaterial(name string) *Material {
	m := NewMaterial(name)
	s.Materials = append(s.Materials, m)
	return m
}

// Material returns the first material with the name.
func (s *Scene) Material(name string) *Material {
	for _, m := range s.Materials {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (s *Scene) AddMesh(name string) *Mesh {
	m := &Mesh{Name: name, Matrix: geom.NewMatrix4(), Hidden: strings.HasPrefix(name, "$")}
	s.Meshes = append(s.Meshes, m)
	return m
}

func (s *Scene) Mesh(name string) *Mesh {
	for _, m := range s.Meshes {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (s *Scene) AddLight(name string, pos geom.Vector3) *Light {
	l := &Light{Name: name, Position: pos, Color: Color{1, 1, 1}, Multiplier: 1}
	s.Lights = append(s.Lights, l)
	return l
}

func (s *Scene) AddCamera(name string, pos, target geom.Vector3, lens float32) *Camera {
	c := &Camera{Name: name, Position: pos, Target: target, Lens: lens, Near: 1, Far: 1000}
	s.Cameras = append(s.Cameras, c)
	return c
}

// AddNode appends a keyframer node for the object named name.
func (s *Scene) AddNode(kind Tag, name string, parent int) *Node {
	n := &Node{ID: uint16(len(s.Nodes)), Kind: kind, Name: name, Parent: parent, Tracks: map[Tag]*Track{}}
	s.Nodes = append(s.Nodes, n)
	return n
}

// Track returns the track of the node, creating it if needed.
func (n *Node) Track(tag Tag) *Track {
	if t, ok := n.Tracks[tag]; ok {
		return t
	}
	p, ok := NewPayload(tag, n.Kind).(*Track)
	if !ok {
		return nil
	}
	if n.Tracks == nil {
		n.Tracks = map[Tag]*Track{}
	}
	n.Tracks[tag] = p
	return p
}

// Transform applies f to every position of the scene.
func (s *Scene) Transform(f func(v *geom.Vector3)) {
	for _, m := range s.Meshes {
		m.Transform(f)
	}
	for _, l := range s.Lights {
		f(&l.Position)
		if l.Spot != nil {
			f(&l.Spot.Target)
		}
	}
	for _, c := range s.Cameras {
		f(&c.Position)
		f(&c.Target)
	}
}

func (m *Mesh) AddVertex(x, y, z float32) int {
	m.Vertices = append(m.Vertices, &geom.Vector3{X: x, Y: y, Z: z})
	return len(m.Vertices) - 1
}

// SetUV sets the texture coordinate of vertex i.
func (m *Mesh) SetUV(i int, u, v float32) {
	for len(m.UVs) < len(m.Vertices) {
		m.UVs = append(m.UVs, &geom.Vector2{})
	}
	m.UVs[i] = &geom.Vector2{X: u, Y: v}
}

func (m *Mesh) AddTriangle(a, b, c int, flags uint16) *Triangle {
	t := &Triangle{V: [3]int{a, b, c}, Flags: flags}
	m.Triangles = append(m.Triangles, t)
	return t
}

// AddPolygon triangulates a polygon given by vertex indices. Edges of the
// polygon outline are marked visible.
func (m *Mesh) AddPolygon(indices ...int) []*Triangle {
	poly := make([]*geom.Vector3, len(indices))
	for i, vi := range indices {
		poly[i] = m.Vertices[vi]
	}
	n := len(indices)
	var tris []*Triangle
	for _, t := range geom.Triangulate(poly) {
		var flags uint16
		for k, bit := range []uint16{FaceEdgeAB, FaceEdgeBC, FaceEdgeCA} {
			if a, b := t[k], t[(k+1)%3]; (a+1)%n == b || (b+1)%n == a {
				flags |= bit
			}
		}
		tris = append(tris, m.AddTriangle(indices[t[0]], indices[t[1]], indices[t[2]], flags))
	}
	return tris
}

func (m *Mesh) SetTransform(mat *geom.Matrix4) {
	m.Matrix = mat.Clone()
}

// SetMaterial assigns a material to triangle i.
func (m *Mesh) SetMaterial(i int, name string) {
	m.Triangles[i].Material = name
}

func (m *Mesh) Transform(f func(v *geom.Vector3)) {
	for _, v := range m.Vertices {
		f(v)
	}
	if m.Matrix != nil {
		// f is assumed affine: move the origin and the axis tips.
		x, y, z, o := m.Matrix.Axes()
		tips := []*geom.Vector3{o.Add(x), o.Add(y), o.Add(z)}
		for _, t := range tips {
			f(t)
		}
		f(o)
		m.Matrix = geom.NewMatrix4FromAxes(tips[0].Sub(o), tips[1].Sub(o), tips[2].Sub(o), o)
	}
}

// LocalVertices returns the vertices in the local coordinate system.
func (m *Mesh) LocalVertices() []*geom.Vector3 {
	if m.Matrix == nil || m.Matrix.IsIdentity() {
		return m.Vertices
	}
	inv := m.Matrix.Inverse()
	vs := make([]*geom.Vector3, len(m.Vertices))
	for i, v := range m.Vertices {
		vs[i] = inv.ApplyTo(v)
	}
	return vs
}

// MaterialNames returns the materials used by the mesh in order of first
// use.
func (m *Mesh) MaterialNames() []string {
	seen := map[string]bool{}
	var names []string
	for _, t := range m.Triangles {
		if !seen[t.Material] {
			seen[t.Material] = true
			names = append(names, t.Material)
		}
	}
	return names
}
