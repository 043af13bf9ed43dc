package tds

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/binzume/tdsconv/geom"
)

func fullScene() *Scene {
	s := NewScene()
	s.Ambient = &Color{R: 0.1, G: 0.1, B: 0.1}
	s.Background = &Color{B: 0.5}
	s.BackgroundBitmap = "sky.png"

	red := s.AddMaterial("red")
	red.Diffuse = Color{R: 1}
	red.Shininess = 0.5
	red.Transparency = 0.25
	red.TwoSided = true
	red.Texture = NewTextureMap("red.png")
	red.Texture.UScale = 2
	red.Texture.Flags = 0x10
	red.BumpMap = NewTextureMap("bump.png")
	red.BumpMap.Strength = 0.3
	blue := s.AddMaterial("blue")
	blue.Wire = true
	blue.WireSize = 2
	blue.Shading = ShadingFlat

	cube := cubeScene().Meshes[0]
	for i := range cube.Vertices {
		cube.SetUV(i, float32(i)/8, 1-float32(i)/8)
	}
	for i, t := range cube.Triangles {
		t.Smoothing = 1 << uint(i/2)
		if i < 6 {
			cube.SetMaterial(i, "red")
		} else if i < 10 {
			cube.SetMaterial(i, "blue")
		}
	}
	cube.SetTransform(geom.NewTranslateMatrix4(1, 2, 3))
	cube.Color = 3
	cube.Mapping = &MappingInfo{Kind: MappingPlanar, TileX: 1, TileY: 1, Scale: 1}
	s.Meshes = append(s.Meshes, cube)

	dummy := s.AddMesh("$dummy")
	dummy.AddVertex(0, 0, 0)
	dummy.AddVertex(1, 0, 0)
	dummy.AddVertex(0, 1, 0)
	dummy.AddTriangle(0, 1, 2, FaceEdgesShow)

	hidden := s.AddMesh("hidden")
	hidden.AddVertex(0, 0, 0)
	hidden.Hidden = true

	sun := s.AddLight("sun", geom.Vector3{Y: 10})
	sun.Color = Color{R: 1, G: 1, B: 0.5}
	sun.Multiplier = 2
	sun.InnerRange, sun.OuterRange = 10, 100
	sun.Attenuate = true
	sun.Spot = &Spot{Hotspot: 30, Falloff: 45, Roll: 5, Shadowed: true}
	lamp := s.AddLight("lamp", geom.Vector3{X: 1, Y: 1, Z: 1})
	lamp.Off = true

	s.AddCamera("cam", geom.Vector3{Z: -10}, geom.Vector3{}, 35)

	s.AnimName = "take1"
	s.AnimLength = 100
	s.End = 100
	s.CurrentFrame = 12
	n := s.AddNode(TagObjectNode, "Cube", NoParent)
	n.Pivot = geom.Vector3{X: 0.5}
	n.Track(TagPositionTrack).AddKey(0, 1, 2, 3)
	n.Track(TagPositionTrack).AddKey(100, 4, 5, 6).Flags = KeyUseTension | KeyUseEaseFrom
	n.Track(TagRotationTrack).AddKey(0, 0, 0, 0, 1)
	n.Track(TagScaleTrack).AddKey(0, 1, 1, 1)
	n.Track(TagHideTrack).AddKey(50)
	child := s.AddNode(TagObjectNode, "$dummy", int(n.ID))
	child.Instance = "inst"
	child.Flags1 = 0x4000
	cn := s.AddNode(TagCameraNode, "cam", NoParent)
	cn.Track(TagFOVTrack).AddKey(0, 45)
	cn.Track(TagRollTrack).AddKey(0, 0)
	return s
}

func TestSceneRoundTrip(t *testing.T) {
	s := fullScene()
	// spline parameters survive when their flag bits are set
	s.Nodes[0].Tracks[TagPositionTrack].Keys[1].Tension = 0.5

	result, _ := roundTrip(t, s)
	if !reflect.DeepEqual(s, result) {
		t.Errorf("scene differs\n got: %+v\nwant: %+v", result, s)
		for i := range s.Materials {
			if !reflect.DeepEqual(s.Materials[i], result.Materials[i]) {
				t.Errorf("material %d: %+v != %+v", i, result.Materials[i], s.Materials[i])
			}
		}
		for i := range s.Meshes {
			if !reflect.DeepEqual(s.Meshes[i], result.Meshes[i]) {
				t.Errorf("mesh %d differs", i)
			}
		}
	}
}

func TestSceneHiddenPrefix(t *testing.T) {
	s := NewScene()
	if !s.AddMesh("$x").Hidden || s.AddMesh("x").Hidden {
		t.Error("Hidden should follow the $ prefix")
	}
	root, err := FromScene(fullScene())
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range root.Child(TagEditor).ChildrenByTag(TagNamedObject) {
		hasFlag := c.Child(TagObjectHidden) != nil
		if hasFlag != (c.Text() == "hidden") {
			t.Errorf("%s: OBJ_HIDDEN=%v", c.Text(), hasFlag)
		}
	}
}

func TestDuplicateMaterial(t *testing.T) {
	s := NewScene()
	s.AddMaterial("a").Diffuse = Color{R: 1}
	s.AddMaterial("a").Diffuse = Color{B: 1}
	result, _ := roundTrip(t, s)
	if len(result.Materials) != 1 {
		t.Fatal("materials: ", len(result.Materials))
	}
	if result.Materials[0].Diffuse != (Color{R: 1}) {
		t.Error("first material should win: ", result.Materials[0].Diffuse)
	}
}

func TestToSceneErrors(t *testing.T) {
	if _, err := ToScene(NewChunk(TagEditor, nil)); !errors.Is(err, ErrNotMain) {
		t.Error(err)
	}

	mesh := func(faces []Face, mat *FaceMaterial) *Chunk {
		fl := NewChunk(TagFaceList, &FaceList{Faces: faces})
		if mat != nil {
			fl.Add(NewChunk(TagFaceMaterial, mat))
		}
		return NewChunk(TagMain, nil, NewChunk(TagEditor, nil,
			NewChunk(TagNamedObject, &Text{Value: "m"}, NewChunk(TagTriMesh, nil,
				NewChunk(TagVertexList, &VertexList{Vertices: make([]geom.Vector3, 3)}),
				fl))))
	}
	if _, err := ToScene(mesh([]Face{{V: [3]uint16{0, 1, 5}}}, nil)); !errors.Is(err, ErrIndexRange) {
		t.Error("vertex index: ", err)
	}
	if _, err := ToScene(mesh([]Face{{V: [3]uint16{0, 1, 2}}}, &FaceMaterial{Name: "x", Faces: []uint16{1}})); !errors.Is(err, ErrIndexRange) {
		t.Error("face index: ", err)
	}
	s, err := ToScene(mesh([]Face{{V: [3]uint16{0, 1, 2}}}, &FaceMaterial{Name: "x", Faces: []uint16{0}}))
	if err != nil {
		t.Fatal(err)
	}
	if s.Meshes[0].Triangles[0].Material != "x" {
		t.Error("material: ", s.Meshes[0].Triangles[0].Material)
	}
}

func TestFromSceneErrors(t *testing.T) {
	s := NewScene()
	m := s.AddMesh("big")
	m.Vertices = make([]*geom.Vector3, math.MaxUint16+1)
	if _, err := FromScene(s); !errors.Is(err, ErrTooMany) {
		t.Error("vertices: ", err)
	}

	s = NewScene()
	m = s.AddMesh("uv")
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.UVs = []*geom.Vector2{{}}
	if _, err := FromScene(s); !errors.Is(err, ErrIndexRange) {
		t.Error("uvs: ", err)
	}

	m.UVs = nil
	m.AddTriangle(0, 1, 2, 0)
	if _, err := FromScene(s); !errors.Is(err, ErrIndexRange) {
		t.Error("triangle: ", err)
	}
}

func near(a, b *geom.Vector3) bool {
	return a.Sub(b).Len() < 1e-5
}

func TestNormals(t *testing.T) {
	s := NewScene()
	m := s.AddMesh("corner")
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddVertex(0, 0, 1)
	m.AddTriangle(0, 1, 2, 0).Smoothing = 1
	m.AddTriangle(0, 2, 3, 0).Smoothing = 3
	m.AddTriangle(0, 3, 1, 0).Smoothing = 2

	faces := []*geom.Vector3{{Z: 1}, {X: 1}, {Y: 1}}
	for i, want := range faces {
		if n := m.FaceNormal(i); !near(n, want) {
			t.Errorf("face %d: %v", i, n)
		}
	}

	normals := m.Normals()
	// groups 1 and 2 merge through group 3 around vertex 0
	avg := geom.NewVector3(1, 1, 1).Normalize()
	for i := range m.Triangles {
		if !near(normals[i][0], avg) {
			t.Errorf("triangle %d corner 0: %v", i, normals[i][0])
		}
	}
	// around vertex 1, triangle 0 and 2 share no group
	if !near(normals[0][1], faces[0]) || !near(normals[2][2], faces[2]) {
		t.Error("vertex 1: ", normals[0][1], normals[2][2])
	}

	for _, tri := range m.Triangles {
		tri.Smoothing = 0
	}
	for i, ns := range m.Normals() {
		for k, n := range ns {
			if !near(n, faces[i]) {
				t.Errorf("flat %d/%d: %v", i, k, n)
			}
		}
	}
}

func TestAddPolygon(t *testing.T) {
	s := NewScene()
	m := s.AddMesh("quad")
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(1, 1, 0)
	m.AddVertex(0, 1, 0)
	tris := m.AddPolygon(0, 1, 2, 3)
	if len(tris) != 2 || len(m.Triangles) != 2 {
		t.Fatal("triangles: ", len(tris))
	}
	edges := 0
	for _, tri := range tris {
		for _, bit := range []uint16{FaceEdgeAB, FaceEdgeBC, FaceEdgeCA} {
			if tri.Flags&bit != 0 {
				edges++
			}
		}
	}
	if !near(m.FaceNormal(0), m.FaceNormal(1)) {
		t.Error("triangles are not facing the same way")
	}
	if edges != 4 {
		t.Error("visible edges: ", edges)
	}
}

func TestLocalVertices(t *testing.T) {
	s := NewScene()
	m := s.AddMesh("m")
	m.AddVertex(2, 2, 2)
	if m.LocalVertices()[0] != m.Vertices[0] {
		t.Error("identity matrix should return the vertices as is")
	}
	m.SetTransform(geom.NewTranslateMatrix4(1, 2, 3))
	want := &geom.Vector3{X: 1, Y: 0, Z: -1}
	if v := m.LocalVertices()[0]; !near(v, want) {
		t.Error("local: ", v)
	}

	s.Transform(func(v *geom.Vector3) { *v = *v.Scale(2) })
	if v := m.Vertices[0]; !near(v, &geom.Vector3{X: 4, Y: 4, Z: 4}) {
		t.Error("world: ", v)
	}
	if v := m.LocalVertices()[0]; !near(v, want) {
		t.Error("local after transform: ", v)
	}
}

func TestRotationKeys(t *testing.T) {
	tr := NewTrack(4)
	q1 := geom.NewQuaternionFromAxisAngle(&geom.Vector3{Z: 1}, math.Pi/2)
	q2 := geom.NewQuaternionFromAxisAngle(&geom.Vector3{X: 1}, math.Pi/2).Mul(q1)
	tr.AddRotationKey(0, q1)
	tr.AddRotationKey(10, q2)
	tr.AddRotationKey(20, q2)

	frames, qs := tr.RotationKeys()
	if !reflect.DeepEqual(frames, []uint32{0, 10, 20}) {
		t.Error("frames: ", frames)
	}
	for i, want := range []*geom.Quaternion{q1, q2, q2} {
		if d := qs[i].Dot(want); math.Abs(float64(d)) < 0.9999 {
			t.Errorf("key %d: %v, want %v", i, qs[i], want)
		}
	}
	if a := tr.Keys[2].Value[0]; math.Abs(float64(a)) > 1e-2 {
		t.Error("repeated orientation should store no rotation: ", a)
	}

	if f, v := NewTrack(3).Vector3Keys(); f == nil || v == nil {
		t.Error("empty position track")
	}
	if f, _ := tr.Vector3Keys(); f != nil {
		t.Error("rotation track has no vector keys")
	}
}
