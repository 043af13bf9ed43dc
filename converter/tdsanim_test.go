package converter

import (
	"math"
	"testing"

	"github.com/binzume/tdsconv/geom"
	"github.com/binzume/tdsconv/tds"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func animatedScene() *tds.Scene {
	s := cubeScene(0)
	s.Meshes[0].Name = "A"
	s.Meshes[0].SetTransform(geom.NewTranslateMatrix4(10, 0, 0))
	s.AddMesh("B")
	s.AddMesh("still")
	s.AnimName = "walk"

	a := s.AddNode(tds.TagObjectNode, "A", tds.NoParent)
	pos := a.Track(tds.TagPositionTrack)
	pos.AddKey(0, 10, 0, 0)
	pos.AddKey(30, 1, 2, 3)
	rot := a.Track(tds.TagRotationTrack)
	rot.AddKey(0, 0, 0, 0, 1)
	rot.AddKey(30, math.Pi/2, 0, 0, 1)

	b := s.AddNode(tds.TagObjectNode, "B", int(a.ID))
	b.Track(tds.TagScaleTrack).AddKey(0, 1, 2, 3)

	s.AddNode(tds.TagObjectNode, "still", tds.NoParent)
	s.AddNode(tds.TagTargetNode, "A", tds.NoParent).Track(tds.TagPositionTrack).AddKey(0, 5, 5, 5)
	return s
}

func TestAddAnimation(t *testing.T) {
	s := animatedScene()
	conv := NewTDSToGLTFConverter(nil)
	doc, err := conv.Convert(s, "")
	if err != nil {
		t.Fatal(err)
	}
	AddAnimation(doc, s, conv.NodeByName, 1)

	if len(doc.Animations) != 1 || doc.Animations[0].Name != "walk" {
		t.Fatal("animations: ", len(doc.Animations))
	}
	a := doc.Animations[0]
	if len(a.Channels) != 3 {
		t.Fatal("channels: ", len(a.Channels))
	}
	paths := []gltf.TRSProperty{gltf.TRSTranslation, gltf.TRSRotation, gltf.TRSScale}
	for i, ch := range a.Channels {
		if ch.Target.Path != paths[i] {
			t.Errorf("channel %d: %v", i, ch.Target.Path)
		}
	}
	// position and rotation share the key times
	if *a.Samplers[0].Input != *a.Samplers[1].Input {
		t.Error("input accessor not shared")
	}
	input := doc.Accessors[*a.Samplers[0].Input]
	if input.Count != 2 || len(input.Max) != 1 || input.Max[0] != 1 {
		t.Errorf("input: %+v", input)
	}

	out, err := modeler.ReadPosition(doc, doc.Accessors[*a.Samplers[0].Output], [][3]float32{})
	if err != nil {
		t.Fatal(err)
	}
	if !nearArray(out[0], [3]float32{10, 0, 0}) || !nearArray(out[1], [3]float32{1, 3, -2}) {
		t.Error("translations: ", out)
	}
	scales, err := modeler.ReadPosition(doc, doc.Accessors[*a.Samplers[2].Output], [][3]float32{})
	if err != nil || scales[0] != [3]float32{1, 3, 2} {
		t.Error("scales: ", scales, err)
	}
	if rot := doc.Accessors[*a.Samplers[1].Output]; rot.Count != 2 || rot.Type != gltf.AccessorVec4 {
		t.Errorf("rotations: %+v", rot)
	}

	na, nb := doc.Nodes[conv.NodeByName["A"]], conv.NodeByName["B"]
	if na.Matrix != gltf.DefaultMatrix || !nearArray(na.Translation, [3]float32{10, 0, 0}) {
		t.Error("node A: ", na.Matrix, na.Translation)
	}
	if len(na.Children) != 1 || na.Children[0] != nb {
		t.Error("children: ", na.Children)
	}
	for _, root := range doc.Scenes[0].Nodes {
		if root == nb {
			t.Error("B is still a root")
		}
	}
}

func TestAddAnimationEmpty(t *testing.T) {
	s := cubeScene(0)
	s.AddNode(tds.TagObjectNode, "Cube", tds.NoParent)
	s.AddNode(tds.TagObjectNode, "missing", tds.NoParent).Track(tds.TagPositionTrack).AddKey(0, 1, 1, 1)
	conv := NewTDSToGLTFConverter(nil)
	doc, _ := conv.Convert(s, "")
	AddAnimation(doc, s, conv.NodeByName, 1)
	if len(doc.Animations) != 0 {
		t.Error("unexpected animation")
	}
}

func TestUseTRS(t *testing.T) {
	m := geom.NewTRSMatrix4(&geom.Vector3{X: 1, Y: 2, Z: 3}, geom.NewQuaternion(0, 0, 0, 1), &geom.Vector3{X: 2, Y: 2, Z: 2})
	node := &gltf.Node{Matrix: *m}
	useTRS(node)
	if node.Matrix != gltf.DefaultMatrix {
		t.Error("matrix not cleared")
	}
	if !nearArray(node.Translation, [3]float32{1, 2, 3}) || !nearArray(node.Scale, [3]float32{2, 2, 2}) {
		t.Error("trs: ", node.Translation, node.Scale)
	}
	if r := node.Rotation; math.Abs(float64(r[3]))-1 > 1e-5 || math.Abs(float64(r[3])) < 1-1e-5 {
		t.Error("rotation: ", r)
	}
}
