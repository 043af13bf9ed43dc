package gltfutil

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func TestLightsExtension(t *testing.T) {
	doc := gltf.NewDocument()
	node := &gltf.Node{Name: "lamp"}
	doc.Nodes = append(doc.Nodes, node, &gltf.Node{Name: "empty"})
	doc.Scenes[0].Nodes = []uint32{0, 1}
	AddLight(doc, node, &Light{Type: LightSpot, Color: [3]float32{1, 0.5, 0}, Intensity: 2, Spot: &Spot{InnerConeAngle: 0.1, OuterConeAngle: 0.5}})
	if !IsExtensionUsed(doc, LightsExtension) {
		t.Error("extension is not marked as used")
	}

	var buf bytes.Buffer
	e := gltf.NewEncoder(&buf)
	e.AsBinary = true
	if err := e.Encode(doc); err != nil {
		t.Fatal(err)
	}
	var doc2 gltf.Document
	if err := gltf.NewDecoder(&buf).Decode(&doc2); err != nil {
		t.Fatal(err)
	}
	l, ok := NodeLight(&doc2, doc2.Nodes[0])
	if !ok {
		t.Fatal("light not found")
	}
	if l.Type != LightSpot || l.Color != [3]float32{1, 0.5, 0} || l.Intensity != 2 || l.Spot == nil || l.Spot.OuterConeAngle != 0.5 {
		t.Errorf("light: %+v", l)
	}
	if _, ok := NodeLight(&doc2, doc2.Nodes[1]); ok {
		t.Error("node without light")
	}
}

func TestExtractImages(t *testing.T) {
	doc := gltf.NewDocument()
	png := []byte("\x89PNG fake")
	img, err := modeler.WriteImage(doc, "tex", "image/png", bytes.NewReader(png))
	if err != nil {
		t.Fatal(err)
	}
	doc.Images = append(doc.Images,
		&gltf.Image{URI: "textures/wood.jpg"},
		&gltf.Image{URI: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg"))},
	)

	dir := t.TempDir()
	names, err := ExtractImages(doc, dir)
	if err != nil {
		t.Fatal(err)
	}
	want := map[uint32]string{img: "tex.png", img + 1: "wood.jpg", img + 2: "image2.jpg"}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("image %d: %q, want %q", i, names[i], name)
		}
	}
	if b, err := os.ReadFile(filepath.Join(dir, "tex.png")); err != nil || !bytes.Equal(b, png) {
		t.Error("tex.png: ", err)
	}
	if b, err := os.ReadFile(filepath.Join(dir, "image2.jpg")); err != nil || string(b) != "jpeg" {
		t.Error("image2.jpg: ", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "wood.jpg")); err == nil {
		t.Error("external image should not be written")
	}
}
