package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/binzume/tdsconv/converter"
	"github.com/binzume/tdsconv/tds"
)

// writeFile saves a small scene with an unknown chunk and returns its bytes.
func writeFile(t *testing.T, path string) []byte {
	t.Helper()
	s := tds.NewScene()
	m := s.AddMesh("tri")
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)
	m.AddTriangle(0, 1, 2, tds.FaceEdgesShow)
	root, err := tds.FromScene(s)
	if err != nil {
		t.Fatal(err)
	}
	root.Add(tds.NewChunk(0x1234, &tds.Unknown{Data: []byte{1, 2, 3}}))
	if err := tds.Save(root, path, nil); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestNewDecoder(t *testing.T) {
	if d := newDecoder("out.3DS", nil, false, false); !d.KeepUnknown {
		t.Error(".3ds output should keep unknown chunks")
	}
	if d := newDecoder("out.glb", nil, false, false); d.KeepUnknown {
		t.Error(".glb output")
	}
	if d := newDecoder("out.glb", nil, true, true); !d.KeepUnknown || !d.Verbose {
		t.Error("flags")
	}
}

func TestChunkCopy(t *testing.T) {
	dir := t.TempDir()
	input, output := filepath.Join(dir, "in.3ds"), filepath.Join(dir, "out.3ds")
	data := writeFile(t, input)

	root, err := loadChunks(input, newDecoder(output, nil, false, false))
	if err != nil {
		t.Fatal(err)
	}
	if err := convert3DS(root, input, output, &converter.Config{}, nil, nil); err != nil {
		t.Fatal(err)
	}
	out, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("copy differs: %d bytes, want %d", len(out), len(data))
	}
}

func TestInfoWith3DSOutput(t *testing.T) {
	dir := t.TempDir()
	input, output := filepath.Join(dir, "in.3ds"), filepath.Join(dir, "out.3ds")
	writeFile(t, input)

	root, err := loadChunks(input, newDecoder(output, nil, false, false))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := convert3DS(root, input, output, &converter.Config{}, nil, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "name: tri") {
		t.Error("info: ", buf.String())
	}
	if _, err := os.Stat(output); err == nil {
		t.Error("output written with -info")
	}
}
