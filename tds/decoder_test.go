package tds

import (
	"bytes"
	"context"
	"errors"
	"io"
	"runtime"
	"testing"
)

func minimalFile(children ...[]byte) []byte {
	parts := append([][]byte{raw(TagVersion, le(uint32(3)))}, children...)
	return raw(TagMain, parts...)
}

func TestDecodeUnknownChunk(t *testing.T) {
	data := minimalFile(
		raw(0x1234, []byte{1, 2, 3, 4, 5}),
		raw(TagEditor, raw(TagMeshVersion, le(uint32(3))), raw(0x7777), raw(TagMasterScale, le(float32(2)))),
	)
	root, err := decodeBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(root.Children) != 3 {
		t.Fatal("children: ", len(root.Children))
	}
	u, ok := root.Children[1].Payload.(*Unknown)
	if !ok || root.Children[1].Tag != 0x1234 {
		t.Fatalf("unknown chunk: %v %T", root.Children[1].Tag, root.Children[1].Payload)
	}
	if u.Size != 5 || u.Data != nil || root.Children[1].Length() != 11 {
		t.Error("unknown chunk placeholder: ", u.Size, u.Data, root.Children[1].Length())
	}
	ed := root.Child(TagEditor)
	if len(ed.Children) != 3 {
		t.Fatal("editor children: ", len(ed.Children))
	}
	if v, ok := ed.Child(TagMasterScale).Float(); !ok || v != 2 {
		t.Error("sibling after unknown chunk: ", v)
	}
	if root.Length() != uint32(len(data)) {
		t.Error("root length: ", root.Length())
	}
}

func TestDecodeKeepUnknown(t *testing.T) {
	data := minimalFile(
		raw(0x1234, []byte{1, 2, 3, 4, 5}),
		raw(TagEditor, raw(TagMeshVersion, le(uint32(3)))),
	)
	d := Decoder{KeepUnknown: true}
	root, err := d.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	out, err := encodeBytes(root)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("re-encoded: %x\nwant %x", out, data)
	}

	root, _ = decodeBytes(data)
	if _, err := encodeBytes(root); !errors.Is(err, ErrSkippedChunk) {
		t.Error("encoding skipped chunk: ", err)
	}
}

func TestDecodeKeepUnknownLength(t *testing.T) {
	body := make([]byte, 10000)
	body[9999] = 9
	d := Decoder{KeepUnknown: true}
	root, err := d.Decode(bytes.NewReader(minimalFile(raw(0x1234, body))))
	if err != nil {
		t.Fatal(err)
	}
	if u := root.Child(0x1234).Payload.(*Unknown); !bytes.Equal(u.Data, body) || u.Size != 10000 {
		t.Error("unknown body: ", len(u.Data), u.Size)
	}

	// a huge declared length must not be allocated before the data arrives
	data := le(uint16(TagMain), uint32(0xFFFFFFFF), uint16(0x1234), uint32(0xC0000000))
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err = d.Decode(bytes.NewReader(data))
	runtime.ReadMemStats(&after)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("truncated unknown chunk: ", err)
	}
	if n := after.TotalAlloc - before.TotalAlloc; n > 64<<20 {
		t.Errorf("allocated %d MiB", n>>20)
	}
}

func TestDecodeContextDependentTag(t *testing.T) {
	// VERSION is only meaningful directly under M3DMAGIC.
	data := minimalFile(raw(TagEditor, raw(TagVersion, le(uint32(3)))))
	root, err := decodeBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := root.Child(TagVersion).Payload.(*Uint32Value); !ok {
		t.Error("VERSION under M3DMAGIC")
	}
	if _, ok := root.Child(TagEditor).Child(TagVersion).Payload.(*Unknown); !ok {
		t.Error("VERSION under MDATA should be unknown")
	}
}

func materialFile(colors ...[]byte) []byte {
	return minimalFile(raw(TagEditor,
		raw(TagMaterial,
			raw(TagMatName, cstr("mat")),
			raw(TagMatDiffuse, colors...),
		)))
}

func TestDecodeGammaColor(t *testing.T) {
	for _, tc := range []struct {
		name   string
		colors [][]byte
		want   Color
	}{
		{"plain", [][]byte{raw(TagColor24, []byte{255, 0, 0})}, Color{1, 0, 0}},
		{"plain then gamma", [][]byte{raw(TagColor24, []byte{255, 0, 0}), raw(TagLinColor24, []byte{0, 255, 0})}, Color{0, 1, 0}},
		{"gamma then plain", [][]byte{raw(TagLinColor24, []byte{0, 255, 0}), raw(TagColor24, []byte{255, 0, 0})}, Color{0, 1, 0}},
		{"float gamma", [][]byte{raw(TagColorF, le(float32(1), float32(0), float32(0))), raw(TagLinColorF, le(float32(0), float32(0), float32(0.5)))}, Color{0, 0, 0.5}},
		{"two plain", [][]byte{raw(TagColor24, []byte{255, 0, 0}), raw(TagColorF, le(float32(0), float32(1), float32(0)))}, Color{0, 1, 0}},
	} {
		root, err := decodeBytes(materialFile(tc.colors...))
		if err != nil {
			t.Fatal(tc.name, err)
		}
		col, ok := root.Child(TagEditor).Child(TagMaterial).Child(TagMatDiffuse).Color()
		if !ok || col != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, col, tc.want)
		}
	}
}

func faceFile(faces int, smoothing []byte) []byte {
	fl := [][]byte{le(uint16(faces))}
	for i := 0; i < faces; i++ {
		fl = append(fl, le(uint16(0), uint16(1), uint16(2), uint16(7)))
	}
	fl = append(fl, raw(TagSmoothingGroups, smoothing))
	return minimalFile(raw(TagEditor,
		raw(TagNamedObject, cstr("obj"),
			raw(TagTriMesh,
				raw(TagVertexList, le(uint16(3), float32(0), float32(0), float32(0), float32(1), float32(0), float32(0), float32(0), float32(1), float32(0))),
				raw(TagFaceList, fl...),
			))))
}

func TestDecodeFloatPercent(t *testing.T) {
	data := minimalFile(raw(TagEditor, raw(TagMaterial,
		raw(TagMatName, cstr("m")),
		raw(TagMatShininess, raw(TagPercentF, le(float32(0.5)))),
		raw(TagMatTransparency, raw(TagPercentInt, le(uint16(25)))),
		raw(TagMatSelfIllum, raw(TagPercentInt, le(uint16(10))), raw(TagPercentF, le(float32(0.75)))),
	)))
	root, err := decodeBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	s, err := ToScene(root)
	if err != nil {
		t.Fatal(err)
	}
	m := s.Material("m")
	if m == nil {
		t.Fatal("material not found")
	}
	if m.Shininess != 0.5 {
		t.Error("float percentage: ", m.Shininess)
	}
	if m.Transparency != 0.25 {
		t.Error("integer percentage: ", m.Transparency)
	}
	if m.SelfIllum != 0.75 {
		t.Error("last percentage: ", m.SelfIllum)
	}
}

func TestDecodeSmoothingGroups(t *testing.T) {
	root, err := decodeBytes(faceFile(2, le(uint32(1), uint32(6))))
	if err != nil {
		t.Fatal(err)
	}
	fc := root.Child(TagEditor).Child(TagNamedObject).Child(TagTriMesh).Child(TagFaceList)
	sg, ok := fc.Child(TagSmoothingGroups).Payload.(*SmoothingGroups)
	if !ok || len(sg.Groups) != 2 || sg.Groups[0] != 1 || sg.Groups[1] != 6 {
		t.Error("smoothing groups: ", sg)
	}

	for _, body := range [][]byte{le(uint32(1)), le(uint32(1), uint32(2), uint32(3))} {
		_, err := decodeBytes(faceFile(2, body))
		if !errors.Is(err, ErrStructure) {
			t.Errorf("%d bytes of smoothing groups for 2 faces: %v", len(body), err)
		}
		var ce *ChunkError
		if !errors.As(err, &ce) || ce.Tag != TagSmoothingGroups {
			t.Error("error should name SMOOTH_GROUP: ", err)
		}
	}

	// outside of a face list
	data := minimalFile(raw(TagEditor, raw(TagNamedObject, cstr("obj"), raw(TagTriMesh, raw(TagSmoothingGroups, le(uint32(1)))))))
	if _, err := decodeBytes(data); !errors.Is(err, ErrStructure) {
		t.Error("smoothing groups without faces: ", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	data := faceFile(2, le(uint32(1), uint32(6)))
	for n := 0; n < len(data); n++ {
		root, err := decodeBytes(data[:n])
		if err == nil || root != nil {
			t.Fatalf("truncated at %d: no error", n)
		}
		if !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, ErrStructure) {
			t.Errorf("truncated at %d: %v", n, err)
		}
	}
}

func TestDecodeStructuralErrors(t *testing.T) {
	tooShort := minimalFile()
	tooShort = append(tooShort[:len(tooShort)-10], le(uint16(TagVersion), uint32(3))...)
	tooShort = append(tooShort, 0, 0, 0, 0)

	overflow := le(uint16(TagMain), uint32(6+10), uint16(TagEditor), uint32(20), uint32(0))

	for _, tc := range []struct {
		name   string
		data   []byte
		tag    Tag
		offset int64
	}{
		{"header length", tooShort, TagVersion, 6},
		{"child exceeds parent", overflow, TagEditor, 6},
		{"fixed size", minimalFile(raw(TagEditor, raw(TagMasterScale, []byte{0, 0, 0, 0, 0}))), TagMasterScale, 22},
		{"leaf with trailing data", minimalFile(raw(TagEditor, raw(TagMatName, cstr("a"), []byte{1}))), TagMatName, 22},
	} {
		_, err := decodeBytes(tc.data)
		if !errors.Is(err, ErrStructure) {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		var ce *ChunkError
		if !errors.As(err, &ce) || ce.Tag != tc.tag || ce.Offset != tc.offset {
			t.Errorf("%s: %v", tc.name, err)
		}
	}
}

func TestDecodeNotMain(t *testing.T) {
	_, err := decodeBytes(raw(TagEditor))
	if !errors.Is(err, ErrNotMain) {
		t.Error("not main: ", err)
	}
}

func TestDecodeCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var d Decoder
	_, err := d.DecodeContext(ctx, bytes.NewReader(minimalFile()))
	if !errors.Is(err, context.Canceled) {
		t.Error("canceled: ", err)
	}
}
