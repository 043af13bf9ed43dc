package tds

import (
	"io"
	"strings"

	"github.com/anaminus/parse"
	"github.com/binzume/tdsconv/geom"
	"golang.org/x/text/encoding"
)

// writer is the little-endian counterpart of reader.
type writer struct {
	f   *parse.BinaryWriter
	enc *encoding.Encoder
}

func newWriter(w io.Writer, enc encoding.Encoding) *writer {
	cw := &writer{f: parse.NewBinaryWriter(w)}
	if enc != nil {
		cw.enc = encoding.ReplaceUnsupported(enc.NewEncoder())
	}
	return cw
}

func (w *writer) err() error {
	return w.f.Err()
}

func (w *writer) fail(err error) {
	if w.f.Err() == nil {
		w.f.Add(0, err)
	}
}

func (w *writer) u8(v uint8) {
	w.f.Number(v)
}

func (w *writer) u16(v uint16) {
	w.f.Number(v)
}

func (w *writer) u32(v uint32) {
	w.f.Number(v)
}

func (w *writer) f32(v float32) {
	w.f.Number(v)
}

func (w *writer) floats(v []float32) {
	for _, f := range v {
		w.f32(f)
	}
}

func (w *writer) vec3(v geom.Vector3) {
	w.f32(v.X)
	w.f32(v.Y)
	w.f32(v.Z)
}

func (w *writer) bytes(b []byte) {
	w.f.Bytes(b)
}

func (w *writer) encodeString(s string) []byte {
	if w.enc == nil {
		return []byte(s)
	}
	b, err := w.enc.Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return b
}

// strlen is the encoded size of s including the terminator.
func (w *writer) strlen(s string) uint32 {
	return uint32(len(w.encodeString(s))) + 1
}

func (w *writer) cstring(s string) {
	if strings.IndexByte(s, 0) >= 0 {
		w.fail(ErrStringNUL)
		return
	}
	w.f.Bytes(w.encodeString(s))
	w.f.Number(uint8(0))
}

// fixedString writes s padded with NULs to exactly n bytes. The last byte
// is always NUL.
func (w *writer) fixedString(s string, n int) {
	if n <= 0 {
		return
	}
	b := make([]byte, n)
	copy(b[:n-1], w.encodeString(s))
	w.f.Bytes(b)
}
