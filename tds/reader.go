package tds

import (
	"bytes"
	"errors"
	"io"

	"github.com/anaminus/parse"
	"github.com/binzume/tdsconv/geom"
	"golang.org/x/text/encoding"
)

// reader is a position tracking little-endian cursor. The first error is
// sticky: once set, every read is a no-op returning zero values.
type reader struct {
	f   *parse.BinaryReader
	dec *encoding.Decoder
	buf []byte
}

func newReader(r io.Reader, enc encoding.Encoding) *reader {
	cr := &reader{f: parse.NewBinaryReader(r)}
	if enc != nil {
		cr.dec = enc.NewDecoder()
	}
	return cr
}

func (r *reader) pos() int64 {
	return r.f.N()
}

func (r *reader) err() error {
	return r.f.Err()
}

// eof reports whether the input ended before a read completed.
func (r *reader) eof() bool {
	err := r.f.Err()
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func (r *reader) fail(err error) {
	if r.f.Err() == nil {
		r.f.Add(0, err)
	}
}

func (r *reader) u8() uint8 {
	var v uint8
	r.f.Number(&v)
	return v
}

func (r *reader) u16() uint16 {
	var v uint16
	r.f.Number(&v)
	return v
}

func (r *reader) u32() uint32 {
	var v uint32
	r.f.Number(&v)
	return v
}

func (r *reader) f32() float32 {
	var v float32
	r.f.Number(&v)
	return v
}

func (r *reader) floats(v []float32) {
	for i := range v {
		v[i] = r.f32()
	}
}

func (r *reader) vec3() geom.Vector3 {
	var v [3]float32
	r.floats(v[:])
	return geom.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

// cstring reads a NUL-terminated string. The terminator must appear before
// the limit offset.
func (r *reader) cstring(limit int64) string {
	var s []byte
	var b [1]byte
	for r.err() == nil {
		if r.pos() >= limit {
			r.fail(structuralf("unterminated string"))
			break
		}
		if r.f.Bytes(b[:]) || b[0] == 0 {
			break
		}
		s = append(s, b[0])
	}
	return r.decodeString(s)
}

// fixedString reads exactly n bytes and returns the text before the first
// NUL among the first n-1 bytes.
func (r *reader) fixedString(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	if r.f.Bytes(b) {
		return ""
	}
	b = b[:n-1]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return r.decodeString(b)
}

func (r *reader) decodeString(b []byte) string {
	if r.dec == nil {
		return string(b)
	}
	s, err := r.dec.Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// bytes reads exactly n bytes. The result grows as data arrives, so a bogus
// length fails at the end of input instead of allocating it up front.
func (r *reader) bytes(n int64) []byte {
	if r.buf == nil {
		r.buf = make([]byte, 4096)
	}
	b := []byte{}
	for n > 0 && r.err() == nil {
		m := n
		if m > int64(len(r.buf)) {
			m = int64(len(r.buf))
		}
		if r.f.Bytes(r.buf[:m]) {
			break
		}
		b = append(b, r.buf[:m]...)
		n -= m
	}
	return b
}

// skip discards n bytes, looping until all of them are consumed.
func (r *reader) skip(n int64) {
	if r.buf == nil {
		r.buf = make([]byte, 4096)
	}
	for n > 0 && r.err() == nil {
		m := n
		if m > int64(len(r.buf)) {
			m = int64(len(r.buf))
		}
		r.f.Bytes(r.buf[:m])
		n -= m
	}
}
