package tds

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"reflect"

	"golang.org/x/text/encoding"
)

// Encoder writes 3ds chunk trees.
type Encoder struct {
	// Encoding of strings in the file. nil writes Go strings as is.
	Encoding encoding.Encoding
}

// Encode computes the length of every chunk of the tree and writes it. On
// error the written output is incomplete and must be discarded.
func (e *Encoder) Encode(w io.Writer, root *Chunk) error {
	bw := bufio.NewWriter(w)
	cw := newWriter(bw, e.Encoding)
	if _, err := measure(cw, root, nil); err != nil {
		return err
	}
	if err := write(cw, root); err != nil {
		return err
	}
	return bw.Flush()
}

// measure stores the total length of c and all descendants.
func measure(w *writer, c *Chunk, parent *Chunk) (uint64, error) {
	if err := validate(c, parent); err != nil {
		return 0, &ChunkError{Tag: c.Tag, Offset: -1, Cause: err}
	}
	size := uint64(headerSize)
	if c.Payload != nil {
		size += uint64(c.Payload.size(w))
	}
	for _, ch := range c.Children {
		n, err := measure(w, ch, c)
		if err != nil {
			return 0, err
		}
		size += n
	}
	if size > math.MaxUint32 {
		return 0, &ChunkError{Tag: c.Tag, Offset: -1, Cause: ErrChunkTooLarge}
	}
	c.length = uint32(size)
	return size, nil
}

// validate rejects trees that would not decode back to the same shape.
func validate(c *Chunk, parent *Chunk) error {
	var parentTag Tag
	if parent != nil {
		parentTag = parent.Tag
	}
	if u, ok := c.Payload.(*Unknown); ok {
		if u.Data == nil && u.Size > 0 {
			return ErrSkippedChunk
		}
		return nil
	}
	typ := lookupType(c.Tag, parentTag)
	if typ == &unknownType {
		return fmt.Errorf("%w: tag is not valid inside %v", ErrStructure, parentTag)
	}
	if !typ.children && len(c.Children) > 0 {
		return structuralf("chunk cannot have sub-chunks")
	}
	switch {
	case typ.payload == nil && c.Payload != nil:
		return structuralf("unexpected payload %T", c.Payload)
	case typ.payload != nil:
		want := typ.payload()
		if reflect.TypeOf(want) != reflect.TypeOf(c.Payload) {
			return structuralf("payload %T, expected %T", c.Payload, want)
		}
		if fs, ok := want.(fixedSizer); ok && fs.fixedSize() != c.Payload.(fixedSizer).fixedSize() {
			return structuralf("payload is %d bytes, expected %d", c.Payload.(fixedSizer).fixedSize(), fs.fixedSize())
		}
		if t, ok := c.Payload.(*Track); ok && t.components != want.(*Track).components {
			return structuralf("track has %d components, expected %d", t.components, want.(*Track).components)
		}
	}
	if sg, ok := c.Payload.(*SmoothingGroups); ok {
		faces, ok := parent.faceList()
		if !ok {
			return structuralf("smoothing groups outside of a face list")
		}
		if len(sg.Groups) != len(faces.Faces) {
			return fmt.Errorf("%w: %d groups, %d faces", ErrFaceCount, len(sg.Groups), len(faces.Faces))
		}
	}
	return nil
}

func write(w *writer, c *Chunk) error {
	w.u16(uint16(c.Tag))
	w.u32(c.length)
	if c.Payload != nil {
		start := w.f.N()
		c.Payload.encode(w)
		if err := w.err(); err != nil {
			return &ChunkError{Tag: c.Tag, Offset: -1, Cause: err}
		}
		if n, want := w.f.N()-start, int64(c.Payload.size(w)); n != want {
			return &ChunkError{Tag: c.Tag, Offset: -1, Cause: structuralf("wrote %d payload bytes, measured %d", n, want)}
		}
	}
	for _, ch := range c.Children {
		if err := write(w, ch); err != nil {
			return err
		}
	}
	return w.err()
}
