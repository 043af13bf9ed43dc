package tds

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"math"

	"golang.org/x/text/encoding"
)

// Decoder reads 3ds chunk trees.
type Decoder struct {
	// Encoding of strings in the file. nil keeps the raw bytes.
	Encoding encoding.Encoding
	// KeepUnknown keeps the body of unrecognized chunks so that they can be
	// written back. Otherwise they are skipped.
	KeepUnknown bool
	// Verbose logs skipped chunks.
	Verbose bool
}

// Decode reads a whole file rooted at M3DMAGIC.
func (d *Decoder) Decode(r io.Reader) (*Chunk, error) {
	return d.DecodeContext(context.Background(), r)
}

// DecodeContext is Decode with cancellation, checked before each top-level
// chunk.
func (d *Decoder) DecodeContext(ctx context.Context, r io.Reader) (*Chunk, error) {
	if _, ok := r.(io.ByteReader); !ok {
		r = bufio.NewReader(r)
	}
	p := &decodeState{Decoder: d, r: newReader(r, d.Encoding), ctx: ctx}
	return p.root()
}

type decodeState struct {
	*Decoder
	r   *reader
	ctx context.Context
}

func (p *decodeState) root() (*Chunk, error) {
	c, err := p.header(math.MaxInt64)
	if err != nil {
		return nil, err
	}
	if c.Tag != TagMain {
		return nil, &ChunkError{Tag: c.Tag, Offset: c.offset, Cause: ErrNotMain}
	}
	if err := p.children(c, c.offset+int64(c.length), true); err != nil {
		return nil, err
	}
	return c, nil
}

// header reads a chunk header and checks the declared length against the
// limit set by the parent.
func (p *decodeState) header(limit int64) (*Chunk, error) {
	off := p.r.pos()
	tag := Tag(p.r.u16())
	length := p.r.u32()
	if err := p.r.err(); err != nil {
		return nil, &DataError{Offset: off, Cause: unexpectedEOF(err)}
	}
	if length < headerSize {
		return nil, &ChunkError{Tag: tag, Offset: off, Cause: structuralf("declared length %d is shorter than the header", length)}
	}
	if end := off + int64(length); end > limit {
		return nil, &ChunkError{Tag: tag, Offset: off, Cause: structuralf("declared length %d exceeds the parent by %d bytes", length, end-limit)}
	}
	return &Chunk{Tag: tag, length: length, offset: off}, nil
}

func (p *decodeState) chunk(parent *Chunk, limit int64) (*Chunk, error) {
	c, err := p.header(limit)
	if err != nil {
		return nil, err
	}
	end := c.offset + int64(c.length)
	body := int64(c.length) - headerSize

	typ := lookupType(c.Tag, parent.Tag)
	if typ.payload != nil {
		c.Payload = typ.payload()
	}
	switch pl := c.Payload.(type) {
	case nil:
	case *Unknown:
		if p.Verbose {
			log.Printf("skip unknown chunk %v at %d in %v (%d bytes)", c.Tag, c.offset, parent.Tag, c.length)
		}
		if p.KeepUnknown {
			pl.decode(p.r, &decodeContext{tag: c.Tag, end: end, parent: parent})
		} else {
			pl.Size = uint32(body)
			p.r.skip(body)
		}
	default:
		if fs, ok := pl.(fixedSizer); ok && !typ.children && int64(fs.fixedSize()) != body {
			return nil, p.fail(c, structuralf("declared %d payload bytes, expected %d", body, fs.fixedSize()))
		}
		pl.decode(p.r, &decodeContext{tag: c.Tag, end: end, parent: parent})
	}
	if err := p.r.err(); err != nil {
		return nil, p.fail(c, err)
	}
	if pos := p.r.pos(); pos > end {
		return nil, p.fail(c, structuralf("payload overruns the chunk by %d bytes", pos-end))
	}

	if !typ.children {
		if pos := p.r.pos(); pos != end {
			return nil, p.fail(c, structuralf("payload is %d bytes, declared %d", body-(end-pos), body))
		}
		return c, nil
	}
	if err := p.children(c, end, false); err != nil {
		return nil, err
	}
	return c, nil
}

// children decodes sub-chunks until the end of c or of the input.
func (p *decodeState) children(c *Chunk, end int64, top bool) error {
	for !p.r.eof() && p.r.pos() < end {
		if top {
			if err := p.ctx.Err(); err != nil {
				return err
			}
		}
		ch, err := p.chunk(c, end)
		if err != nil {
			return err
		}
		c.Children = append(c.Children, ch)
	}
	return nil
}

func (p *decodeState) fail(c *Chunk, err error) error {
	var ce *ChunkError
	if errors.As(err, &ce) {
		return err
	}
	return &ChunkError{Tag: c.Tag, Offset: c.offset, Cause: unexpectedEOF(err)}
}

// unexpectedEOF reports running out of input inside a chunk as
// io.ErrUnexpectedEOF.
func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
