package tds

import (
	"io"
	"os"
)

// Load decodes a .3ds file with default options.
func Load(path string) (*Chunk, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Parse(r)
}

func Parse(r io.Reader) (*Chunk, error) {
	var d Decoder
	return d.Decode(r)
}

// Write encodes root with default options.
func Write(w io.Writer, root *Chunk) error {
	var e Encoder
	return e.Encode(w, root)
}

// Save writes root to path. The file is removed if encoding fails.
func Save(root *Chunk, path string, enc *Encoder) error {
	if enc == nil {
		enc = &Encoder{}
	}
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	err = enc.Encode(w, root)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}
