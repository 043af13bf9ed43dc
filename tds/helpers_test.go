package tds

import (
	"bytes"
	"encoding/binary"
)

// raw builds the bytes of a chunk from its body parts.
func raw(tag Tag, parts ...[]byte) []byte {
	var body []byte
	for _, p := range parts {
		body = append(body, p...)
	}
	b := make([]byte, headerSize, headerSize+len(body))
	binary.LittleEndian.PutUint16(b, uint16(tag))
	binary.LittleEndian.PutUint32(b[2:], uint32(headerSize+len(body)))
	return append(b, body...)
}

// le encodes fixed-size values little-endian.
func le(vs ...interface{}) []byte {
	var buf bytes.Buffer
	for _, v := range vs {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}
	return buf.Bytes()
}

func cstr(s string) []byte {
	return append([]byte(s), 0)
}

func decodeBytes(b []byte) (*Chunk, error) {
	var d Decoder
	return d.Decode(bytes.NewReader(b))
}

func encodeBytes(c *Chunk) ([]byte, error) {
	var buf bytes.Buffer
	var e Encoder
	err := e.Encode(&buf, c)
	return buf.Bytes(), err
}
