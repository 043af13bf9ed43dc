package tds

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// Indicates that the root chunk is not M3DMAGIC.
	ErrNotMain = errors.New("not a 3ds file")
	// Indicates that declared chunk lengths contradict each other or the
	// content of the chunk.
	ErrStructure = errors.New("structural inconsistency")
	// Indicates that an encoded chunk does not fit in a 32-bit length.
	ErrChunkTooLarge = errors.New("chunk too large")
	// Indicates an attempt to encode an unknown chunk whose body was skipped
	// while decoding.
	ErrSkippedChunk = errors.New("content of skipped chunk is not available")
	// Indicates that a smoothing group list does not match the face count of
	// its face list.
	ErrFaceCount = errors.New("smoothing group count does not match face count")
	// Indicates a string that cannot be stored NUL-terminated.
	ErrStringNUL = errors.New("string contains NUL")
	// Indicates a list longer than its 16-bit count field allows.
	ErrTooMany = errors.New("too many elements for 16-bit count")
)

// ChunkError wraps an error that occurred while decoding or encoding a
// chunk.
type ChunkError struct {
	Tag Tag
	// Offset is the byte offset of the chunk header, or -1 when encoding.
	Offset int64

	Cause error
}

func (err *ChunkError) Error() string {
	var s strings.Builder
	s.WriteString("chunk ")
	s.WriteString(err.Tag.String())
	if err.Offset >= 0 {
		s.WriteString(" at ")
		s.Write(strconv.AppendInt(nil, err.Offset, 10))
	}
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err *ChunkError) Unwrap() error {
	return err.Cause
}

// DataError wraps an error that occurred outside of any chunk body, such as
// a truncated header.
type DataError struct {
	// Offset is the byte offset where the error occurred.
	Offset int64

	Cause error
}

func (err *DataError) Error() string {
	var s strings.Builder
	s.WriteString("data error")
	if err.Offset >= 0 {
		s.WriteString(" at ")
		s.Write(strconv.AppendInt(nil, err.Offset, 10))
	}
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err *DataError) Unwrap() error {
	return err.Cause
}

func structuralf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrStructure}, args...)...)
}

// Indicates a face or material group referring past the end of a list.
var ErrIndexRange = errors.New("index out of range")
