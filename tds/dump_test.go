package tds

import (
	"strings"
	"testing"
)

func TestDump(t *testing.T) {
	root := NewChunk(TagMain, nil,
		NewChunk(TagVersion, &Uint32Value{3}),
		NewChunk(TagEditor, nil, NewChunk(TagMasterScale, &FloatValue{1.5})),
	)
	if _, err := encodeBytes(root); err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	root.Dump(&b, 0, false)
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 6 {
		t.Fatal("dump:\n", b.String())
	}
	if !strings.HasPrefix(lines[0], "M3DMAGIC(0x4D4D) len=32 {") {
		t.Error(lines[0])
	}
	if lines[1] != "  VERSION(0x0002) len=10 3" {
		t.Error(lines[1])
	}
	if !strings.HasSuffix(lines[3], " len=10 1.5") {
		t.Error(lines[3])
	}
}

func TestDescribeSummary(t *testing.T) {
	p := &VertexFlags{Flags: make([]uint16, 20)}
	if s := describe(p, false); s != "*20 { SKIPPED }" {
		t.Error(s)
	}
	if s := describe(p, true); !strings.HasPrefix(s, "*20 [0 0") {
		t.Error(s)
	}
}
