package tds

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes the chunk tree as indented text. Unless full is set, arrays
// longer than 16 elements are summarized.
func (c *Chunk) Dump(w io.Writer, d int, full bool) {
	fmt.Fprint(w, strings.Repeat("  ", d), c.Tag, " len=", c.length)
	if s := describe(c.Payload, full); s != "" {
		fmt.Fprint(w, " ", s)
	}
	if len(c.Children) > 0 {
		fmt.Fprintln(w, " {")
		for _, ch := range c.Children {
			ch.Dump(w, d+1, full)
		}
		fmt.Fprintln(w, strings.Repeat("  ", d)+"}")
	} else {
		fmt.Fprintln(w, "")
	}
}

func describe(p Payload, full bool) string {
	summary := func(n int, v interface{}) string {
		if !full && n > 16 {
			return fmt.Sprintf("*%d { SKIPPED }", n)
		}
		return fmt.Sprintf("*%d %v", n, v)
	}
	switch p := p.(type) {
	case nil, *Flag:
		return ""
	case *Text:
		return fmt.Sprintf("%q", p.Value)
	case *Uint8Value:
		return fmt.Sprint(p.Value)
	case *Uint16Value:
		return fmt.Sprint(p.Value)
	case *Uint32Value:
		return fmt.Sprint(p.Value)
	case *FloatValue:
		return fmt.Sprint(p.Value)
	case *Floats:
		return fmt.Sprint(p.Values)
	case *ColorF:
		return fmt.Sprintf("rgb(%g, %g, %g)", p.R, p.G, p.B)
	case *Color24:
		return fmt.Sprintf("rgb(%d, %d, %d)", p.R, p.G, p.B)
	case *VertexList:
		return summary(len(p.Vertices), p.Vertices)
	case *VertexFlags:
		return summary(len(p.Flags), p.Flags)
	case *FaceList:
		return summary(len(p.Faces), p.Faces)
	case *FaceMaterial:
		return fmt.Sprintf("%q ", p.Name) + summary(len(p.Faces), p.Faces)
	case *MappingCoords:
		return summary(len(p.UVs), p.UVs)
	case *SmoothingGroups:
		return summary(len(p.Groups), p.Groups)
	case *Track:
		return fmt.Sprintf("flags=%d keys=%d", p.Flags, len(p.Keys))
	case *Unknown:
		if p.Data == nil {
			return fmt.Sprintf("SKIPPED(%d)", p.Size)
		}
		return fmt.Sprintf("RAW(%d)", len(p.Data))
	}
	return fmt.Sprintf("%+v", p)
}
