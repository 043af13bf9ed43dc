package tds

// headerSize is the size of the tag and length fields preceding every chunk.
const headerSize = 6

// Payload is the typed content of a chunk. It precedes the sub-chunks of a
// chunk that has both. The set of implementations is closed.
type Payload interface {
	// size returns the number of payload bytes encode will write.
	size(w *writer) uint32
	decode(r *reader, c *decodeContext)
	encode(w *writer)
}

// fixedSizer is implemented by payloads with a fixed layout.
type fixedSizer interface {
	fixedSize() uint32
}

// decodeContext carries what a payload decoder may need from its
// surroundings: the end of its own chunk and the owning chunk.
type decodeContext struct {
	tag    Tag
	end    int64
	parent *Chunk
}

// Chunk is a node of a 3ds chunk tree.
type Chunk struct {
	Tag Tag
	// Payload is nil for chunks that only hold sub-chunks.
	Payload  Payload
	Children []*Chunk

	length uint32
	offset int64
}

func NewChunk(tag Tag, payload Payload, children ...*Chunk) *Chunk {
	return &Chunk{Tag: tag, Payload: payload, Children: children, offset: -1}
}

// Length returns the total length of the chunk including its header, as
// decoded or as computed by the last Encode.
func (c *Chunk) Length() uint32 {
	return c.length
}

// Offset returns the offset of the chunk header in the decoded stream, or -1
// for chunks that were built in memory.
func (c *Chunk) Offset() int64 {
	return c.offset
}

// Add appends sub-chunks and returns c.
func (c *Chunk) Add(children ...*Chunk) *Chunk {
	c.Children = append(c.Children, children...)
	return c
}

// Child returns the first sub-chunk with the tag.
func (c *Chunk) Child(tag Tag) *Chunk {
	if c == nil {
		return nil
	}
	for _, ch := range c.Children {
		if ch.Tag == tag {
			return ch
		}
	}
	return nil
}

func (c *Chunk) ChildrenByTag(tag Tag) []*Chunk {
	if c == nil {
		return nil
	}
	var r []*Chunk
	for _, ch := range c.Children {
		if ch.Tag == tag {
			r = append(r, ch)
		}
	}
	return r
}

// Walk visits c and its descendants depth first. Returning false from fn
// skips the sub-chunks of that chunk.
func (c *Chunk) Walk(fn func(c *Chunk, depth int) bool) {
	c.walk(fn, 0)
}

func (c *Chunk) walk(fn func(c *Chunk, depth int) bool, depth int) {
	if c == nil || !fn(c, depth) {
		return
	}
	for _, ch := range c.Children {
		ch.walk(fn, depth+1)
	}
}

// Text returns the string payload of the chunk, or "" if it has none.
func (c *Chunk) Text() string {
	if c == nil {
		return ""
	}
	switch p := c.Payload.(type) {
	case *Text:
		return p.Value
	case *FaceMaterial:
		return p.Name
	case *NodeHeader:
		return p.Name
	}
	return ""
}

// Float returns the value of a single float chunk.
func (c *Chunk) Float() (float32, bool) {
	if c == nil {
		return 0, false
	}
	if p, ok := c.Payload.(*FloatValue); ok {
		return p.Value, true
	}
	return 0, false
}

// Color resolves the color held by the sub-chunks of a color field such as
// MAT_DIFFUSE. Among several color chunks, the last gamma corrected one wins;
// without any, the last plain one is used.
func (c *Chunk) Color() (Color, bool) {
	if c == nil {
		return Color{}, false
	}
	var plain, gamma *Color
	for _, ch := range c.Children {
		col, ok := payloadColor(ch)
		if !ok {
			continue
		}
		if ch.Tag == TagLinColor24 || ch.Tag == TagLinColorF {
			gamma = &col
		} else {
			plain = &col
		}
	}
	if gamma != nil {
		return *gamma, true
	}
	if plain != nil {
		return *plain, true
	}
	return Color{}, false
}

func payloadColor(c *Chunk) (Color, bool) {
	switch p := c.Payload.(type) {
	case *ColorF:
		return Color{R: p.R, G: p.G, B: p.B}, true
	case *Color24:
		return Color{R: float32(p.R) / 255, G: float32(p.G) / 255, B: float32(p.B) / 255}, true
	}
	return Color{}, false
}

// Percent resolves a percentage field such as MAT_SHININESS to a fraction.
// Integer percentages are 0..100, float ones are stored as fractions. The
// last percentage sub-chunk wins.
func (c *Chunk) Percent() (float32, bool) {
	if c == nil {
		return 0, false
	}
	var v float32
	found := false
	for _, ch := range c.Children {
		switch p := ch.Payload.(type) {
		case *Uint16Value:
			if ch.Tag == TagPercentInt {
				v, found = float32(p.Value)/100, true
			}
		case *FloatValue:
			if ch.Tag == TagPercentF {
				v, found = p.Value, true
			}
		}
	}
	return v, found
}

// Color is an RGB triple in the 0..1 range.
type Color struct {
	R, G, B float32
}

// ColorChunk builds a color field holding the color as 24-bit and as float
// chunks.
func ColorChunk(tag Tag, col Color) *Chunk {
	return NewChunk(tag, nil,
		NewChunk(TagColor24, &Color24{R: to8(col.R), G: to8(col.G), B: to8(col.B)}),
		NewChunk(TagColorF, &ColorF{R: col.R, G: col.G, B: col.B}),
	)
}

// PercentChunk builds a percentage field from a fraction.
func PercentChunk(tag Tag, v float32) *Chunk {
	return NewChunk(tag, nil, NewChunk(TagPercentInt, &Uint16Value{Value: uint16(clamp01(v)*100 + 0.5)}))
}

func to8(v float32) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (c *Chunk) payload() Payload {
	if c == nil {
		return nil
	}
	return c.Payload
}
