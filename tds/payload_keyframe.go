package tds

// KeyframeHeader is KFHDR.
type KeyframeHeader struct {
	Revision uint16
	Name     string
	Length   uint32
}

func (p *KeyframeHeader) size(w *writer) uint32 {
	return 2 + w.strlen(p.Name) + 4
}

func (p *KeyframeHeader) decode(r *reader, c *decodeContext) {
	p.Revision = r.u16()
	p.Name = r.cstring(c.end)
	p.Length = r.u32()
}

func (p *KeyframeHeader) encode(w *writer) {
	w.u16(p.Revision)
	w.cstring(p.Name)
	w.u32(p.Length)
}

// Segment is KFSEG, the active frame range.
type Segment struct {
	Start, End uint32
}

func (*Segment) size(*writer) uint32 { return 8 }
func (*Segment) fixedSize() uint32   { return 8 }

func (p *Segment) decode(r *reader, _ *decodeContext) {
	p.Start, p.End = r.u32(), r.u32()
}

func (p *Segment) encode(w *writer) {
	w.u32(p.Start)
	w.u32(p.End)
}

// NoParent is the NodeHeader.Parent value of a root node.
const NoParent = -1

// NodeHeader is NODE_HDR. Name refers to the named object the node animates
// and Parent is the NODE_ID of the parent node.
type NodeHeader struct {
	Name   string
	Flags1 uint16
	Flags2 uint16
	Parent int16
}

func (p *NodeHeader) size(w *writer) uint32 {
	return w.strlen(p.Name) + 6
}

func (p *NodeHeader) decode(r *reader, c *decodeContext) {
	p.Name = r.cstring(c.end)
	p.Flags1, p.Flags2 = r.u16(), r.u16()
	p.Parent = int16(r.u16())
}

func (p *NodeHeader) encode(w *writer) {
	w.cstring(p.Name)
	w.u16(p.Flags1)
	w.u16(p.Flags2)
	w.u16(uint16(p.Parent))
}

// Spline flag bits of a Key. Each set bit adds one float to the key.
const (
	KeyUseTension    = 0x01
	KeyUseContinuity = 0x02
	KeyUseBias       = 0x04
	KeyUseEaseTo     = 0x08
	KeyUseEaseFrom   = 0x10
)

// Key is a single key of a track. Value holds as many floats as the track
// kind requires; rotation keys are angle then axis.
type Key struct {
	Frame      uint32
	Flags      uint16
	Tension    float32
	Continuity float32
	Bias       float32
	EaseTo     float32
	EaseFrom   float32
	Value      []float32
}

func (k *Key) params() []*float32 {
	return []*float32{&k.Tension, &k.Continuity, &k.Bias, &k.EaseTo, &k.EaseFrom}
}

func (k *Key) paramCount() uint32 {
	n := uint32(0)
	for i := range k.params() {
		if k.Flags&(1<<i) != 0 {
			n++
		}
	}
	return n
}

// Track is one of the *_TRACK_TAG chunks.
type Track struct {
	Flags    uint16
	Reserved [8]byte
	Keys     []*Key
	// components is the number of floats per key value.
	components int
}

func NewTrack(components int) *Track {
	return &Track{components: components}
}

// Components returns the number of floats per key value.
func (p *Track) Components() int {
	return p.components
}

// AddKey appends a key without spline parameters.
func (p *Track) AddKey(frame uint32, value ...float32) *Key {
	k := &Key{Frame: frame, Value: make([]float32, p.components)}
	copy(k.Value, value)
	p.Keys = append(p.Keys, k)
	return k
}

func (p *Track) size(*writer) uint32 {
	n := uint32(2 + 8 + 4)
	for _, k := range p.Keys {
		n += 4 + 2 + k.paramCount()*4 + uint32(p.components)*4
	}
	return n
}

func (p *Track) decode(r *reader, c *decodeContext) {
	p.Flags = r.u16()
	r.f.Bytes(p.Reserved[:])
	n := r.u32()
	if max := (c.end - r.pos()) / 6; int64(n) > max {
		r.fail(structuralf("%d keys do not fit in %d bytes", n, c.end-r.pos()))
		return
	}
	p.Keys = make([]*Key, n)
	for i := range p.Keys {
		k := &Key{Frame: r.u32(), Flags: r.u16()}
		for b, v := range k.params() {
			if k.Flags&(1<<b) != 0 {
				*v = r.f32()
			}
		}
		k.Value = make([]float32, p.components)
		r.floats(k.Value)
		p.Keys[i] = k
		if r.err() != nil {
			return
		}
	}
}

func (p *Track) encode(w *writer) {
	w.u16(p.Flags)
	w.bytes(p.Reserved[:])
	w.u32(uint32(len(p.Keys)))
	for _, k := range p.Keys {
		if len(k.Value) != p.components {
			w.fail(structuralf("key at frame %d has %d components, want %d", k.Frame, len(k.Value), p.components))
			return
		}
		w.u32(k.Frame)
		w.u16(k.Flags)
		for b, v := range k.params() {
			if k.Flags&(1<<b) != 0 {
				w.f32(*v)
			}
		}
		w.floats(k.Value)
	}
}
