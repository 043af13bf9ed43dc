package tds

// Flag is an empty payload; the presence of the chunk is the information.
type Flag struct{}

func (*Flag) size(*writer) uint32            { return 0 }
func (*Flag) fixedSize() uint32              { return 0 }
func (*Flag) decode(*reader, *decodeContext) {}
func (*Flag) encode(*writer)                 {}

type Uint8Value struct {
	Value uint8
}

func (*Uint8Value) size(*writer) uint32 { return 1 }
func (*Uint8Value) fixedSize() uint32   { return 1 }

func (p *Uint8Value) decode(r *reader, _ *decodeContext) {
	p.Value = r.u8()
}

func (p *Uint8Value) encode(w *writer) {
	w.u8(p.Value)
}

type Uint16Value struct {
	Value uint16
}

func (*Uint16Value) size(*writer) uint32 { return 2 }
func (*Uint16Value) fixedSize() uint32   { return 2 }

func (p *Uint16Value) decode(r *reader, _ *decodeContext) {
	p.Value = r.u16()
}

func (p *Uint16Value) encode(w *writer) {
	w.u16(p.Value)
}

type Uint32Value struct {
	Value uint32
}

func (*Uint32Value) size(*writer) uint32 { return 4 }
func (*Uint32Value) fixedSize() uint32   { return 4 }

func (p *Uint32Value) decode(r *reader, _ *decodeContext) {
	p.Value = r.u32()
}

func (p *Uint32Value) encode(w *writer) {
	w.u32(p.Value)
}

type FloatValue struct {
	Value float32
}

func (*FloatValue) size(*writer) uint32 { return 4 }
func (*FloatValue) fixedSize() uint32   { return 4 }

func (p *FloatValue) decode(r *reader, _ *decodeContext) {
	p.Value = r.f32()
}

func (p *FloatValue) encode(w *writer) {
	w.f32(p.Value)
}

// Floats is a fixed-length float tuple, such as PIVOT or BOUNDBOX.
type Floats struct {
	Values []float32
}

func NewFloats(n int) *Floats {
	return &Floats{Values: make([]float32, n)}
}

func (p *Floats) size(*writer) uint32 { return p.fixedSize() }
func (p *Floats) fixedSize() uint32   { return uint32(len(p.Values)) * 4 }

func (p *Floats) decode(r *reader, _ *decodeContext) {
	r.floats(p.Values)
}

func (p *Floats) encode(w *writer) {
	w.floats(p.Values)
}

// Text is a NUL-terminated string.
type Text struct {
	Value string
}

func (p *Text) size(w *writer) uint32 {
	return w.strlen(p.Value)
}

func (p *Text) decode(r *reader, c *decodeContext) {
	p.Value = r.cstring(c.end)
}

func (p *Text) encode(w *writer) {
	w.cstring(p.Value)
}

// ColorF is a float color, used by COLOR_F and LIN_COLOR_F.
type ColorF struct {
	R, G, B float32
}

func (*ColorF) size(*writer) uint32 { return 12 }
func (*ColorF) fixedSize() uint32   { return 12 }

func (p *ColorF) decode(r *reader, _ *decodeContext) {
	p.R, p.G, p.B = r.f32(), r.f32(), r.f32()
}

func (p *ColorF) encode(w *writer) {
	w.f32(p.R)
	w.f32(p.G)
	w.f32(p.B)
}

// Color24 is a byte color, used by COLOR_24 and LIN_COLOR_24.
type Color24 struct {
	R, G, B uint8
}

func (*Color24) size(*writer) uint32 { return 3 }
func (*Color24) fixedSize() uint32   { return 3 }

func (p *Color24) decode(r *reader, _ *decodeContext) {
	p.R, p.G, p.B = r.u8(), r.u8(), r.u8()
}

func (p *Color24) encode(w *writer) {
	w.u8(p.R)
	w.u8(p.G)
	w.u8(p.B)
}

// Unknown holds a chunk whose tag is not recognized in its position. Data is
// nil when the body was skipped while decoding; Size is always the body size.
type Unknown struct {
	Size uint32
	Data []byte
}

func (p *Unknown) size(*writer) uint32 {
	if p.Data != nil {
		return uint32(len(p.Data))
	}
	return p.Size
}

// decode is driven by the decoder, which knows whether to keep the body.
func (p *Unknown) decode(r *reader, c *decodeContext) {
	p.Data = r.bytes(c.end - r.pos())
	p.Size = uint32(len(p.Data))
}

func (p *Unknown) encode(w *writer) {
	if p.Data == nil && p.Size > 0 {
		w.fail(ErrSkippedChunk)
		return
	}
	w.bytes(p.Data)
}
