package tds

import "github.com/binzume/tdsconv/geom"

// DirectLight is N_DIRECT_LIGHT: an omni light at Position unless a DL_SPOTLIGHT
// sub-chunk is present.
type DirectLight struct {
	Position geom.Vector3
}

func (*DirectLight) size(*writer) uint32 { return 12 }

func (p *DirectLight) decode(r *reader, _ *decodeContext) {
	p.Position = r.vec3()
}

func (p *DirectLight) encode(w *writer) {
	w.vec3(p.Position)
}

// Spotlight is DL_SPOTLIGHT. Hotspot and Falloff are cone angles in degrees.
type Spotlight struct {
	Target  geom.Vector3
	Hotspot float32
	Falloff float32
}

func (*Spotlight) size(*writer) uint32 { return 20 }

func (p *Spotlight) decode(r *reader, _ *decodeContext) {
	p.Target = r.vec3()
	p.Hotspot, p.Falloff = r.f32(), r.f32()
}

func (p *Spotlight) encode(w *writer) {
	w.vec3(p.Target)
	w.f32(p.Hotspot)
	w.f32(p.Falloff)
}

// CameraSetup is N_CAMERA. Bank is the roll in degrees and Lens the focal length
// in millimeters.
type CameraSetup struct {
	Position geom.Vector3
	Target   geom.Vector3
	Bank     float32
	Lens     float32
}

func (*CameraSetup) size(*writer) uint32 { return 32 }

func (p *CameraSetup) decode(r *reader, _ *decodeContext) {
	p.Position, p.Target = r.vec3(), r.vec3()
	p.Bank, p.Lens = r.f32(), r.f32()
}

func (p *CameraSetup) encode(w *writer) {
	w.vec3(p.Position)
	w.vec3(p.Target)
	w.f32(p.Bank)
	w.f32(p.Lens)
}
