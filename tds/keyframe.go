package tds

import (
	"math"

	"github.com/binzume/tdsconv/geom"
)

// Vector3Keys returns the keys of a position or scale track as vectors.
func (p *Track) Vector3Keys() ([]uint32, []*geom.Vector3) {
	if p == nil || p.components != 3 {
		return nil, nil
	}
	frames := make([]uint32, len(p.Keys))
	values := make([]*geom.Vector3, len(p.Keys))
	for i, k := range p.Keys {
		frames[i] = k.Frame
		values[i] = &geom.Vector3{X: k.Value[0], Y: k.Value[1], Z: k.Value[2]}
	}
	return frames, values
}

// RotationKeys returns absolute orientations of a rotation track. Each key
// stores an angle and an axis relative to the previous key.
func (p *Track) RotationKeys() ([]uint32, []*geom.Quaternion) {
	if p == nil || p.components != 4 {
		return nil, nil
	}
	frames := make([]uint32, len(p.Keys))
	values := make([]*geom.Quaternion, len(p.Keys))
	q := geom.NewQuaternion(0, 0, 0, 1)
	for i, k := range p.Keys {
		axis := &geom.Vector3{X: k.Value[1], Y: k.Value[2], Z: k.Value[3]}
		q = q.Mul(geom.NewQuaternionFromAxisAngle(axis, k.Value[0])).Normalize()
		frames[i] = k.Frame
		values[i] = q
	}
	return frames, values
}

// AddRotationKey appends an absolute orientation, stored relative to the
// previous key.
func (p *Track) AddRotationKey(frame uint32, q *geom.Quaternion) *Key {
	_, prev := p.RotationKeys()
	d := *q
	if len(prev) > 0 {
		d = *prev[len(prev)-1].Inverse().Mul(q)
	}
	d.Normalize()
	if d.W < 0 {
		d = geom.Quaternion{X: -d.X, Y: -d.Y, Z: -d.Z, W: -d.W}
	}
	angle := 2 * math.Acos(math.Min(1, float64(d.W)))
	s := math.Sqrt(math.Max(0, 1-float64(d.W*d.W)))
	axis := [3]float32{0, 0, 1}
	if s > 1e-6 {
		axis = [3]float32{d.X / float32(s), d.Y / float32(s), d.Z / float32(s)}
	}
	return p.AddKey(frame, float32(angle), axis[0], axis[1], axis[2])
}
