package geom

import "math"

type Vector4 struct {
	X Element
	Y Element
	Z Element
	W Element
}

type Quaternion = Vector4

func NewVector4(x, y, z, w float32) *Vector4 {
	return &Vector4{X: x, Y: y, Z: z, W: w}
}

func NewQuaternion(x, y, z, w float32) *Quaternion {
	return &Vector4{X: x, Y: y, Z: z, W: w}
}

// NewQuaternionFromAxisAngle returns the rotation of angle radians around axis.
// A zero axis yields the identity.
func NewQuaternionFromAxisAngle(axis *Vector3, angle Element) *Quaternion {
	if axis.LenSqr() == 0 {
		return NewQuaternion(0, 0, 0, 1)
	}
	a := *axis
	a.Normalize()
	s := Element(math.Sin(float64(angle) / 2))
	c := Element(math.Cos(float64(angle) / 2))
	return &Vector4{X: a.X * s, Y: a.Y * s, Z: a.Z * s, W: c}
}

func (v *Vector4) Add(v2 *Vector4) *Vector4 {
	return &Vector4{X: v.X + v2.X, Y: v.Y + v2.Y, Z: v.Z + v2.Z, W: v.W + v2.W}
}

func (v *Vector4) Sub(v2 *Vector4) *Vector4 {
	return &Vector4{X: v.X - v2.X, Y: v.Y - v2.Y, Z: v.Z - v2.Z, W: v.W - v2.W}
}

func (v *Vector4) Dot(v2 *Vector4) Element {
	return v.X*v2.X + v.Y*v2.Y + v.Z*v2.Z + v.W*v2.W
}

func (v *Vector4) Len() Element {
	return Element(math.Sqrt(float64(v.LenSqr())))
}

func (v *Vector4) LenSqr() Element {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W
}

func (v *Vector4) Normalize() *Vector4 {
	l := v.Len()
	if l > 0 {
		v.X /= l
		v.Y /= l
		v.Z /= l
		v.W /= l
	} else {
		v.W = 1
	}
	return v
}

// Inverse is the conjugate; valid for unit quaternions.
func (v *Vector4) Inverse() *Vector4 {
	return &Vector4{X: -v.X, Y: -v.Y, Z: -v.Z, W: v.W}
}

// Mul returns the Hamilton product a*b (apply b first, then a).
func (a *Vector4) Mul(b *Vector4) *Vector4 {
	return &Vector4{
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}

// ApplyTo rotates v by the quaternion.
func (q *Vector4) ApplyTo(v *Vector3) *Vector3 {
	p := q.Mul(&Vector4{X: v.X, Y: v.Y, Z: v.Z}).Mul(q.Inverse())
	return &Vector3{X: p.X, Y: p.Y, Z: p.Z}
}

func (v *Vector4) ToArray() [4]Element {
	return [4]Element{v.X, v.Y, v.Z, v.W}
}
