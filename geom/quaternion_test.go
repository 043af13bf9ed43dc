package geom

import (
	"math"
	"testing"
)

func TestQuaternion(t *testing.T) {
	const eps = 0.000001

	{
		q := NewQuaternionFromAxisAngle(NewVector3(0, 0, 0), 1)
		v1 := NewVector3(1, 2, 3)
		v2 := q.ApplyTo(v1)
		if v2.Sub(v1).Len() > eps {
			t.Error("v1 != v2: ", v1, v2)
		}
	}

	{
		q := NewQuaternionFromAxisAngle(NewVector3(0, 0, 2), math.Pi/2)
		v := q.ApplyTo(NewVector3(1, 0, 0))
		if v.Sub(NewVector3(0, 1, 0)).Len() > eps {
			t.Error("rotate z 90: ", v)
		}
		m := NewRotationMatrix4FromQuaternion(q)
		v = m.ApplyTo(NewVector3(1, 0, 0))
		if v.Sub(NewVector3(0, 1, 0)).Len() > eps {
			t.Error("matrix rotate z 90: ", v)
		}
	}

	{
		q1 := NewQuaternionFromAxisAngle(NewVector3(1, 0, 0), 0.3)
		q2 := NewQuaternionFromAxisAngle(NewVector3(0, 1, 0), 0.7)
		v1 := NewVector3(1, 2, 3)
		v2 := q1.Mul(q2).ApplyTo(v1)
		v3 := q1.ApplyTo(q2.ApplyTo(v1))
		if v2.Sub(v3).Len() > eps {
			t.Error("q1*q2 != q1(q2()): ", v2, v3)
		}
		v4 := q1.Inverse().ApplyTo(q1.ApplyTo(v1))
		if v4.Sub(v1).Len() > eps {
			t.Error("inverse: ", v1, v4)
		}
	}
}
