package geom

import (
	"testing"
)

func TestDecomposeMatrix(t *testing.T) {
	const eps = 0.00001

	pos := NewVector3(1, 2, 3)
	rot := NewQuaternionFromAxisAngle(NewVector3(1, 2, 3), 0.5)
	scale := NewVector3(1.5, 1.6, 1.7)

	mat := NewTRSMatrix4(pos, rot, scale)
	pos1, rot1, scale1 := mat.Decompose()

	if pos.Sub(pos1).Len() > eps {
		t.Error("pos: ", pos, pos1)
	}
	if rot.Sub(rot1).Len() > eps {
		t.Error("rot: ", rot, rot1)
	}
	if scale.Sub(scale1).Len() > eps {
		t.Error("scale: ", scale, scale1)
	}

	mat2 := NewRotationMatrix4FromQuaternion(rot)
	pos1, rot1, scale1 = mat2.Decompose()
	if rot.Sub(rot1).Len() > eps {
		t.Error("rot: ", rot, rot1)
	}
	if pos1.Len() > eps {
		t.Error("pos: ", pos1)
	}
	if scale1.Sub(NewVector3(1, 1, 1)).Len() > eps {
		t.Error("scale: ", scale1)
	}
}

func TestMatrixInverse(t *testing.T) {
	const eps = 0.00001

	m := NewMatrix4FromAxes(
		NewVector3(0, 1, 0),
		NewVector3(-1, 0, 0),
		NewVector3(0, 0, 2),
		NewVector3(5, 6, 7))
	v := NewVector3(1, 2, 3)
	w := m.ApplyTo(v)
	if w.Sub(NewVector3(3, 7, 13)).Len() > eps {
		t.Error("ApplyTo: ", w)
	}
	if m.Inverse().ApplyTo(w).Sub(v).Len() > eps {
		t.Error("Inverse: ", m.Inverse().ApplyTo(w))
	}
	if !m.Mul(m.Inverse()).IsIdentity() {
		id := m.Mul(m.Inverse())
		for i := range id {
			d := id[i] - NewMatrix4()[i]
			if d > eps || d < -eps {
				t.Error("m * m^-1: ", id)
				break
			}
		}
	}
	if m.Det() != 2 {
		t.Error("Det: ", m.Det())
	}
}
