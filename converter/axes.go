package converter

import (
	"math"

	"github.com/binzume/tdsconv/geom"
)

// filmHeight is the frame height in mm used to turn a lens into a field of
// view.
const filmHeight = 24

// zUpToYUp maps 3ds coordinates (Z up) to glTF coordinates (Y up).
var zUpToYUp = geom.NewMatrix4FromAxes(&geom.Vector3{X: 1}, &geom.Vector3{Z: -1}, &geom.Vector3{Y: 1}, &geom.Vector3{})

func toYUp(v *geom.Vector3, s float32) *geom.Vector3 {
	return &geom.Vector3{X: v.X * s, Y: v.Z * s, Z: -v.Y * s}
}

func toZUp(v *geom.Vector3, s float32) *geom.Vector3 {
	return &geom.Vector3{X: v.X * s, Y: -v.Z * s, Z: v.Y * s}
}

// sceneToGLTF returns the transform from 3ds space to glTF space.
func sceneToGLTF(scale float32) *geom.Matrix4 {
	return geom.NewScaleMatrix4(scale, scale, scale).Mul(zUpToYUp)
}

// gltfToScene returns the transform from glTF space to 3ds space.
func gltfToScene(scale float32) *geom.Matrix4 {
	return geom.NewScaleMatrix4(scale, scale, scale).Mul(zUpToYUp.Transposed())
}

func lensToFOV(lens float32) float32 {
	if lens <= 0 {
		return math.Pi / 4
	}
	return float32(2 * math.Atan(filmHeight/2/float64(lens)))
}

func fovToLens(fov float32) float32 {
	return float32(filmHeight / 2 / math.Tan(float64(fov)/2))
}

// lookAt returns the transform of a glTF camera or spotlight at eye looking
// at target. roll is in degrees.
func lookAt(eye, target *geom.Vector3, roll float32) *geom.Matrix4 {
	f := target.Sub(eye).Normalize()
	up := &geom.Vector3{Y: 1}
	if math.Abs(float64(f.Dot(up))) > 0.999 {
		up = &geom.Vector3{Z: -1}
	}
	x := f.Cross(up).Normalize()
	y := x.Cross(f)
	if roll != 0 {
		q := geom.NewQuaternionFromAxisAngle(f, roll*math.Pi/180)
		x, y = q.ApplyTo(x), q.ApplyTo(y)
	}
	return geom.NewMatrix4FromAxes(x, y, f.Scale(-1), eye)
}
