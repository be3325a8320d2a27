package codec

import (
	"github.com/Faultbox/xformsync/pkg/math"
	"github.com/Faultbox/xformsync/pkg/scene"
)

// ReadRotation decodes a rotation op stored in degrees into radians.
// Single-axis ops fill their own axis with order XYZ; three-axis ops take
// their order from the op type.
func ReadRotation(op scene.Op, t scene.TimeCode) (math.Euler, bool) {
	typ := op.OpType()
	switch {
	case typ.IsSingleAxisRotate():
		deg, ok := ReadDouble(op, t)
		if !ok {
			return math.Euler{}, false
		}
		e := math.Euler{Order: math.RotateXYZ}
		switch typ {
		case scene.OpTypeRotateX:
			e.X = math.DegToRad(deg)
		case scene.OpTypeRotateY:
			e.Y = math.DegToRad(deg)
		default:
			e.Z = math.DegToRad(deg)
		}
		return e, true

	case typ.IsThreeAxisRotate():
		deg, ok := ReadVector(op, t)
		if !ok {
			return math.Euler{}, false
		}
		return math.Euler{
			X:     math.DegToRad(deg.X),
			Y:     math.DegToRad(deg.Y),
			Z:     math.DegToRad(deg.Z),
			Order: typ.RotationOrder(),
		}, true
	}
	return math.Euler{}, false
}

// WriteRotation encodes e (radians) into a rotation op in degrees. A
// single-axis op stores only its own axis.
func WriteRotation(op scene.Op, e math.Euler, t scene.TimeCode) bool {
	typ := op.OpType()
	switch {
	case typ.IsSingleAxisRotate():
		var rad float64
		switch typ {
		case scene.OpTypeRotateX:
			rad = e.X
		case scene.OpTypeRotateY:
			rad = e.Y
		default:
			rad = e.Z
		}
		return WriteDouble(op, math.RadToDeg(rad), t)

	case typ.IsThreeAxisRotate():
		return WriteVector(op, e.Degrees(), t)
	}
	return false
}
