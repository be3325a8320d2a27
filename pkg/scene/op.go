package scene

import (
	"strings"

	"github.com/x448/float16"

	"github.com/Faultbox/xformsync/pkg/math"
)

// Op is one entry of a prim's op order: an attribute interpreted as a
// transform of a given type, optionally inverted. Inverse ops share the
// attribute of their forward op.
type Op struct {
	attr    *Attribute
	opType  OpType
	suffix  string
	inverse bool
}

// IsValid reports whether the op refers to an attribute.
func (op Op) IsValid() bool { return op.attr != nil }

// Attribute returns the underlying attribute.
func (op Op) Attribute() *Attribute { return op.attr }

// AttrName returns the attribute name, xformOp:<type>[:<suffix>].
func (op Op) AttrName() string { return op.attr.name }

// Name returns the op-order token, with the invert prefix for inverse ops.
func (op Op) Name() string {
	if op.inverse {
		return InvertPrefix + op.attr.name
	}
	return op.attr.name
}

// Suffix returns the op name suffix, or "" when there is none.
func (op Op) Suffix() string { return op.suffix }

// OpType returns the op's transform type.
func (op Op) OpType() OpType { return op.opType }

// TypeName returns the attribute's storage type.
func (op Op) TypeName() ValueType { return op.attr.typ }

// IsInverseOp reports whether the op applies the inverse of its value.
func (op Op) IsInverseOp() bool { return op.inverse }

// NumTimeSamples returns the attribute's sample count.
func (op Op) NumTimeSamples() int { return op.attr.NumTimeSamples() }

// Get resolves the op's value at t.
func (op Op) Get(t TimeCode) (any, bool) { return op.attr.Get(t) }

// Set stores v at t.
func (op Op) Set(v any, t TimeCode) error { return op.attr.Set(v, t) }

// GetAs resolves the op's value at t as a T. It fails when the value is
// unauthored or stored as another type.
func GetAs[T any](op Op, t TimeCode) (T, bool) {
	var zero T
	v, ok := op.Get(t)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// Matrix returns the transform the op applies at t, inverted for inverse ops.
func (op Op) Matrix(t TimeCode) (math.Mat4, bool) {
	v, ok := op.Get(t)
	if !ok {
		return math.Identity(), false
	}

	var m math.Mat4
	switch {
	case op.opType == OpTypeTransform:
		mat, ok := v.(math.Mat4)
		if !ok {
			return math.Identity(), false
		}
		m = mat
	case op.opType.IsSingleAxisRotate():
		angle, ok := scalarOf(v)
		if !ok {
			return math.Identity(), false
		}
		rad := math.DegToRad(angle)
		switch op.opType {
		case OpTypeRotateX:
			m = math.RotateX(rad)
		case OpTypeRotateY:
			m = math.RotateY(rad)
		default:
			m = math.RotateZ(rad)
		}
	default:
		vec, ok := vec3Of(v)
		if !ok {
			return math.Identity(), false
		}
		switch {
		case op.opType == OpTypeTranslate:
			m = math.Translate(vec)
		case op.opType == OpTypeScale:
			m = math.Scale(vec)
		case op.opType.IsThreeAxisRotate():
			rad := math.Vec3{X: math.DegToRad(vec.X), Y: math.DegToRad(vec.Y), Z: math.DegToRad(vec.Z)}
			m = math.EulerFromVec3(rad, op.opType.RotationOrder()).Mat4()
		default:
			return math.Identity(), false
		}
	}

	if op.inverse {
		m = m.Inverse()
	}
	return m, true
}

func vec3Of(v any) (math.Vec3, bool) {
	switch x := v.(type) {
	case [3]float64:
		return math.Vec3FromArray(x), true
	case [3]float32:
		return math.Vec3{X: float64(x[0]), Y: float64(x[1]), Z: float64(x[2])}, true
	case [3]float16.Float16:
		return math.Vec3{X: float64(x[0].Float32()), Y: float64(x[1].Float32()), Z: float64(x[2].Float32())}, true
	case [3]int32:
		return math.Vec3{X: float64(x[0]), Y: float64(x[1]), Z: float64(x[2])}, true
	}
	return math.Vec3{}, false
}

func scalarOf(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case float16.Float16:
		return float64(x.Float32()), true
	case int32:
		return float64(x), true
	}
	return 0, false
}

func newOp(attr *Attribute, inverse bool) (Op, error) {
	t, suffix, _, err := ParseOpName(attr.name)
	if err != nil {
		return Op{}, err
	}
	return Op{attr: attr, opType: t, suffix: suffix, inverse: inverse}, nil
}

func splitToken(token string) (name string, inverse bool) {
	if strings.HasPrefix(token, InvertPrefix) {
		return strings.TrimPrefix(token, InvertPrefix), true
	}
	return token, false
}
