// Package scene is an in-memory scene-description store: prims carrying typed
// attributes with default values and time samples, and an ordered list of
// transform ops (xformOpOrder) that composes into a local transformation.
package scene

import (
	"fmt"
	"strings"

	"github.com/Faultbox/xformsync/pkg/math"
)

// Op name tokens.
const (
	OpPrefix             = "xformOp:"
	InvertPrefix         = "!invert!"
	ResetXformStackToken = "!resetXformStack!"
)

// OpType is the kind of transform an op applies.
type OpType int

const (
	OpTypeInvalid OpType = iota
	OpTypeTranslate
	OpTypeScale
	OpTypeRotateX
	OpTypeRotateY
	OpTypeRotateZ
	OpTypeRotateXYZ
	OpTypeRotateXZY
	OpTypeRotateYXZ
	OpTypeRotateYZX
	OpTypeRotateZXY
	OpTypeRotateZYX
	OpTypeTransform
)

var opTypeTokens = map[OpType]string{
	OpTypeTranslate: "translate",
	OpTypeScale:     "scale",
	OpTypeRotateX:   "rotateX",
	OpTypeRotateY:   "rotateY",
	OpTypeRotateZ:   "rotateZ",
	OpTypeRotateXYZ: "rotateXYZ",
	OpTypeRotateXZY: "rotateXZY",
	OpTypeRotateYXZ: "rotateYXZ",
	OpTypeRotateYZX: "rotateYZX",
	OpTypeRotateZXY: "rotateZXY",
	OpTypeRotateZYX: "rotateZYX",
	OpTypeTransform: "transform",
}

// String returns the op type token used in op names.
func (t OpType) String() string {
	if s, ok := opTypeTokens[t]; ok {
		return s
	}
	return "invalid"
}

// ParseOpType parses an op type token.
func ParseOpType(s string) (OpType, bool) {
	for t, tok := range opTypeTokens {
		if tok == s {
			return t, true
		}
	}
	return OpTypeInvalid, false
}

// IsRotate reports whether t is any rotation op.
func (t OpType) IsRotate() bool {
	return t >= OpTypeRotateX && t <= OpTypeRotateZYX
}

// IsSingleAxisRotate reports whether t rotates around one axis.
func (t OpType) IsSingleAxisRotate() bool {
	return t >= OpTypeRotateX && t <= OpTypeRotateZ
}

// IsThreeAxisRotate reports whether t is a three-angle rotation.
func (t OpType) IsThreeAxisRotate() bool {
	return t >= OpTypeRotateXYZ && t <= OpTypeRotateZYX
}

// RotationOrder returns the axis order of a rotation op. Single-axis and
// non-rotation ops report XYZ.
func (t OpType) RotationOrder() math.RotationOrder {
	switch t {
	case OpTypeRotateXZY:
		return math.RotateXZY
	case OpTypeRotateYXZ:
		return math.RotateYXZ
	case OpTypeRotateYZX:
		return math.RotateYZX
	case OpTypeRotateZXY:
		return math.RotateZXY
	case OpTypeRotateZYX:
		return math.RotateZYX
	default:
		return math.RotateXYZ
	}
}

// RotateOpType returns the three-axis rotate op type for a rotation order.
func RotateOpType(order math.RotationOrder) OpType {
	switch order {
	case math.RotateXZY:
		return OpTypeRotateXZY
	case math.RotateYXZ:
		return OpTypeRotateYXZ
	case math.RotateYZX:
		return OpTypeRotateYZX
	case math.RotateZXY:
		return OpTypeRotateZXY
	case math.RotateZYX:
		return OpTypeRotateZYX
	default:
		return OpTypeRotateXYZ
	}
}

// Precision selects the storage width of a new op's attribute.
type Precision int

const (
	PrecisionDouble Precision = iota
	PrecisionFloat
	PrecisionHalf
)

// String returns the precision name.
func (p Precision) String() string {
	switch p {
	case PrecisionDouble:
		return "double"
	case PrecisionFloat:
		return "float"
	case PrecisionHalf:
		return "half"
	default:
		return fmt.Sprintf("Precision(%d)", int(p))
	}
}

// ParsePrecision parses "double", "float" or "half".
func ParsePrecision(s string) (Precision, bool) {
	switch strings.ToLower(s) {
	case "double":
		return PrecisionDouble, true
	case "float":
		return PrecisionFloat, true
	case "half":
		return PrecisionHalf, true
	}
	return PrecisionFloat, false
}

// ValueType is the storage type of an attribute.
//
// Go representations:
//
//	Double3  [3]float64        Double  float64
//	Float3   [3]float32        Float   float32
//	Half3    [3]float16.Float16 Half   float16.Float16
//	Int3     [3]int32          Int     int32
//	Matrix4d math.Mat4
type ValueType int

const (
	ValueTypeInvalid ValueType = iota
	Double3
	Float3
	Half3
	Int3
	Double
	Float
	Half
	Int
	Matrix4d
)

var valueTypeTokens = map[ValueType]string{
	Double3:  "double3",
	Float3:   "float3",
	Half3:    "half3",
	Int3:     "int3",
	Double:   "double",
	Float:    "float",
	Half:     "half",
	Int:      "int",
	Matrix4d: "matrix4d",
}

// String returns the type token.
func (vt ValueType) String() string {
	if s, ok := valueTypeTokens[vt]; ok {
		return s
	}
	return "invalid"
}

// ParseValueType parses a type token such as "float3".
func ParseValueType(s string) (ValueType, bool) {
	for vt, tok := range valueTypeTokens {
		if tok == s {
			return vt, true
		}
	}
	return ValueTypeInvalid, false
}

// IsVector reports whether vt holds three components.
func (vt ValueType) IsVector() bool {
	return vt >= Double3 && vt <= Int3
}

// IsScalar reports whether vt holds one component.
func (vt ValueType) IsScalar() bool {
	return vt >= Double && vt <= Int
}

// Precision returns the floating-point precision of vt. Integer and invalid
// types report false.
func (vt ValueType) Precision() (Precision, bool) {
	switch vt {
	case Double3, Double, Matrix4d:
		return PrecisionDouble, true
	case Float3, Float:
		return PrecisionFloat, true
	case Half3, Half:
		return PrecisionHalf, true
	}
	return PrecisionFloat, false
}

// ValueTypeFor returns the attribute type an op of the given type and
// precision is stored with. Matrix ops are always double precision.
func ValueTypeFor(t OpType, p Precision) ValueType {
	switch {
	case t == OpTypeTransform:
		return Matrix4d
	case t.IsSingleAxisRotate():
		switch p {
		case PrecisionDouble:
			return Double
		case PrecisionHalf:
			return Half
		default:
			return Float
		}
	case t == OpTypeInvalid:
		return ValueTypeInvalid
	default:
		switch p {
		case PrecisionDouble:
			return Double3
		case PrecisionHalf:
			return Half3
		default:
			return Float3
		}
	}
}

// OpName builds the attribute name of an op: xformOp:<type>[:<suffix>].
func OpName(t OpType, suffix string) string {
	if suffix == "" {
		return OpPrefix + t.String()
	}
	return OpPrefix + t.String() + ":" + suffix
}

// ParseOpName splits an op attribute name into its type and suffix.
// A leading invert prefix is accepted and reported.
func ParseOpName(name string) (t OpType, suffix string, inverse bool, err error) {
	if strings.HasPrefix(name, InvertPrefix) {
		inverse = true
		name = strings.TrimPrefix(name, InvertPrefix)
	}
	if !strings.HasPrefix(name, OpPrefix) {
		return OpTypeInvalid, "", inverse, fmt.Errorf("%w: %q", ErrInvalidOp, name)
	}
	rest := strings.TrimPrefix(name, OpPrefix)
	typeTok, suffix, _ := strings.Cut(rest, ":")
	t, ok := ParseOpType(typeTok)
	if !ok {
		return OpTypeInvalid, "", inverse, fmt.Errorf("%w: unknown op type %q", ErrInvalidOp, typeTok)
	}
	return t, suffix, inverse, nil
}
