package transform

import (
	"fmt"

	"github.com/Faultbox/xformsync/pkg/math"
	"github.com/Faultbox/xformsync/pkg/xformstack"
)

// Component names one host transform component.
type Component int

const (
	Translate Component = iota
	Rotate
	Scale
	Shear
	ScalePivot
	ScalePivotTranslate
	RotatePivot
	RotatePivotTranslate
	RotateOrientation
)

// Components lists every component in the order edits are replayed.
var Components = []Component{
	Translate,
	Scale,
	Shear,
	ScalePivot,
	ScalePivotTranslate,
	RotatePivot,
	RotatePivotTranslate,
	Rotate,
	RotateOrientation,
}

// String returns the component name.
func (c Component) String() string {
	switch c {
	case Translate:
		return "translate"
	case Rotate:
		return "rotate"
	case Scale:
		return "scale"
	case Shear:
		return "shear"
	case ScalePivot:
		return "scalePivot"
	case ScalePivotTranslate:
		return "scalePivotTranslate"
	case RotatePivot:
		return "rotatePivot"
	case RotatePivotTranslate:
		return "rotatePivotTranslate"
	case RotateOrientation:
		return "rotateOrientation"
	default:
		return fmt.Sprintf("Component(%d)", int(c))
	}
}

// ParseComponent parses a component name.
func ParseComponent(s string) (Component, bool) {
	for _, c := range Components {
		if c.String() == s {
			return c, true
		}
	}
	return Translate, false
}

// Role returns the op role that stores the component.
func (c Component) Role() xformstack.Role {
	switch c {
	case Translate:
		return xformstack.RoleTranslate
	case Rotate:
		return xformstack.RoleRotate
	case Scale:
		return xformstack.RoleScale
	case Shear:
		return xformstack.RoleShear
	case ScalePivot:
		return xformstack.RoleScalePivot
	case ScalePivotTranslate:
		return xformstack.RoleScalePivotTranslate
	case RotatePivot:
		return xformstack.RoleRotatePivot
	case RotatePivotTranslate:
		return xformstack.RoleRotatePivotTranslate
	case RotateOrientation:
		return xformstack.RoleRotateAxis
	}
	return xformstack.RoleNone
}

// Vec3 returns component c of tr as a vector. Rotation is the angle vector in
// radians and orientation is converted to XYZ angles.
func Vec3(tr math.Transformation, c Component) math.Vec3 {
	switch c {
	case Translate:
		return tr.Translation
	case Rotate:
		return tr.Rotation.Angles()
	case Scale:
		return tr.Scale
	case Shear:
		return tr.Shear
	case ScalePivot:
		return tr.ScalePivot
	case ScalePivotTranslate:
		return tr.ScalePivotTranslation
	case RotatePivot:
		return tr.RotatePivot
	case RotatePivotTranslate:
		return tr.RotatePivotTranslation
	case RotateOrientation:
		return math.EulerFromQuat(tr.RotateOrientation).Angles()
	}
	return math.Vec3{}
}

// isIdentity reports whether component c of tr is at its identity default.
func isIdentity(tr math.Transformation, c Component) bool {
	const eps = 1e-9
	switch c {
	case Scale:
		return tr.Scale.ApproxEqual(math.One3(), eps)
	case RotateOrientation:
		return tr.RotateOrientation.IsIdentity(eps)
	default:
		return Vec3(tr, c).ApproxEqual(math.Vec3{}, eps)
	}
}
