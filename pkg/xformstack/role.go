// Package xformstack classifies an ordered list of transform ops against the
// known transform-stack schemas and maps each op to a host component role.
package xformstack

import (
	"fmt"

	"github.com/Faultbox/xformsync/pkg/scene"
)

// Role identifies which host component an op carries.
type Role int

const (
	RoleNone Role = iota
	RoleTranslate
	RoleRotatePivotTranslate
	RoleRotatePivot
	RoleRotate
	RoleRotateAxis
	RoleScalePivotTranslate
	RoleScalePivot
	RoleShear
	RoleScale
	RolePivot
	RoleTransform
)

var roleTokens = [...]string{
	RoleNone:                 "",
	RoleTranslate:            "translate",
	RoleRotatePivotTranslate: "rotatePivotTranslate",
	RoleRotatePivot:          "rotatePivot",
	RoleRotate:               "rotate",
	RoleRotateAxis:           "rotateAxis",
	RoleScalePivotTranslate:  "scalePivotTranslate",
	RoleScalePivot:           "scalePivot",
	RoleShear:                "shear",
	RoleScale:                "scale",
	RolePivot:                "pivot",
	RoleTransform:            "transform",
}

// String returns the role token, which is also the op name suffix.
func (r Role) String() string {
	if r >= 0 && int(r) < len(roleTokens) {
		if r == RoleNone {
			return "none"
		}
		return roleTokens[r]
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Suffix returns the op name suffix ops of this role are created with.
// Roles that an unsuffixed op implies by its type return "".
func (r Role) Suffix() string {
	switch r {
	case RoleTranslate, RoleRotate, RoleScale, RoleTransform, RoleNone:
		return ""
	}
	return roleTokens[r]
}

// OpType returns the op type new ops of this role are created with.
func (r Role) OpType() scene.OpType {
	switch r {
	case RoleRotate, RoleRotateAxis:
		return scene.OpTypeRotateXYZ
	case RoleScale:
		return scene.OpTypeScale
	case RoleShear, RoleTransform:
		return scene.OpTypeTransform
	case RoleNone:
		return scene.OpTypeInvalid
	default:
		return scene.OpTypeTranslate
	}
}

// HasTwin reports whether the role is a pivot with an inverse twin.
func (r Role) HasTwin() bool {
	return r == RoleRotatePivot || r == RoleScalePivot || r == RolePivot
}

// RoleFromToken maps a suffix token to its role.
func RoleFromToken(tok string) Role {
	for r, s := range roleTokens {
		if r != int(RoleNone) && s == tok {
			return Role(r)
		}
	}
	return RoleNone
}

// RoleOf returns the role an op's name implies: its suffix when present,
// otherwise the default role of its type.
func RoleOf(op scene.Op) Role {
	if s := op.Suffix(); s != "" {
		return RoleFromToken(s)
	}
	switch t := op.OpType(); {
	case t == scene.OpTypeTranslate:
		return RoleTranslate
	case t.IsRotate():
		return RoleRotate
	case t == scene.OpTypeScale:
		return RoleScale
	case t == scene.OpTypeTransform:
		return RoleTransform
	}
	return RoleNone
}

// Classification tags one op with its role. The zero value is NotClassified.
type Classification struct {
	Role     Role
	Inverted bool
}

// NotClassified marks an op that no schema entry accounts for.
var NotClassified = Classification{}

// IsClassified reports whether c carries a role.
func (c Classification) IsClassified() bool {
	return c.Role != RoleNone
}

// String returns the role token with a leading "!" for inverted twins.
func (c Classification) String() string {
	if c.Inverted {
		return "!" + c.Role.String()
	}
	return c.Role.String()
}
