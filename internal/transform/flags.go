package transform

import "github.com/Faultbox/xformsync/pkg/xformstack"

type flag uint32

const (
	flagPrimHasTranslation flag = 1 << iota
	flagPrimHasRotation
	flagPrimHasScale
	flagPrimHasShear
	flagPrimHasScalePivot
	flagPrimHasScalePivotTranslate
	flagPrimHasRotatePivot
	flagPrimHasRotatePivotTranslate
	flagPrimHasRotateAxis
	flagPrimHasPivot
	flagPrimHasTransform

	flagAnimatedTranslation
	flagAnimatedRotation
	flagAnimatedScale
	flagAnimatedShear
	flagAnimatedMatrix

	flagPushPrimToMatrix
	flagPushToPrimEnabled
	flagReadAnimatedValues
	flagInheritsTransform

	flagTranslateLocked
	flagRotateLocked
	flagScaleLocked
)

const (
	flagAnimated  = flagAnimatedTranslation | flagAnimatedRotation | flagAnimatedScale | flagAnimatedShear | flagAnimatedMatrix
	flagPresence  = flagPrimHasTranslation | flagPrimHasRotation | flagPrimHasScale | flagPrimHasShear | flagPrimHasScalePivot | flagPrimHasScalePivotTranslate | flagPrimHasRotatePivot | flagPrimHasRotatePivotTranslate | flagPrimHasRotateAxis | flagPrimHasPivot | flagPrimHasTransform
	flagLocked    = flagTranslateLocked | flagRotateLocked | flagScaleLocked
	flagPreserved = flagLocked
)

func (f flag) has(bits flag) bool { return f&bits != 0 }

func (f *flag) set(bits flag, on bool) {
	if on {
		*f |= bits
	} else {
		*f &^= bits
	}
}

// presenceFlag maps a role to its prim-has flag.
func presenceFlag(r xformstack.Role) flag {
	switch r {
	case xformstack.RoleTranslate:
		return flagPrimHasTranslation
	case xformstack.RoleRotatePivotTranslate:
		return flagPrimHasRotatePivotTranslate
	case xformstack.RoleRotatePivot:
		return flagPrimHasRotatePivot
	case xformstack.RoleRotate:
		return flagPrimHasRotation
	case xformstack.RoleRotateAxis:
		return flagPrimHasRotateAxis
	case xformstack.RoleScalePivotTranslate:
		return flagPrimHasScalePivotTranslate
	case xformstack.RoleScalePivot:
		return flagPrimHasScalePivot
	case xformstack.RoleShear:
		return flagPrimHasShear
	case xformstack.RoleScale:
		return flagPrimHasScale
	case xformstack.RolePivot:
		return flagPrimHasPivot
	case xformstack.RoleTransform:
		return flagPrimHasTransform
	}
	return 0
}

// animatedFlag maps a role to its animated flag, or 0 for roles that are
// never re-read on time changes.
func animatedFlag(r xformstack.Role) flag {
	switch r {
	case xformstack.RoleTranslate:
		return flagAnimatedTranslation
	case xformstack.RoleRotate:
		return flagAnimatedRotation
	case xformstack.RoleScale:
		return flagAnimatedScale
	case xformstack.RoleShear:
		return flagAnimatedShear
	case xformstack.RoleTransform:
		return flagAnimatedMatrix
	}
	return 0
}

func lockFlag(c Component) flag {
	switch c {
	case Translate:
		return flagTranslateLocked
	case Rotate:
		return flagRotateLocked
	case Scale:
		return flagScaleLocked
	}
	return 0
}
