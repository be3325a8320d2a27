package transform

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/xformsync/pkg/math"
)

// SetComponent sets component c from a vector. Rotation takes radians in the
// current rotation order and orientation takes XYZ angles in radians.
func (t *TransformationMatrix) SetComponent(c Component, v math.Vec3) error {
	switch c {
	case Translate:
		return t.TranslateTo(v)
	case Rotate:
		return t.RotateTo(math.EulerFromVec3(v, t.values.Rotation.Order))
	case Scale:
		return t.ScaleTo(v)
	case Shear:
		return t.ShearTo(v)
	case ScalePivot:
		return t.SetScalePivot(v)
	case ScalePivotTranslate:
		return t.SetScalePivotTranslation(v)
	case RotatePivot:
		return t.SetRotatePivot(v)
	case RotatePivotTranslate:
		return t.SetRotatePivotTranslation(v)
	case RotateOrientation:
		return t.SetRotateOrientation(math.EulerFromVec3(v, math.RotateXYZ).ToQuat())
	}
	return fmt.Errorf("%w: unknown component %v", ErrUnsupportedEdit, c)
}

// TranslateTo sets the translation.
func (t *TransformationMatrix) TranslateTo(v math.Vec3) error {
	return t.edit(Translate, func() {
		t.values.Translation = v
		t.tweak.Translation = v.Sub(t.fromSource.Translation)
	})
}

// TranslateBy offsets the translation.
func (t *TransformationMatrix) TranslateBy(d math.Vec3) error {
	return t.TranslateTo(t.values.Translation.Add(d))
}

// RotateTo sets the rotation. The rotation order cannot be changed.
func (t *TransformationMatrix) RotateTo(e math.Euler) error {
	if e.Order != t.values.Rotation.Order {
		return fmt.Errorf("%w: rotation order %v on a %v stack", ErrUnsupportedEdit, e.Order, t.values.Rotation.Order)
	}
	return t.edit(Rotate, func() {
		t.values.Rotation = e
		t.tweak.Rotation = e.Angles().Sub(t.fromSource.Rotation.Angles())
	})
}

// RotateBy adds to the rotation angles.
func (t *TransformationMatrix) RotateBy(d math.Euler) error {
	cur := t.values.Rotation
	return t.RotateTo(math.EulerFromVec3(cur.Angles().Add(d.Angles()), cur.Order))
}

// ScaleTo sets the scale.
func (t *TransformationMatrix) ScaleTo(v math.Vec3) error {
	return t.edit(Scale, func() {
		t.values.Scale = v
		t.tweak.Scale = v.Sub(t.fromSource.Scale)
	})
}

// ScaleBy multiplies the scale component-wise.
func (t *TransformationMatrix) ScaleBy(f math.Vec3) error {
	return t.ScaleTo(t.values.Scale.Mul(f))
}

// ShearTo sets the shear.
func (t *TransformationMatrix) ShearTo(v math.Vec3) error {
	return t.edit(Shear, func() {
		t.values.Shear = v
		t.tweak.Shear = v.Sub(t.fromSource.Shear)
	})
}

// ShearBy multiplies the shear component-wise.
func (t *TransformationMatrix) ShearBy(f math.Vec3) error {
	return t.ShearTo(t.values.Shear.Mul(f))
}

// SetScalePivot sets the scale pivot.
func (t *TransformationMatrix) SetScalePivot(v math.Vec3) error {
	return t.edit(ScalePivot, func() {
		t.values.ScalePivot = v
		t.tweak.ScalePivot = v.Sub(t.fromSource.ScalePivot)
	})
}

// SetScalePivotTranslation sets the scale pivot translation.
func (t *TransformationMatrix) SetScalePivotTranslation(v math.Vec3) error {
	return t.edit(ScalePivotTranslate, func() {
		t.values.ScalePivotTranslation = v
		t.tweak.ScalePivotTranslation = v.Sub(t.fromSource.ScalePivotTranslation)
	})
}

// SetRotatePivot sets the rotate pivot.
func (t *TransformationMatrix) SetRotatePivot(v math.Vec3) error {
	return t.edit(RotatePivot, func() {
		t.values.RotatePivot = v
		t.tweak.RotatePivot = v.Sub(t.fromSource.RotatePivot)
	})
}

// SetRotatePivotTranslation sets the rotate pivot translation.
func (t *TransformationMatrix) SetRotatePivotTranslation(v math.Vec3) error {
	return t.edit(RotatePivotTranslate, func() {
		t.values.RotatePivotTranslation = v
		t.tweak.RotatePivotTranslation = v.Sub(t.fromSource.RotatePivotTranslation)
	})
}

// SetRotateOrientation sets the rotate axis orientation.
func (t *TransformationMatrix) SetRotateOrientation(q math.Quat) error {
	return t.edit(RotateOrientation, func() {
		t.values.RotateOrientation = q.Normalize()
		t.tweak.RotateOrientation = t.fromSource.RotateOrientation.Inverse().Mul(t.values.RotateOrientation)
	})
}

// SetRotationOrder always fails: the rotate op type fixes the order.
func (t *TransformationMatrix) SetRotationOrder(order math.RotationOrder) error {
	return fmt.Errorf("%w: cannot change rotation order to %v", ErrUnsupportedEdit, order)
}

// edit applies a host edit to c, then inserts a missing op and pushes when
// push to prim is enabled. Locked components ignore the edit. The host value
// is kept even when the insertion fails.
func (t *TransformationMatrix) edit(c Component, apply func()) error {
	if t.IsLocked(c) {
		return nil
	}

	before := t.AsMatrix()
	apply()
	if t.state == StateInitialized {
		t.state = StateBound
	}

	var err error
	if t.prim != nil && t.PushToPrimEnabled() {
		err = t.ensureOp(c)
		if err != nil {
			t.log().Warn("host edit not stored on prim",
				zap.Stringer("component", c),
				zap.Error(err))
		}
		if perr := t.PushToPrim(); perr != nil && err == nil {
			err = perr
		}
	}

	t.notifyIfChanged(before)
	return err
}

// ensureOp makes sure the stack has an op that can carry component c.
func (t *TransformationMatrix) ensureOp(c Component) error {
	if t.PrimHas(c) || t.PushPrimToMatrix() {
		return nil
	}
	if (c == RotatePivot || c == ScalePivot) && t.PrimHasPivot() {
		_, err := t.SplitPivotIfNeeded(c, Vec3(t.values, c))
		return err
	}
	if isIdentity(t.values, c) {
		return nil
	}
	return t.InsertOp(c.Role())
}
