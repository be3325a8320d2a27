package transform

import (
	"go.uber.org/zap"

	"github.com/Faultbox/xformsync/internal/codec"
	"github.com/Faultbox/xformsync/pkg/math"
	"github.com/Faultbox/xformsync/pkg/scene"
	"github.com/Faultbox/xformsync/pkg/xformstack"
)

const orientationEps = 1e-9

// PushToPrim writes the host value of every classified op at the current
// time. Each successful write makes the host value the new source value and
// clears its tweak. The matrix op is only rewritten when matrix pushes are
// enabled. Ops whose storage cannot hold their role are logged and skipped.
func (t *TransformationMatrix) PushToPrim() error {
	if t.prim == nil {
		return ErrNotBound
	}

	v := &t.values
	src := &t.fromSource
	tw := &t.tweak

	for _, e := range t.ops {
		if !e.class.IsClassified() || e.class.Inverted {
			continue
		}

		ok := true
		switch e.class.Role {
		case xformstack.RoleTranslate:
			if ok = codec.WriteVector(e.op, v.Translation, t.time); ok {
				src.Translation, tw.Translation = v.Translation, math.Vec3{}
			}
		case xformstack.RoleRotatePivotTranslate:
			if ok = codec.WritePoint(e.op, v.RotatePivotTranslation, t.time); ok {
				src.RotatePivotTranslation, tw.RotatePivotTranslation = v.RotatePivotTranslation, math.Vec3{}
			}
		case xformstack.RoleRotatePivot:
			if ok = codec.WritePoint(e.op, v.RotatePivot, t.time); ok {
				src.RotatePivot, tw.RotatePivot = v.RotatePivot, math.Vec3{}
			}
		case xformstack.RoleRotate:
			if ok = codec.WriteRotation(e.op, v.Rotation, t.time); ok {
				src.Rotation, tw.Rotation = v.Rotation, math.Vec3{}
			}
		case xformstack.RoleRotateAxis:
			if ok = t.writeOrientation(e.op, v.RotateOrientation); ok {
				src.RotateOrientation, tw.RotateOrientation = v.RotateOrientation, math.QuatIdentity()
			}
		case xformstack.RoleScalePivotTranslate:
			if ok = codec.WritePoint(e.op, v.ScalePivotTranslation, t.time); ok {
				src.ScalePivotTranslation, tw.ScalePivotTranslation = v.ScalePivotTranslation, math.Vec3{}
			}
		case xformstack.RoleScalePivot:
			if ok = codec.WritePoint(e.op, v.ScalePivot, t.time); ok {
				src.ScalePivot, tw.ScalePivot = v.ScalePivot, math.Vec3{}
			}
		case xformstack.RoleShear:
			if ok = codec.WriteShear(e.op, v.Shear, t.time); ok {
				src.Shear, tw.Shear = v.Shear, math.Vec3{}
			}
		case xformstack.RoleScale:
			if ok = codec.WriteVector(e.op, v.Scale, t.time); ok {
				src.Scale, tw.Scale = v.Scale, math.Vec3{}
			}
		case xformstack.RolePivot:
			// the combined pivot carries the rotate pivot
			if ok = codec.WritePoint(e.op, v.RotatePivot, t.time); ok {
				src.RotatePivot, tw.RotatePivot = v.RotatePivot, math.Vec3{}
				src.ScalePivot, tw.ScalePivot = v.RotatePivot, math.Vec3{}
			}
		case xformstack.RoleTransform:
			if !t.PushPrimToMatrix() {
				continue
			}
			if ok = codec.WriteMatrix(e.op, v.AsMatrix(), t.time); ok {
				*src = *v
				*tw = zeroTweaks()
			}
		}

		if !ok {
			t.log().Warn("could not write transform op",
				zap.String("op", e.op.Name()),
				zap.Stringer("role", e.class.Role),
				zap.Stringer("type", e.op.TypeName()),
				zap.Error(ErrTypeMismatch))
		}
	}
	return nil
}

// writeOrientation stores q in the op's own rotation order. A stored value
// that already describes q is left alone so wrapped angles survive.
func (t *TransformationMatrix) writeOrientation(op scene.Op, q math.Quat) bool {
	if cur, ok := codec.ReadRotation(op, t.time); ok && cur.ToQuat().ApproxEqual(q, orientationEps) {
		return true
	}
	return codec.WriteRotation(op, math.EulerFromQuatOrder(q, op.OpType().RotationOrder()), t.time)
}

// EnablePushToPrim turns writing host edits to the prim on or off. Enabling
// at the default time flushes the current host values: every component that
// has an op or differs from identity gets an op and is written.
func (t *TransformationMatrix) EnablePushToPrim(enabled bool) error {
	t.flags.set(flagPushToPrimEnabled, enabled)
	if !enabled || t.prim == nil || !t.time.IsDefault() {
		return nil
	}

	var first error
	if !t.PushPrimToMatrix() {
		for _, c := range Components {
			if !t.PrimHas(c) && isIdentity(t.values, c) {
				continue
			}
			if err := t.ensureOp(c); err != nil {
				t.log().Warn("host value not stored on prim",
					zap.Stringer("component", c),
					zap.Error(err))
				if first == nil {
					first = err
				}
			}
		}
	}
	if err := t.PushToPrim(); err != nil && first == nil {
		first = err
	}
	return first
}

// EnableReadAnimatedValues turns re-reading animated ops on time changes on
// or off.
func (t *TransformationMatrix) EnableReadAnimatedValues(enabled bool) {
	t.flags.set(flagReadAnimatedValues, enabled)
}
