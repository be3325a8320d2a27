package transform

import (
	"go.uber.org/zap"

	"github.com/Faultbox/xformsync/internal/codec"
	"github.com/Faultbox/xformsync/pkg/math"
	"github.com/Faultbox/xformsync/pkg/scene"
	"github.com/Faultbox/xformsync/pkg/xformstack"
)

// AdvanceTime moves to time tc. When animated values are read, every
// animated op is decoded at tc into the source values and the host values
// become source plus tweak. An animated matrix op re-applies every tweak.
func (t *TransformationMatrix) AdvanceTime(tc scene.TimeCode) error {
	if t.prim == nil {
		return ErrNotBound
	}
	if t.state == StateInitialized {
		t.state = StateBound
	}
	if tc == t.time {
		return nil
	}
	t.time = tc
	if !t.ReadAnimatedValues() || !t.HasAnimation() {
		return nil
	}

	before := t.AsMatrix()
	if t.flags.has(flagAnimatedMatrix) {
		t.advanceMatrix()
	} else {
		t.advanceComponents()
	}
	t.notifyIfChanged(before)
	return nil
}

func (t *TransformationMatrix) advanceComponents() {
	for _, e := range t.ops {
		if !e.class.IsClassified() || e.class.Inverted {
			continue
		}
		f := animatedFlag(e.class.Role)
		if f == 0 || !t.flags.has(f) {
			continue
		}

		switch e.class.Role {
		case xformstack.RoleTranslate:
			if v, ok := codec.ReadVector(e.op, t.time); ok {
				t.fromSource.Translation = v
				t.values.Translation = v.Add(t.tweak.Translation)
			}
		case xformstack.RoleRotate:
			if r, ok := codec.ReadRotation(e.op, t.time); ok {
				t.fromSource.Rotation = r
				t.values.Rotation = math.EulerFromVec3(r.Angles().Add(t.tweak.Rotation), r.Order)
			}
		case xformstack.RoleScale:
			if v, ok := codec.ReadVector(e.op, t.time); ok {
				t.fromSource.Scale = v
				t.values.Scale = v.Add(t.tweak.Scale)
			}
		case xformstack.RoleShear:
			if v, ok := codec.ReadShear(e.op, t.time); ok {
				t.fromSource.Shear = v
				t.values.Shear = v.Add(t.tweak.Shear)
			}
		}
	}
}

func (t *TransformationMatrix) advanceMatrix() {
	i := t.entryIndex(xformstack.Classification{Role: xformstack.RoleTransform})
	if i == xformstack.NoIndex {
		return
	}
	m, ok := codec.ReadMatrix(t.ops[i].op, t.time)
	if !ok {
		t.log().Warn("could not read animated matrix",
			zap.String("op", t.ops[i].op.Name()),
			zap.Stringer("time", t.time),
			zap.Error(ErrTypeMismatch))
		return
	}

	src := math.DecomposeMatrix(m)
	t.fromSource = src
	t.values = applyTweaks(src, t.tweak)
}

// applyTweaks returns src with every tweak added.
func applyTweaks(src math.Transformation, tw Tweaks) math.Transformation {
	out := src
	out.Translation = src.Translation.Add(tw.Translation)
	out.Rotation = math.EulerFromVec3(src.Rotation.Angles().Add(tw.Rotation), src.Rotation.Order)
	out.Scale = src.Scale.Add(tw.Scale)
	out.Shear = src.Shear.Add(tw.Shear)
	out.ScalePivot = src.ScalePivot.Add(tw.ScalePivot)
	out.ScalePivotTranslation = src.ScalePivotTranslation.Add(tw.ScalePivotTranslation)
	out.RotatePivot = src.RotatePivot.Add(tw.RotatePivot)
	out.RotatePivotTranslation = src.RotatePivotTranslation.Add(tw.RotatePivotTranslation)
	out.RotateOrientation = src.RotateOrientation.Mul(tw.RotateOrientation)
	return out
}
