package transform

import (
	"go.uber.org/zap"

	"github.com/Faultbox/xformsync/internal/codec"
	"github.com/Faultbox/xformsync/pkg/math"
	"github.com/Faultbox/xformsync/pkg/scene"
	"github.com/Faultbox/xformsync/pkg/xformstack"
)

// Initialize classifies the bound prim's ops and, when readFromPrim is set,
// reads their values at the current time into both the source and host
// values. Read values are mirrored into sink when it is not nil. An op list
// that matches no schema leaves every op unclassified; reads are skipped but
// ops can still be inserted.
func (t *TransformationMatrix) Initialize(readFromPrim bool, sink HostSink) error {
	if t.prim == nil {
		return ErrNotBound
	}

	ops, resets := t.prim.OrderedOps()
	result := xformstack.Match(ops)

	t.schema = result.Schema
	t.flags.set(flagPresence|flagAnimated|flagPushPrimToMatrix, false)
	t.flags.set(flagInheritsTransform, !resets)
	t.ops = make([]entry, len(ops))
	for i, op := range ops {
		t.ops[i] = entry{op: op, class: result.Classes[i]}
	}

	t.fromSource = math.IdentityTransformation()
	t.fromSource.Rotation.Order = result.RotationOrder
	t.tweak = zeroTweaks()

	if !result.Matched() {
		t.log().Warn("transform ops left unclassified",
			zap.Strings("ops", opNames(ops)),
			zap.Error(ErrSchemaUnrecognized))
	}

	for _, e := range t.ops {
		if !e.class.IsClassified() || e.class.Inverted {
			continue
		}
		t.flags.set(presenceFlag(e.class.Role), true)
		if f := animatedFlag(e.class.Role); f != 0 && e.op.NumTimeSamples() > 1 {
			t.flags.set(f, true)
		}
		if e.class.Role == xformstack.RoleTransform {
			t.flags.set(flagPushPrimToMatrix, true)
		}
		if readFromPrim {
			t.readEntry(e, &t.fromSource)
		}
	}

	if t.HasAnimation() {
		t.flags.set(flagPushToPrimEnabled, false)
		t.flags.set(flagReadAnimatedValues, true)
	}

	t.values = t.fromSource
	t.state = StateInitialized

	if sink != nil && readFromPrim {
		for _, c := range Components {
			if t.PrimHas(c) || t.PrimHasTransform() || (t.PrimHasPivot() && (c == RotatePivot || c == ScalePivot)) {
				sink.SetHostValue(c, Vec3(t.values, c))
			}
		}
	}

	t.log().Debug("initialized transform",
		zap.Stringer("schema", t.schema),
		zap.Int("ops", len(t.ops)),
		zap.Bool("animated", t.HasAnimation()),
		zap.Bool("pushToPrim", t.PushToPrimEnabled()))
	return nil
}

// readEntry decodes one classified forward op into dst at the current time.
func (t *TransformationMatrix) readEntry(e entry, dst *math.Transformation) bool {
	var ok bool
	switch e.class.Role {
	case xformstack.RoleTranslate:
		var v math.Vec3
		if v, ok = codec.ReadVector(e.op, t.time); ok {
			dst.Translation = v
		}
	case xformstack.RoleRotatePivotTranslate:
		var v math.Vec3
		if v, ok = codec.ReadPoint(e.op, t.time); ok {
			dst.RotatePivotTranslation = v
		}
	case xformstack.RoleRotatePivot:
		var v math.Vec3
		if v, ok = codec.ReadPoint(e.op, t.time); ok {
			dst.RotatePivot = v
		}
	case xformstack.RoleRotate:
		var r math.Euler
		if r, ok = codec.ReadRotation(e.op, t.time); ok {
			dst.Rotation = r
		}
	case xformstack.RoleRotateAxis:
		var r math.Euler
		if r, ok = codec.ReadRotation(e.op, t.time); ok {
			dst.RotateOrientation = r.ToQuat()
		}
	case xformstack.RoleScalePivotTranslate:
		var v math.Vec3
		if v, ok = codec.ReadPoint(e.op, t.time); ok {
			dst.ScalePivotTranslation = v
		}
	case xformstack.RoleScalePivot:
		var v math.Vec3
		if v, ok = codec.ReadPoint(e.op, t.time); ok {
			dst.ScalePivot = v
		}
	case xformstack.RoleShear:
		var v math.Vec3
		if v, ok = codec.ReadShear(e.op, t.time); ok {
			dst.Shear = v
		}
	case xformstack.RoleScale:
		var v math.Vec3
		if v, ok = codec.ReadVector(e.op, t.time); ok {
			dst.Scale = v
		}
	case xformstack.RolePivot:
		var v math.Vec3
		if v, ok = codec.ReadPoint(e.op, t.time); ok {
			dst.RotatePivot = v
			dst.ScalePivot = v
		}
	case xformstack.RoleTransform:
		var m math.Mat4
		if m, ok = codec.ReadMatrix(e.op, t.time); ok {
			*dst = math.DecomposeMatrix(m)
		}
	}

	if !ok {
		t.log().Warn("could not read transform op",
			zap.String("op", e.op.Name()),
			zap.Stringer("role", e.class.Role),
			zap.Stringer("type", e.op.TypeName()),
			zap.Stringer("time", t.time),
			zap.Error(ErrTypeMismatch))
	}
	return ok
}

func opNames(ops []scene.Op) []string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name()
	}
	return names
}
