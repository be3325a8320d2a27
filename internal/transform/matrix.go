// Package transform reconciles a host transform (translate, rotate, scale and
// shear with pivots) with the ordered transform ops of a scene prim.
//
// A TransformationMatrix keeps three copies of each component: the host
// value, the value last read from or written to the prim, and the tweak
// between them. Animated ops are re-read on time changes and the tweak is
// re-applied, so host edits survive playback of animated sources. When push
// to prim is enabled, host edits are written back, inserting the ops the
// stack is missing in canonical order.
//
// A TransformationMatrix is not safe for concurrent use.
package transform

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/xformsync/internal/logger"
	"github.com/Faultbox/xformsync/pkg/math"
	"github.com/Faultbox/xformsync/pkg/scene"
	"github.com/Faultbox/xformsync/pkg/xformstack"
)

// State is the binding lifecycle of a TransformationMatrix.
type State int

const (
	StateUnbound State = iota
	StateInitialized
	StateBound
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateInitialized:
		return "initialized"
	case StateBound:
		return "bound"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Notifier is told when the composed local matrix changes.
type Notifier interface {
	MarkDirty()
}

// HostSink receives component values read from the prim. Rotation and
// orientation are passed as angle vectors in radians.
type HostSink interface {
	SetHostValue(c Component, v math.Vec3)
}

// Tweaks holds the host-side offsets from the last synchronized values.
// Vector tweaks are additive; the orientation tweak is applied after the
// source orientation.
type Tweaks struct {
	Translation            math.Vec3
	Rotation               math.Vec3
	Scale                  math.Vec3
	Shear                  math.Vec3
	ScalePivot             math.Vec3
	ScalePivotTranslation  math.Vec3
	RotatePivot            math.Vec3
	RotatePivotTranslation math.Vec3
	RotateOrientation      math.Quat
}

func zeroTweaks() Tweaks {
	return Tweaks{RotateOrientation: math.QuatIdentity()}
}

// entry is one op of the bound stack with its classification.
type entry struct {
	op    scene.Op
	class xformstack.Classification
}

// Option configures a TransformationMatrix.
type Option func(*TransformationMatrix)

// WithNotifier sets the change notifier.
func WithNotifier(n Notifier) Option {
	return func(t *TransformationMatrix) { t.notifier = n }
}

// WithPushToPrim sets whether host edits are written to the prim by default.
func WithPushToPrim(enabled bool) Option {
	return func(t *TransformationMatrix) { t.defaults.set(flagPushToPrimEnabled, enabled) }
}

// WithReadAnimatedValues sets whether time changes re-read animated ops by
// default.
func WithReadAnimatedValues(enabled bool) Option {
	return func(t *TransformationMatrix) { t.defaults.set(flagReadAnimatedValues, enabled) }
}

// WithInsertPrecision sets the precision of inserted vector and rotation ops.
// Matrix ops are always double precision.
func WithInsertPrecision(p scene.Precision) Option {
	return func(t *TransformationMatrix) { t.precision = p }
}

// TransformationMatrix binds one host transform to one prim.
type TransformationMatrix struct {
	prim   *scene.Prim
	ops    []entry
	schema xformstack.SchemaID
	state  State
	time   scene.TimeCode

	values     math.Transformation
	fromSource math.Transformation
	tweak      Tweaks

	localTranslateOffset math.Vec3

	flags     flag
	defaults  flag
	precision scene.Precision
	notifier  Notifier
}

// New returns an unbound TransformationMatrix with identity values.
func New(opts ...Option) *TransformationMatrix {
	t := &TransformationMatrix{
		precision: scene.PrecisionFloat,
		defaults:  flagReadAnimatedValues,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.resetValues()
	t.flags = t.defaults | flagInheritsTransform
	return t
}

func (t *TransformationMatrix) resetValues() {
	t.ops = nil
	t.schema = xformstack.SchemaFromHost
	t.time = scene.DefaultTime()
	t.values = math.IdentityTransformation()
	t.fromSource = math.IdentityTransformation()
	t.tweak = zeroTweaks()
	t.localTranslateOffset = math.Vec3{}
}

// log returns the engine logger scoped to the bound prim.
func (t *TransformationMatrix) log() *zap.Logger {
	l := logger.Named("transform")
	if t.prim != nil {
		l = l.With(zap.String("prim", t.prim.Path()))
	}
	return l
}

// SetPrim rebinds to prim, discarding all source-linked state except lock
// flags, and initializes from it. A nil prim unbinds.
func (t *TransformationMatrix) SetPrim(prim *scene.Prim, readFromPrim bool, sink HostSink) error {
	preserved := t.flags & flagPreserved
	t.resetValues()
	t.flags = t.defaults | preserved | flagInheritsTransform
	t.prim = prim
	if prim == nil {
		t.state = StateUnbound
		return nil
	}
	return t.Initialize(readFromPrim, sink)
}

// Reset unbinds the prim and returns every value to identity.
func (t *TransformationMatrix) Reset() {
	preserved := t.flags & flagPreserved
	t.prim = nil
	t.resetValues()
	t.flags = t.defaults | preserved | flagInheritsTransform
	t.state = StateUnbound
}

// Prim returns the bound prim or nil.
func (t *TransformationMatrix) Prim() *scene.Prim { return t.prim }

// State returns the binding state.
func (t *TransformationMatrix) State() State { return t.state }

// Schema returns the schema the bound stack currently matches.
func (t *TransformationMatrix) Schema() xformstack.SchemaID { return t.schema }

// Time returns the current time code.
func (t *TransformationMatrix) Time() scene.TimeCode { return t.time }

// Ops returns the bound ops in stack order.
func (t *TransformationMatrix) Ops() []scene.Op {
	out := make([]scene.Op, len(t.ops))
	for i, e := range t.ops {
		out[i] = e.op
	}
	return out
}

// Classifications returns the role of each bound op, aligned with Ops.
func (t *TransformationMatrix) Classifications() []xformstack.Classification {
	out := make([]xformstack.Classification, len(t.ops))
	for i, e := range t.ops {
		out[i] = e.class
	}
	return out
}

// Values returns the host component values.
func (t *TransformationMatrix) Values() math.Transformation { return t.values }

// FromSource returns the values last read from or written to the prim.
func (t *TransformationMatrix) FromSource() math.Transformation { return t.fromSource }

// Tweaks returns the host offsets from the source values.
func (t *TransformationMatrix) Tweaks() Tweaks { return t.tweak }

// PrimHas reports whether the stack has an op for c. The combined pivot
// does not count for either pivot; see PrimHasPivot.
func (t *TransformationMatrix) PrimHas(c Component) bool {
	return t.flags.has(presenceFlag(c.Role()))
}

// PrimHasPivot reports whether the stack has a combined pivot op pair.
func (t *TransformationMatrix) PrimHasPivot() bool { return t.flags.has(flagPrimHasPivot) }

// PrimHasTransform reports whether the stack is a single matrix op.
func (t *TransformationMatrix) PrimHasTransform() bool { return t.flags.has(flagPrimHasTransform) }

// IsAnimated reports whether the op for c has more than one time sample.
// Every component is animated when the matrix op is.
func (t *TransformationMatrix) IsAnimated(c Component) bool {
	if t.flags.has(flagAnimatedMatrix) {
		return true
	}
	f := animatedFlag(c.Role())
	return f != 0 && t.flags.has(f)
}

// HasAnimation reports whether any op is animated.
func (t *TransformationMatrix) HasAnimation() bool { return t.flags.has(flagAnimated) }

// PushToPrimEnabled reports whether host edits are written to the prim.
func (t *TransformationMatrix) PushToPrimEnabled() bool { return t.flags.has(flagPushToPrimEnabled) }

// ReadAnimatedValues reports whether time changes re-read animated ops.
func (t *TransformationMatrix) ReadAnimatedValues() bool { return t.flags.has(flagReadAnimatedValues) }

// PushPrimToMatrix reports whether pushes rewrite the matrix op.
func (t *TransformationMatrix) PushPrimToMatrix() bool { return t.flags.has(flagPushPrimToMatrix) }

// InheritsTransform reports whether the prim keeps its parent transform.
func (t *TransformationMatrix) InheritsTransform() bool { return t.flags.has(flagInheritsTransform) }

// IsLocked reports whether edits to c are ignored.
func (t *TransformationMatrix) IsLocked(c Component) bool {
	f := lockFlag(c)
	return f != 0 && t.flags.has(f)
}

// SetLocked locks or unlocks translate, rotate or scale edits. Other
// components cannot be locked.
func (t *TransformationMatrix) SetLocked(c Component, locked bool) {
	if f := lockFlag(c); f != 0 {
		t.flags.set(f, locked)
	}
}

// SetLocalTranslateOffset sets an extra translation applied in local space
// by AsMatrix.
func (t *TransformationMatrix) SetLocalTranslateOffset(v math.Vec3) {
	t.localTranslateOffset = v
}

// LocalTranslateOffset returns the local translate offset.
func (t *TransformationMatrix) LocalTranslateOffset() math.Vec3 { return t.localTranslateOffset }

// AsMatrix composes the host values, including the local translate offset.
func (t *TransformationMatrix) AsMatrix() math.Mat4 {
	return math.OffsetTranslation(t.values.AsMatrix(), t.localTranslateOffset)
}

// AsMatrixPercent composes the host values interpolated from identity.
func (t *TransformationMatrix) AsMatrixPercent(percent float64) math.Mat4 {
	return math.OffsetTranslation(t.values.AsMatrixPercent(percent), t.localTranslateOffset)
}

// entryIndex returns the index of the first entry with the given
// classification, or xformstack.NoIndex.
func (t *TransformationMatrix) entryIndex(c xformstack.Classification) int {
	for i, e := range t.ops {
		if e.class == c {
			return i
		}
	}
	return xformstack.NoIndex
}

// syncOpOrder writes the entry order to the prim and re-matches the schema.
func (t *TransformationMatrix) syncOpOrder() {
	ops := t.Ops()
	t.prim.SetOpOrder(ops, !t.InheritsTransform())
	if len(ops) == 0 {
		t.schema = xformstack.SchemaFromHost
		return
	}
	t.schema = xformstack.Match(ops).Schema
}

func (t *TransformationMatrix) notifyIfChanged(before math.Mat4) {
	if t.notifier != nil && t.AsMatrix() != before {
		t.notifier.MarkDirty()
	}
}
