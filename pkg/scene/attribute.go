package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/x448/float16"

	"github.com/Faultbox/xformsync/pkg/math"
)

// Store errors.
var (
	ErrInvalidOp        = errors.New("invalid transform op")
	ErrDuplicateOp      = errors.New("transform op already in op order")
	ErrTypeConflict     = errors.New("attribute exists with a different type")
	ErrValueType        = errors.New("value does not match attribute type")
	ErrUnknownValueType = errors.New("unknown value type")
	ErrInvalidValue     = errors.New("invalid attribute value")
	ErrUnknownOp        = errors.New("op order references a missing attribute")
)

// Sample is one authored time sample.
type Sample struct {
	Time  float64
	Value any
}

// Attribute is a typed property with an optional default and time samples.
type Attribute struct {
	name     string
	typ      ValueType
	def      any
	samples  []Sample
	revision int
}

// NewAttribute creates an unauthored attribute.
func NewAttribute(name string, typ ValueType) *Attribute {
	return &Attribute{name: name, typ: typ}
}

// Name returns the attribute name.
func (a *Attribute) Name() string { return a.name }

// TypeName returns the storage type.
func (a *Attribute) TypeName() ValueType { return a.typ }

// NumTimeSamples returns the number of authored time samples.
func (a *Attribute) NumTimeSamples() int { return len(a.samples) }

// IsAuthored reports whether a default or any sample has been set.
func (a *Attribute) IsAuthored() bool { return a.def != nil || len(a.samples) > 0 }

// Revision counts stores; it only changes when Set writes.
func (a *Attribute) Revision() int { return a.revision }

// Default returns the default value.
func (a *Attribute) Default() (any, bool) { return a.def, a.def != nil }

// Samples returns a copy of the time samples in time order.
func (a *Attribute) Samples() []Sample {
	out := make([]Sample, len(a.samples))
	copy(out, a.samples)
	return out
}

// ClearSamples removes every time sample.
func (a *Attribute) ClearSamples() {
	if len(a.samples) == 0 {
		return
	}
	a.samples = nil
	a.revision++
}

// Get resolves the value at t. The default time returns only the default
// value. Other times interpolate between samples, hold the first and last
// samples outside their range, and fall back to the default when no samples
// exist.
func (a *Attribute) Get(t TimeCode) (any, bool) {
	if t.IsDefault() || len(a.samples) == 0 {
		return a.def, a.def != nil
	}

	i := sort.Search(len(a.samples), func(i int) bool {
		return a.samples[i].Time > t.Value()
	})
	if i == 0 {
		return a.samples[0].Value, true
	}
	prev := a.samples[i-1]
	if i == len(a.samples) || prev.Time == t.Value() {
		return prev.Value, true
	}
	next := a.samples[i]
	f := (t.Value() - prev.Time) / (next.Time - prev.Time)
	return interpolate(a.typ, prev.Value, next.Value, f), true
}

// Set stores v at t. The default time writes the default value.
func (a *Attribute) Set(v any, t TimeCode) error {
	if !a.typ.accepts(v) {
		return fmt.Errorf("%w: %s expects %s, got %T", ErrValueType, a.name, a.typ, v)
	}
	a.revision++
	if t.IsDefault() {
		a.def = v
		return nil
	}

	i := sort.Search(len(a.samples), func(i int) bool {
		return a.samples[i].Time >= t.Value()
	})
	if i < len(a.samples) && a.samples[i].Time == t.Value() {
		a.samples[i].Value = v
		return nil
	}
	a.samples = append(a.samples, Sample{})
	copy(a.samples[i+1:], a.samples[i:])
	a.samples[i] = Sample{Time: t.Value(), Value: v}
	return nil
}

func (vt ValueType) accepts(v any) bool {
	switch v.(type) {
	case [3]float64:
		return vt == Double3
	case [3]float32:
		return vt == Float3
	case [3]float16.Float16:
		return vt == Half3
	case [3]int32:
		return vt == Int3
	case float64:
		return vt == Double
	case float32:
		return vt == Float
	case float16.Float16:
		return vt == Half
	case int32:
		return vt == Int
	case math.Mat4:
		return vt == Matrix4d
	}
	return false
}

// interpolate blends two values of type vt. Integer types are held.
func interpolate(vt ValueType, a, b any, f float64) any {
	lerp := func(x, y float64) float64 { return x + f*(y-x) }

	switch vt {
	case Double3:
		x, y := a.([3]float64), b.([3]float64)
		return [3]float64{lerp(x[0], y[0]), lerp(x[1], y[1]), lerp(x[2], y[2])}
	case Float3:
		x, y := a.([3]float32), b.([3]float32)
		var out [3]float32
		for i := range out {
			out[i] = float32(lerp(float64(x[i]), float64(y[i])))
		}
		return out
	case Half3:
		x, y := a.([3]float16.Float16), b.([3]float16.Float16)
		var out [3]float16.Float16
		for i := range out {
			out[i] = float16.Fromfloat32(float32(lerp(float64(x[i].Float32()), float64(y[i].Float32()))))
		}
		return out
	case Double:
		return lerp(a.(float64), b.(float64))
	case Float:
		return float32(lerp(float64(a.(float32)), float64(b.(float32))))
	case Half:
		return float16.Fromfloat32(float32(lerp(float64(a.(float16.Float16).Float32()), float64(b.(float16.Float16).Float32()))))
	case Matrix4d:
		return a.(math.Mat4).Lerp(b.(math.Mat4), f)
	default:
		return a
	}
}
