package scene

import (
	"fmt"
	"strconv"
)

// TimeCode addresses either the default (non-animated) value of an attribute
// or a point on its time-sample curve.
type TimeCode struct {
	value float64
	set   bool
}

// DefaultTime returns the default time code.
func DefaultTime() TimeCode {
	return TimeCode{}
}

// At returns the time code for frame t.
func At(t float64) TimeCode {
	return TimeCode{value: t, set: true}
}

// IsDefault reports whether t addresses the default value.
func (t TimeCode) IsDefault() bool {
	return !t.set
}

// Value returns the frame number. It is zero for the default time.
func (t TimeCode) Value() float64 {
	return t.value
}

// String returns "default" or the frame number.
func (t TimeCode) String() string {
	if !t.set {
		return "default"
	}
	return strconv.FormatFloat(t.value, 'g', -1, 64)
}

// ParseTimeCode parses a frame number or "default".
func ParseTimeCode(s string) (TimeCode, error) {
	if s == "" || s == "default" {
		return DefaultTime(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return TimeCode{}, fmt.Errorf("time code %q: %w", s, err)
	}
	return At(v), nil
}
