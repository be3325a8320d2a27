// Package binding connects a host transform node to the reconciliation
// engine. The host is reached through a small attribute interface keyed by
// the host's short attribute names.
package binding

import (
	"github.com/Faultbox/xformsync/internal/transform"
	"github.com/Faultbox/xformsync/pkg/math"
)

// Host is the attribute surface of one host transform node.
type Host interface {
	Double(attr string) float64
	SetDouble(attr string, v float64)
	Int(attr string) int
	SetInt(attr string, v int)
	Bool(attr string) bool
	SetBool(attr string, v bool)
	IsLocked(attr string) bool
	MarkDirty()
}

// Host attribute names that are not part of a vector component.
const (
	AttrRotateOrder       = "ro"
	AttrInheritsTransform = "it"
)

type componentAttrs struct {
	parent string
	axes   [3]string
}

var hostAttrs = map[transform.Component]componentAttrs{
	transform.Translate:            {"t", [3]string{"tx", "ty", "tz"}},
	transform.Rotate:               {"r", [3]string{"rx", "ry", "rz"}},
	transform.Scale:                {"s", [3]string{"sx", "sy", "sz"}},
	transform.Shear:                {"sh", [3]string{"shxy", "shxz", "shyz"}},
	transform.RotatePivot:          {"rp", [3]string{"rpx", "rpy", "rpz"}},
	transform.RotatePivotTranslate: {"rpt", [3]string{"rptx", "rpty", "rptz"}},
	transform.ScalePivot:           {"sp", [3]string{"spx", "spy", "spz"}},
	transform.ScalePivotTranslate:  {"spt", [3]string{"sptx", "spty", "sptz"}},
	transform.RotateOrientation:    {"ra", [3]string{"rax", "ray", "raz"}},
}

// AttrNames returns the parent and per-axis attribute names of c.
func AttrNames(c transform.Component) (parent string, axes [3]string) {
	a := hostAttrs[c]
	return a.parent, a.axes
}

// ReadComponent reads component c from the host. Angles are radians.
func ReadComponent(h Host, c transform.Component) math.Vec3 {
	a := hostAttrs[c].axes
	return math.Vec3{X: h.Double(a[0]), Y: h.Double(a[1]), Z: h.Double(a[2])}
}

// WriteComponent writes component c to the host.
func WriteComponent(h Host, c transform.Component, v math.Vec3) {
	a := hostAttrs[c].axes
	h.SetDouble(a[0], v.X)
	h.SetDouble(a[1], v.Y)
	h.SetDouble(a[2], v.Z)
}

// ComponentLocked reports whether the parent attribute of c is locked.
func ComponentLocked(h Host, c transform.Component) bool {
	return h.IsLocked(hostAttrs[c].parent)
}

// MemoryHost is a map-backed Host. Scale attributes default to one and
// inherits-transform defaults to true.
type MemoryHost struct {
	doubles map[string]float64
	ints    map[string]int
	bools   map[string]bool
	locked  map[string]bool
	dirty   int
}

// NewMemoryHost returns a host at identity.
func NewMemoryHost() *MemoryHost {
	h := &MemoryHost{
		doubles: make(map[string]float64),
		ints:    make(map[string]int),
		bools:   make(map[string]bool),
		locked:  make(map[string]bool),
	}
	WriteComponent(h, transform.Scale, math.One3())
	h.bools[AttrInheritsTransform] = true
	return h
}

func (h *MemoryHost) Double(attr string) float64       { return h.doubles[attr] }
func (h *MemoryHost) SetDouble(attr string, v float64) { h.doubles[attr] = v }
func (h *MemoryHost) Int(attr string) int              { return h.ints[attr] }
func (h *MemoryHost) SetInt(attr string, v int)        { h.ints[attr] = v }
func (h *MemoryHost) Bool(attr string) bool            { return h.bools[attr] }
func (h *MemoryHost) SetBool(attr string, v bool)      { h.bools[attr] = v }
func (h *MemoryHost) IsLocked(attr string) bool        { return h.locked[attr] }
func (h *MemoryHost) MarkDirty()                       { h.dirty++ }

// Lock locks or unlocks attr.
func (h *MemoryHost) Lock(attr string, locked bool) { h.locked[attr] = locked }

// Dirty returns how often MarkDirty was called.
func (h *MemoryHost) Dirty() int { return h.dirty }
