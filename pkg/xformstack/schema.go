package xformstack

import (
	"fmt"

	"github.com/Faultbox/xformsync/pkg/scene"
)

// NoIndex is returned when a schema has no entry for a role.
const NoIndex = -1

// SchemaID identifies the schema an op list matched.
type SchemaID int

const (
	// SchemaFromHost is an empty op list: the host owns the transform and
	// ops are created on demand.
	SchemaFromHost SchemaID = iota
	SchemaMaya
	SchemaCommon
	SchemaMatrix
	// SchemaUnknown is a non-empty op list no schema accounts for.
	SchemaUnknown
)

// String returns the schema name.
func (id SchemaID) String() string {
	switch id {
	case SchemaFromHost:
		return "fromHost"
	case SchemaMaya:
		return "maya"
	case SchemaCommon:
		return "common"
	case SchemaMatrix:
		return "matrix"
	case SchemaUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("SchemaID(%d)", int(id))
	}
}

// OpSpec is one schema entry.
type OpSpec struct {
	Role     Role
	Type     scene.OpType
	Inverted bool
}

// Classification returns the classification ops matching this entry get.
func (s OpSpec) Classification() Classification {
	return Classification{Role: s.Role, Inverted: s.Inverted}
}

// accepts reports whether an op of type t can fill the entry. Rotation
// entries accept any rotation type.
func (s OpSpec) accepts(t scene.OpType) bool {
	if s.Type.IsRotate() {
		return t.IsRotate()
	}
	return s.Type == t
}

// IndexPair holds a forward entry index and its inverse twin index.
type IndexPair struct {
	Forward, Inverse int
}

// Schema is an immutable canonical op ordering.
type Schema struct {
	id    SchemaID
	ops   []OpSpec
	twins []IndexPair
}

// ID returns the schema identifier.
func (s *Schema) ID() SchemaID { return s.id }

// Len returns the number of entries.
func (s *Schema) Len() int { return len(s.ops) }

// Op returns entry i.
func (s *Schema) Op(i int) OpSpec { return s.ops[i] }

// Ops returns a copy of the entries.
func (s *Schema) Ops() []OpSpec {
	out := make([]OpSpec, len(s.ops))
	copy(out, s.ops)
	return out
}

// FindOpIndex returns the index of the entry with the given role and
// inversion, or NoIndex.
func (s *Schema) FindOpIndex(role Role, inverted bool) int {
	for i, op := range s.ops {
		if op.Role == role && op.Inverted == inverted {
			return i
		}
	}
	return NoIndex
}

// FindOpIndexPair returns the forward and inverse entry indices of role.
// Inverse is NoIndex for roles without a twin.
func (s *Schema) FindOpIndexPair(role Role) IndexPair {
	return IndexPair{
		Forward: s.FindOpIndex(role, false),
		Inverse: s.FindOpIndex(role, true),
	}
}

func (s *Schema) twinOf(i int) (int, bool) {
	for _, p := range s.twins {
		switch i {
		case p.Forward:
			return p.Inverse, true
		case p.Inverse:
			return p.Forward, true
		}
	}
	return NoIndex, false
}

var (
	mayaStack = &Schema{
		id: SchemaMaya,
		ops: []OpSpec{
			{RoleTranslate, scene.OpTypeTranslate, false},
			{RoleRotatePivotTranslate, scene.OpTypeTranslate, false},
			{RoleRotatePivot, scene.OpTypeTranslate, false},
			{RoleRotate, scene.OpTypeRotateXYZ, false},
			{RoleRotateAxis, scene.OpTypeRotateXYZ, false},
			{RoleRotatePivot, scene.OpTypeTranslate, true},
			{RoleScalePivotTranslate, scene.OpTypeTranslate, false},
			{RoleScalePivot, scene.OpTypeTranslate, false},
			{RoleShear, scene.OpTypeTransform, false},
			{RoleScale, scene.OpTypeScale, false},
			{RoleScalePivot, scene.OpTypeTranslate, true},
		},
		twins: []IndexPair{{2, 5}, {7, 10}},
	}

	commonStack = &Schema{
		id: SchemaCommon,
		ops: []OpSpec{
			{RoleTranslate, scene.OpTypeTranslate, false},
			{RolePivot, scene.OpTypeTranslate, false},
			{RoleRotate, scene.OpTypeRotateXYZ, false},
			{RoleScale, scene.OpTypeScale, false},
			{RolePivot, scene.OpTypeTranslate, true},
		},
		twins: []IndexPair{{1, 4}},
	}

	matrixStack = &Schema{
		id: SchemaMatrix,
		ops: []OpSpec{
			{RoleTransform, scene.OpTypeTransform, false},
		},
	}

	// matchOrder is the priority schemas are tried in.
	matchOrder = []*Schema{mayaStack, commonStack, matrixStack}
)

// MayaStack returns the full host stack:
// translate, rotatePivotTranslate, rotatePivot, rotate, rotateAxis,
// !rotatePivot, scalePivotTranslate, scalePivot, shear, scale, !scalePivot.
func MayaStack() *Schema { return mayaStack }

// CommonStack returns translate, pivot, rotate, scale, !pivot.
func CommonStack() *Schema { return commonStack }

// MatrixStack returns the single-matrix stack.
func MatrixStack() *Schema { return matrixStack }

// Schemas returns the known schemas in match priority order.
func Schemas() []*Schema {
	return append([]*Schema(nil), matchOrder...)
}

// CanonicalIndex returns the position of c in the host stack ordering used
// for inserting new ops. The combined pivot shares the rotate pivot slot and
// its inverse sits with the inverse scale pivot. NoIndex is returned for
// unclassified ops and the matrix role.
func CanonicalIndex(c Classification) int {
	switch c.Role {
	case RoleNone, RoleTransform:
		return NoIndex
	case RolePivot:
		if c.Inverted {
			return mayaStack.FindOpIndex(RoleScalePivot, true)
		}
		return mayaStack.FindOpIndex(RoleRotatePivot, false)
	}
	return mayaStack.FindOpIndex(c.Role, c.Inverted)
}
