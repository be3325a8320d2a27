package xformstack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/xformsync/pkg/math"
	"github.com/Faultbox/xformsync/pkg/scene"
)

// opSpec describes one op to author on a test prim.
type opSpec struct {
	typ     scene.OpType
	suffix  string
	inverse bool
}

func buildOps(t *testing.T, specs ...opSpec) []scene.Op {
	t.Helper()
	p := scene.NewStage().DefinePrim("/test")
	for _, s := range specs {
		_, err := p.AddOp(s.typ, scene.PrecisionDouble, s.suffix, s.inverse)
		require.NoError(t, err)
	}
	ops, _ := p.OrderedOps()
	return ops
}

func TestMatchEmpty(t *testing.T) {
	r := Match(nil)
	assert.Equal(t, SchemaFromHost, r.Schema)
	assert.True(t, r.Matched())
	assert.Empty(t, r.Classes)
}

func TestMatchSchemas(t *testing.T) {
	tests := []struct {
		name   string
		ops    []opSpec
		schema SchemaID
		want   []Classification
	}{
		{
			name:   "translate rotate scale",
			ops:    []opSpec{{typ: scene.OpTypeTranslate}, {typ: scene.OpTypeRotateXYZ}, {typ: scene.OpTypeScale}},
			schema: SchemaMaya,
			want:   []Classification{{Role: RoleTranslate}, {Role: RoleRotate}, {Role: RoleScale}},
		},
		{
			name: "full host stack",
			ops: []opSpec{
				{typ: scene.OpTypeTranslate},
				{typ: scene.OpTypeTranslate, suffix: "rotatePivotTranslate"},
				{typ: scene.OpTypeTranslate, suffix: "rotatePivot"},
				{typ: scene.OpTypeRotateZXY},
				{typ: scene.OpTypeRotateXYZ, suffix: "rotateAxis"},
				{typ: scene.OpTypeTranslate, suffix: "rotatePivot", inverse: true},
				{typ: scene.OpTypeTranslate, suffix: "scalePivotTranslate"},
				{typ: scene.OpTypeTranslate, suffix: "scalePivot"},
				{typ: scene.OpTypeTransform, suffix: "shear"},
				{typ: scene.OpTypeScale},
				{typ: scene.OpTypeTranslate, suffix: "scalePivot", inverse: true},
			},
			schema: SchemaMaya,
			want: []Classification{
				{Role: RoleTranslate},
				{Role: RoleRotatePivotTranslate},
				{Role: RoleRotatePivot},
				{Role: RoleRotate},
				{Role: RoleRotateAxis},
				{Role: RoleRotatePivot, Inverted: true},
				{Role: RoleScalePivotTranslate},
				{Role: RoleScalePivot},
				{Role: RoleShear},
				{Role: RoleScale},
				{Role: RoleScalePivot, Inverted: true},
			},
		},
		{
			name: "common stack",
			ops: []opSpec{
				{typ: scene.OpTypeTranslate},
				{typ: scene.OpTypeTranslate, suffix: "pivot"},
				{typ: scene.OpTypeRotateXYZ},
				{typ: scene.OpTypeScale},
				{typ: scene.OpTypeTranslate, suffix: "pivot", inverse: true},
			},
			schema: SchemaCommon,
			want: []Classification{
				{Role: RoleTranslate},
				{Role: RolePivot},
				{Role: RoleRotate},
				{Role: RoleScale},
				{Role: RolePivot, Inverted: true},
			},
		},
		{
			name:   "matrix",
			ops:    []opSpec{{typ: scene.OpTypeTransform}},
			schema: SchemaMatrix,
			want:   []Classification{{Role: RoleTransform}},
		},
		{
			name:   "single axis rotate with shear",
			ops:    []opSpec{{typ: scene.OpTypeRotateY}, {typ: scene.OpTypeTransform, suffix: "shear"}},
			schema: SchemaMaya,
			want:   []Classification{{Role: RoleRotate}, {Role: RoleShear}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Match(buildOps(t, tt.ops...))
			assert.Equal(t, tt.schema, r.Schema)
			assert.Equal(t, tt.want, r.Classes)
		})
	}
}

func TestMatchFailures(t *testing.T) {
	tests := []struct {
		name string
		ops  []opSpec
	}{
		{"out of order", []opSpec{{typ: scene.OpTypeScale}, {typ: scene.OpTypeTranslate}}},
		{"unknown suffix", []opSpec{{typ: scene.OpTypeTranslate, suffix: "wobble"}}},
		{"dangling forward pivot", []opSpec{{typ: scene.OpTypeTranslate, suffix: "rotatePivot"}, {typ: scene.OpTypeRotateXYZ}}},
		{"dangling inverse pivot", []opSpec{{typ: scene.OpTypeRotateXYZ}, {typ: scene.OpTypeTranslate, suffix: "rotatePivot", inverse: true}}},
		{"duplicate translate", []opSpec{{typ: scene.OpTypeTranslate}, {typ: scene.OpTypeTranslate, suffix: "translate"}}},
		{"scale typed as translate", []opSpec{{typ: scene.OpTypeTranslate, suffix: "scale"}}},
		{"matrix with translate", []opSpec{{typ: scene.OpTypeTranslate}, {typ: scene.OpTypeTransform}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := buildOps(t, tt.ops...)
			r := Match(ops)
			assert.Equal(t, SchemaUnknown, r.Schema)
			assert.False(t, r.Matched())
			require.Len(t, r.Classes, len(ops))
			for _, c := range r.Classes {
				assert.Equal(t, NotClassified, c)
			}
		})
	}
}

func TestMatchRotationOrder(t *testing.T) {
	r := Match(buildOps(t, opSpec{typ: scene.OpTypeTranslate}, opSpec{typ: scene.OpTypeRotateYZX}))
	assert.Equal(t, math.RotateYZX, r.RotationOrder)

	r = Match(buildOps(t, opSpec{typ: scene.OpTypeRotateZ}))
	assert.Equal(t, math.RotateXYZ, r.RotationOrder)
}

func TestMatchDeterministic(t *testing.T) {
	ops := buildOps(t,
		opSpec{typ: scene.OpTypeTranslate},
		opSpec{typ: scene.OpTypeTranslate, suffix: "pivot"},
		opSpec{typ: scene.OpTypeRotateXYZ},
		opSpec{typ: scene.OpTypeTranslate, suffix: "pivot", inverse: true},
	)
	first := Match(ops)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Match(ops))
	}
}

func TestFindOpIndex(t *testing.T) {
	s := MayaStack()
	assert.Equal(t, 11, s.Len())
	assert.Equal(t, 3, s.FindOpIndex(RoleRotate, false))
	assert.Equal(t, IndexPair{Forward: 2, Inverse: 5}, s.FindOpIndexPair(RoleRotatePivot))
	assert.Equal(t, IndexPair{Forward: 7, Inverse: 10}, s.FindOpIndexPair(RoleScalePivot))
	assert.Equal(t, IndexPair{Forward: 0, Inverse: NoIndex}, s.FindOpIndexPair(RoleTranslate))
	assert.Equal(t, NoIndex, s.FindOpIndex(RolePivot, false))

	assert.Equal(t, IndexPair{Forward: 1, Inverse: 4}, CommonStack().FindOpIndexPair(RolePivot))
	assert.Equal(t, 0, MatrixStack().FindOpIndex(RoleTransform, false))
}

func TestCanonicalIndex(t *testing.T) {
	assert.Equal(t, 2, CanonicalIndex(Classification{Role: RolePivot}))
	assert.Equal(t, 10, CanonicalIndex(Classification{Role: RolePivot, Inverted: true}))
	assert.Equal(t, 8, CanonicalIndex(Classification{Role: RoleShear}))
	assert.Equal(t, NoIndex, CanonicalIndex(NotClassified))
}

func TestRoleTokens(t *testing.T) {
	for r := RoleTranslate; r <= RoleTransform; r++ {
		assert.Equal(t, r, RoleFromToken(r.String()), r.String())
	}
	assert.Equal(t, RoleNone, RoleFromToken(""))
	assert.Equal(t, "pivot", RolePivot.Suffix())
	assert.Equal(t, "", RoleTranslate.Suffix())
	assert.Equal(t, "!scalePivot", Classification{Role: RoleScalePivot, Inverted: true}.String())
}
