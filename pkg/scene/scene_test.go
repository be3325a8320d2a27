package scene

import (
	"bytes"
	stdmath "math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/x448/float16"

	"github.com/Faultbox/xformsync/pkg/math"
)

var approx = cmpopts.EquateApprox(0, 1e-5)

func TestParseOpName(t *testing.T) {
	tests := []struct {
		in      string
		typ     OpType
		suffix  string
		inverse bool
		wantErr bool
	}{
		{"xformOp:translate", OpTypeTranslate, "", false, false},
		{"xformOp:translate:pivot", OpTypeTranslate, "pivot", false, false},
		{"!invert!xformOp:translate:rotatePivot", OpTypeTranslate, "rotatePivot", true, false},
		{"xformOp:rotateZYX:rotateAxis", OpTypeRotateZYX, "rotateAxis", false, false},
		{"xformOp:transform:shear", OpTypeTransform, "shear", false, false},
		{"xformOp:orient", OpTypeInvalid, "", false, true},
		{"translate", OpTypeInvalid, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			typ, suffix, inverse, err := ParseOpName(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if typ != tt.typ || suffix != tt.suffix || inverse != tt.inverse {
				t.Errorf("got (%v, %q, %v), want (%v, %q, %v)", typ, suffix, inverse, tt.typ, tt.suffix, tt.inverse)
			}
		})
	}
}

func TestValueTypeFor(t *testing.T) {
	tests := []struct {
		typ  OpType
		p    Precision
		want ValueType
	}{
		{OpTypeTranslate, PrecisionDouble, Double3},
		{OpTypeTranslate, PrecisionFloat, Float3},
		{OpTypeScale, PrecisionHalf, Half3},
		{OpTypeRotateY, PrecisionFloat, Float},
		{OpTypeRotateXYZ, PrecisionDouble, Double3},
		{OpTypeTransform, PrecisionFloat, Matrix4d},
	}
	for _, tt := range tests {
		if got := ValueTypeFor(tt.typ, tt.p); got != tt.want {
			t.Errorf("ValueTypeFor(%v, %v) = %v, want %v", tt.typ, tt.p, got, tt.want)
		}
	}
}

func TestValueTypePrecision(t *testing.T) {
	for _, p := range []Precision{PrecisionDouble, PrecisionFloat, PrecisionHalf} {
		for _, typ := range []OpType{OpTypeTranslate, OpTypeRotateX} {
			got, ok := ValueTypeFor(typ, p).Precision()
			if !ok || got != p {
				t.Errorf("%v %v: precision = %v, %v", typ, p, got, ok)
			}
		}
	}
	if _, ok := Int3.Precision(); ok {
		t.Error("int3 should have no precision")
	}
}

func TestParseTimeCode(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeCode
		wantErr bool
	}{
		{"", DefaultTime(), false},
		{"default", DefaultTime(), false},
		{"12.5", At(12.5), false},
		{"-3", At(-3), false},
		{"later", TimeCode{}, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeCode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimeCode(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeCode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAttributeTimeSamples(t *testing.T) {
	a := NewAttribute("xformOp:translate", Double3)
	if _, ok := a.Get(DefaultTime()); ok {
		t.Fatal("unauthored attribute should not resolve")
	}
	if err := a.Set([3]float64{1, 1, 1}, DefaultTime()); err != nil {
		t.Fatal(err)
	}
	if err := a.Set([3]float64{10, 0, 0}, At(10)); err != nil {
		t.Fatal(err)
	}
	if err := a.Set([3]float64{0, 0, 0}, At(0)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		time TimeCode
		want [3]float64
	}{
		{"default", DefaultTime(), [3]float64{1, 1, 1}},
		{"before first", At(-5), [3]float64{0, 0, 0}},
		{"on sample", At(10), [3]float64{10, 0, 0}},
		{"between", At(2.5), [3]float64{2.5, 0, 0}},
		{"after last", At(99), [3]float64{10, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := a.Get(tt.time)
			if !ok {
				t.Fatal("Get failed")
			}
			if diff := cmp.Diff(tt.want, v, approx); diff != "" {
				t.Errorf("Get(%v) mismatch (-want +got):\n%s", tt.time, diff)
			}
		})
	}

	if a.NumTimeSamples() != 2 {
		t.Errorf("NumTimeSamples = %d, want 2", a.NumTimeSamples())
	}
}

func TestAttributeTypeCheck(t *testing.T) {
	a := NewAttribute("xformOp:scale", Half3)
	if err := a.Set([3]float32{1, 2, 3}, DefaultTime()); err == nil {
		t.Error("expected type error for float3 on half3")
	}
	h := [3]float16.Float16{float16.Fromfloat32(1), float16.Fromfloat32(2), float16.Fromfloat32(3)}
	if err := a.Set(h, DefaultTime()); err != nil {
		t.Errorf("half3 set: %v", err)
	}
	if a.Revision() != 1 {
		t.Errorf("Revision = %d, want 1", a.Revision())
	}
}

func TestAddOp(t *testing.T) {
	s := NewStage()
	p := s.DefinePrim("/a")

	if _, err := p.AddOp(OpTypeTranslate, PrecisionFloat, "pivot", true); err != nil {
		t.Fatal(err)
	}
	fwd, err := p.AddOp(OpTypeTranslate, PrecisionFloat, "pivot", false)
	if err != nil {
		t.Fatal(err)
	}
	if fwd.TypeName() != Float3 || fwd.AttrName() != "xformOp:translate:pivot" {
		t.Errorf("forward op = %s %s", fwd.TypeName(), fwd.AttrName())
	}
	if _, err := p.AddOp(OpTypeTranslate, PrecisionFloat, "pivot", false); err == nil {
		t.Error("expected duplicate op error")
	}
	if _, err := p.AddOp(OpTypeTranslate, PrecisionDouble, "", false); err != nil {
		t.Fatal(err)
	}
	if _, err := p.CreateAttribute("xformOp:scale", Float3); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddOp(OpTypeScale, PrecisionDouble, "", false); err == nil {
		t.Error("expected type conflict for double3 scale on a float3 attribute")
	}

	want := []string{"!invert!xformOp:translate:pivot", "xformOp:translate:pivot", "xformOp:translate"}
	if diff := cmp.Diff(want, p.OpOrder()); diff != "" {
		t.Errorf("op order mismatch (-want +got):\n%s", diff)
	}

	ops, _ := p.OrderedOps()
	if len(ops) != 3 || !ops[0].IsInverseOp() || ops[0].Attribute() != ops[1].Attribute() {
		t.Error("inverse and forward ops should share one attribute")
	}
}

func TestResetXformStack(t *testing.T) {
	p := NewStage().DefinePrim("/a")
	if _, err := p.AddOp(OpTypeTranslate, PrecisionDouble, "", false); err != nil {
		t.Fatal(err)
	}
	p.SetResetXformStack(true)
	ops, resets := p.OrderedOps()
	if !resets || len(ops) != 1 {
		t.Errorf("resets = %v, ops = %d", resets, len(ops))
	}
	p.SetResetXformStack(false)
	if p.ResetsXformStack() {
		t.Error("reset token should be removed")
	}
}

func TestParseStageDefaults(t *testing.T) {
	const doc = `
prims:
  - path: /p
    attributes:
      - name: xformOp:translate
        type: double3
        default: [1, 2, 3]
      - name: xformOp:rotateX
        type: float
        default: 90
      - name: xformOp:transform
        type: matrix4d
        default:
          - [1, 0, 0, 0]
          - [0, 1, 0, 0]
          - [0, 0, 1, 0]
          - [4, 5, 6, 1]
      - name: xformOp:scale
        type: double3
        time_samples:
          - {time: 1, value: [2, 2, 2]}
`
	s, err := ParseStage([]byte(doc))
	if err != nil {
		t.Fatalf("ParseStage: %v", err)
	}
	p := s.Prim("/p")

	tests := []struct {
		name string
		want any
	}{
		{"xformOp:translate", [3]float64{1, 2, 3}},
		{"xformOp:rotateX", float32(90)},
		{"xformOp:transform", math.Translate(math.Vec3{X: 4, Y: 5, Z: 6})},
	}
	for _, tt := range tests {
		got, ok := p.Attribute(tt.name).Default()
		if !ok {
			t.Errorf("%s: no default", tt.name)
			continue
		}
		if diff := cmp.Diff(tt.want, got, approx); diff != "" {
			t.Errorf("%s default (-want +got):\n%s", tt.name, diff)
		}
	}

	if _, ok := p.Attribute("xformOp:scale").Default(); ok {
		t.Error("sample-only attribute has a default")
	}
}

func TestLoadShearStage(t *testing.T) {
	s, err := LoadStage("testdata/shear.yaml")
	if err != nil {
		t.Fatal(err)
	}

	components, err := s.Prim("/top/shear_components").LocalTransformation(DefaultTime())
	if err != nil {
		t.Fatal(err)
	}
	matrix, err := s.Prim("/top/shear_matrix").LocalTransformation(DefaultTime())
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(matrix, components, approx); diff != "" {
		t.Errorf("component and matrix prims differ (-matrix +components):\n%s", diff)
	}
	if stdmath.Abs(components[1][2]+0.25) > 1e-5 {
		t.Errorf("m[1][2] = %f, want -0.25", components[1][2])
	}
}

func TestLoadAnimatedStage(t *testing.T) {
	s, err := LoadStage("testdata/animated.yaml")
	if err != nil {
		t.Fatal(err)
	}
	p := s.Prim("/world/mover")
	ops, resets := p.OrderedOps()
	if !resets {
		t.Error("expected reset xform stack")
	}
	if len(ops) != 5 {
		t.Fatalf("ops = %d, want 5", len(ops))
	}
	if !p.MightBeTimeVarying() {
		t.Error("translate has two samples")
	}

	v, ok := GetAs[[3]float64](ops[0], At(5.5))
	if !ok {
		t.Fatal("translate did not resolve")
	}
	if diff := cmp.Diff([3]float64{4.5, 9, 13.5}, v, approx); diff != "" {
		t.Errorf("translate at 5.5 mismatch:\n%s", diff)
	}

	// [-pivot][S][R][pivot][T] with T at the origin
	m, err := p.LocalTransformation(At(1))
	if err != nil {
		t.Fatal(err)
	}
	want := math.Translate(math.Vec3{X: -1, Y: -2, Z: -3}).
		Mul(math.Scale(math.Vec3{X: 2, Y: 2, Z: 2})).
		Mul(math.RotateY(math.DegToRad(45))).
		Mul(math.Translate(math.Vec3{X: 1, Y: 2, Z: 3}))
	if diff := cmp.Diff(want, m, approx); diff != "" {
		t.Errorf("local transformation mismatch:\n%s", diff)
	}
}

func TestStageRoundTrip(t *testing.T) {
	s, err := LoadStage("testdata/animated.yaml")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		t.Fatal(err)
	}
	again, err := ParseStage(buf.Bytes())
	if err != nil {
		t.Fatalf("re-parse: %v\n%s", err, buf.String())
	}

	a := s.Prim("/world/mover")
	b := again.Prim("/world/mover")
	if diff := cmp.Diff(a.OpOrder(), b.OpOrder()); diff != "" {
		t.Errorf("op order mismatch:\n%s", diff)
	}
	for _, tc := range []TimeCode{DefaultTime(), At(1), At(4), At(10)} {
		ma, errA := a.LocalTransformation(tc)
		mb, errB := b.LocalTransformation(tc)
		if errA != nil || errB != nil {
			t.Fatalf("evaluate at %v: %v %v", tc, errA, errB)
		}
		if diff := cmp.Diff(ma, mb, approx); diff != "" {
			t.Errorf("at %v mismatch:\n%s", tc, diff)
		}
	}
}

func TestParseStageErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown type", "prims:\n  - path: /a\n    attributes:\n      - {name: xformOp:translate, type: vec3, default: [0, 0, 0]}\n"},
		{"short vector", "prims:\n  - path: /a\n    attributes:\n      - {name: xformOp:translate, type: double3, default: [0, 0]}\n"},
		{"missing op", "prims:\n  - path: /a\n    xform_op_order: [xformOp:translate]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseStage([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
