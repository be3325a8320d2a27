package math

import (
	"math"
	"testing"
)

const eps = 1e-5

func abs(x float64) float64 {
	return math.Abs(x)
}

func TestEulerOrderComposition(t *testing.T) {
	tests := []struct {
		order RotationOrder
		want  Mat4
	}{
		{RotateXYZ, RotateX(0.1).Mul(RotateY(0.2)).Mul(RotateZ(0.3))},
		{RotateYZX, RotateY(0.2).Mul(RotateZ(0.3)).Mul(RotateX(0.1))},
		{RotateZXY, RotateZ(0.3).Mul(RotateX(0.1)).Mul(RotateY(0.2))},
		{RotateXZY, RotateX(0.1).Mul(RotateZ(0.3)).Mul(RotateY(0.2))},
		{RotateYXZ, RotateY(0.2).Mul(RotateX(0.1)).Mul(RotateZ(0.3))},
		{RotateZYX, RotateZ(0.3).Mul(RotateY(0.2)).Mul(RotateX(0.1))},
	}

	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			got := Euler{X: 0.1, Y: 0.2, Z: 0.3, Order: tt.order}.Mat4()
			if !got.ApproxEqual(tt.want, 1e-12) {
				t.Errorf("Mat4() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEulerFromMat4(t *testing.T) {
	tests := []struct {
		name string
		in   Euler
	}{
		{"zero", Euler{}},
		{"general", Euler{X: 0.4, Y: -0.3, Z: 1.2}},
		{"negative", Euler{X: -2.5, Y: 0.9, Z: -0.1}},
		{"gimbal", Euler{X: 0.7, Y: math.Pi / 2, Z: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.in.Mat4()
			got := EulerFromMat4(m)
			if !got.Mat4().ApproxEqual(m, 1e-9) {
				t.Errorf("EulerFromMat4(%v) = %v, recomposes to %v", tt.in, got, got.Mat4())
			}
		})
	}
}

func TestEulerFromMat4Order(t *testing.T) {
	orders := []RotationOrder{RotateXYZ, RotateYZX, RotateZXY, RotateXZY, RotateYXZ, RotateZYX}
	angles := []Euler{
		{X: 0.5, Y: 0.7, Z: 0},
		{X: -1.1, Y: 0.2, Z: 2.4},
		{X: 0, Y: math.Pi / 2, Z: 0.3},
	}

	for _, order := range orders {
		for _, a := range angles {
			in := Euler{X: a.X, Y: a.Y, Z: a.Z, Order: order}
			m := in.Mat4()
			got := EulerFromMat4Order(m, order)
			if got.Order != order {
				t.Errorf("%s: order = %s", order, got.Order)
			}
			if !got.Mat4().ApproxEqual(m, 1e-9) {
				t.Errorf("%s: EulerFromMat4Order(%v) = %v, recomposes to %v", order, in, got, got.Mat4())
			}
		}
	}

	in := Euler{X: 0.3, Y: -0.4, Z: 0.9, Order: RotateZYX}
	got := EulerFromQuatOrder(in.ToQuat(), RotateZYX)
	if abs(got.X-in.X) > eps || abs(got.Y-in.Y) > eps || abs(got.Z-in.Z) > eps {
		t.Errorf("EulerFromQuatOrder = %v, want %v", got, in)
	}
}

func TestDegreeConversion(t *testing.T) {
	if got := RadToDeg(math.Pi); abs(got-180) > 1e-12 {
		t.Errorf("RadToDeg(pi) = %f, want 180", got)
	}
	if got := DegToRad(90); abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("DegToRad(90) = %f, want pi/2", got)
	}
}

func TestParseRotationOrder(t *testing.T) {
	for o := RotateXYZ; o <= RotateZYX; o++ {
		got, ok := ParseRotationOrder(o.String())
		if !ok || got != o {
			t.Errorf("ParseRotationOrder(%q) = %v, %v", o.String(), got, ok)
		}
	}
	if _, ok := ParseRotationOrder("XXY"); ok {
		t.Error("expected failure for XXY")
	}
}

func TestIdentityTransformation(t *testing.T) {
	if got := IdentityTransformation().AsMatrix(); !got.ApproxEqual(Identity(), 1e-12) {
		t.Errorf("identity AsMatrix = %v", got)
	}
}

func TestAsMatrixPivotRotation(t *testing.T) {
	// Rotating 90 degrees about Z around pivot (1,0,0) moves the origin to (1,-1,0).
	tr := IdentityTransformation()
	tr.Rotation = Euler{Z: math.Pi / 2}
	tr.RotatePivot = Vec3{1, 0, 0}

	got := tr.AsMatrix().TransformPoint(Vec3{})
	if !got.ApproxEqual(Vec3{1, -1, 0}, eps) {
		t.Errorf("pivoted rotation: got %v, want (1, -1, 0)", got)
	}
}

func TestDecomposeShearRotate(t *testing.T) {
	// rotateY(90) followed by shear (0.25, 0.5, 0.75)
	m := ShearMatrix(Vec3{0.25, 0.5, 0.75}).Mul(RotateY(math.Pi / 2))

	d := DecomposeMatrix(m)
	if !d.Shear.ApproxEqual(Vec3{0.25, 0.5, 0.75}, eps) {
		t.Errorf("Shear: got %v, want (0.25, 0.5, 0.75)", d.Shear)
	}
	if !d.Rotation.Angles().ApproxEqual(Vec3{0, math.Pi / 2, 0}, eps) {
		t.Errorf("Rotation: got %v, want (0, pi/2, 0)", d.Rotation.Angles())
	}
	if !d.Scale.ApproxEqual(One3(), eps) {
		t.Errorf("Scale: got %v, want (1, 1, 1)", d.Scale)
	}
}

func TestDecomposeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tr   Transformation
	}{
		{
			name: "trs",
			tr: Transformation{
				Translation:       Vec3{1, 2, 3},
				Rotation:          Euler{X: 0.3, Y: 0.2, Z: -0.4},
				Scale:             Vec3{2, 3, 4},
				RotateOrientation: QuatIdentity(),
			},
		},
		{
			name: "negative scale",
			tr: Transformation{
				Rotation:          Euler{X: 1, Y: -0.5, Z: 2},
				Scale:             Vec3{1, -2, 0.5},
				RotateOrientation: QuatIdentity(),
			},
		},
		{
			name: "everything",
			tr: Transformation{
				Translation:            Vec3{-4, 0.5, 9},
				Rotation:               Euler{X: 0.1, Y: 0.6, Z: 0.9, Order: RotateZXY},
				Scale:                  Vec3{1.5, 0.75, 2},
				Shear:                  Vec3{0.1, -0.2, 0.3},
				ScalePivot:             Vec3{1, 1, 0},
				ScalePivotTranslation:  Vec3{0, 0.2, 0},
				RotatePivot:            Vec3{-1, 2, 3},
				RotatePivotTranslation: Vec3{0.5, 0, 0},
				RotateOrientation:      QuatFromAxisAngle(Vec3{0, 1, 0}, 0.25),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.tr.AsMatrix()
			got := DecomposeMatrix(m).AsMatrix()
			if !got.ApproxEqual(m, eps) {
				t.Errorf("round trip: got %v, want %v", got, m)
			}
		})
	}
}

func TestAsMatrixPercent(t *testing.T) {
	tr := IdentityTransformation()
	tr.Translation = Vec3{10, 0, 0}
	tr.Scale = Vec3{3, 3, 3}

	if got := tr.AsMatrixPercent(1); got != tr.AsMatrix() {
		t.Errorf("percent 1 should equal AsMatrix")
	}
	if got := tr.AsMatrixPercent(0); !got.ApproxEqual(Identity(), 1e-12) {
		t.Errorf("percent 0 should be identity, got %v", got)
	}
	half := tr.AsMatrixPercent(0.5)
	if abs(half[3][0]-5) > eps || abs(half[0][0]-2) > eps {
		t.Errorf("percent 0.5: got translate %f scale %f, want 5 and 2", half[3][0], half[0][0])
	}
}

func TestOffsetTranslation(t *testing.T) {
	m := RotateZ(math.Pi / 2).Mul(Translate(Vec3{1, 0, 0}))
	got := OffsetTranslation(m, Vec3{1, 0, 0}).Translation()
	// the offset follows the rotated X axis onto +Y
	if !got.ApproxEqual(Vec3{1, 1, 0}, eps) {
		t.Errorf("OffsetTranslation: got %v, want (1, 1, 0)", got)
	}
}
