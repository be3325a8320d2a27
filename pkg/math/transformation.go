package math

// Transformation is the host's decomposed transform: translate, rotate, scale
// and shear with separate rotate and scale pivots.
type Transformation struct {
	Translation            Vec3
	Rotation               Euler
	Scale                  Vec3
	Shear                  Vec3
	ScalePivot             Vec3
	ScalePivotTranslation  Vec3
	RotatePivot            Vec3
	RotatePivotTranslation Vec3
	RotateOrientation      Quat
}

// IdentityTransformation returns the transformation with every component at
// its identity default.
func IdentityTransformation() Transformation {
	return Transformation{
		Scale:             One3(),
		RotateOrientation: QuatIdentity(),
	}
}

// AsMatrix composes the components as
// [-Sp][S][Sh][Sp][Spt][-Rp][Ra][R][Rp][Rpt][T].
func (t Transformation) AsMatrix() Mat4 {
	return Translate(t.ScalePivot.Neg()).
		Mul(Scale(t.Scale)).
		Mul(ShearMatrix(t.Shear)).
		Mul(Translate(t.ScalePivot)).
		Mul(Translate(t.ScalePivotTranslation)).
		Mul(Translate(t.RotatePivot.Neg())).
		Mul(t.RotateOrientation.ToMat4()).
		Mul(t.Rotation.Mat4()).
		Mul(Translate(t.RotatePivot)).
		Mul(Translate(t.RotatePivotTranslation)).
		Mul(Translate(t.Translation))
}

// AsMatrixPercent composes the transformation with translation, rotation,
// scale, shear and orientation interpolated from identity by percent.
// Pivots and pivot translations are held at their full value.
func (t Transformation) AsMatrixPercent(percent float64) Mat4 {
	if percent == 1 {
		return t.AsMatrix()
	}
	p := t
	p.Translation = t.Translation.Scale(percent)
	p.Rotation = EulerFromVec3(t.Rotation.Angles().Scale(percent), t.Rotation.Order)
	p.Scale = One3().Lerp(t.Scale, percent)
	p.Shear = t.Shear.Scale(percent)
	p.RotateOrientation = QuatIdentity().Slerp(t.RotateOrientation, percent)
	return p.AsMatrix()
}

// DecomposeMatrix splits an affine matrix into scale, shear, XYZ rotation and
// translation. Pivots, pivot translations and orientation are left at identity.
// A negative determinant is folded into the Z scale.
func DecomposeMatrix(m Mat4) Transformation {
	t := IdentityTransformation()
	t.Translation = m.Translation()

	r0 := m.Row(0)
	r1 := m.Row(1)
	r2 := m.Row(2)

	sx := r0.Length()
	if sx == 0 {
		return t
	}
	r0 = r0.Scale(1 / sx)

	d01 := r1.Dot(r0)
	r1 = r1.Sub(r0.Scale(d01))
	sy := r1.Length()
	if sy == 0 {
		return t
	}
	r1 = r1.Scale(1 / sy)

	d02 := r2.Dot(r0)
	d12 := r2.Dot(r1)
	r2 = r2.Sub(r0.Scale(d02)).Sub(r1.Scale(d12))
	sz := r2.Length()
	if sz == 0 {
		return t
	}
	r2 = r2.Scale(1 / sz)

	if r0.Cross(r1).Dot(r2) < 0 {
		sz = -sz
		r2 = r2.Neg()
	}

	t.Scale = Vec3{sx, sy, sz}
	t.Shear = Vec3{d01 / sy, d02 / sz, d12 / sz}

	rot := Identity()
	for col, v := range [3]float64{r0.X, r0.Y, r0.Z} {
		rot[0][col] = v
	}
	for col, v := range [3]float64{r1.X, r1.Y, r1.Z} {
		rot[1][col] = v
	}
	for col, v := range [3]float64{r2.X, r2.Y, r2.Z} {
		rot[2][col] = v
	}
	t.Rotation = EulerFromMat4(rot)
	return t
}

// ApproxEqual reports whether two transformations match component-wise within eps.
func (t Transformation) ApproxEqual(other Transformation, eps float64) bool {
	return t.Translation.ApproxEqual(other.Translation, eps) &&
		t.Rotation.Order == other.Rotation.Order &&
		t.Rotation.Angles().ApproxEqual(other.Rotation.Angles(), eps) &&
		t.Scale.ApproxEqual(other.Scale, eps) &&
		t.Shear.ApproxEqual(other.Shear, eps) &&
		t.ScalePivot.ApproxEqual(other.ScalePivot, eps) &&
		t.ScalePivotTranslation.ApproxEqual(other.ScalePivotTranslation, eps) &&
		t.RotatePivot.ApproxEqual(other.RotatePivot, eps) &&
		t.RotatePivotTranslation.ApproxEqual(other.RotatePivotTranslation, eps) &&
		t.RotateOrientation.ApproxEqual(other.RotateOrientation, eps)
}

// OffsetTranslation adds a local-space offset to the translation row: the
// offset is projected through the upper 3x3 of m.
func OffsetTranslation(m Mat4, offset Vec3) Mat4 {
	if offset == (Vec3{}) {
		return m
	}
	d := m.TransformDirection(offset)
	m[3][0] += d.X
	m[3][1] += d.Y
	m[3][2] += d.Z
	return m
}
