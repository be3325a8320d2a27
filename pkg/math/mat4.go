package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mat4 is a 4x4 matrix in row-major order using the row-vector convention.
// Layout: [m00 m01 m02 0]
//
//	[m10 m11 m12 0]
//	[m20 m21 m22 0]
//	[tx  ty  tz  1]
type Mat4 [4][4]float64

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translate returns a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{v.X, v.Y, v.Z, 1},
	}
}

// Scale returns a scale matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		{v.X, 0, 0, 0},
		{0, v.Y, 0, 0},
		{0, 0, v.Z, 0},
		{0, 0, 0, 1},
	}
}

// ShearMatrix returns a shear matrix with the xy, xz and yz coefficients at
// (1,0), (2,0) and (2,1).
func ShearMatrix(sh Vec3) Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{sh.X, 1, 0, 0},
		{sh.Y, sh.Z, 1, 0},
		{0, 0, 0, 1},
	}
}

// RotateX returns a rotation matrix around the X axis.
// angle is in radians.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)

	return Mat4{
		{1, 0, 0, 0},
		{0, c, s, 0},
		{0, -s, c, 0},
		{0, 0, 0, 1},
	}
}

// RotateY returns a rotation matrix around the Y axis.
// angle is in radians.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)

	return Mat4{
		{c, 0, -s, 0},
		{0, 1, 0, 0},
		{s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

// RotateZ returns a rotation matrix around the Z axis.
// angle is in radians.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)

	return Mat4{
		{c, s, 0, 0},
		{-s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mul multiplies this matrix by another (m * other). With row vectors the
// result applies m first, then other.
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			result[row][col] =
				m[row][0]*other[0][col] +
					m[row][1]*other[1][col] +
					m[row][2]*other[2][col] +
					m[row][3]*other[3][col]
		}
	}
	return result
}

// TransformPoint transforms a point by this matrix (assumes w=1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := p.X*m[0][0] + p.Y*m[1][0] + p.Z*m[2][0] + m[3][0]
	y := p.X*m[0][1] + p.Y*m[1][1] + p.Z*m[2][1] + m[3][1]
	z := p.X*m[0][2] + p.Y*m[1][2] + p.Z*m[2][2] + m[3][2]
	w := p.X*m[0][3] + p.Y*m[1][3] + p.Z*m[2][3] + m[3][3]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// TransformDirection transforms a direction vector (ignores translation).
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return Vec3{
		d.X*m[0][0] + d.Y*m[1][0] + d.Z*m[2][0],
		d.X*m[0][1] + d.Y*m[1][1] + d.Z*m[2][1],
		d.X*m[0][2] + d.Y*m[1][2] + d.Z*m[2][2],
	}
}

// Row returns the first three elements of a row.
func (m Mat4) Row(i int) Vec3 {
	return Vec3{m[i][0], m[i][1], m[i][2]}
}

// Translation returns row 3.
func (m Mat4) Translation() Vec3 {
	return m.Row(3)
}

// Mgl reinterprets the matrix as an mgl64 matrix. A row-major row-vector
// matrix read column-major is the column-vector matrix of the same transform.
func (m Mat4) Mgl() mgl64.Mat4 {
	var out mgl64.Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row*4+col] = m[row][col]
		}
	}
	return out
}

// FromMgl is the inverse of Mgl.
func FromMgl(g mgl64.Mat4) Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row][col] = g[row*4+col]
		}
	}
	return out
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float64 {
	return m.Mgl().Det()
}

// Inverse returns the inverse of the matrix.
// Returns identity if the matrix is singular.
func (m Mat4) Inverse() Mat4 {
	g := m.Mgl()
	if g.Det() == 0 {
		return Identity()
	}
	return FromMgl(g.Inv())
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(other Mat4, eps float64) bool {
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if math.Abs(m[row][col]-other[row][col]) > eps {
				return false
			}
		}
	}
	return true
}

// Lerp interpolates element-wise between two matrices.
func (m Mat4) Lerp(other Mat4, t float64) Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row][col] = m[row][col] + t*(other[row][col]-m[row][col])
		}
	}
	return out
}
