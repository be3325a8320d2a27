package math

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RotationOrder is the order in which the three axis rotations are applied.
// Values follow the host's enumeration.
type RotationOrder int

const (
	RotateXYZ RotationOrder = iota
	RotateYZX
	RotateZXY
	RotateXZY
	RotateYXZ
	RotateZYX
)

// String returns the order name.
func (o RotationOrder) String() string {
	switch o {
	case RotateXYZ:
		return "XYZ"
	case RotateYZX:
		return "YZX"
	case RotateZXY:
		return "ZXY"
	case RotateXZY:
		return "XZY"
	case RotateYXZ:
		return "YXZ"
	case RotateZYX:
		return "ZYX"
	default:
		return fmt.Sprintf("RotationOrder(%d)", int(o))
	}
}

// Valid reports whether o is one of the six orders.
func (o RotationOrder) Valid() bool {
	return o >= RotateXYZ && o <= RotateZYX
}

// Axes returns the axis indices (0=X, 1=Y, 2=Z) in application order.
func (o RotationOrder) Axes() [3]int {
	switch o {
	case RotateYZX:
		return [3]int{1, 2, 0}
	case RotateZXY:
		return [3]int{2, 0, 1}
	case RotateXZY:
		return [3]int{0, 2, 1}
	case RotateYXZ:
		return [3]int{1, 0, 2}
	case RotateZYX:
		return [3]int{2, 1, 0}
	default:
		return [3]int{0, 1, 2}
	}
}

// ParseRotationOrder parses an order name such as "XYZ".
func ParseRotationOrder(s string) (RotationOrder, bool) {
	for o := RotateXYZ; o <= RotateZYX; o++ {
		if o.String() == s {
			return o, true
		}
	}
	return RotateXYZ, false
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return mgl64.DegToRad(deg)
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return mgl64.RadToDeg(rad)
}

// Euler is a rotation expressed as three axis angles in radians.
type Euler struct {
	X, Y, Z float64
	Order   RotationOrder
}

// Angles returns the angles as a vector.
func (e Euler) Angles() Vec3 {
	return Vec3{e.X, e.Y, e.Z}
}

// EulerFromVec3 builds a rotation from a vector of radians.
func EulerFromVec3(v Vec3, order RotationOrder) Euler {
	return Euler{X: v.X, Y: v.Y, Z: v.Z, Order: order}
}

// Degrees returns the angles converted to degrees.
func (e Euler) Degrees() Vec3 {
	return Vec3{RadToDeg(e.X), RadToDeg(e.Y), RadToDeg(e.Z)}
}

// Mat4 returns the rotation matrix, applying the axes in e.Order.
func (e Euler) Mat4() Mat4 {
	angles := [3]float64{e.X, e.Y, e.Z}
	m := Identity()
	for _, axis := range e.Order.Axes() {
		switch axis {
		case 0:
			m = m.Mul(RotateX(angles[0]))
		case 1:
			m = m.Mul(RotateY(angles[1]))
		case 2:
			m = m.Mul(RotateZ(angles[2]))
		}
	}
	return m
}

// ToQuat converts the rotation to a quaternion.
func (e Euler) ToQuat() Quat {
	return QuatFromMat4(e.Mat4())
}

// IsZero reports whether all angles are within eps of zero.
func (e Euler) IsZero(eps float64) bool {
	return e.Angles().ApproxEqual(Vec3{}, eps)
}

// EulerFromMat4 extracts XYZ angles from the upper 3x3 of a pure rotation
// matrix. In gimbal lock the Z angle is set to zero.
func EulerFromMat4(m Mat4) Euler {
	return EulerFromMat4Order(m, RotateXYZ)
}

// EulerFromMat4Order extracts angles in the given order. Relabeling the axes
// so the order reads XYZ reduces every order to one extraction; odd axis
// permutations mirror the frame and flip the angle signs. In gimbal lock the
// last angle is set to zero.
func EulerFromMat4Order(m Mat4, order RotationOrder) Euler {
	p := order.Axes()
	var r Mat4
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[p[i]][p[j]]
		}
	}

	a, b, c := eulerXYZ(r)
	if order.odd() {
		a, b, c = -a, -b, -c
	}

	var angles [3]float64
	angles[p[0]], angles[p[1]], angles[p[2]] = a, b, c
	return Euler{X: angles[0], Y: angles[1], Z: angles[2], Order: order}
}

func eulerXYZ(m Mat4) (x, y, z float64) {
	sy := -m[0][2]
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	y = math.Asin(sy)

	if math.Abs(sy) > 1-1e-12 {
		return math.Atan2(-m[2][1], m[1][1]), y, 0
	}
	return math.Atan2(m[1][2], m[2][2]), y, math.Atan2(m[0][1], m[0][0])
}

// odd reports whether the axis sequence is an odd permutation of XYZ.
func (o RotationOrder) odd() bool {
	switch o {
	case RotateXZY, RotateYXZ, RotateZYX:
		return true
	}
	return false
}

// EulerFromQuat converts a quaternion to XYZ angles.
func EulerFromQuat(q Quat) Euler {
	return EulerFromMat4(q.ToMat4())
}

// EulerFromQuatOrder converts a quaternion to angles in the given order.
func EulerFromQuatOrder(q Quat, order RotationOrder) Euler {
	return EulerFromMat4Order(q.ToMat4(), order)
}
