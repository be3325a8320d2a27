package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

func (q Quat) mgl() mgl64.Quat {
	return mgl64.Quat{W: q.W, V: mgl64.Vec3{q.X, q.Y, q.Z}}
}

func quatFromMgl(g mgl64.Quat) Quat {
	return Quat{X: g.V[0], Y: g.V[1], Z: g.V[2], W: g.W}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	return quatFromMgl(mgl64.QuatRotate(angle, mgl64.Vec3{axis.X, axis.Y, axis.Z}))
}

// QuatFromMat4 extracts the rotation of the upper 3x3 of a pure rotation matrix.
func QuatFromMat4(m Mat4) Quat {
	return quatFromMgl(mgl64.Mat4ToQuat(m.Mgl())).Normalize()
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if length < 1e-12 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float64 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Mul multiplies two quaternions (combines rotations).
func (q Quat) Mul(other Quat) Quat {
	return quatFromMgl(q.mgl().Mul(other.mgl()))
}

// Inverse returns the inverse rotation.
func (q Quat) Inverse() Quat {
	return quatFromMgl(q.mgl().Inverse())
}

// Slerp performs spherical linear interpolation between two quaternions.
// t should be in range [0, 1].
func (q Quat) Slerp(other Quat, t float64) Quat {
	if q.Dot(other) < 0 {
		other = Quat{X: -other.X, Y: -other.Y, Z: -other.Z, W: -other.W}
	}
	return quatFromMgl(mgl64.QuatSlerp(q.mgl(), other.mgl(), t)).Normalize()
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	return FromMgl(q.Normalize().mgl().Mat4())
}

// ApproxEqual reports whether q and other describe the same rotation within eps.
// q and -q are treated as equal.
func (q Quat) ApproxEqual(other Quat, eps float64) bool {
	if q.Dot(other) < 0 {
		other = Quat{X: -other.X, Y: -other.Y, Z: -other.Z, W: -other.W}
	}
	return math.Abs(q.X-other.X) <= eps &&
		math.Abs(q.Y-other.Y) <= eps &&
		math.Abs(q.Z-other.Z) <= eps &&
		math.Abs(q.W-other.W) <= eps
}

// IsIdentity reports whether q is the identity rotation within eps.
func (q Quat) IsIdentity(eps float64) bool {
	return q.ApproxEqual(QuatIdentity(), eps)
}
