// Package codec reads and writes the value of a single transform op as the
// host-side kind it represents (vector, point, scalar, matrix, shear or
// rotation), whatever precision the op is stored with.
//
// Reads return ok=false when the op is unauthored or stored as a type the
// kind cannot be decoded from. Writes convert to the op's storage type and
// skip the store when the converted value equals the current one.
package codec

import (
	"github.com/x448/float16"

	"github.com/Faultbox/xformsync/pkg/math"
	"github.com/Faultbox/xformsync/pkg/scene"
)

// ReadVector decodes a double3, float3, half3 or int3 op.
func ReadVector(op scene.Op, t scene.TimeCode) (math.Vec3, bool) {
	switch op.TypeName() {
	case scene.Double3:
		v, ok := scene.GetAs[[3]float64](op, t)
		return math.Vec3FromArray(v), ok
	case scene.Float3:
		v, ok := scene.GetAs[[3]float32](op, t)
		return math.Vec3{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}, ok
	case scene.Half3:
		v, ok := scene.GetAs[[3]float16.Float16](op, t)
		return math.Vec3{X: float64(v[0].Float32()), Y: float64(v[1].Float32()), Z: float64(v[2].Float32())}, ok
	case scene.Int3:
		v, ok := scene.GetAs[[3]int32](op, t)
		return math.Vec3{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}, ok
	}
	return math.Vec3{}, false
}

// WriteVector encodes v into a double3, float3, half3 or int3 op.
// Narrowing to int truncates toward zero.
func WriteVector(op scene.Op, v math.Vec3, t scene.TimeCode) bool {
	var value any
	switch op.TypeName() {
	case scene.Double3:
		value = v.Array()
	case scene.Float3:
		value = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
	case scene.Half3:
		value = [3]float16.Float16{
			float16.Fromfloat32(float32(v.X)),
			float16.Fromfloat32(float32(v.Y)),
			float16.Fromfloat32(float32(v.Z)),
		}
	case scene.Int3:
		value = [3]int32{int32(v.X), int32(v.Y), int32(v.Z)}
	default:
		return false
	}
	return store(op, value, t)
}

// ReadPoint decodes a position. Points share the vector encoding.
func ReadPoint(op scene.Op, t scene.TimeCode) (math.Vec3, bool) {
	return ReadVector(op, t)
}

// WritePoint encodes a position.
func WritePoint(op scene.Op, p math.Vec3, t scene.TimeCode) bool {
	return WriteVector(op, p, t)
}

// ReadDouble decodes a double, float, half or int op.
func ReadDouble(op scene.Op, t scene.TimeCode) (float64, bool) {
	switch op.TypeName() {
	case scene.Double:
		return scene.GetAs[float64](op, t)
	case scene.Float:
		v, ok := scene.GetAs[float32](op, t)
		return float64(v), ok
	case scene.Half:
		v, ok := scene.GetAs[float16.Float16](op, t)
		return float64(v.Float32()), ok
	case scene.Int:
		v, ok := scene.GetAs[int32](op, t)
		return float64(v), ok
	}
	return 0, false
}

// WriteDouble encodes x into a double, float, half or int op.
func WriteDouble(op scene.Op, x float64, t scene.TimeCode) bool {
	var value any
	switch op.TypeName() {
	case scene.Double:
		value = x
	case scene.Float:
		value = float32(x)
	case scene.Half:
		value = float16.Fromfloat32(float32(x))
	case scene.Int:
		value = int32(x)
	default:
		return false
	}
	return store(op, value, t)
}

// ReadMatrix decodes a matrix4d op.
func ReadMatrix(op scene.Op, t scene.TimeCode) (math.Mat4, bool) {
	if op.TypeName() != scene.Matrix4d {
		return math.Identity(), false
	}
	m, ok := scene.GetAs[math.Mat4](op, t)
	if !ok {
		return math.Identity(), false
	}
	return m, true
}

// WriteMatrix encodes m into a matrix4d op.
func WriteMatrix(op scene.Op, m math.Mat4, t scene.TimeCode) bool {
	if op.TypeName() != scene.Matrix4d {
		return false
	}
	return store(op, m, t)
}

// ReadShear decodes the xy, xz and yz coefficients at (1,0), (2,0) and (2,1)
// of a matrix4d op.
func ReadShear(op scene.Op, t scene.TimeCode) (math.Vec3, bool) {
	m, ok := ReadMatrix(op, t)
	if !ok {
		return math.Vec3{}, false
	}
	return math.Vec3{X: m[1][0], Y: m[2][0], Z: m[2][1]}, true
}

// WriteShear encodes sh as a shear matrix, identity elsewhere.
func WriteShear(op scene.Op, sh math.Vec3, t scene.TimeCode) bool {
	return WriteMatrix(op, math.ShearMatrix(sh), t)
}

// store writes value unless the op already resolves to it at t.
func store(op scene.Op, value any, t scene.TimeCode) bool {
	if current, ok := op.Get(t); ok && current == value {
		return true
	}
	return op.Set(value, t) == nil
}
