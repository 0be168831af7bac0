package types

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Comparison epsilon shared by the vector helpers and geometric predicates.
const Epsilon = 1e-9

// Vec3 is a 3 component double-precision vector backed by gonum's r3 storage
// type. Acoustic path lengths are accumulated over many mirrored segments so
// everything downstream works in float64.
type Vec3 r3.Vec

// Define a 3 component vector.
func XYZ(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add a vector.
func (v Vec3) Add(v2 Vec3) Vec3 {
	return Vec3{X: v.X + v2.X, Y: v.Y + v2.Y, Z: v.Z + v2.Z}
}

// Subtract a vector.
func (v Vec3) Sub(v2 Vec3) Vec3 {
	return Vec3{X: v.X - v2.X, Y: v.Y - v2.Y, Z: v.Z - v2.Z}
}

// Multiply a 3 component vector with a scalar.
func (v Vec3) Mul(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Calculate dot product of 2 vectors.
func (v Vec3) Dot(v2 Vec3) float64 {
	return v.X*v2.X + v.Y*v2.Y + v.Z*v2.Z
}

// Calculate cross product of 2 vectors.
func (v Vec3) Cross(v2 Vec3) Vec3 {
	return Vec3{
		X: v.Y*v2.Z - v.Z*v2.Y,
		Y: v.Z*v2.X - v.X*v2.Z,
		Z: v.X*v2.Y - v.Y*v2.X,
	}
}

// Get 3 component vector length.
func (v Vec3) Len() float64 {
	return r3.Norm(r3.Vec(v))
}

// Get 3 component vector squared length.
func (v Vec3) Len2() float64 {
	return r3.Norm2(r3.Vec(v))
}

// Normalize 3 component vector. Vectors shorter than Epsilon collapse to the
// zero vector instead of producing non-finite components.
func (v Vec3) Normalize() Vec3 {
	if r3.Norm(r3.Vec(v)) < Epsilon {
		return Vec3{}
	}
	return Vec3(r3.Unit(r3.Vec(v)))
}

// Get vector component by axis index (0 = x, 1 = y, 2 = z).
func (v Vec3) Axis(axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Report whether all components are finite.
func (v Vec3) IsFinite() bool {
	for axis := 0; axis < 3; axis++ {
		c := v.Axis(axis)
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Calc min component from two vectors.
func MinVec3(v1, v2 Vec3) Vec3 {
	return Vec3{
		X: math.Min(v1.X, v2.X),
		Y: math.Min(v1.Y, v2.Y),
		Z: math.Min(v1.Z, v2.Z),
	}
}

// Calc max component from two vectors.
func MaxVec3(v1, v2 Vec3) Vec3 {
	return Vec3{
		X: math.Max(v1.X, v2.X),
		Y: math.Max(v1.Y, v2.Y),
		Z: math.Max(v1.Z, v2.Z),
	}
}
