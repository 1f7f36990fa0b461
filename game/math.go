package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// ClampFloat clamps the given value to the given range.
func ClampFloat(num, min, max float32) float32 {
	if num < min {
		return min
	}
	return math32.Min(num, max)
}

// Wrap01 wraps the given value into [0,1). Used for normalized curve
// parameters on looping rails.
func Wrap01(val float32) float32 {
	w := val - math32.Floor(val)
	if w >= 1 {
		// Floor of a value like -1e-8 rounds the wrap up to exactly 1.
		w = 0
	}
	return w
}

// MoveToward moves val toward target by at most maxDelta, never overshooting.
func MoveToward(val, target, maxDelta float32) float32 {
	if math32.Abs(target-val) <= maxDelta {
		return target
	}
	if target > val {
		return val + maxDelta
	}
	return val - maxDelta
}

// Sign32 returns -1, 0 or 1 depending on the sign of the given value.
func Sign32(val float32) float32 {
	if val > 0 {
		return 1
	} else if val < 0 {
		return -1
	}
	return 0
}

// Float32ApproxEq determines whether two floating point numbers are close enough to each other
// by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

// Finite32 reports whether the given value is neither NaN nor infinite.
func Finite32(val float32) bool {
	return !math32.IsNaN(val) && !math32.IsInf(val, 0)
}

// Vec3Finite reports whether every component of the given vector is finite.
func Vec3Finite(vec3 mgl32.Vec3) bool {
	return Finite32(vec3[0]) && Finite32(vec3[1]) && Finite32(vec3[2])
}

// Vec32To64 converts a 32-bit vector to a 64-bit one.
func Vec32To64(vec3 mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(vec3[0]), float64(vec3[1]), float64(vec3[2])}
}

// FlattenVec3 removes the vertical component of the given vector and normalizes
// what remains. The zero vector is returned when the input has no horizontal part.
func FlattenVec3(vec3 mgl32.Vec3) mgl32.Vec3 {
	flat := mgl32.Vec3{vec3.X(), 0, vec3.Z()}
	if flat.LenSqr() < 1e-12 {
		return mgl32.Vec3{}
	}
	return flat.Normalize()
}
