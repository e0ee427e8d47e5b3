package geom

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Rotate rotates v by the quaternion q. q need not be normalized.
func Rotate(q mgl64.Quat, v mgl64.Vec3) mgl64.Vec3 {
	return q.Normalize().Rotate(v)
}

// Unit returns v scaled to unit length and false if v has zero length.
func Unit(v mgl64.Vec3) (mgl64.Vec3, bool) {
	n := v.Len()
	if n == 0 {
		return v, false
	}
	return v.Mul(1 / n), true
}

// NormSq returns |v|^2.
func NormSq(v mgl64.Vec3) float64 { return v.Dot(v) }

// IsUnit reports whether q has unit norm within eps.
func IsUnit(q mgl64.Quat, eps float64) bool {
	return math.Abs(q.Len()-1) <= eps
}

// RandomQuat draws a uniformly distributed rotation (Shoemake, 1992).
func RandomQuat(rng *rand.Rand) mgl64.Quat {
	u1, u2, u3 := rng.Float64(), rng.Float64(), rng.Float64()
	a, b := math.Sqrt(1-u1), math.Sqrt(u1)
	return mgl64.Quat{
		W: a * math.Sin(2*math.Pi*u2),
		V: mgl64.Vec3{
			a * math.Cos(2*math.Pi*u2),
			b * math.Sin(2*math.Pi*u3),
			b * math.Cos(2*math.Pi*u3),
		},
	}
}

// VecFromSlice converts a 3-component slice to a vector. It panics if the
// slice has the wrong length.
func VecFromSlice(xs []float64) mgl64.Vec3 {
	if len(xs) != 3 {
		panic("geom: vectors must have exactly 3 components.")
	}
	return mgl64.Vec3{xs[0], xs[1], xs[2]}
}
