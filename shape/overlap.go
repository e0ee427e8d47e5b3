package shape

import (
	"github.com/go-gl/mathgl/mgl64"
)

// TestOverlap reports whether shape b at displacement dr from shape a
// overlaps a. Spheres are compared in closed form. Every other pair is
// compared with Xenocollide on the pair's support functions; degenerate is
// passed through from it.
//
// TestOverlap panics if either shape has no support function.
func TestOverlap(dr mgl64.Vec3, a, b Shape) (overlap, degenerate bool) {
	daDb := a.CircumsphereDiameter() + b.CircumsphereDiameter()
	rSq := dr.Dot(dr)
	if rSq > daDb*daDb/4 {
		return false, false
	}

	_, aSphere := a.(*Sphere)
	_, bSphere := b.(*Sphere)
	if aSphere && bSphere {
		return rSq < daDb*daDb/4, false
	}

	sa, ok := SupportOf(a)
	if !ok {
		panic("shape: TestOverlap given a shape without a support function.")
	}
	sb, ok := SupportOf(b)
	if !ok {
		panic("shape: TestOverlap given a shape without a support function.")
	}

	qa := a.Orientation().Normalize()
	qac := qa.Conjugate()
	return Xenocollide(
		sa, sb, qac.Rotate(dr), qac.Mul(b.Orientation().Normalize()),
		daDb/2,
	)
}
