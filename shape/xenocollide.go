package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxIterations bounds each phase of Xenocollide.
const MaxIterations = 1024

// rootTol replaces a vanishing interior point.
const rootTol = 3e-4

// Xenocollide tests whether the convex bodies A and B overlap using
// Minkowski portal refinement (Snethen, Game Programming Gems 7). sa and sb
// are the support functions of A and B in their own body frames, ab is the
// position of B relative to A in A's frame, q rotates B's frame into A's,
// and R is a length scale for the bodies (the sum of their circumsphere
// radii) used to make the termination tolerance relative.
//
// degenerate is true when the iteration failed to converge, produced a
// zero-area portal, or found B - A to be flat. Degenerate evaluations report an overlap.
func Xenocollide(
	sa, sb SupportFunc, ab mgl64.Vec3, q mgl64.Quat, R float64,
) (overlap, degenerate bool) {
	q = q.Normalize()
	m := &minkowski{sa: sa, sb: sb, ab: ab, q: q, qc: q.Conjugate()}
	tol := Small * R

	// v0 is interior to B - A.
	v0 := ab
	if math.Abs(v0[0]) < rootTol && math.Abs(v0[1]) < rootTol &&
		math.Abs(v0[2]) < rootTol {
		v0 = mgl64.Vec3{rootTol, 0, 0}
	}

	// Phase one: find a portal which the ray from v0 through the origin
	// passes through.
	n := v0.Mul(-1)
	v1 := m.support(n)
	if v1.Dot(n) <= 0 {
		return false, false
	}

	n = v1.Cross(v0)
	if n.Dot(n) == 0 {
		// The origin lies on the segment between v0 and v1.
		return true, false
	}

	v2 := m.support(n)
	if d := v2.Dot(n); d == 0 {
		// B - A has no extent off the plane of v0 and v1, so it is flat and
		// the portal cannot be built.
		return true, true
	} else if d < 0 {
		return false, false
	}

	n = v1.Sub(v0).Cross(v2.Sub(v0))
	if n.Dot(v0) > 0 {
		v1, v2 = v2, v1
		n = n.Mul(-1)
	}

	var v3 mgl64.Vec3
	for count := 0; ; count++ {
		if count >= MaxIterations {
			return true, true
		}

		v3 = m.support(n)
		if v3.Dot(n) <= 0 {
			return false, false
		}

		if v1.Cross(v3).Dot(v0) < 0 {
			// Origin is outside (v1, v0, v3): drop v2.
			v2 = v3
			n = v1.Sub(v0).Cross(v3.Sub(v0))
			continue
		}
		if v3.Cross(v2).Dot(v0) < 0 {
			// Origin is outside (v3, v0, v2): drop v1.
			v1 = v3
			n = v3.Sub(v0).Cross(v2.Sub(v0))
			continue
		}
		break
	}

	// Phase two: refine the portal (v1, v2, v3) until the origin is known
	// to be behind it or beyond the surface of B - A.
	for count := 0; count < MaxIterations; count++ {
		n = v2.Sub(v1).Cross(v3.Sub(v1))
		nLen := n.Len()
		if nLen == 0 {
			return true, true
		}

		if n.Dot(v1) >= 0 {
			return true, false
		}

		v4 := m.support(n)
		if v4.Sub(v3).Dot(n) <= tol*nLen || v4.Dot(n) <= 0 {
			return false, false
		}

		x := v4.Cross(v0)
		if v1.Dot(x) > 0 {
			if v2.Dot(x) > 0 {
				v1 = v4
			} else {
				v3 = v4
			}
		} else {
			if v3.Dot(x) > 0 {
				v2 = v4
			} else {
				v1 = v4
			}
		}
	}

	return true, true
}
