package shape

import (
	"github.com/go-gl/mathgl/mgl64"
)

// SupportFunc maps a direction to the point of a convex body which is
// farthest along it. Directions need not be normalized.
type SupportFunc interface {
	Support(n mgl64.Vec3) mgl64.Vec3
}

// SupportPolyhedron is the support function of the convex hull of a vertex
// list. An empty vertex list is the body origin.
type SupportPolyhedron struct {
	Verts *PolyVerts
}

func (s SupportPolyhedron) Support(n mgl64.Vec3) mgl64.Vec3 {
	vs := s.Verts.Verts
	if len(vs) == 0 {
		return mgl64.Vec3{}
	}

	best, bestDot := 0, vs[0].Dot(n)
	for i := 1; i < len(vs); i++ {
		if d := vs[i].Dot(n); d > bestDot {
			best, bestDot = i, d
		}
	}
	return vs[best]
}

// SupportSpheropolyhedron is SupportPolyhedron swept by a sphere of radius
// Verts.SweepRadius.
type SupportSpheropolyhedron struct {
	Verts *PolyVerts
}

func (s SupportSpheropolyhedron) Support(n mgl64.Vec3) mgl64.Vec3 {
	p := SupportPolyhedron{s.Verts}.Support(n)
	if r := s.Verts.SweepRadius; r > 0 {
		if nn := n.Len(); nn > 0 {
			p = p.Add(n.Mul(r / nn))
		}
	}
	return p
}

// SupportSphere is the support function of a sphere centered on the origin.
type SupportSphere struct {
	R float64
}

func (s SupportSphere) Support(n mgl64.Vec3) mgl64.Vec3 {
	nn := n.Len()
	if nn == 0 {
		return mgl64.Vec3{}
	}
	return n.Mul(s.R / nn)
}

// SupportOf returns the support function of a shape in its body frame. It
// returns false for shape types without one.
func SupportOf(s Shape) (SupportFunc, bool) {
	switch sh := s.(type) {
	case *Sphere:
		return SupportSphere{sh.Params.Radius}, true
	case *ConvexPolyhedron:
		return SupportPolyhedron{&sh.Verts}, true
	case *Spheropolyhedron:
		return SupportSpheropolyhedron{&sh.Verts}, true
	}
	return nil, false
}

// minkowski is the support function of B - A, with B translated by ab and
// rotated by q relative to A.
type minkowski struct {
	sa, sb SupportFunc
	ab     mgl64.Vec3
	q, qc  mgl64.Quat
}

func (m *minkowski) support(n mgl64.Vec3) mgl64.Vec3 {
	pb := m.q.Rotate(m.sb.Support(m.qc.Rotate(n))).Add(m.ab)
	return pb.Sub(m.sa.Support(n.Mul(-1)))
}
