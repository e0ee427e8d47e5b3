package wall

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/phil-mansfield/hpmc/geom"
	"github.com/phil-mansfield/hpmc/shape"
)

// Tester decides whether particles are confined by walls inside a periodic
// box and keeps count of degenerate overlap evaluations along the way.
//
// Testers should not be shared between goroutines.
type Tester struct {
	Box *geom.Box
	// Origin is the image origin particle positions are measured from.
	Origin mgl64.Vec3
	// Degenerate counts overlap iterations which failed to converge. Such
	// evaluations are treated as overlaps.
	Degenerate int
}

// TestConfined reports whether shape s at pos satisfies w's inside/outside
// constraint. Pairs without a dedicated test are never confined.
func TestConfined(
	w Wall, s shape.Shape, pos, boxOrigin mgl64.Vec3, box *geom.Box,
) bool {
	t := Tester{Box: box, Origin: boxOrigin}
	return t.Confined(w, s, pos)
}

// Confined is TestConfined using the tester's box and origin.
func (t *Tester) Confined(w Wall, s shape.Shape, pos mgl64.Vec3) bool {
	switch wall := w.(type) {
	case *SphereWall:
		switch sh := s.(type) {
		case *shape.Sphere:
			return t.sphereWallSphere(wall, sh, pos)
		case *shape.ConvexPolyhedron:
			return t.sphereWallConvex(wall, sh, pos)
		}
	case *CylinderWall:
		switch sh := s.(type) {
		case *shape.Sphere:
			return t.cylinderWallSphere(wall, sh, pos)
		case *shape.ConvexPolyhedron:
			return t.cylinderWallConvex(wall, sh, pos)
		}
	case *PlaneWall:
		switch sh := s.(type) {
		case *shape.Sphere:
			return t.planeWallSphere(wall, sh, pos)
		case *shape.ConvexPolyhedron:
			return t.planeWallConvex(wall, sh, pos)
		}
	}
	return false
}

// shift returns the minimum image of pos relative to center.
func (t *Tester) shift(pos, center mgl64.Vec3) mgl64.Vec3 {
	return t.Box.MinImage(pos.Sub(t.Origin).Sub(center))
}

// boundingDist grows a wall distance by the particle's circumradius when the
// particle must be inside and shrinks it when the particle must be outside.
// The shrunk distance is clamped to zero: a circumsphere which straddles the
// wall's center always needs a closer look.
func boundingDist(dist, circumRadius float64, inside bool) float64 {
	if inside {
		return dist + circumRadius
	}
	dist -= circumRadius
	if dist < 0 {
		dist = 0
	}
	return dist
}

// confinedSq compares a squared wall radius to a squared distance. Both
// comparisons are strict, so a particle touching the wall is not confined.
func confinedSq(rSq, distSq float64, inside bool) bool {
	if inside {
		return rSq > distSq
	}
	return rSq < distSq
}

// needsVerts reports whether a bounding distance is ambiguous: the
// circumsphere alone cannot show that the particle is confined.
func needsVerts(rSq, distSq float64, inside bool) bool {
	if inside {
		return rSq <= distSq
	}
	return rSq >= distSq
}

func (t *Tester) sphereWallSphere(
	w *SphereWall, s *shape.Sphere, pos mgl64.Vec3,
) bool {
	dr := t.shift(pos, w.Origin)
	d := boundingDist(dr.Len(), s.CircumsphereDiameter()/2, w.Inside)
	return confinedSq(w.RSq, d*d, w.Inside)
}

func (t *Tester) sphereWallConvex(
	w *SphereWall, s *shape.ConvexPolyhedron, pos mgl64.Vec3,
) bool {
	dr := t.shift(pos, w.Origin)
	d := boundingDist(dr.Len(), s.CircumsphereDiameter()/2, w.Inside)
	if !needsVerts(w.RSq, d*d, w.Inside) {
		return true
	}

	if w.Inside {
		q := s.Q.Normalize()
		for _, v := range s.Verts.Verts {
			x := q.Rotate(v).Add(dr)
			if !confinedSq(w.RSq, x.Dot(x), true) {
				return false
			}
		}
		return true
	}

	wallShape := &shape.Spheropolyhedron{Q: mgl64.QuatIdent(), Verts: w.Verts()}
	return !t.overlap(dr, wallShape, s)
}

func (t *Tester) cylinderWallSphere(
	w *CylinderWall, s *shape.Sphere, pos mgl64.Vec3,
) bool {
	dr := t.shift(pos, w.Origin)
	perp := dr.Cross(w.Orientation).Len()
	d := boundingDist(perp, s.CircumsphereDiameter()/2, w.Inside)
	return confinedSq(w.RSq, d*d, w.Inside)
}

func (t *Tester) cylinderWallConvex(
	w *CylinderWall, s *shape.ConvexPolyhedron, pos mgl64.Vec3,
) bool {
	dr := t.shift(pos, w.Origin)
	perp := dr.Cross(w.Orientation).Len()
	d := boundingDist(perp, s.CircumsphereDiameter()/2, w.Inside)
	if !needsVerts(w.RSq, d*d, w.Inside) {
		return true
	}

	if w.Inside {
		q := s.Q.Normalize()
		for _, v := range s.Verts.Verts {
			x := q.Rotate(v).Add(dr).Cross(w.Orientation)
			if !confinedSq(w.RSq, x.Dot(x), true) {
				return false
			}
		}
		return true
	}

	// Center the capsule on the particle's projection onto the axis.
	rab := dr.Sub(w.Orientation.Mul(dr.Dot(w.Orientation)))
	sized := *w
	sized.SizeVerts(s.CircumsphereDiameter())
	wallShape := &shape.Spheropolyhedron{
		Q: mgl64.QuatIdent(), Verts: sized.Verts(),
	}
	return !t.overlap(rab, wallShape, s)
}

func (t *Tester) planeWallSphere(
	w *PlaneWall, s *shape.Sphere, pos mgl64.Vec3,
) bool {
	dr := t.Box.MinImage(pos.Sub(t.Origin))
	d := w.SignedDistance(dr)
	if d < 0 {
		return false
	}
	return 0 < d-s.CircumsphereDiameter()/2
}

func (t *Tester) planeWallConvex(
	w *PlaneWall, s *shape.ConvexPolyhedron, pos mgl64.Vec3,
) bool {
	dr := t.Box.MinImage(pos.Sub(t.Origin))
	d := w.SignedDistance(dr)
	if !(0 < d) {
		return false
	}
	if d > s.CircumsphereDiameter()/2 {
		return true
	}

	q := s.Q.Normalize()
	for _, v := range s.Verts.Verts {
		if !(0 < w.SignedDistance(q.Rotate(v).Add(dr))) {
			return false
		}
	}
	return true
}

// overlap compares a wall spheropolyhedron with a convex particle displaced
// by dr from it.
func (t *Tester) overlap(
	dr mgl64.Vec3, wallShape *shape.Spheropolyhedron, s *shape.ConvexPolyhedron,
) bool {
	part := &shape.Spheropolyhedron{Q: s.Q, Verts: s.Verts}
	overlap, degenerate := shape.TestOverlap(dr, wallShape, part)
	if degenerate {
		t.Degenerate++
	}
	return overlap
}
