/*package shape contains the hard-particle shape variants and the generic
convex overlap test used to compare them.

Shapes are transient values: they are built from per-type parameters and a
per-particle orientation every time a particle is examined and thrown away
afterwards. Vertices are always stored in the body frame.
*/
package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

const (
	// MaxVerts is the largest number of vertices a polyhedron may have.
	MaxVerts = 128
	// Small is the relative tolerance used by overlap and acceptance checks.
	Small = 1e-7
)

var (
	ErrTooManyVerts = errors.New("shape: too many vertices")
	ErrInvalidShape = errors.New("shape: invalid shape parameters")
)

// Shape is a particle shape in a specific orientation.
type Shape interface {
	Orientation() mgl64.Quat
	CircumsphereDiameter() float64
	// Ignored reports whether the shape has been flagged to be skipped by
	// overlap checks.
	Ignored() bool
}

// Params are the per-type parameters a Shape is instantiated from.
type Params interface {
	New(q mgl64.Quat) Shape
}

// PolyVerts is a vertex list with a sweep radius. A zero-vertex PolyVerts
// with a positive sweep radius is a sphere; two vertices make a capsule.
type PolyVerts struct {
	Verts       []mgl64.Vec3
	Diameter    float64
	SweepRadius float64
	Ignore      bool
}

// NewPolyVerts copies verts into a new vertex list and computes its
// circumsphere diameter.
func NewPolyVerts(verts []mgl64.Vec3, sweep float64) (PolyVerts, error) {
	if len(verts) > MaxVerts {
		return PolyVerts{}, errors.Wrapf(
			ErrTooManyVerts, "%d vertices given, at most %d allowed",
			len(verts), MaxVerts,
		)
	} else if sweep < 0 || math.IsNaN(sweep) {
		return PolyVerts{}, errors.Wrapf(
			ErrInvalidShape, "sweep radius must be non-negative, got %g", sweep,
		)
	}

	pv := PolyVerts{
		Verts:       append([]mgl64.Vec3(nil), verts...),
		SweepRadius: sweep,
	}
	pv.UpdateDiameter()
	return pv, nil
}

// N returns the number of vertices.
func (pv PolyVerts) N() int { return len(pv.Verts) }

// UpdateDiameter recomputes the circumsphere diameter about the body origin.
func (pv *PolyVerts) UpdateDiameter() {
	maxSq := 0.0
	for _, v := range pv.Verts {
		if d := v.Dot(v); d > maxSq {
			maxSq = d
		}
	}
	pv.Diameter = 2 * (math.Sqrt(maxSq) + pv.SweepRadius)
}

// Copy returns a deep copy of pv.
func (pv PolyVerts) Copy() PolyVerts {
	out := pv
	out.Verts = append([]mgl64.Vec3(nil), pv.Verts...)
	return out
}

// SphereParams describes a sphere type.
type SphereParams struct {
	Radius float64
	Ignore bool
}

// New creates a sphere with orientation q.
func (p SphereParams) New(q mgl64.Quat) Shape {
	return &Sphere{Q: q, Params: p}
}

// ConvexParams describes a convex polyhedron type. SweepRadius is ignored.
type ConvexParams struct {
	PolyVerts
}

// NewConvexParams creates the parameters for a convex polyhedron. Overlap
// tests assume the hull has a non-zero volume: Xenocollide flags flat hulls
// (for example coplanar vertices) as degenerate when the other shape lies in
// their plane.
func NewConvexParams(verts []mgl64.Vec3) (ConvexParams, error) {
	if len(verts) == 0 {
		return ConvexParams{}, errors.Wrap(
			ErrInvalidShape, "convex polyhedra need at least one vertex",
		)
	}
	pv, err := NewPolyVerts(verts, 0)
	return ConvexParams{pv}, err
}

// New creates a convex polyhedron with orientation q. The vertex list is
// shared with the parameters and must not be modified through the shape.
func (p ConvexParams) New(q mgl64.Quat) Shape {
	return &ConvexPolyhedron{Q: q, Verts: p.PolyVerts}
}

// SpheroParams describes a spheropolyhedron type.
type SpheroParams struct {
	PolyVerts
}

// NewSpheroParams creates the parameters for a spheropolyhedron.
func NewSpheroParams(verts []mgl64.Vec3, sweep float64) (SpheroParams, error) {
	pv, err := NewPolyVerts(verts, sweep)
	return SpheroParams{pv}, err
}

// New creates a spheropolyhedron with orientation q.
func (p SpheroParams) New(q mgl64.Quat) Shape {
	return &Spheropolyhedron{Q: q, Verts: p.PolyVerts}
}

// Sphere is a sphere. Its orientation is carried only so that all shapes
// can be handled uniformly.
type Sphere struct {
	Q      mgl64.Quat
	Params SphereParams
}

func (s *Sphere) Orientation() mgl64.Quat       { return s.Q }
func (s *Sphere) CircumsphereDiameter() float64 { return 2 * s.Params.Radius }
func (s *Sphere) Ignored() bool                 { return s.Params.Ignore }
func (s *Sphere) Radius() float64               { return s.Params.Radius }

// ConvexPolyhedron is the convex hull of its vertices.
type ConvexPolyhedron struct {
	Q     mgl64.Quat
	Verts PolyVerts
}

func (s *ConvexPolyhedron) Orientation() mgl64.Quat       { return s.Q }
func (s *ConvexPolyhedron) CircumsphereDiameter() float64 { return s.Verts.Diameter }
func (s *ConvexPolyhedron) Ignored() bool                 { return s.Verts.Ignore }

// Spheropolyhedron is a convex polyhedron inflated by Verts.SweepRadius.
type Spheropolyhedron struct {
	Q     mgl64.Quat
	Verts PolyVerts
}

func (s *Spheropolyhedron) Orientation() mgl64.Quat       { return s.Q }
func (s *Spheropolyhedron) CircumsphereDiameter() float64 { return s.Verts.Diameter }
func (s *Spheropolyhedron) Ignored() bool                 { return s.Verts.Ignore }
