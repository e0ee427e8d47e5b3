/*package wall contains the confinement surfaces of the hard-particle wall
field and the tests which decide whether a particle is confined by them.

Every wall has an Inside flag: true means particles must stay in the interior
of the surface and false means they must stay outside of it. Walls are plain
values. Copying a wall copies all of its geometry.
*/
package wall

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/phil-mansfield/hpmc/geom"
	"github.com/phil-mansfield/hpmc/shape"
)

// ErrInvalidWall is returned when a wall is constructed from bad parameters.
var ErrInvalidWall = errors.New("wall: invalid wall")

// Wall is implemented by SphereWall, CylinderWall and PlaneWall.
type Wall interface {
	// Scale scales every length associated with the wall by alpha.
	Scale(alpha float64)
	kind() string
}

// SphereWall is a spherical wall. When it is compared against polyhedra it
// is treated as a vertex-less spheropolyhedron: a point swept by the wall
// radius.
type SphereWall struct {
	RSq    float64
	Origin mgl64.Vec3
	Inside bool

	Diameter, SweepRadius float64
}

// NewSphereWall creates a spherical wall of radius r centered on origin.
func NewSphereWall(r float64, origin mgl64.Vec3, inside bool) (SphereWall, error) {
	if !(r > 0) {
		return SphereWall{}, errors.Wrapf(
			ErrInvalidWall, "sphere wall radius must be positive, got %g", r,
		)
	}
	return SphereWall{
		RSq: r * r, Origin: origin, Inside: inside,
		Diameter: 2 * r, SweepRadius: r,
	}, nil
}

func (w *SphereWall) Scale(alpha float64) {
	w.RSq *= alpha * alpha
	w.Origin = w.Origin.Mul(alpha)
	w.Diameter *= alpha
	w.SweepRadius *= alpha
}

func (w *SphereWall) kind() string { return "sphere" }

// Radius returns the radius of the wall.
func (w *SphereWall) Radius() float64 { return math.Sqrt(w.RSq) }

// Verts returns the wall as a spheropolyhedron vertex list.
func (w *SphereWall) Verts() shape.PolyVerts {
	return shape.PolyVerts{Diameter: w.Diameter, SweepRadius: w.SweepRadius}
}

// CylinderWall is an infinite cylindrical wall. When it is compared against
// polyhedra it is treated as a capsule: a segment along the axis swept by
// the wall radius. The segment must be long enough to cover the particle
// being tested and is sized with SizeVerts.
type CylinderWall struct {
	RSq    float64
	Origin mgl64.Vec3
	// Orientation is the unit axis. Its sign has no meaning.
	Orientation mgl64.Vec3
	Inside      bool

	Ends                  [2]mgl64.Vec3
	Diameter, SweepRadius float64
}

// NewCylinderWall creates a cylindrical wall of radius r whose axis passes
// through origin along axis.
func NewCylinderWall(
	r float64, origin, axis mgl64.Vec3, inside bool,
) (CylinderWall, error) {
	if !(r > 0) {
		return CylinderWall{}, errors.Wrapf(
			ErrInvalidWall, "cylinder wall radius must be positive, got %g", r,
		)
	}
	unit, ok := geom.Unit(axis)
	if !ok {
		return CylinderWall{}, errors.Wrap(
			ErrInvalidWall, "cylinder wall axis has zero length",
		)
	}
	return CylinderWall{
		RSq: r * r, Origin: origin, Orientation: unit, Inside: inside,
		SweepRadius: r,
	}, nil
}

func (w *CylinderWall) Scale(alpha float64) {
	w.RSq *= alpha * alpha
	w.Origin = w.Origin.Mul(alpha)
	w.SweepRadius *= alpha
}

func (w *CylinderWall) kind() string { return "cylinder" }

// Radius returns the radius of the wall.
func (w *CylinderWall) Radius() float64 { return math.Sqrt(w.RSq) }

// SizeVerts stretches the capsule segment to +/- diameter along the axis so
// that it covers a particle with the given circumsphere diameter.
func (w *CylinderWall) SizeVerts(diameter float64) {
	v := w.Orientation.Mul(diameter)
	w.Ends = [2]mgl64.Vec3{v.Mul(-1), v}
	w.Diameter = 2 * (diameter + w.SweepRadius)
}

// Verts returns the wall as a spheropolyhedron vertex list.
func (w *CylinderWall) Verts() shape.PolyVerts {
	ends := w.Ends
	return shape.PolyVerts{
		Verts: ends[:], Diameter: w.Diameter, SweepRadius: w.SweepRadius,
	}
}

// PlaneWall is the plane Normal.x + D = 0. Particles must stay on the side
// the normal points to.
type PlaneWall struct {
	Normal mgl64.Vec3
	Origin mgl64.Vec3
	// Inside is stored for symmetry with the other walls but is never
	// consulted: the confined side is always the positive half-space.
	Inside bool
	D      float64
}

// NewPlaneWall creates the plane through pt with normal n.
func NewPlaneWall(n, pt mgl64.Vec3, inside bool) (PlaneWall, error) {
	unit, ok := geom.Unit(n)
	if !ok {
		return PlaneWall{}, errors.Wrap(
			ErrInvalidWall, "plane wall normal has zero length",
		)
	}
	return PlaneWall{Normal: unit, Origin: pt, Inside: inside, D: -unit.Dot(pt)}, nil
}

func (w *PlaneWall) Scale(alpha float64) {
	w.Origin = w.Origin.Mul(alpha)
	w.D *= alpha
}

func (w *PlaneWall) kind() string { return "plane" }

// SignedDistance returns the signed distance of x from the plane.
func (w *PlaneWall) SignedDistance(x mgl64.Vec3) float64 {
	return w.Normal.Dot(x) + w.D
}
