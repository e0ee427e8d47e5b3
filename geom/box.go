/*package geom contains the periodic simulation cell and the small amount of
vector and quaternion plumbing shared by the shape and wall packages.

Vectors and quaternions are mgl64 types. Boxes follow the upper-triangular
convention: the cell vectors are
    a1 = (Lx, 0, 0)
    a2 = (XY*Ly, Ly, 0)
    a3 = (XZ*Lz, YZ*Lz, Lz)
so tilt factors never change the volume.
*/
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// ErrInvalidBox is returned when a box is given a non-positive edge length.
var ErrInvalidBox = errors.New("geom: invalid box")

// Box is a triclinic periodic cell.
type Box struct {
	L          [3]float64
	XY, XZ, YZ float64
	// Origin is the image origin of the cell. Particle positions are taken
	// relative to it before minimum imaging.
	Origin   mgl64.Vec3
	Periodic [3]bool
}

// NewBox creates a box which is periodic in every dimension.
func NewBox(lx, ly, lz, xy, xz, yz float64) (*Box, error) {
	b := &Box{Periodic: [3]bool{true, true, true}}
	if err := b.SetL(lx, ly, lz); err != nil {
		return nil, err
	}
	b.SetTiltFactors(xy, xz, yz)
	return b, nil
}

// NewCubicBox creates a periodic cube with side length l. It panics if l is
// not positive.
func NewCubicBox(l float64) *Box {
	b, err := NewBox(l, l, l, 0, 0, 0)
	if err != nil {
		panic(err.Error())
	}
	return b
}

// SetL sets the edge lengths of the box.
func (b *Box) SetL(lx, ly, lz float64) error {
	if !(lx > 0 && ly > 0 && lz > 0) {
		return errors.Wrapf(
			ErrInvalidBox, "edge lengths (%g, %g, %g) must be positive",
			lx, ly, lz,
		)
	}
	b.L = [3]float64{lx, ly, lz}
	return nil
}

// SetTiltFactors sets the xy, xz and yz tilt factors.
func (b *Box) SetTiltFactors(xy, xz, yz float64) {
	b.XY, b.XZ, b.YZ = xy, xz, yz
}

func (b *Box) Lx() float64 { return b.L[0] }
func (b *Box) Ly() float64 { return b.L[1] }
func (b *Box) Lz() float64 { return b.L[2] }

func (b *Box) TiltFactorXY() float64 { return b.XY }
func (b *Box) TiltFactorXZ() float64 { return b.XZ }
func (b *Box) TiltFactorYZ() float64 { return b.YZ }

// Volume returns the volume of the cell.
func (b *Box) Volume() float64 {
	return b.L[0] * b.L[1] * b.L[2]
}

// MinImage returns the periodic image of v with the smallest magnitude. The
// z image is removed first since it shifts x and y through the tilts, then
// y, then x.
func (b *Box) MinImage(v mgl64.Vec3) mgl64.Vec3 {
	w := v
	if b.Periodic[2] {
		img := math.RoundToEven(w[2] / b.L[2])
		w[0] -= b.L[2] * b.XZ * img
		w[1] -= b.L[2] * b.YZ * img
		w[2] -= b.L[2] * img
	}
	if b.Periodic[1] {
		img := math.RoundToEven(w[1] / b.L[1])
		w[0] -= b.L[1] * b.XY * img
		w[1] -= b.L[1] * img
	}
	if b.Periodic[0] {
		w[0] -= b.L[0] * math.RoundToEven(w[0]/b.L[0])
	}
	return w
}

// Copy returns an independent copy of the box.
func (b *Box) Copy() *Box {
	out := *b
	return &out
}

// Equal reports whether two boxes describe the same cell.
func (b *Box) Equal(o *Box) bool {
	return b.L == o.L && b.XY == o.XY && b.XZ == o.XZ && b.YZ == o.YZ &&
		b.Origin == o.Origin && b.Periodic == o.Periodic
}
