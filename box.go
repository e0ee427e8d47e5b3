package hpmc

import (
	"log"
	"math"

	"github.com/pkg/errors"
)

// ScaleWalls rescales every wall after the global box changes. Lengths are
// scaled by the cube root of the ratio between the new and previous box
// volumes, and the stored volume by the ratio itself. The new box becomes
// the reference for the next rescale.
func (f *WallField) ScaleWalls() {
	newBox := f.pd.GlobalBox()
	ratio := newBox.Volume() / f.box.Volume()
	alpha := math.Cbrt(ratio)
	f.volume *= ratio

	for i := range f.spheres {
		f.spheres[i].wall.Scale(alpha)
	}
	for i := range f.cylinders {
		f.cylinders[i].wall.Scale(alpha)
	}
	for i := range f.planes {
		f.planes[i].Scale(alpha)
	}

	if f.log {
		log.Printf("Scaled walls by %.6g for box volume %.6g.",
			alpha, newBox.Volume())
	}
	f.box = newBox.Copy()
}

// SetVolume sets the volume enclosed by the walls. The field does not
// compute it.
func (f *WallField) SetVolume(v float64) { f.volume = v }

// Volume returns the volume enclosed by the walls.
func (f *WallField) Volume() float64 { return f.volume }

// HasVolume reports whether the field carries an enclosed volume. Wall
// fields always do.
func (f *WallField) HasVolume() bool { return true }

func (f *WallField) CurrBoxLx() float64 { return f.box.Lx() }
func (f *WallField) CurrBoxLy() float64 { return f.box.Ly() }
func (f *WallField) CurrBoxLz() float64 { return f.box.Lz() }

func (f *WallField) CurrBoxTiltFactorXY() float64 { return f.box.TiltFactorXY() }
func (f *WallField) CurrBoxTiltFactorXZ() float64 { return f.box.TiltFactorXZ() }
func (f *WallField) CurrBoxTiltFactorYZ() float64 { return f.box.TiltFactorYZ() }

// SetCurrBox replaces the box the next rescale is measured from. This is
// used to restore a field whose walls were saved against a different box.
func (f *WallField) SetCurrBox(lx, ly, lz, xy, xz, yz float64) error {
	box := f.box.Copy()
	if err := box.SetL(lx, ly, lz); err != nil {
		return errors.Wrap(err, "hpmc: could not set current box")
	}
	box.SetTiltFactors(xy, xz, yz)
	f.box = box
	return nil
}
