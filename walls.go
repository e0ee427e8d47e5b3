package hpmc

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/phil-mansfield/hpmc/wall"
)

func sphereLabel(i int) string   { return fmt.Sprintf("hpmc_wall_sph_rsq-%d", i) }
func cylinderLabel(i int) string { return fmt.Sprintf("hpmc_wall_cyl_rsq-%d", i) }

func outOfRange(kind string, i, n int) error {
	return errors.Wrapf(
		ErrOutOfRange, "%s wall %d requested, but there are %d", kind, i, n,
	)
}

// relabel renumbers every log label so that it matches its wall's index.
func (f *WallField) relabel() {
	for i := range f.spheres {
		f.spheres[i].label = sphereLabel(i)
	}
	for i := range f.cylinders {
		f.cylinders[i].label = cylinderLabel(i)
	}
}

//////////////////
// Sphere walls //
//////////////////

// AddSphereWall appends w and returns its index.
func (f *WallField) AddSphereWall(w wall.SphereWall) int {
	i := len(f.spheres)
	f.spheres = append(f.spheres, sphereRecord{w, sphereLabel(i)})
	return i
}

// RemoveSphereWall removes wall i. Later walls move down one index.
func (f *WallField) RemoveSphereWall(i int) error {
	if i < 0 || i >= len(f.spheres) {
		return outOfRange("sphere", i, len(f.spheres))
	}
	f.spheres = append(f.spheres[:i], f.spheres[i+1:]...)
	f.relabel()
	return nil
}

func (f *WallField) SphereWall(i int) (wall.SphereWall, error) {
	if i < 0 || i >= len(f.spheres) {
		return wall.SphereWall{}, outOfRange("sphere", i, len(f.spheres))
	}
	return f.spheres[i].wall, nil
}

func (f *WallField) SetSphereWall(i int, w wall.SphereWall) error {
	if i < 0 || i >= len(f.spheres) {
		return outOfRange("sphere", i, len(f.spheres))
	}
	f.spheres[i].wall = w
	return nil
}

// SphereWalls returns a copy of every sphere wall.
func (f *WallField) SphereWalls() []wall.SphereWall {
	return lo.Map(f.spheres, func(r sphereRecord, _ int) wall.SphereWall {
		return r.wall
	})
}

// SetSphereWalls replaces every sphere wall.
func (f *WallField) SetSphereWalls(ws []wall.SphereWall) {
	f.spheres = lo.Map(ws, func(w wall.SphereWall, i int) sphereRecord {
		return sphereRecord{w, sphereLabel(i)}
	})
}

func (f *WallField) NumSphereWalls() int { return len(f.spheres) }

// SphereWallParameters returns the squared radius, origin and inside flag
// of wall i.
func (f *WallField) SphereWallParameters(i int) (
	rsq float64, origin mgl64.Vec3, inside bool, err error,
) {
	w, err := f.SphereWall(i)
	if err != nil {
		return 0, mgl64.Vec3{}, false, err
	}
	return w.RSq, w.Origin, w.Inside, nil
}

////////////////////
// Cylinder walls //
////////////////////

// AddCylinderWall appends w and returns its index.
func (f *WallField) AddCylinderWall(w wall.CylinderWall) int {
	i := len(f.cylinders)
	f.cylinders = append(f.cylinders, cylinderRecord{w, cylinderLabel(i)})
	return i
}

// RemoveCylinderWall removes wall i. Later walls move down one index.
func (f *WallField) RemoveCylinderWall(i int) error {
	if i < 0 || i >= len(f.cylinders) {
		return outOfRange("cylinder", i, len(f.cylinders))
	}
	f.cylinders = append(f.cylinders[:i], f.cylinders[i+1:]...)
	f.relabel()
	return nil
}

func (f *WallField) CylinderWall(i int) (wall.CylinderWall, error) {
	if i < 0 || i >= len(f.cylinders) {
		return wall.CylinderWall{}, outOfRange("cylinder", i, len(f.cylinders))
	}
	return f.cylinders[i].wall, nil
}

func (f *WallField) SetCylinderWall(i int, w wall.CylinderWall) error {
	if i < 0 || i >= len(f.cylinders) {
		return outOfRange("cylinder", i, len(f.cylinders))
	}
	f.cylinders[i].wall = w
	return nil
}

// CylinderWalls returns a copy of every cylinder wall.
func (f *WallField) CylinderWalls() []wall.CylinderWall {
	return lo.Map(f.cylinders, func(r cylinderRecord, _ int) wall.CylinderWall {
		return r.wall
	})
}

// SetCylinderWalls replaces every cylinder wall.
func (f *WallField) SetCylinderWalls(ws []wall.CylinderWall) {
	f.cylinders = lo.Map(ws, func(w wall.CylinderWall, i int) cylinderRecord {
		return cylinderRecord{w, cylinderLabel(i)}
	})
}

func (f *WallField) NumCylinderWalls() int { return len(f.cylinders) }

// CylinderWallParameters returns the squared radius, origin, axis and inside
// flag of wall i.
func (f *WallField) CylinderWallParameters(i int) (
	rsq float64, origin, orientation mgl64.Vec3, inside bool, err error,
) {
	w, err := f.CylinderWall(i)
	if err != nil {
		return 0, mgl64.Vec3{}, mgl64.Vec3{}, false, err
	}
	return w.RSq, w.Origin, w.Orientation, w.Inside, nil
}

/////////////////
// Plane walls //
/////////////////

// AddPlaneWall appends w and returns its index.
func (f *WallField) AddPlaneWall(w wall.PlaneWall) int {
	f.planes = append(f.planes, w)
	return len(f.planes) - 1
}

// RemovePlaneWall removes wall i. Later walls move down one index.
func (f *WallField) RemovePlaneWall(i int) error {
	if i < 0 || i >= len(f.planes) {
		return outOfRange("plane", i, len(f.planes))
	}
	f.planes = append(f.planes[:i], f.planes[i+1:]...)
	return nil
}

func (f *WallField) PlaneWall(i int) (wall.PlaneWall, error) {
	if i < 0 || i >= len(f.planes) {
		return wall.PlaneWall{}, outOfRange("plane", i, len(f.planes))
	}
	return f.planes[i], nil
}

func (f *WallField) SetPlaneWall(i int, w wall.PlaneWall) error {
	if i < 0 || i >= len(f.planes) {
		return outOfRange("plane", i, len(f.planes))
	}
	f.planes[i] = w
	return nil
}

// PlaneWalls returns a copy of every plane wall.
func (f *WallField) PlaneWalls() []wall.PlaneWall {
	return append([]wall.PlaneWall{}, f.planes...)
}

// SetPlaneWalls replaces every plane wall.
func (f *WallField) SetPlaneWalls(ws []wall.PlaneWall) {
	f.planes = append([]wall.PlaneWall{}, ws...)
}

func (f *WallField) NumPlaneWalls() int { return len(f.planes) }

// PlaneWallParameters returns the normal and origin of wall i.
func (f *WallField) PlaneWallParameters(i int) (
	normal, origin mgl64.Vec3, err error,
) {
	w, err := f.PlaneWall(i)
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, err
	}
	return w.Normal, w.Origin, nil
}
