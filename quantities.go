package hpmc

import (
	"log"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// VolumeQuantity is the log name of the enclosed volume.
const VolumeQuantity = "hpmc_wall_volume"

// ProvidedLogQuantities lists the squared radius of every sphere wall, then
// of every cylinder wall, then the enclosed volume.
func (f *WallField) ProvidedLogQuantities() []string {
	names := lo.Map(f.spheres, func(r sphereRecord, _ int) string {
		return r.label
	})
	names = append(names, lo.Map(f.cylinders, func(r cylinderRecord, _ int) string {
		return r.label
	})...)
	return append(names, VolumeQuantity)
}

// LogValue returns the value of a quantity listed by ProvidedLogQuantities.
func (f *WallField) LogValue(name string, timestep uint64) (float64, error) {
	if r, ok := lo.Find(f.spheres, func(r sphereRecord) bool {
		return r.label == name
	}); ok {
		return r.wall.RSq, nil
	}
	if r, ok := lo.Find(f.cylinders, func(r cylinderRecord) bool {
		return r.label == name
	}); ok {
		return r.wall.RSq, nil
	}
	if name == VolumeQuantity {
		return f.volume, nil
	}

	log.Printf("compute.wall: %s is not a valid log quantity.", name)
	return 0, errors.Wrapf(ErrUnknownQuantity, "'%s' at timestep %d",
		name, timestep)
}
