package io

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/phil-mansfield/table"
	"github.com/pkg/errors"

	"github.com/phil-mansfield/hpmc/system"
)

// Particles holds the columns of a particle table.
type Particles struct {
	Types        []int
	Positions    []mgl64.Vec3
	Orientations []mgl64.Quat
}

// ReadParticles reads a whitespace separated particle table with the
// columns type x y z qw qx qy qz. Orientations are normalized.
func ReadParticles(fname string) (*Particles, error) {
	cols, err := table.ReadTable(fname, []int{0, 1, 2, 3, 4, 5, 6, 7}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read particles from %s", fname)
	}

	n := len(cols[0])
	ps := &Particles{
		Types:        make([]int, n),
		Positions:    make([]mgl64.Vec3, n),
		Orientations: make([]mgl64.Quat, n),
	}
	for i := 0; i < n; i++ {
		typ := cols[0][i]
		if typ < 0 || typ != float64(int(typ)) {
			return nil, errors.Wrapf(
				ErrInvalidConfig, "particle %d in %s has type %g", i, fname, typ,
			)
		}
		ps.Types[i] = int(typ)
		ps.Positions[i] = mgl64.Vec3{cols[1][i], cols[2][i], cols[3][i]}

		q := mgl64.Quat{W: cols[4][i], V: mgl64.Vec3{cols[5][i], cols[6][i], cols[7][i]}}
		if q.Len() == 0 {
			return nil, errors.Wrapf(
				ErrInvalidConfig, "particle %d in %s has a zero quaternion",
				i, fname,
			)
		}
		ps.Orientations[i] = q.Normalize()
	}
	return ps, nil
}

// Load adds every particle to pd. It returns an error if a particle's type
// is not below ntypes.
func (ps *Particles) Load(pd *system.ParticleData, ntypes int) error {
	for i, typ := range ps.Types {
		if typ >= ntypes {
			return errors.Wrapf(
				ErrInvalidConfig, "particle %d has type %d, but there are "+
					"only %d shapes", i, typ, ntypes,
			)
		}
	}
	for i := range ps.Types {
		pd.Add(ps.Types[i], ps.Positions[i], ps.Orientations[i])
	}
	return nil
}

// ReadVertices reads the first three columns of a table as vertices.
func ReadVertices(fname string) ([]mgl64.Vec3, error) {
	cols, err := table.ReadTable(fname, []int{0, 1, 2}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read vertices from %s", fname)
	}
	vs := make([]mgl64.Vec3, len(cols[0]))
	for i := range vs {
		vs[i] = mgl64.Vec3{cols[0][i], cols[1][i], cols[2][i]}
	}
	return vs, nil
}
