/*package hpmc confines hard particles with walls during Monte Carlo
simulations.

A WallField holds the sphere, cylinder and plane walls of one system. Trial
moves are accepted only when the moved particle satisfies every wall, and
the whole configuration can be checked with CountOverlaps. The walls follow
the simulation box: whenever the box changes volume, every wall is scaled by
the cube root of the volume ratio.
*/
package hpmc

import (
	"log"
	"math"
	"math/rand"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/phil-mansfield/hpmc/comm"
	"github.com/phil-mansfield/hpmc/geom"
	"github.com/phil-mansfield/hpmc/shape"
	"github.com/phil-mansfield/hpmc/system"
	"github.com/phil-mansfield/hpmc/wall"
)

var (
	// ErrOutOfRange is returned when a wall index does not exist.
	ErrOutOfRange = errors.New("hpmc: wall index out of range")
	// ErrUnknownQuantity is returned for log quantities the field does not
	// provide.
	ErrUnknownQuantity = errors.New("hpmc: unknown log quantity")
	// ErrNoAccelerator is returned when a field is attached to a system
	// configured to run on a GPU.
	ErrNoAccelerator = errors.New("hpmc: walls are not supported on the GPU")
)

// ParticleData is the particle state a WallField reads.
type ParticleData interface {
	N() int
	Position(i int) mgl64.Vec3
	Orientation(i int) mgl64.Quat
	Type(i int) int
	GlobalBox() *geom.Box
	BoxChangeSignal() *system.Signal
	ExecConf() system.ExecConf
	// Communicator returns nil when the system has a single partition.
	Communicator() comm.Communicator
}

// ShapeSource supplies the shape parameters of each particle type.
type ShapeSource interface {
	Params(typ int) shape.Params
}

// WallField is the external field produced by a set of walls.
type WallField struct {
	pd ParticleData
	mc ShapeSource

	spheres   []sphereRecord
	cylinders []cylinderRecord
	planes    []wall.PlaneWall

	box    *geom.Box
	volume float64

	conn *system.Connection
	log  bool

	workers    int
	workspaces []workspace
	degenerate int
}

type sphereRecord struct {
	wall  wall.SphereWall
	label string
}

type cylinderRecord struct {
	wall  wall.CylinderWall
	label string
}

// NewWallField creates a field with no walls attached to the particles in pd
// whose shapes are given by mc. The field scales its walls every time pd's
// box change signal fires until Close is called.
func NewWallField(pd ParticleData, mc ShapeSource) (*WallField, error) {
	if pd.ExecConf().GPUEnabled() {
		return nil, errors.Wrapf(
			ErrNoAccelerator, "execution configured for %s",
			pd.ExecConf().Device,
		)
	}

	f := &WallField{pd: pd, mc: mc, box: pd.GlobalBox().Copy()}
	f.SetWorkers(1)
	f.conn = pd.BoxChangeSignal().Connect(f.ScaleWalls)
	return f, nil
}

// Close disconnects the field from box changes. It is safe to call more
// than once.
func (f *WallField) Close() {
	f.conn.Disconnect()
}

// Log turns logging of box rescales and overlap counts on or off.
func (f *WallField) Log(flag bool) { f.log = flag }

// SetWorkers sets the number of goroutines CountOverlaps splits particles
// between. Values below one use every CPU.
func (f *WallField) SetWorkers(n int) {
	if n < 1 {
		n = runtime.NumCPU()
	}
	f.workers = n
	f.workspaces = make([]workspace, n)
}

// tester returns a Tester bound to the current box and its image origin.
func (f *WallField) tester() wall.Tester {
	box := f.pd.GlobalBox()
	return wall.Tester{Box: box, Origin: box.Origin}
}

// Accept reports whether moving particle i from oldPos to newPos with the
// shape newShape keeps it confined by every wall. rng is accepted for
// interface compatibility with other fields and is not used.
func (f *WallField) Accept(
	i int, oldPos mgl64.Vec3, oldShape shape.Shape,
	newPos mgl64.Vec3, newShape shape.Shape, rng *rand.Rand,
) bool {
	w := f.BoltzmannWeight(i, oldPos, oldShape, newPos, newShape)
	return math.Abs(w-1) < shape.Small
}

// BoltzmannWeight returns 1 if newShape at newPos satisfies every wall and 0
// otherwise. Spheres are checked first, then cylinders, then planes.
func (f *WallField) BoltzmannWeight(
	i int, oldPos mgl64.Vec3, oldShape shape.Shape,
	newPos mgl64.Vec3, newShape shape.Shape,
) float64 {
	t := f.tester()
	ok := f.confined(&t, newShape, newPos)
	f.degenerate += t.Degenerate
	if ok {
		return 1
	}
	return 0
}

// confined reports whether s at pos satisfies every wall. The Tester sizes
// cylinder capsules for s on its own copy of the wall.
func (f *WallField) confined(t *wall.Tester, s shape.Shape, pos mgl64.Vec3) bool {
	for k := range f.spheres {
		if !t.Confined(&f.spheres[k].wall, s, pos) {
			return false
		}
	}
	for k := range f.cylinders {
		if !t.Confined(&f.cylinders[k].wall, s, pos) {
			return false
		}
	}
	for k := range f.planes {
		if !t.Confined(&f.planes[k], s, pos) {
			return false
		}
	}
	return true
}

// CountOverlaps returns the number of wall violations among the local
// particles. With earlyExit the count stops at the first violation and is
// clamped to one. When the system is partitioned the counts of every
// partition are summed, again clamping to one under earlyExit; every
// partition must call CountOverlaps together.
func (f *WallField) CountOverlaps(timestep uint64, earlyExit bool) uint {
	n := f.countLocal(earlyExit)
	if earlyExit && n > 1 {
		n = 1
	}

	if c := f.pd.Communicator(); c != nil {
		n = c.AllReduceSum(n)
		if earlyExit && n > 1 {
			n = 1
		}
	}

	if f.log {
		log.Printf("Timestep %d: %d wall overlaps.", timestep, n)
	}
	return n
}

// CalculateBoltzmannWeight returns 1 if no particle violates a wall and 0
// otherwise.
func (f *WallField) CalculateBoltzmannWeight(timestep uint64) float64 {
	if f.CountOverlaps(timestep, true) > 0 {
		return 0
	}
	return 1
}

// DegenerateEvaluations returns the number of overlap evaluations which
// failed to converge. They are counted as wall violations.
func (f *WallField) DegenerateEvaluations() int { return f.degenerate }
