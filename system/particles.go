package system

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/phil-mansfield/hpmc/comm"
	"github.com/phil-mansfield/hpmc/geom"
)

// ErrInvalidDevice is returned when a device name cannot be parsed.
var ErrInvalidDevice = errors.New("system: invalid device")

// Device is the hardware a simulation is configured to run on.
type Device int

const (
	CPU Device = iota
	GPU
)

func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case GPU:
		return "GPU"
	}
	return fmt.Sprintf("Device(%d)", int(d))
}

// ParseDevice converts "CPU" or "GPU" (in any case) to a Device.
func ParseDevice(s string) (Device, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "CPU":
		return CPU, nil
	case "GPU":
		return GPU, nil
	}
	return CPU, errors.Wrapf(ErrInvalidDevice, "unrecognized device '%s'", s)
}

// ExecConf describes where a simulation runs.
type ExecConf struct {
	Device Device
}

// GPUEnabled reports whether the configuration requests an accelerator.
func (ec ExecConf) GPUEnabled() bool { return ec.Device == GPU }

// ParticleData holds the local particles of one partition together with the
// global simulation box. Changing the box through SetGlobalBox emits the box
// change signal.
type ParticleData struct {
	Positions    []mgl64.Vec3
	Orientations []mgl64.Quat
	Types        []int

	box       *geom.Box
	boxChange Signal
	exec      ExecConf
	comm      comm.Communicator
}

// NewParticleData creates an empty particle set in box. c may be nil when
// the simulation is not partitioned.
func NewParticleData(
	box *geom.Box, exec ExecConf, c comm.Communicator,
) *ParticleData {
	return &ParticleData{box: box.Copy(), exec: exec, comm: c}
}

// Add appends a particle and returns its index.
func (pd *ParticleData) Add(typ int, pos mgl64.Vec3, q mgl64.Quat) int {
	pd.Positions = append(pd.Positions, pos)
	pd.Orientations = append(pd.Orientations, q)
	pd.Types = append(pd.Types, typ)
	return len(pd.Types) - 1
}

// N returns the number of local particles.
func (pd *ParticleData) N() int { return len(pd.Types) }

func (pd *ParticleData) Position(i int) mgl64.Vec3    { return pd.Positions[i] }
func (pd *ParticleData) Orientation(i int) mgl64.Quat { return pd.Orientations[i] }
func (pd *ParticleData) Type(i int) int               { return pd.Types[i] }

// GlobalBox returns the simulation box. The caller must not modify it.
func (pd *ParticleData) GlobalBox() *geom.Box { return pd.box }

// SetGlobalBox replaces the simulation box and emits the box change signal.
func (pd *ParticleData) SetGlobalBox(box *geom.Box) {
	pd.box = box.Copy()
	pd.boxChange.Emit()
}

// BoxChangeSignal returns the signal emitted after the box changes.
func (pd *ParticleData) BoxChangeSignal() *Signal { return &pd.boxChange }

func (pd *ParticleData) ExecConf() ExecConf { return pd.exec }

// Communicator returns the partition communicator, or nil when the
// simulation runs in a single partition.
func (pd *ParticleData) Communicator() comm.Communicator { return pd.comm }
