package system

import (
	"github.com/phil-mansfield/hpmc/shape"
)

// Integrator holds the shape parameters of every particle type.
type Integrator struct {
	params []shape.Params
}

// NewIntegrator creates an integrator with the given per-type parameters.
func NewIntegrator(params ...shape.Params) *Integrator {
	return &Integrator{params: append([]shape.Params{}, params...)}
}

// SetParams sets the parameters of type typ, growing the type list if
// needed. Types which are skipped over have no parameters until set.
func (mc *Integrator) SetParams(typ int, p shape.Params) {
	for len(mc.params) <= typ {
		mc.params = append(mc.params, nil)
	}
	mc.params[typ] = p
}

// Params returns the parameters of type typ. It panics if typ has never
// been set.
func (mc *Integrator) Params(typ int) shape.Params {
	if typ < 0 || typ >= len(mc.params) || mc.params[typ] == nil {
		panic("system: no shape parameters for particle type.")
	}
	return mc.params[typ]
}

// NTypes returns the number of particle types.
func (mc *Integrator) NTypes() int { return len(mc.params) }
