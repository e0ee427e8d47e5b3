package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/hpmc/comm"
	"github.com/phil-mansfield/hpmc/geom"
	"github.com/phil-mansfield/hpmc/shape"
)

func TestSignal(t *testing.T) {
	sig := &Signal{}
	calls := []string{}
	a := sig.Connect(func() { calls = append(calls, "a") })
	b := sig.Connect(func() { calls = append(calls, "b") })
	assert.Equal(t, 2, sig.Len())

	sig.Emit()
	assert.Equal(t, []string{"a", "b"}, calls)

	a.Disconnect()
	assert.False(t, a.Connected())
	assert.True(t, b.Connected())
	sig.Emit()
	assert.Equal(t, []string{"a", "b", "b"}, calls)

	// Disconnecting twice is harmless.
	a.Disconnect()
	assert.Equal(t, 1, sig.Len())

	var nilConn *Connection
	nilConn.Disconnect()
}

func TestSignalSelfDisconnect(t *testing.T) {
	sig := &Signal{}
	n := 0
	var c *Connection
	c = sig.Connect(func() {
		n++
		c.Disconnect()
	})
	sig.Emit()
	sig.Emit()
	assert.Equal(t, 1, n)
	assert.Zero(t, sig.Len())
}

func TestParticleData(t *testing.T) {
	box := geom.NewCubicBox(10)
	pd := NewParticleData(box, ExecConf{}, nil)
	assert.Nil(t, pd.Communicator())
	assert.False(t, pd.ExecConf().GPUEnabled())

	q := mgl64.QuatRotate(1, mgl64.Vec3{0, 1, 0})
	assert.Equal(t, 0, pd.Add(0, mgl64.Vec3{1, 2, 3}, mgl64.QuatIdent()))
	assert.Equal(t, 1, pd.Add(2, mgl64.Vec3{4, 5, 6}, q))
	assert.Equal(t, 2, pd.N())
	assert.Equal(t, mgl64.Vec3{4, 5, 6}, pd.Position(1))
	assert.Equal(t, q, pd.Orientation(1))
	assert.Equal(t, 2, pd.Type(1))

	// The particle data keeps its own copy of the box.
	box.L[0] = 20
	assert.Equal(t, 10.0, pd.GlobalBox().Lx())

	emitted := 0
	pd.BoxChangeSignal().Connect(func() { emitted++ })
	pd.SetGlobalBox(geom.NewCubicBox(12))
	assert.Equal(t, 1, emitted)
	assert.Equal(t, 12.0, pd.GlobalBox().Lz())

	w := comm.NewWorld(1)
	assert.NotNil(t, NewParticleData(box, ExecConf{}, w.Rank(0)).Communicator())
}

func TestParseDevice(t *testing.T) {
	table := []struct {
		s   string
		dev Device
		ok  bool
	}{
		{"", CPU, true},
		{"cpu", CPU, true},
		{" GPU ", GPU, true},
		{"TPU", CPU, false},
	}
	for i, test := range table {
		dev, err := ParseDevice(test.s)
		if (err == nil) != test.ok || dev != test.dev {
			t.Errorf("%d) ParseDevice(%q) = %v, %v", i+1, test.s, dev, err)
		}
		if err != nil && !errors.Is(err, ErrInvalidDevice) {
			t.Errorf("%d) error %v does not wrap ErrInvalidDevice", i+1, err)
		}
	}
	assert.Equal(t, "GPU", GPU.String())
	assert.True(t, ExecConf{Device: GPU}.GPUEnabled())
}

func TestIntegrator(t *testing.T) {
	mc := NewIntegrator(shape.SphereParams{Radius: 1})
	assert.Equal(t, 1, mc.NTypes())

	cp, err := shape.NewConvexParams([]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}})
	require.NoError(t, err)
	mc.SetParams(2, cp)
	assert.Equal(t, 3, mc.NTypes())
	assert.Equal(t, cp, mc.Params(2))
	assert.Equal(t, shape.SphereParams{Radius: 1}, mc.Params(0))

	assert.Panics(t, func() { mc.Params(1) })
	assert.Panics(t, func() { mc.Params(3) })
}
