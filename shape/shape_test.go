package shape

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cubeVerts(h float64) []mgl64.Vec3 {
	vs := []mgl64.Vec3{}
	for _, x := range []float64{-h, h} {
		for _, y := range []float64{-h, h} {
			for _, z := range []float64{-h, h} {
				vs = append(vs, mgl64.Vec3{x, y, z})
			}
		}
	}
	return vs
}

func randomQuat(rng *rand.Rand) mgl64.Quat {
	q := mgl64.Quat{
		W: rng.NormFloat64(),
		V: mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()},
	}
	return q.Normalize()
}

func randomVec(rng *rand.Rand, width float64) mgl64.Vec3 {
	return mgl64.Vec3{
		(rng.Float64() - 0.5) * width,
		(rng.Float64() - 0.5) * width,
		(rng.Float64() - 0.5) * width,
	}
}

// cubeDist returns the distance from p to an axis-aligned cube of half
// width h centered on the origin.
func cubeDist(p mgl64.Vec3, h float64) float64 {
	sum := 0.0
	for i := 0; i < 3; i++ {
		if d := math.Abs(p[i]) - h; d > 0 {
			sum += d * d
		}
	}
	return math.Sqrt(sum)
}

func TestNewPolyVerts(t *testing.T) {
	pv, err := NewPolyVerts(cubeVerts(0.5), 0.25)
	require.NoError(t, err)
	assert.Equal(t, 8, pv.N())
	assert.InDelta(t, 2*(math.Sqrt(0.75)+0.25), pv.Diameter, 1e-12)

	_, err = NewPolyVerts(make([]mgl64.Vec3, MaxVerts+1), 0)
	assert.True(t, errors.Is(err, ErrTooManyVerts))

	_, err = NewPolyVerts(cubeVerts(1), -1)
	assert.True(t, errors.Is(err, ErrInvalidShape))

	_, err = NewConvexParams(nil)
	assert.True(t, errors.Is(err, ErrInvalidShape))
}

func TestPolyVertsCopy(t *testing.T) {
	pv, err := NewPolyVerts(cubeVerts(0.5), 0)
	require.NoError(t, err)
	cp := pv.Copy()
	cp.Verts[0] = mgl64.Vec3{9, 9, 9}
	assert.Equal(t, mgl64.Vec3{-0.5, -0.5, -0.5}, pv.Verts[0])
}

func TestParamsNew(t *testing.T) {
	q := mgl64.QuatRotate(0.3, mgl64.Vec3{0, 0, 1})

	s := SphereParams{Radius: 1.5}.New(q)
	assert.Equal(t, 3.0, s.CircumsphereDiameter())
	assert.Equal(t, q, s.Orientation())
	assert.False(t, s.Ignored())

	cp, err := NewConvexParams(cubeVerts(1))
	require.NoError(t, err)
	cp.Ignore = true
	c := cp.New(q)
	assert.IsType(t, &ConvexPolyhedron{}, c)
	assert.InDelta(t, 2*math.Sqrt(3), c.CircumsphereDiameter(), 1e-12)
	assert.True(t, c.Ignored())

	sp, err := NewSpheroParams(cubeVerts(1), 0.5)
	require.NoError(t, err)
	assert.IsType(t, &Spheropolyhedron{}, sp.New(q))
}

func TestSupport(t *testing.T) {
	pv, err := NewPolyVerts(cubeVerts(0.5), 0.25)
	require.NoError(t, err)

	p := SupportPolyhedron{&pv}.Support(mgl64.Vec3{1, 2, -3})
	assert.Equal(t, mgl64.Vec3{0.5, 0.5, -0.5}, p)

	s := SupportSpheropolyhedron{&pv}.Support(mgl64.Vec3{0, 0, 2})
	assert.InDelta(t, 0.75, s[2], 1e-12)

	empty := PolyVerts{SweepRadius: 2}
	assert.Equal(t, mgl64.Vec3{}, SupportPolyhedron{&empty}.Support(mgl64.Vec3{1, 0, 0}))
	assert.Equal(t, mgl64.Vec3{0, 2, 0},
		SupportSpheropolyhedron{&empty}.Support(mgl64.Vec3{0, 5, 0}))

	assert.Equal(t, mgl64.Vec3{0, 0, -3},
		SupportSphere{3}.Support(mgl64.Vec3{0, 0, -2}))
}

func TestOverlapSpheres(t *testing.T) {
	a := SphereParams{Radius: 1}.New(mgl64.QuatIdent())
	b := SphereParams{Radius: 0.5}.New(mgl64.QuatIdent())

	table := []struct {
		dr      mgl64.Vec3
		overlap bool
	}{
		{mgl64.Vec3{0, 0, 0}, true},
		{mgl64.Vec3{1.4, 0, 0}, true},
		{mgl64.Vec3{1.5, 0, 0}, false},
		{mgl64.Vec3{1, 1, 1}, false},
	}
	for i, test := range table {
		overlap, degenerate := TestOverlap(test.dr, a, b)
		if overlap != test.overlap || degenerate {
			t.Errorf("%d) TestOverlap(%v) = %v, %v instead of %v, false",
				i+1, test.dr, overlap, degenerate, test.overlap)
		}
	}
}

func TestOverlapAlignedCubes(t *testing.T) {
	cp, err := NewConvexParams(cubeVerts(0.5))
	require.NoError(t, err)
	a, b := cp.New(mgl64.QuatIdent()), cp.New(mgl64.QuatIdent())

	rng := rand.New(rand.NewSource(11))
	degenerates := 0
	for i := 0; i < 2000; i++ {
		dr := randomVec(rng, 3)
		want, skip := true, false
		for k := 0; k < 3; k++ {
			d := math.Abs(dr[k])
			if math.Abs(d-1) < 1e-6 {
				skip = true
			}
			if d >= 1 {
				want = false
			}
		}
		if skip {
			continue
		}

		got, degenerate := TestOverlap(dr, a, b)
		if degenerate {
			degenerates++
		}
		if got != want {
			t.Fatalf("%d) cubes at %v: overlap = %v instead of %v",
				i, dr, got, want)
		}
	}
	assert.Zero(t, degenerates)
}

func TestOverlapCubeSphere(t *testing.T) {
	cp, err := NewConvexParams(cubeVerts(0.5))
	require.NoError(t, err)
	sp := SphereParams{Radius: 0.3}

	rng := rand.New(rand.NewSource(12))
	for i := 0; i < 2000; i++ {
		q := randomQuat(rng)
		dr := randomVec(rng, 2.5)
		dist := cubeDist(q.Conjugate().Rotate(dr), 0.5)
		if math.Abs(dist-0.3) < 1e-5 {
			continue
		}
		want := dist < 0.3

		cube, sphere := cp.New(q), sp.New(mgl64.QuatIdent())
		got, _ := TestOverlap(dr, cube, sphere)
		if got != want {
			t.Fatalf("%d) sphere at %v from cube %v: overlap = %v instead of %v",
				i, dr, q, got, want)
		}

		// The test is symmetric under exchange of the shapes.
		back, _ := TestOverlap(dr.Mul(-1), sphere, cube)
		if back != want {
			t.Fatalf("%d) cube at %v from sphere: overlap = %v instead of %v",
				i, dr.Mul(-1), back, want)
		}
	}
}

func TestOverlapSpheropolyhedronPoint(t *testing.T) {
	sp, err := NewSpheroParams(cubeVerts(0.5), 0.25)
	require.NoError(t, err)
	pt, err := NewSpheroParams(nil, 0)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(13))
	for i := 0; i < 2000; i++ {
		q := randomQuat(rng)
		dr := randomVec(rng, 2.5)
		dist := cubeDist(q.Conjugate().Rotate(dr), 0.5)
		if math.Abs(dist-0.25) < 1e-5 {
			continue
		}
		want := dist < 0.25

		got, _ := TestOverlap(dr, sp.New(q), pt.New(mgl64.QuatIdent()))
		if got != want {
			t.Fatalf("%d) point at %v from rounded cube: overlap = %v "+
				"instead of %v", i, dr, got, want)
		}
	}
}

func TestOverlapRotatedPolyhedra(t *testing.T) {
	// A cube rotated by 45 degrees about z reaches sqrt(2)/2 along x.
	cp, err := NewConvexParams(cubeVerts(0.5))
	require.NoError(t, err)
	a := cp.New(mgl64.QuatIdent())
	b := cp.New(mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1}))

	reach := 0.5 + math.Sqrt(2)/2
	overlap, _ := TestOverlap(mgl64.Vec3{reach - 1e-3, 0, 0}, a, b)
	assert.True(t, overlap)
	overlap, _ = TestOverlap(mgl64.Vec3{reach + 1e-3, 0, 0}, a, b)
	assert.False(t, overlap)
}

// nanSupport never returns a usable support point.
type nanSupport struct{}

func (nanSupport) Support(mgl64.Vec3) mgl64.Vec3 {
	nan := math.NaN()
	return mgl64.Vec3{nan, nan, nan}
}

func TestXenocollideDegenerate(t *testing.T) {
	overlap, degenerate := Xenocollide(
		SupportSphere{1}, nanSupport{}, mgl64.Vec3{1, 0, 0}, mgl64.QuatIdent(), 2,
	)
	assert.True(t, overlap)
	assert.True(t, degenerate)

	// Coplanar squares have a flat Minkowski difference.
	sq, err := NewConvexParams([]mgl64.Vec3{
		{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {-0.5, 0.5, 0}, {0.5, 0.5, 0},
	})
	require.NoError(t, err)
	a, b := sq.New(mgl64.QuatIdent()), sq.New(mgl64.QuatIdent())
	overlap, degenerate = TestOverlap(mgl64.Vec3{1.1, 0.5, 0}, a, b)
	assert.True(t, overlap)
	assert.True(t, degenerate)

	// Out of the plane the squares are compared normally.
	overlap, degenerate = TestOverlap(mgl64.Vec3{0.25, 0.25, 1}, a, b)
	assert.False(t, overlap)
	assert.False(t, degenerate)
}

func BenchmarkTestOverlapCubes(b *testing.B) {
	cp, _ := NewConvexParams(cubeVerts(0.5))
	rng := rand.New(rand.NewSource(1))
	n := 1024
	qs, drs := make([]mgl64.Quat, n), make([]mgl64.Vec3, n)
	for i := range qs {
		qs[i], drs[i] = randomQuat(rng), randomVec(rng, 2)
	}
	a := cp.New(mgl64.QuatIdent())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		TestOverlap(drs[i%n], a, cp.New(qs[i%n]))
	}
}
