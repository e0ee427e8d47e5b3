package main

import (
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/hpmc"
)

const (
	circlePoints = 200
	// Particles farther than this from the plotted plane are not drawn.
	plotDepth = 0.5
)

var axisNames = []string{"x", "y", "z"}

// slice is the plane x[dim] = 0 viewed along dim.
type slice struct {
	dim, i, j int
}

func newSlice(dim int) slice {
	return slice{dim, (dim + 1) % 3, (dim + 2) % 3}
}

func (s slice) point(u, v float64) mgl64.Vec3 {
	x := mgl64.Vec3{}
	x[s.i], x[s.j] = u, v
	return x
}

// ellipse plots the curve c + a cos(t) + b sin(t).
func (s slice) ellipse(c, a, b mgl64.Vec3, color string) {
	us, vs := make([]float64, circlePoints+1), make([]float64, circlePoints+1)
	for k := range us {
		t := 2 * math.Pi * float64(k) / circlePoints
		x := c.Add(a.Mul(math.Cos(t))).Add(b.Mul(math.Sin(t)))
		us[k], vs[k] = x[s.i], x[s.j]
	}
	plt.Plot(us, vs, plt.C(color), plt.LW(2))
}

// line plots the line through p along dir, clipped to half-width w.
func (s slice) line(p, dir mgl64.Vec3, w float64, color string) {
	a, b := p.Sub(dir.Mul(2*w)), p.Add(dir.Mul(2*w))
	plt.Plot(
		[]float64{a[s.i], b[s.i]}, []float64{a[s.j], b[s.j]},
		plt.C(color), plt.LW(2),
	)
}

// plotWalls writes the cross section of every wall through the plane
// x[dim] = 0 to fname, along with the particles near that plane.
func plotWalls(f *hpmc.WallField, parts []partition, dim int, fname string) {
	s := newSlice(dim)
	e := mgl64.Vec3{}
	e[dim] = 1
	w := math.Max(f.CurrBoxLx(), math.Max(f.CurrBoxLy(), f.CurrBoxLz())) / 2

	plt.Reset()
	plt.Figure()

	for _, sw := range f.SphereWalls() {
		d := sw.Origin[dim]
		if d*d >= sw.RSq {
			continue
		}
		r := math.Sqrt(sw.RSq - d*d)
		c := sw.Origin.Sub(e.Mul(d))
		s.ellipse(c, s.point(r, 0), s.point(0, r), "b")
	}

	for _, cw := range f.CylinderWalls() {
		a, o, r := cw.Orientation, cw.Origin, cw.Radius()
		u := a.Sub(e.Mul(a[dim]))
		if math.Abs(a[dim]) > 1e-6 {
			// The axis pierces the plane: the section is an ellipse whose
			// minor axis is the wall radius.
			c := o.Sub(a.Mul(o[dim] / a[dim]))
			major := s.point(r, 0)
			if u.Len() > 1e-6 {
				major = u.Normalize().Mul(r / math.Abs(a[dim]))
			}
			minor := e.Cross(major).Normalize().Mul(r)
			s.ellipse(c, major, minor, "g")
		} else if math.Abs(o[dim]) < r {
			// The axis lies in a parallel plane: the section is two lines.
			v := e.Cross(a)
			off := math.Sqrt(r*r - o[dim]*o[dim])
			c := o.Sub(e.Mul(o[dim]))
			s.line(c.Add(v.Mul(off)), a, w, "g")
			s.line(c.Sub(v.Mul(off)), a, w, "g")
		}
	}

	for _, pw := range f.PlaneWalls() {
		n := pw.Normal
		dir := e.Cross(n)
		if dir.Len() < 1e-6 {
			continue
		}
		dir = dir.Normalize()
		// Closest point to the origin on both planes.
		inPlane := n.Sub(e.Mul(n[dim]))
		p := inPlane.Mul(-pw.D / inPlane.Dot(inPlane))
		s.line(p, dir, w, "r")
	}

	us, vs := []float64{}, []float64{}
	for _, p := range parts {
		box := p.pd.GlobalBox()
		for k := 0; k < p.pd.N(); k++ {
			x := box.MinImage(p.pd.Position(k).Sub(box.Origin))
			if math.Abs(x[dim]) < plotDepth {
				us, vs = append(us, x[s.i]), append(vs, x[s.j])
			}
		}
	}
	if len(us) > 0 {
		plt.Plot(us, vs, "o", plt.C("k"))
	}

	plt.XLim(-w, w)
	plt.YLim(-w, w)
	plt.Title(fmt.Sprintf("Walls at %s = 0", axisNames[dim]))
	plt.XLabel(fmt.Sprintf("$%s$", axisNames[s.i]), plt.FontSize(16))
	plt.YLabel(fmt.Sprintf("$%s$", axisNames[s.j]), plt.FontSize(16))
	plt.SaveFig(fname)
	plt.Execute()

	log.Printf("Wrote wall cross section to %s.", fname)
}
