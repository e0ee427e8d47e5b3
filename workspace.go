package hpmc

import (
	"github.com/phil-mansfield/hpmc/wall"
)

// workspace is the state owned by a single CountOverlaps worker. Workers
// share the walls and particle data read-only.
type workspace struct {
	t         wall.Tester
	overlaps  uint
	low, skip int
}

// countLocal counts violations among the local particles, splitting them
// between the field's workers. With earlyExit each worker stops at its first
// violation.
func (f *WallField) countLocal(earlyExit bool) uint {
	out := make(chan int, f.workers)
	for id := range f.workspaces {
		w := &f.workspaces[id]
		w.t = f.tester()
		w.overlaps = 0
		w.low, w.skip = id, f.workers
	}

	for id := 0; id < f.workers-1; id++ {
		go f.chanCount(id, earlyExit, out)
	}
	f.chanCount(f.workers-1, earlyExit, out)

	n := uint(0)
	for i := 0; i < f.workers; i++ {
		id := <-out
		n += f.workspaces[id].overlaps
		f.degenerate += f.workspaces[id].t.Degenerate
	}
	return n
}

func (f *WallField) chanCount(id int, earlyExit bool, out chan<- int) {
	w := &f.workspaces[id]
	for i := w.low; i < f.pd.N(); i += w.skip {
		s := f.mc.Params(f.pd.Type(i)).New(f.pd.Orientation(i))
		if !f.confined(&w.t, s, f.pd.Position(i)) {
			w.overlaps++
			if earlyExit {
				break
			}
		}
	}
	out <- id
}
