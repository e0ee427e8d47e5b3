/*package comm sums counts across the partitions of a domain-decomposed
simulation. A World connects a fixed number of in-process ranks; each rank
contributes a value to every reduction and receives the total.
*/
package comm

import (
	"fmt"
	"sync"
)

// Communicator performs collective reductions across partitions. Every
// partition must take part in every reduction.
type Communicator interface {
	// AllReduceSum blocks until every partition has contributed and then
	// returns the sum of all contributions.
	AllReduceSum(x uint) uint
	// Size returns the number of partitions.
	Size() int
}

// Serial is the Communicator of a simulation with a single partition.
type Serial struct{}

func (Serial) AllReduceSum(x uint) uint { return x }
func (Serial) Size() int                { return 1 }

// World is a reusable all-reduce barrier shared by n ranks.
type World struct {
	n int

	mu         sync.Mutex
	cond       *sync.Cond
	arrived    int
	sum        uint
	result     uint
	generation uint64
}

// NewWorld creates a world of n ranks. It panics if n < 1.
func NewWorld(n int) *World {
	if n < 1 {
		panic(fmt.Sprintf("comm: a world needs at least one rank, got %d.", n))
	}
	w := &World{n: n}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// Size returns the number of ranks in the world.
func (w *World) Size() int { return w.n }

// Rank returns the Communicator used by rank i.
func (w *World) Rank(i int) Communicator {
	if i < 0 || i >= w.n {
		panic(fmt.Sprintf("comm: rank %d out of range for world of %d.", i, w.n))
	}
	return &rank{w: w, id: i}
}

func (w *World) reduce(x uint) uint {
	w.mu.Lock()
	defer w.mu.Unlock()

	gen := w.generation
	w.sum += x
	w.arrived++
	if w.arrived == w.n {
		w.result, w.sum, w.arrived = w.sum, 0, 0
		w.generation++
		w.cond.Broadcast()
		return w.result
	}

	for gen == w.generation {
		w.cond.Wait()
	}
	return w.result
}

type rank struct {
	w  *World
	id int
}

func (r *rank) AllReduceSum(x uint) uint { return r.w.reduce(x) }
func (r *rank) Size() int                { return r.w.n }
