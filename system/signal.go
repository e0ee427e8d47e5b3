/*package system contains the in-memory collaborators a wall field is attached
to: particle data with its global box, the per-type shape parameters held by
an integrator, and the execution configuration.
*/
package system

import (
	"sync"
)

// Signal is a list of callbacks which are run whenever the signal is
// emitted. Callbacks are removed through the Connection returned when they
// were added, since funcs cannot be compared.
type Signal struct {
	mu    sync.Mutex
	conns []*Connection
}

// Connection is a single subscription to a Signal.
type Connection struct {
	sig *Signal
	f   func()
}

// Connect adds f to the signal.
func (s *Signal) Connect(f func()) *Connection {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &Connection{sig: s, f: f}
	s.conns = append(s.conns, c)
	return c
}

// Disconnect removes the connection's callback from its signal. Calling it
// more than once does nothing.
func (c *Connection) Disconnect() {
	if c == nil || c.sig == nil {
		return
	}
	s := c.sig
	c.sig = nil

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.conns {
		if s.conns[i] == c {
			s.conns = append(s.conns[:i], s.conns[i+1:]...)
			return
		}
	}
}

// Connected reports whether the connection is still attached.
func (c *Connection) Connected() bool { return c != nil && c.sig != nil }

// Emit calls every connected callback in the order they were connected.
// Callbacks may disconnect themselves.
func (s *Signal) Emit() {
	s.mu.Lock()
	conns := make([]*Connection, len(s.conns))
	copy(conns, s.conns)
	s.mu.Unlock()

	for _, c := range conns {
		c.f()
	}
}

// Len returns the number of connected callbacks.
func (s *Signal) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}
