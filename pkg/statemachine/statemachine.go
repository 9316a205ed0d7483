package statemachine

import "sync"

// Definition is an immutable transition table shared by machines.
type Definition[S, E comparable] struct {
	transitions map[S]map[E]S
}

// Target reports the state event leads to from the given state.
func (d *Definition[S, E]) Target(from S, event E) (S, bool) {
	to, ok := d.transitions[from][event]
	return to, ok
}

// New creates a machine positioned at initial.
func (d *Definition[S, E]) New(initial S) *Machine[S, E] {
	return &Machine[S, E]{
		def:     d,
		current: initial,
	}
}

// Machine tracks the current state of a single entity.
type Machine[S, E comparable] struct {
	def     *Definition[S, E]
	current S
	mu      sync.RWMutex
}

func (m *Machine[S, E]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Machine[S, E]) CanFire(event E) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.def.Target(m.current, event)
	return ok
}

// Fire moves the machine along the transition for event and returns the new
// state. The state is unchanged when no transition exists.
func (m *Machine[S, E]) Fire(event E) (S, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	to, ok := m.def.Target(m.current, event)
	if !ok {
		return m.current, newErrNoTransitionAvailable(m.current, event)
	}
	m.current = to
	return to, nil
}
