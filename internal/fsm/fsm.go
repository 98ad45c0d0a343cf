// Package fsm is the transition primitive shared by every monitor.
//
// A Machine holds the current and previous state and an ordered list of
// listeners per state. It has no transition table and no guards: callers
// decide which transitions are legal. Setting a machine to the state it is
// already in is a real transition and fires that state's listeners again;
// callers that need edge semantics compare Previous and Current themselves.
package fsm

// Listener is invoked after the machine enters a state. from is the state
// the machine left, to is the state it entered (which may be equal).
type Listener[S comparable] func(from, to S)

// Handle identifies one registered listener.
type Handle[S comparable] struct {
	State S
	Index int
}

// Machine is a finite-state machine over the closed state set S.
// It is not safe for concurrent use.
type Machine[S comparable] struct {
	current   S
	previous  S
	listeners map[S][]Listener[S]
}

// New returns a machine resting in initial. No listener fires for the
// initial state.
func New[S comparable](initial S) *Machine[S] {
	return &Machine[S]{
		current:   initial,
		previous:  initial,
		listeners: make(map[S][]Listener[S]),
	}
}

// OnEnter registers fn to run every time the machine is set to state.
// Registrations accumulate in order; none replaces another.
func (m *Machine[S]) OnEnter(state S, fn Listener[S]) Handle[S] {
	m.listeners[state] = append(m.listeners[state], fn)
	return Handle[S]{State: state, Index: len(m.listeners[state]) - 1}
}

// Remove unregisters the listener identified by h. The positions of the
// remaining listeners, and therefore their order, are unchanged.
func (m *Machine[S]) Remove(h Handle[S]) {
	ls := m.listeners[h.State]
	if h.Index < 0 || h.Index >= len(ls) {
		return
	}
	ls[h.Index] = nil
}

// TransitionTo unconditionally moves the machine to state and then runs the
// listeners registered for state synchronously, in registration order.
// A panicking listener aborts the rest of the dispatch and is not recovered.
func (m *Machine[S]) TransitionTo(state S) {
	m.previous = m.current
	m.current = state
	for _, fn := range m.listeners[state] {
		if fn != nil {
			fn(m.previous, state)
		}
	}
}

// Current returns the state the machine is in.
func (m *Machine[S]) Current() S {
	return m.current
}

// Previous returns the state the machine was in before the last transition.
func (m *Machine[S]) Previous() S {
	return m.previous
}

// Changed reports whether the last transition moved to a different state.
func (m *Machine[S]) Changed() bool {
	return m.previous != m.current
}
