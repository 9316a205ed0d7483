// Package statemachine provides a small, type-safe finite-state-machine for
// modelling entity lifecycles.
//
// A Definition is an immutable transition table built once with a Builder and
// shared by any number of Machine instances. Each Machine tracks the current
// state of one entity and only moves along transitions the Definition permits.
// Sharing the table keeps per-entity machines cheap, which matters when every
// queued item carries its own machine.
//
// # Usage
//
//	type state string
//	type event string
//
//	def := statemachine.NewBuilder[state, event]().
//	    Permit("draft", "submit", "in_review").
//	    Permit("in_review", "approve", "approved").
//	    MustBuild()
//
//	m := def.New("draft")
//	if err := m.Fire("submit"); err != nil {
//	    // statemachine.IsNoTransitionAvailableError(err)
//	}
//
// # Error Handling
//
// Fire returns *ErrNoTransitionAvailable when the current state has no
// transition for the event; the state is left unchanged. Builder.Build returns
// ErrDuplicateTransition when the same (from, event) pair is declared twice
// with different targets.
//
// # Concurrency
//
// Definition is read-only after Build. Machine guards its state with a
// RWMutex, so Current and CanFire are cheap and Fire is serialized.
package statemachine
