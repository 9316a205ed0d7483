package statemachine

import (
	"errors"
	"fmt"
)

// Builder collects transitions for a Definition.
type Builder[S, E comparable] struct {
	transitions map[S]map[E]S
	errs        []error
}

// NewBuilder creates an empty builder.
func NewBuilder[S, E comparable]() *Builder[S, E] {
	return &Builder[S, E]{transitions: make(map[S]map[E]S)}
}

// Permit allows event to move the machine from one state to another.
// Declaring the same (from, event) pair twice with a different target is
// reported by Build.
func (b *Builder[S, E]) Permit(from S, event E, to S) *Builder[S, E] {
	events, ok := b.transitions[from]
	if !ok {
		events = make(map[E]S)
		b.transitions[from] = events
	}
	if existing, ok := events[event]; ok && existing != to {
		b.errs = append(b.errs, fmt.Errorf("%w: %v on %v", ErrDuplicateTransition, from, event))
		return b
	}
	events[event] = to
	return b
}

// Build returns the immutable transition table.
func (b *Builder[S, E]) Build() (*Definition[S, E], error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	table := make(map[S]map[E]S, len(b.transitions))
	for from, events := range b.transitions {
		copied := make(map[E]S, len(events))
		for event, to := range events {
			copied[event] = to
		}
		table[from] = copied
	}
	return &Definition[S, E]{transitions: table}, nil
}

// MustBuild is like Build but panics on error. Intended for package-level
// lifecycle tables where a bad declaration is a programming error.
func (b *Builder[S, E]) MustBuild() *Definition[S, E] {
	def, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build state machine definition: %v", err))
	}
	return def
}
