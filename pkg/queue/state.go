package queue

import "github.com/dmitrymomot/offlineq/pkg/statemachine"

// State is the scheduling state of a queued operation.
type State uint8

const (
	// StateReady operations are eligible for the next scan.
	StateReady State = iota
	// StatePreparing operations are waiting for an inter-dispatch wait or a
	// retry delay to elapse.
	StatePreparing
	// StateRunning operations have been handed to the executor.
	StateRunning
	// StateFailed operations stay queued but are never selected until Reset.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StatePreparing:
		return "preparing"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type lifecycleEvent string

const (
	eventPrepare  lifecycleEvent = "prepare"
	eventDispatch lifecycleEvent = "dispatch"
	eventSkip     lifecycleEvent = "skip"
	eventRetry    lifecycleEvent = "retry"
	eventFail     lifecycleEvent = "fail"
	eventReset    lifecycleEvent = "reset"
)

// Success has no transition: a succeeded operation leaves the queue.
var lifecycle = statemachine.NewBuilder[State, lifecycleEvent]().
	Permit(StateReady, eventPrepare, StatePreparing).
	Permit(StateReady, eventDispatch, StateRunning).
	Permit(StatePreparing, eventDispatch, StateRunning).
	Permit(StatePreparing, eventSkip, StateReady).
	Permit(StateRunning, eventRetry, StatePreparing).
	Permit(StateRunning, eventFail, StateFailed).
	Permit(StateFailed, eventReset, StateReady).
	MustBuild()
