package queue

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/dmitrymomot/offlineq/pkg/statemachine"
)

// Operation is one unit of deferrable work.
//
// ID, Payload and Attachment form the operation's identity and never change.
// The state is owned by the Scheduler.
type Operation struct {
	id         string
	payload    map[string]any
	attachment any

	key uuid.UUID
	fsm *statemachine.Machine[State, lifecycleEvent]
}

// NewOperation creates a Ready operation. Scheduler.Append is the usual way to
// create and enqueue one; NewOperation is useful to describe an operation for
// Remove or Reset by value.
func NewOperation(id string, payload map[string]any, attachment any) *Operation {
	return &Operation{
		id:         id,
		payload:    payload,
		attachment: attachment,
		key:        uuid.New(),
		fsm:        lifecycle.New(StateReady),
	}
}

// ID identifies the kind of work; it is not unique per instance.
func (o *Operation) ID() string { return o.id }

// Payload returns the executor parameters. Treat it as read-only.
func (o *Operation) Payload() map[string]any { return o.payload }

// Attachment returns the caller-supplied object.
func (o *Operation) Attachment() any { return o.attachment }

// Key is unique per in-memory instance. It is not persisted and plays no
// part in equality.
func (o *Operation) Key() uuid.UUID { return o.key }

func (o *Operation) State() State { return o.fsm.Current() }

// Equal reports structural equality of ID, Payload and Attachment.
// A nil and an empty payload are equal.
func (o *Operation) Equal(other *Operation) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.id != other.id {
		return false
	}
	if len(o.payload) != 0 || len(other.payload) != 0 {
		if !reflect.DeepEqual(o.payload, other.payload) {
			return false
		}
	}
	return reflect.DeepEqual(o.attachment, other.attachment)
}

// Snapshot is a point-in-time copy of an operation's fields.
type Snapshot struct {
	Key        uuid.UUID
	ID         string
	Payload    map[string]any
	Attachment any
	State      State
}

func (o *Operation) snapshot() Snapshot {
	return Snapshot{
		Key:        o.key,
		ID:         o.id,
		Payload:    o.payload,
		Attachment: o.attachment,
		State:      o.State(),
	}
}
