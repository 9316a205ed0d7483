package connectivity

import "errors"

var (
	// ErrAlreadyStarted is returned when Start is called on a running ProbeMonitor.
	ErrAlreadyStarted = errors.New("probe monitor already started")

	// ErrNotStarted is returned when Stop is called on a ProbeMonitor that is not running.
	ErrNotStarted = errors.New("probe monitor not started")
)
