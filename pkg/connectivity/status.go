package connectivity

// Status is the reachability of the network as seen by the host.
type Status uint8

const (
	Unreachable Status = iota
	ReachableLocal
	ReachableWide
)

// Reachable reports whether the network can be used at all.
func (s Status) Reachable() bool {
	return s != Unreachable
}

func (s Status) String() string {
	switch s {
	case Unreachable:
		return "unreachable"
	case ReachableLocal:
		return "reachable_local"
	case ReachableWide:
		return "reachable_wide"
	default:
		return "unknown"
	}
}
