// Package connectivity reports network reachability and notifies subscribers
// when it changes.
//
// A Monitor exposes the current Status and a subscription delivering status
// changes asynchronously on a separate goroutine. Consumers that only care
// whether the network can be used call Status.Reachable; ReachableLocal and
// ReachableWide are kept apart for diagnostics.
//
// Two implementations are provided:
//
//   - ManualMonitor is driven by the host through Set, for applications that
//     already receive reachability callbacks from the platform, and for tests.
//   - ProbeMonitor polls on an interval: a TCP dial to any configured wide-area
//     target means ReachableWide, an active non-loopback interface means
//     ReachableLocal, anything else is Unreachable.
//
// Both publish only when the status actually changes. Subscribers that fall
// behind see the most recent status rather than a backlog.
package connectivity
