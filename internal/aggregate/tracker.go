package aggregate

import "sync/atomic"

// Ticket identifies one request issued through a Tracker.
type Ticket uint64

// Tracker hands out increasing tickets so a caller that issues overlapping
// requests can drop results from superseded ones. In-flight requests are
// not cancelled.
type Tracker struct {
	generation atomic.Uint64
}

// Begin starts a new request and supersedes all earlier tickets.
func (t *Tracker) Begin() Ticket {
	return Ticket(t.generation.Add(1))
}

// IsCurrent reports whether ticket belongs to the latest request.
func (t *Tracker) IsCurrent(ticket Ticket) bool {
	return uint64(ticket) == t.generation.Load()
}
