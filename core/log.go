package core

import "sync"

// EventLog is the append-only source of truth for the canvas. Indices are
// assigned monotonically from zero in arrival order; committed entries are
// never mutated, removed or reordered. Everything else (viewer snapshots,
// canvas digests, the REST snapshot) derives from it.
type EventLog struct {
	mu     sync.RWMutex
	events []DrawEvent
}

// NewEventLog creates an empty log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Append commits the event and returns its index.
func (l *EventLog) Append(ev DrawEvent) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, ev)
	return len(l.events) - 1
}

// Snapshot returns a defensive copy of the full history in append order.
func (l *EventLog) Snapshot() []DrawEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]DrawEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Tail returns a copy of the most recent n events in append order.
// n <= 0 or n >= Len returns the full history.
func (l *EventLog) Tail(n int) []DrawEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	start := 0
	if n > 0 && n < len(l.events) {
		start = len(l.events) - n
	}
	out := make([]DrawEvent, len(l.events)-start)
	copy(out, l.events[start:])
	return out
}

// Len reports the number of committed events.
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.events)
}
