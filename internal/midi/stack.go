package midi

import (
	"sort"
	"time"
)

// EventAt binds a decoded MIDI message to the track it targets and the
// sample-tick it should be delivered at. WallTimeAt is the ingress
// timestamp; Tick is filled in by the scheduler when the event is promoted
// from the ingress queue into a Stack.
type EventAt struct {
	TrackID    int
	Message    Event
	WallTimeAt time.Time
	Tick       uint64
}

// Stack is a tick-sorted queue of pending events. It is not safe for
// concurrent use: the engine protects it with its own event mutex, per the
// concurrency model (one writer promoting ingress events, one reader
// draining per block).
type Stack struct {
	events []EventAt
}

// NewStack creates an empty Stack.
func NewStack() *Stack {
	return &Stack{events: make([]EventAt, 0, 64)}
}

// Add inserts a single event, maintaining tick-ascending order with ties
// broken by insertion order (stable).
func (s *Stack) Add(e EventAt) {
	idx := sort.Search(len(s.events), func(i int) bool {
		return s.events[i].Tick > e.Tick
	})
	s.events = append(s.events, EventAt{})
	copy(s.events[idx+1:], s.events[idx:])
	s.events[idx] = e
}

// AddEvents inserts multiple events, preserving relative order among equal
// ticks.
func (s *Stack) AddEvents(events []EventAt) {
	for _, e := range events {
		s.Add(e)
	}
}

// DrainUpTo removes and returns every event with Tick <= tick, sorted by
// tick ascending (ties in insertion order). The stack afterwards contains
// only events with Tick > tick.
func (s *Stack) DrainUpTo(tick uint64) []EventAt {
	idx := sort.Search(len(s.events), func(i int) bool {
		return s.events[i].Tick > tick
	})
	if idx == 0 {
		return nil
	}

	drained := make([]EventAt, idx)
	copy(drained, s.events[:idx])

	remaining := len(s.events) - idx
	copy(s.events, s.events[idx:])
	s.events = s.events[:remaining]

	return drained
}

// Size returns the number of pending events.
func (s *Stack) Size() int {
	return len(s.events)
}

// IsEmpty reports whether the stack holds no pending events.
func (s *Stack) IsEmpty() bool {
	return len(s.events) == 0
}
