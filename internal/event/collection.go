// Package event holds the immutable, time-ordered event collection that the
// replay machinery reveals prefix by prefix.
package event

import (
	"sort"

	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// Collection is an ordered, read-only sequence of events. It is sorted once
// at construction and never reordered afterwards.
type Collection struct {
	events []model.Event
}

// NewCollection copies events and sorts the copy ascending by timestamp.
// Events with equal timestamps keep their input order.
func NewCollection(events []model.Event) *Collection {
	cp := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if ev != nil {
			cp = append(cp, ev)
		}
	}
	sort.SliceStable(cp, func(i, j int) bool {
		return cp[i].Time().Before(cp[j].Time())
	})
	return &Collection{events: cp}
}

// Len returns the number of events; a nil collection is empty.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.events)
}

// At returns the i-th event.
func (c *Collection) At(i int) model.Event {
	return c.events[i]
}

// Slice returns a copy of events[lo:hi] with bounds clamped to the collection.
func (c *Collection) Slice(lo, hi int) []model.Event {
	n := c.Len()
	if n == 0 {
		return []model.Event{}
	}
	lo = clamp(lo, 0, n)
	hi = clamp(hi, lo, n)
	out := make([]model.Event, hi-lo)
	copy(out, c.events[lo:hi])
	return out
}

// All returns a copy of every event in order.
func (c *Collection) All() []model.Event {
	return c.Slice(0, c.Len())
}

// Equal reports whether both collections hold the same events in the same order.
func (c *Collection) Equal(other *Collection) bool {
	if c.Len() != other.Len() {
		return false
	}
	for i := 0; i < c.Len(); i++ {
		if !sameEvent(c.events[i], other.events[i]) {
			return false
		}
	}
	return true
}

func sameEvent(a, b model.Event) bool {
	if a.Kind() != b.Kind() || !a.Time().Equal(b.Time()) {
		return false
	}
	switch x := a.(type) {
	case model.LogEvent:
		y, ok := b.(model.LogEvent)
		return ok && x.ID == y.ID && x.Level == y.Level && x.Host == y.Host &&
			x.Service == y.Service && x.Message == y.Message
	case model.NetworkEvent:
		y, ok := b.(model.NetworkEvent)
		return ok && x == y
	default:
		return false
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
