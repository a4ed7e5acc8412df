// Package replay reveals an ordered event collection one event per tick.
//
// Cursor is the pure state machine. Player drives a Cursor from a single
// timer and hands every revealed prefix to its observers; Controller keeps
// at most one Player alive per logical view.
package replay

import (
	"errors"
	"fmt"
	"time"

	"github.com/Fraugrammers/frotect-dashboard/internal/event"
	"github.com/Fraugrammers/frotect-dashboard/internal/model"
	"github.com/Fraugrammers/frotect-dashboard/internal/timestamp"
)

// ErrInvalidConfig is wrapped by every configuration error.
var ErrInvalidConfig = errors.New("invalid replay config")

// Config controls how a Cursor reveals a collection.
type Config struct {
	TickInterval time.Duration
	Loop         bool
	StartAt      string // optional "HH:MM:SS" clock-of-day
	UseOffset    bool   // reveal from startIndex instead of 0
	Location     *time.Location
}

// Validate reports a configuration error for a non-positive interval or a
// malformed StartAt.
func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive, got %s", ErrInvalidConfig, c.TickInterval)
	}
	if c.StartAt != "" {
		if _, err := timestamp.ParseClock(c.StartAt); err != nil {
			return fmt.Errorf("%w: start-at: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// State is a snapshot of the cursor position.
type State struct {
	Total      int
	StartIndex int
	Revealed   int
}

// Cursor tracks how much of a collection is revealed. It is not safe for
// concurrent use; Player serializes access.
type Cursor struct {
	cfg      Config
	loc      *time.Location
	startSec int
	hasStart bool

	coll       *event.Collection
	startIndex int
	revealed   int
}

// NewCursor validates cfg and returns an un-armed cursor.
func NewCursor(cfg Config) (*Cursor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Cursor{cfg: cfg, loc: cfg.Location}
	if c.loc == nil {
		c.loc = time.Local
	}
	if cfg.StartAt != "" {
		c.startSec, _ = timestamp.ParseClock(cfg.StartAt)
		c.hasStart = true
	}
	return c, nil
}

// Config returns the configuration the cursor was built with.
func (c *Cursor) Config() Config { return c.cfg }

// Arm binds a freshly loaded collection and resets the position. A
// non-empty collection starts with one event revealed.
func (c *Cursor) Arm(coll *event.Collection) {
	c.coll = coll
	c.startIndex = c.computeStartIndex()
	c.revealed = 0
	if c.limit() > 0 {
		c.revealed = 1
	}
}

// Armed reports whether ticks advance the cursor.
func (c *Cursor) Armed() bool { return c.revealed > 0 }

// Tick advances by one event. Past the end it wraps to one when looping,
// otherwise it stays clamped. It reports whether the position changed.
func (c *Cursor) Tick() bool {
	if !c.Armed() {
		return false
	}
	limit := c.limit()
	next := c.revealed + 1
	if next > limit {
		if !c.cfg.Loop {
			c.revealed = limit
			return false
		}
		next = 1
	}
	changed := next != c.revealed
	c.revealed = next
	return changed
}

// Done reports whether a non-looping cursor has revealed everything.
func (c *Cursor) Done() bool {
	return !c.cfg.Loop && c.Armed() && c.revealed >= c.limit()
}

// State returns the current position.
func (c *Cursor) State() State {
	return State{Total: c.coll.Len(), StartIndex: c.startIndex, Revealed: c.revealed}
}

// Window returns the half-open index range of the revealed prefix.
func (c *Cursor) Window() (lo, hi int) {
	if c.cfg.UseOffset {
		lo = c.startIndex
	}
	return lo, lo + c.revealed
}

// Revealed returns a copy of the revealed prefix.
func (c *Cursor) Revealed() []model.Event {
	lo, hi := c.Window()
	return c.coll.Slice(lo, hi)
}

// Last returns the most recently revealed event.
func (c *Cursor) Last() (model.Event, bool) {
	if !c.Armed() {
		return nil, false
	}
	_, hi := c.Window()
	return c.coll.At(hi - 1), true
}

// limit is how many events the configured window can reveal.
func (c *Cursor) limit() int {
	n := c.coll.Len()
	if c.cfg.UseOffset {
		return n - c.startIndex
	}
	return n
}

func (c *Cursor) computeStartIndex() int {
	if !c.hasStart {
		return 0
	}
	for i := 0; i < c.coll.Len(); i++ {
		if timestamp.SecondsOfDay(c.coll.At(i).Time(), c.loc) >= c.startSec {
			return i
		}
	}
	return 0
}
