package tui

import "time"

// DeckTypeState tracks per-deck tick, pause and load-error state.
type DeckTypeState struct {
	TypeID          string
	Interval        time.Duration
	Paused          bool
	FetchInFlight   bool
	LastError       string
	LastErrorAt     time.Time
	LastTickOK      bool
	LastTickAt      time.Time
	ConsecutiveErrs int
}

// statusSuffix is the short marker appended to a deck title.
func (s DeckTypeState) statusSuffix() string {
	switch {
	case s.Paused:
		return " [paused]"
	case s.FetchInFlight:
		return " [loading]"
	default:
		return ""
	}
}
