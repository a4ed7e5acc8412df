package render

import (
	"fmt"

	"github.com/Fraugrammers/frotect-dashboard/internal/aggregate"
)

// Chart header texts.
const (
	WaitingText     = "Waiting for data…"
	FailedTextFmt   = "Failed to load: %s"
	RevealedTextFmt = "%d/%d lines"
)

// Visibility tracks which categories are hidden from the chart stack. The
// series itself is never filtered; hidden categories only drop out of the
// drawing.
type Visibility struct {
	hidden map[string]bool
}

// NewVisibility returns a set with every category visible.
func NewVisibility() *Visibility {
	return &Visibility{hidden: make(map[string]bool)}
}

// Toggle flips the hidden flag of category and returns the new state.
func (v *Visibility) Toggle(category string) bool {
	if v.hidden[category] {
		delete(v.hidden, category)
		return false
	}
	v.hidden[category] = true
	return true
}

// Hidden reports whether category is hidden.
func (v *Visibility) Hidden(category string) bool {
	return v.hidden[category]
}

// Visible filters categories down to the ones not hidden, preserving order.
func (v *Visibility) Visible(categories []string) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		if !v.hidden[c] {
			out = append(out, c)
		}
	}
	return out
}

// Segment is one colored slice of a stacked bar.
type Segment struct {
	Category string
	Value    int
}

// Stack is one bar: a bucket key with its visible segments bottom-up.
type Stack struct {
	Key      string
	Segments []Segment
}

// Stacks projects a series into drawable bars, skipping hidden categories.
func Stacks(s aggregate.Series, vis *Visibility) []Stack {
	out := make([]Stack, 0, len(s.Buckets))
	for _, b := range s.Buckets {
		st := Stack{Key: b.Key}
		for i, cat := range s.Categories {
			if vis != nil && vis.Hidden(cat) {
				continue
			}
			st.Segments = append(st.Segments, Segment{Category: cat, Value: b.Counts[i]})
		}
		out = append(out, st)
	}
	return out
}

// RevealedText is the "revealed/total lines" counter shown in the chart title.
func RevealedText(revealed, total int) string {
	return fmt.Sprintf(RevealedTextFmt, revealed, total)
}

// ChartStatus returns the lines shown under the title: the load error if one
// was recorded, then the waiting text while the series is empty.
func ChartStatus(loadErr string, empty bool) []string {
	var out []string
	if loadErr != "" {
		out = append(out, fmt.Sprintf(FailedTextFmt, loadErr))
	}
	if empty {
		out = append(out, WaitingText)
	}
	return out
}
