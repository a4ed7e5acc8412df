// Package aggregate buckets a revealed event prefix into per-second rows of
// per-category counts.
package aggregate

import (
	"time"

	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// BucketLayout formats bucket keys as a 24-hour clock with second precision.
const BucketLayout = "15:04:05"

// CategoryFunc maps an event onto its category.
type CategoryFunc func(model.Event) string

// Bucket is one time-keyed row. Counts is parallel to Series.Categories.
type Bucket struct {
	Key    string
	Counts []int
}

// Series is the bucketed projection of a prefix. Buckets are in order of
// first occurrence.
type Series struct {
	Categories []string
	Buckets    []Bucket
}

// Empty reports whether the series has no buckets.
func (s Series) Empty() bool { return len(s.Buckets) == 0 }

// Totals sums each category across all buckets.
func (s Series) Totals() []int {
	out := make([]int, len(s.Categories))
	for _, b := range s.Buckets {
		for i, n := range b.Counts {
			out[i] += n
		}
	}
	return out
}

// Equal compares two series cell by cell.
func (s Series) Equal(o Series) bool {
	if len(s.Categories) != len(o.Categories) || len(s.Buckets) != len(o.Buckets) {
		return false
	}
	for i := range s.Categories {
		if s.Categories[i] != o.Categories[i] {
			return false
		}
	}
	for i, b := range s.Buckets {
		ob := o.Buckets[i]
		if b.Key != ob.Key || len(b.Counts) != len(ob.Counts) {
			return false
		}
		for j := range b.Counts {
			if b.Counts[j] != ob.Counts[j] {
				return false
			}
		}
	}
	return true
}

// Project recomputes the series from the whole prefix. Every bucket row has
// len(categories) counters; events of an unlisted category open their bucket
// but add nothing to it.
func Project(prefix []model.Event, categories []string, categoryOf CategoryFunc, loc *time.Location) Series {
	f := NewFolder(categories, categoryOf, loc)
	f.add(prefix)
	return f.Series()
}

// Folder maintains a series incrementally as a prefix grows. Its output
// equals Project over the same prefix.
type Folder struct {
	categories []string
	colIndex   map[string]int
	categoryOf CategoryFunc
	loc        *time.Location

	buckets  []Bucket
	rowIndex map[string]int
	seen     int
}

// NewFolder creates an empty Folder. A nil categoryOf uses model.CategoryOf
// and a nil loc uses time.Local.
func NewFolder(categories []string, categoryOf CategoryFunc, loc *time.Location) *Folder {
	if categoryOf == nil {
		categoryOf = model.CategoryOf
	}
	if loc == nil {
		loc = time.Local
	}
	cats := append([]string(nil), categories...)
	col := make(map[string]int, len(cats))
	for i, c := range cats {
		if _, dup := col[c]; !dup {
			col[c] = i
		}
	}
	return &Folder{
		categories: cats,
		colIndex:   col,
		categoryOf: categoryOf,
		loc:        loc,
		rowIndex:   make(map[string]int),
	}
}

// Fold brings the series up to date with prefix, counting only events past
// the previously folded length. A shorter prefix (a loop wrap) restarts the
// fold from scratch.
func (f *Folder) Fold(prefix []model.Event) Series {
	if len(prefix) < f.seen {
		f.Reset()
	}
	f.add(prefix[f.seen:])
	return f.Series()
}

// Reset drops all folded state. Call it when the underlying collection is
// replaced.
func (f *Folder) Reset() {
	f.buckets = nil
	f.rowIndex = make(map[string]int)
	f.seen = 0
}

// Series returns a copy of the current series.
func (f *Folder) Series() Series {
	out := Series{
		Categories: append([]string(nil), f.categories...),
		Buckets:    make([]Bucket, len(f.buckets)),
	}
	for i, b := range f.buckets {
		out.Buckets[i] = Bucket{Key: b.Key, Counts: append([]int(nil), b.Counts...)}
	}
	return out
}

func (f *Folder) add(events []model.Event) {
	for _, ev := range events {
		f.seen++
		if ev == nil {
			continue
		}
		key := ev.Time().In(f.loc).Format(BucketLayout)
		row, ok := f.rowIndex[key]
		if !ok {
			row = len(f.buckets)
			f.rowIndex[key] = row
			f.buckets = append(f.buckets, Bucket{Key: key, Counts: make([]int, len(f.categories))})
		}
		if col, ok := f.colIndex[f.categoryOf(ev)]; ok {
			f.buckets[row].Counts[col]++
		}
	}
}
