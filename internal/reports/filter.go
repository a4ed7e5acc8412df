package reports

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// Sort orders the filtered list.
type Sort string

const (
	SortNew  Sort = "new"
	SortOld  Sort = "old"
	SortName Sort = "name"
)

// Sorts lists the orderings in cycle order.
var Sorts = []Sort{SortNew, SortOld, SortName}

// Next returns the ordering after s, wrapping around.
func (s Sort) Next() Sort {
	for i, o := range Sorts {
		if o == s {
			return Sorts[(i+1)%len(Sorts)]
		}
	}
	return SortNew
}

// AllTag matches every report.
const AllTag = "all"

// Filter selects and orders reports.
type Filter struct {
	Query string
	Tag   string // "" or AllTag for no tag filter
	Sort  Sort
}

// Apply returns the reports matching f in f.Sort order. The input is not
// modified.
func Apply(list []model.Report, f Filter) []model.Report {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]model.Report, 0, len(list))
	for _, r := range list {
		if matchesTag(r, f.Tag) && matchesQuery(r, q) {
			out = append(out, r)
		}
	}

	switch f.Sort {
	case SortOld:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

func matchesTag(r model.Report, tag string) bool {
	if tag == "" || tag == AllTag {
		return true
	}
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func matchesQuery(r model.Report, q string) bool {
	if q == "" || strings.Contains(strings.ToLower(r.Name), q) {
		return true
	}
	for _, t := range r.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// AllTags returns every distinct tag, sorted.
func AllTags(list []model.Report) []string {
	seen := make(map[string]struct{})
	for _, r := range list {
		for _, t := range r.Tags {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// NextTag cycles through AllTag followed by tags.
func NextTag(current string, tags []string) string {
	if current == "" || current == AllTag {
		if len(tags) == 0 {
			return AllTag
		}
		return tags[0]
	}
	for i, t := range tags {
		if t == current && i+1 < len(tags) {
			return tags[i+1]
		}
	}
	return AllTag
}

var byteUnits = []string{"B", "KB", "MB", "GB"}

// FormatBytes renders n in binary units, with one decimal below ten.
func FormatBytes(n int64) string {
	if n < 0 {
		return "-"
	}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(byteUnits)-1 {
		v /= 1024
		i++
	}
	if v < 10 && i > 0 {
		return fmt.Sprintf("%.1f %s", v, byteUnits[i])
	}
	return fmt.Sprintf("%.0f %s", v, byteUnits[i])
}

// DateLayout is the short listing date.
const DateLayout = "Jan 02, 2006, 15:04"

// FormatDate renders t in loc for the listing.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// StatusText is the footer: "shown/total shown", prefixed by the fallback
// notice when the catalog failed to load.
func StatusText(shown, total int, errMsg string) string {
	status := fmt.Sprintf("%d/%d shown", shown, total)
	if errMsg != "" {
		return "Loaded fallback • " + errMsg + "  " + status
	}
	return status
}
