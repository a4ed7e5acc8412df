// Package render turns revealed events into terminal text.
package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// TimeLayout is the ISO-8601 UTC form with millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Formatter renders one event as an uncolored display line.
type Formatter func(model.Event) string

// FormatEvent dispatches on the event kind.
func FormatEvent(ev model.Event) string {
	switch e := ev.(type) {
	case model.LogEvent:
		return FormatLog(e)
	case *model.LogEvent:
		return FormatLog(*e)
	case model.NetworkEvent:
		return FormatNetwork(e)
	case *model.NetworkEvent:
		return FormatNetwork(*e)
	default:
		return ""
	}
}

// FormatLog renders "[LEVEL] ts host service - message k=v ...".
func FormatLog(ev model.LogEvent) string {
	return fmt.Sprintf("[%s] %s", ev.Level, logBody(ev))
}

// logBody is everything after the level tag.
func logBody(ev model.LogEvent) string {
	line := fmt.Sprintf("%s %s %s - %s", formatTime(ev.Timestamp), ev.Host, ev.Service, ev.Message)
	if meta := FormatMetadata(ev.Metadata); meta != "" {
		line += " " + meta
	}
	return line
}

// FormatNetwork renders "ts PROTO src:port -> dst:port (session=..., label=...)".
func FormatNetwork(ev model.NetworkEvent) string {
	return fmt.Sprintf("%s %s %s:%d -> %s:%d (session=%s, label=%d)",
		formatTime(ev.Timestamp), ev.Protocol,
		ev.SourceAddress, ev.SourcePort, ev.DestAddress, ev.DestPort,
		ev.Session, ev.Label)
}

// FormatMetadata joins key=value pairs in key order with JSON-encoded values.
func FormatMetadata(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		b, err := json.Marshal(meta[k])
		if err != nil {
			b = []byte(fmt.Sprintf("%q", fmt.Sprint(meta[k])))
		}
		parts = append(parts, k+"="+string(b))
	}
	return strings.Join(parts, " ")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
