package model

import "time"

// Level is the category of a log event.
type Level string

const (
	LevelDebug  Level = "DEBUG"
	LevelInfo   Level = "INFO"
	LevelWarn   Level = "WARN"
	LevelError  Level = "ERROR"
	LevelAuth   Level = "AUTH"
	LevelAttack Level = "ATTACK"
)

// Levels lists every log level in chart column order.
var Levels = []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelAuth, LevelAttack}

// LevelNames returns Levels as plain strings, the default category list.
func LevelNames() []string {
	out := make([]string, len(Levels))
	for i, l := range Levels {
		out[i] = string(l)
	}
	return out
}

// Network event categories, keyed by the flow label.
const (
	CategoryBenign    = "BENIGN"
	CategoryMalicious = "MALICIOUS"
)

// Kind discriminates the concrete Event shapes.
type Kind int

const (
	KindLog Kind = iota
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindLog:
		return "log"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Event is one timestamped record consumed by replay. The timestamp is the
// only field the replay machinery looks at; the rest is payload.
type Event interface {
	Time() time.Time
	Kind() Kind
}

// LogEvent is a single application or security log line.
type LogEvent struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"ts"`
	Level     Level          `json:"level"`
	Service   string         `json:"service"`
	Host      string         `json:"host"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"meta,omitempty"`
}

func (e LogEvent) Time() time.Time { return e.Timestamp }
func (e LogEvent) Kind() Kind      { return KindLog }

// NetworkEvent is a single labelled network flow.
type NetworkEvent struct {
	Timestamp     time.Time `json:"timestamp"`
	SourceAddress string    `json:"sourceAddress"`
	SourcePort    int       `json:"sourcePort"`
	DestAddress   string    `json:"destAddress"`
	DestPort      int       `json:"destPort"`
	Protocol      string    `json:"protocol"`
	Session       string    `json:"session"`
	Label         int       `json:"label"` // 0 benign, 1 malicious
}

func (e NetworkEvent) Time() time.Time { return e.Timestamp }
func (e NetworkEvent) Kind() Kind      { return KindNetwork }

// CategoryOf is the default category extractor: log level for log events,
// label name for network events.
func CategoryOf(ev Event) string {
	switch e := ev.(type) {
	case LogEvent:
		return string(e.Level)
	case *LogEvent:
		return string(e.Level)
	case NetworkEvent:
		return networkCategory(e.Label)
	case *NetworkEvent:
		return networkCategory(e.Label)
	default:
		return ""
	}
}

func networkCategory(label int) string {
	if label == 1 {
		return CategoryMalicious
	}
	return CategoryBenign
}
