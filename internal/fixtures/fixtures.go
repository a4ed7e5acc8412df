// Package fixtures embeds the demo datasets served by the mock API and
// keeps them in a store that the OTLP receiver can append to.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"sync"

	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

//go:embed data/*.json
var dataFS embed.FS

// Embedded file names.
const (
	LogsFile    = "data/mock-logs.json"
	NetworkFile = "data/mock-network.json"
	ReportsFile = "data/mock-reports.json"
)

// Raw returns an embedded file as-is.
func Raw(name string) ([]byte, error) {
	return dataFS.ReadFile(name)
}

// Store is the in-memory dataset behind the mock API.
type Store struct {
	mu      sync.RWMutex
	logs    []model.LogEvent
	network []model.NetworkEvent
	reports []model.Report
}

// NewStore loads the embedded datasets.
func NewStore() (*Store, error) {
	s := &Store{}

	var logs struct {
		Events []model.LogEvent `json:"events"`
	}
	if err := decode(LogsFile, &logs); err != nil {
		return nil, err
	}
	if err := decode(NetworkFile, &s.network); err != nil {
		return nil, err
	}
	var reports struct {
		Reports []model.Report `json:"reports"`
	}
	if err := decode(ReportsFile, &reports); err != nil {
		return nil, err
	}

	s.logs = logs.Events
	s.reports = reports.Reports
	sortLogs(s.logs)
	sort.SliceStable(s.network, func(i, j int) bool {
		return s.network[i].Timestamp.Before(s.network[j].Timestamp)
	})
	return s, nil
}

func decode(name string, v any) error {
	b, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

func sortLogs(logs []model.LogEvent) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.Before(logs[j].Timestamp)
	})
}

// Logs returns up to limit log events in time order; limit <= 0 means all.
func (s *Store) Logs(limit int) []model.LogEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.logs)
	if limit > 0 && limit < n {
		n = limit
	}
	return append([]model.LogEvent(nil), s.logs[:n]...)
}

// Network returns every network flow in time order.
func (s *Store) Network() []model.NetworkEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.NetworkEvent(nil), s.network...)
}

// Reports returns the report catalog.
func (s *Store) Reports() []model.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Report(nil), s.reports...)
}

// AppendLogs adds events and keeps the log list time ordered.
func (s *Store) AppendLogs(events ...model.LogEvent) {
	if len(events) == 0 {
		return
	}
	s.mu.Lock()
	s.logs = append(s.logs, events...)
	sortLogs(s.logs)
	s.mu.Unlock()
}

// KPI derives a stable summary for a server and time range. Alerts counts
// ERROR and ATTACK events currently in the store.
func (s *Store) KPI(serverID, timeRange string) model.KPISummary {
	h := fnv.New32a()
	_, _ = h.Write([]byte(serverID + "|" + timeRange))
	seed := h.Sum32()

	s.mu.RLock()
	alerts := 0
	for _, ev := range s.logs {
		if ev.Level == model.LevelError || ev.Level == model.LevelAttack {
			alerts++
		}
	}
	s.mu.RUnlock()

	return model.KPISummary{
		CPU:    percent(seed, 0),
		RAM:    percent(seed, 8),
		Disk:   percent(seed, 16),
		Alerts: alerts,
	}
}

// percent maps one byte of seed onto 10.0..89.7 with one decimal.
func percent(seed uint32, shift uint) float64 {
	b := (seed >> shift) & 0xff
	return math.Round((10+float64(b)*80/256)*10) / 10
}
