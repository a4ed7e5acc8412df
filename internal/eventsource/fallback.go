package eventsource

import (
	"fmt"
	"time"

	"github.com/Fraugrammers/frotect-dashboard/internal/event"
	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// fallbackBase anchors the synthetic collection so it is identical on every run.
var fallbackBase = time.Date(2025, 9, 18, 9, 30, 0, 0, time.UTC)

var fallbackSeed = []struct {
	level   model.Level
	service string
	host    string
	message string
	meta    map[string]any
}{
	{model.LevelInfo, "gateway", "edge-01", "service started", map[string]any{"version": "1.4.2"}},
	{model.LevelDebug, "gateway", "edge-01", "health check ok", nil},
	{model.LevelAuth, "sshd", "bastion", "accepted publickey for ops", map[string]any{"user": "ops"}},
	{model.LevelInfo, "api", "app-02", "GET /api/kpi 200", map[string]any{"latency_ms": 12}},
	{model.LevelWarn, "api", "app-02", "slow query on reports table", map[string]any{"latency_ms": 1840}},
	{model.LevelAuth, "sshd", "bastion", "failed password for root", map[string]any{"src": "203.0.113.7"}},
	{model.LevelAttack, "waf", "edge-01", "SQL injection pattern blocked", map[string]any{"rule": "942100"}},
	{model.LevelError, "api", "app-02", "upstream timeout", map[string]any{"upstream": "reports"}},
	{model.LevelInfo, "scheduler", "app-03", "report export finished", nil},
	{model.LevelAttack, "waf", "edge-01", "port scan detected", map[string]any{"ports": 1024}},
	{model.LevelWarn, "disk", "app-03", "disk usage above 85%", map[string]any{"mount": "/var"}},
	{model.LevelDebug, "scheduler", "app-03", "next run scheduled", nil},
}

// FallbackEvents returns the deterministic synthetic events substituted when
// a view opts into fallback-on-failure.
func FallbackEvents() []model.Event {
	out := make([]model.Event, len(fallbackSeed))
	for i, s := range fallbackSeed {
		out[i] = model.LogEvent{
			ID:        fmt.Sprintf("fb-%02d", i+1),
			Timestamp: fallbackBase.Add(time.Duration(i*2) * time.Second),
			Level:     s.level,
			Service:   s.service,
			Host:      s.host,
			Message:   s.message,
			Metadata:  s.meta,
		}
	}
	return out
}

// FallbackCollection wraps FallbackEvents.
func FallbackCollection() *event.Collection {
	return event.NewCollection(FallbackEvents())
}
