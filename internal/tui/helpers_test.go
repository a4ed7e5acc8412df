package tui

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Fraugrammers/frotect-dashboard/internal/eventsource"
	"github.com/Fraugrammers/frotect-dashboard/internal/replay"
)

const threeEvents = `{"events":[
 {"id":"1","ts":"2025-09-18T12:00:00Z","level":"INFO","service":"api","host":"h1","message":"one"},
 {"id":"2","ts":"2025-09-18T12:00:00Z","level":"WARN","service":"api","host":"h1","message":"two"},
 {"id":"3","ts":"2025-09-18T12:00:01Z","level":"ERROR","service":"api","host":"h1","message":"three"}
]}`

// writeEvents stores body in a temp .json file and returns its path.
func writeEvents(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write events: %v", err)
	}
	return p
}

// failingServer always answers 500.
func failingServer(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func testReplayConfig(loop bool) replay.Config {
	return replay.Config{TickInterval: time.Hour, Loop: loop, Location: time.UTC}
}

func testLoader() *eventsource.Loader {
	return eventsource.NewLoader(eventsource.LoaderConfig{
		Now: func() time.Time { return time.Date(2025, 9, 18, 12, 0, 0, 0, time.UTC) },
	})
}

// runLoad executes a load command synchronously and returns its message.
func runLoad(t *testing.T, cmd tea.Cmd) DeckDataMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("load cmd = nil")
	}
	msg, ok := cmd().(DeckDataMsg)
	if !ok {
		t.Fatalf("load cmd returned %T, want DeckDataMsg", msg)
	}
	return msg
}
