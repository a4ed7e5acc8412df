package tcpserver

import (
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

type recordingSink struct {
	mu   sync.Mutex
	logs []model.LogEvent
}

func (r *recordingSink) AppendLogs(events ...model.LogEvent) {
	r.mu.Lock()
	r.logs = append(r.logs, events...)
	r.mu.Unlock()
}

func (r *recordingSink) snapshot() []model.LogEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.LogEvent(nil), r.logs...)
}

func TestNewServer_DefaultLocalhostAddress(t *testing.T) {
	t.Parallel()

	s := NewServer("", &recordingSink{})
	if got := s.Addr(); got != DefaultAddr {
		t.Fatalf("Addr() = %q, want %q", got, DefaultAddr)
	}
}

func TestNewServer_UsesConfiguredAddressAndLineSize(t *testing.T) {
	t.Parallel()

	s := NewServer("0.0.0.0:5000", &recordingSink{}, ServerConfig{MaxLineSize: 2048})
	if got := s.Addr(); got != "0.0.0.0:5000" {
		t.Fatalf("Addr() = %q, want %q", got, "0.0.0.0:5000")
	}
	if got := s.maxLineSize; got != 2048 {
		t.Fatalf("max line size = %d, want %d", got, 2048)
	}
}

func TestServer_IngestsLogLines(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	s := NewServer("127.0.0.1:0", sink)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	conn, err := net.Dial("tcp", s.Addr())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	lines := []string{
		`{"timestamp":"2025-01-01T10:00:00Z","level":"error","message":"disk full"}`,
		`not json`,
		`{"timestamp":"2025-01-01T10:00:01Z","level":"AUTH","message":"login ok"}`,
		`{"timestamp":"2025-01-01T10:00:02Z","src_ip":"10.0.0.1","dst_ip":"10.0.0.2","label":1}`,
	}
	for _, l := range lines {
		fmt.Fprintln(conn, l)
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, rejected := s.Stats(); len(sink.snapshot()) == 2 && rejected == 2 {
			break
		}
		if time.Now().After(deadline) {
			acc, rej := s.Stats()
			t.Fatalf("got %d events (accepted %d, rejected %d), want 2 accepted and 2 rejected", len(sink.snapshot()), acc, rej)
		}
		time.Sleep(10 * time.Millisecond)
	}

	got := sink.snapshot()
	if got[0].Level != model.LevelError {
		t.Errorf("first level = %q, want %q", got[0].Level, model.LevelError)
	}
	if got[0].ID == got[1].ID {
		t.Errorf("ids should be unique, both %q", got[0].ID)
	}
}

func TestServer_StopClosesOpenConnections(t *testing.T) {
	t.Parallel()

	s := NewServer("127.0.0.1:0", &recordingSink{})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	conn, err := net.Dial("tcp", s.Addr())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		_ = s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return with an idle connection open")
	}
}
