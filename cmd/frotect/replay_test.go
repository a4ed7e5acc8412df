package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"

	"github.com/Fraugrammers/frotect-dashboard/internal/render"
)

const replayEvents = `[
  {"timestamp":"2025-09-18T10:00:00Z","level":"info","message":"m1"},
  {"timestamp":"2025-09-18T10:00:01Z","level":"warn","message":"m2"},
  {"timestamp":"2025-09-18T10:00:02Z","level":"error","message":"m3"}
]`

func writeReplaySource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(replayEvents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func replayTestConfig() appConfig {
	return appConfig{
		TickInterval:   10 * time.Millisecond,
		Timezone:       "UTC",
		LogLevel:       "error",
		NoColor:        true,
		RequestTimeout: time.Second,
	}
}

func outputLines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func runReplayWithDeadline(t *testing.T, ctx context.Context, cfg appConfig, source string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- runReplay(ctx, cfg, source, strings.NewReader(""), &out) }()
	select {
	case err := <-done:
		return out.String(), err
	case <-time.After(5 * time.Second):
		t.Fatal("runReplay did not return")
		return "", nil
	}
}

func TestRunReplay_ExitsAfterLastEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		startAt   string
		useOffset bool
		want      []string
	}{
		{"from first event", "", false, []string{"m1", "m2", "m3"}},
		{"offset window", "10:00:01", true, []string{"m2", "m3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := replayTestConfig()
			cfg.StartAt = tt.startAt
			cfg.UseOffset = tt.useOffset

			out, err := runReplayWithDeadline(t, context.Background(), cfg, writeReplaySource(t))
			if err != nil {
				t.Fatalf("runReplay: %v", err)
			}
			lines := outputLines(bytes.NewBufferString(out))
			banner := render.NewText(render.TextConfig{Profile: termenv.Ascii}).BannerLine()
			if lines[0] != banner {
				t.Fatalf("first line = %q, want banner %q", lines[0], banner)
			}
			if got := len(lines) - 1; got != len(tt.want) {
				t.Fatalf("got %d event lines, want %d:\n%s", got, len(tt.want), out)
			}
			for i, msg := range tt.want {
				if !strings.Contains(lines[i+1], msg) {
					t.Errorf("line %d = %q, want it to contain %q", i+1, lines[i+1], msg)
				}
			}
		})
	}
}

func TestRunReplay_FetchFailure(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.json")
	out, err := runReplayWithDeadline(t, context.Background(), replayTestConfig(), missing)
	if err == nil {
		t.Fatal("expected an error for a missing source")
	}
	if !strings.HasPrefix(out, "[FETCH] Error: ") {
		t.Fatalf("output = %q, want a [FETCH] line", out)
	}
}

func TestRunReplay_FallbackPlaysDemoEvents(t *testing.T) {
	t.Parallel()

	cfg := replayTestConfig()
	cfg.TickInterval = time.Millisecond
	cfg.TerminalFallback = true

	out, err := runReplayWithDeadline(t, context.Background(), cfg, filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("runReplay: %v", err)
	}
	lines := outputLines(bytes.NewBufferString(out))
	// fetch error, banner, twelve demo events
	if len(lines) != 14 || !strings.HasPrefix(lines[0], "[FETCH]") {
		t.Fatalf("got %d lines, want 14 starting with [FETCH]:\n%s", len(lines), out)
	}
}

func TestRunReplay_LoopRunsUntilCancelled(t *testing.T) {
	t.Parallel()

	cfg := replayTestConfig()
	cfg.Loop = true

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	out, err := runReplayWithDeadline(t, ctx, cfg, writeReplaySource(t))
	if err != nil {
		t.Fatalf("runReplay: %v", err)
	}
	lines := outputLines(bytes.NewBufferString(out))
	if len(lines) <= 4 {
		t.Fatalf("got %d lines, want the loop to wrap past the third event:\n%s", len(lines), out)
	}
	if ctx.Err() == nil {
		t.Fatal("looping replay returned before its context ended")
	}
}
