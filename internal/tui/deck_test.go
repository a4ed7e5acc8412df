package tui

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"

	"github.com/Fraugrammers/frotect-dashboard/internal/eventsource"
	"github.com/Fraugrammers/frotect-dashboard/internal/model"
	"github.com/Fraugrammers/frotect-dashboard/internal/render"
)

func newTestChart(t *testing.T, source string) *ChartDeck {
	t.Helper()
	return NewChartDeck(ChartDeckConfig{
		Loader:  testLoader(),
		Request: eventsource.Request{Source: source},
		Replay:  testReplayConfig(false),
	})
}

func TestChartDeck_FoldsRevealedPrefix(t *testing.T) {
	t.Parallel()

	d := newTestChart(t, writeEvents(t, threeEvents))
	cmd := d.Start()
	d.Update(runLoad(t, cmd))

	s := d.Series()
	if len(s.Buckets) != 1 || s.Buckets[0].Key != "12:00:00" {
		t.Fatalf("buckets after arm = %+v, want one 12:00:00 bucket", s.Buckets)
	}

	d.Update(DeckTickMsg{DeckID: "chart", Gen: d.source.Generation()})
	d.Update(DeckTickMsg{DeckID: "chart", Gen: d.source.Generation()})
	s = d.Series()
	if len(s.Buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(s.Buckets))
	}
	totals := s.Totals()
	for i, cat := range s.Categories {
		want := 0
		switch cat {
		case "INFO", "WARN", "ERROR":
			want = 1
		}
		if totals[i] != want {
			t.Fatalf("total[%s] = %d, want %d", cat, totals[i], want)
		}
	}

	view := d.Render(100, 20, false)
	if !strings.Contains(view, render.RevealedText(3, 3)) {
		t.Fatalf("view missing counter %q:\n%s", render.RevealedText(3, 3), view)
	}
}

func TestChartDeck_StatusLines(t *testing.T) {
	t.Parallel()

	d := newTestChart(t, failingServer(t))
	view := d.Render(100, 20, false)
	if !strings.Contains(view, render.WaitingText) {
		t.Fatalf("empty chart missing waiting text:\n%s", view)
	}

	d.Update(runLoad(t, d.Start()))
	view = d.Render(100, 20, false)
	if !strings.Contains(view, "Failed to load: HTTP 500") {
		t.Fatalf("failed chart missing error line:\n%s", view)
	}
	if !strings.Contains(view, render.RevealedText(0, 0)) {
		t.Fatalf("failed chart missing counter:\n%s", view)
	}
}

func TestChartDeck_ToggleAndLegendClick(t *testing.T) {
	t.Parallel()

	d := newTestChart(t, writeEvents(t, threeEvents))
	if d.Toggle(-1) || d.Toggle(len(d.Categories())) {
		t.Fatal("Toggle accepted an out-of-range index")
	}
	if !d.Toggle(1) || !d.Visibility().Hidden("INFO") {
		t.Fatal("Toggle(1) did not hide INFO")
	}

	d.Render(100, 20, false)
	if d.HandleClick(0, d.legendTop) {
		t.Fatal("click left of the legend toggled a category")
	}
	if !d.HandleClick(d.legendX, d.legendTop) {
		t.Fatal("click on first legend row not handled")
	}
	if !d.Visibility().Hidden(string(model.LevelDebug)) {
		t.Fatal("legend click did not hide DEBUG")
	}

	// Hidden flags survive a reload.
	d.Start()
	if !d.Visibility().Hidden("INFO") {
		t.Fatal("reload cleared hidden categories")
	}
}

func TestChartDeck_NetworkCategories(t *testing.T) {
	t.Parallel()

	body := `[{"timestamp":"2025-09-18T12:00:00Z","sourceAddress":"10.0.0.1","destAddress":"10.0.0.2","protocol":"TCP","label":1}]`
	d := NewChartDeck(ChartDeckConfig{
		Loader:     testLoader(),
		Request:    eventsource.Request{Source: writeEvents(t, body)},
		Replay:     testReplayConfig(false),
		Categories: []string{model.CategoryBenign, model.CategoryMalicious},
	})
	d.Update(runLoad(t, d.Start()))
	if got := d.Series().Totals(); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("totals = %v, want [0 1]", got)
	}
}

func TestTerminalDeck_WritesBannerAndLines(t *testing.T) {
	t.Parallel()

	d := NewTerminalDeck(TerminalDeckConfig{
		Loader:  testLoader(),
		Request: eventsource.Request{Source: writeEvents(t, threeEvents)},
		Replay:  testReplayConfig(false),
		Text:    render.NewText(render.TextConfig{Profile: termenv.Ascii}),
	})
	d.Update(runLoad(t, d.Start()))
	d.Update(DeckTickMsg{DeckID: "terminal", Gen: d.source.Generation()})

	lines := d.Lines()
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want banner plus 2 events: %q", len(lines), lines)
	}
	if lines[0] != render.Banner {
		t.Fatalf("first line = %q, want banner", lines[0])
	}
	if !strings.HasPrefix(lines[1], "[INFO] ") || !strings.HasPrefix(lines[2], "[WARN] ") {
		t.Fatalf("event lines = %q", lines[1:])
	}
	if view := d.Render(100, 10, true); !strings.Contains(view, "two") {
		t.Fatalf("viewport missing newest line:\n%s", view)
	}
}

func TestTerminalDeck_FetchErrorLine(t *testing.T) {
	t.Parallel()

	d := NewTerminalDeck(TerminalDeckConfig{
		Loader:  testLoader(),
		Request: eventsource.Request{Source: failingServer(t)},
		Replay:  testReplayConfig(false),
		Text:    render.NewText(render.TextConfig{Profile: termenv.Ascii}),
	})
	d.Update(runLoad(t, d.Start()))

	lines := d.Lines()
	if len(lines) != 2 || lines[1] != "[FETCH] Error: HTTP 500" {
		t.Fatalf("lines = %q, want banner then fetch error", lines)
	}
}
