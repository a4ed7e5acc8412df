package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Fraugrammers/frotect-dashboard/internal/reports"
	"github.com/Fraugrammers/frotect-dashboard/internal/session"
)

const reportsBody = `{"reports":[
 {"id":"r1","name":"Weekly summary","sizeBytes":2048,"createdAt":"2025-09-10T10:00:00Z","tags":["weekly"]},
 {"id":"r2","name":"Audit trail","sizeBytes":512,"createdAt":"2025-09-12T10:00:00Z","tags":["audit","weekly"]},
 {"id":"r3","name":"Incident 42","sizeBytes":1048576,"createdAt":"2025-09-11T10:00:00Z","tags":["incident"]}
]}`

func writeReports(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "reports.json")
	if err := os.WriteFile(p, []byte(reportsBody), 0o644); err != nil {
		t.Fatalf("write reports: %v", err)
	}
	return p
}

func loggedIn() *session.State {
	s := &session.State{}
	s.Login("ops", "")
	return s
}

func TestDashboard_SwitchingViewsStopsDecks(t *testing.T) {
	t.Parallel()

	m := newTestDashboard(t, loggedIn())
	m.mountView(ViewOverview)
	termGen := m.Terminal().source.Generation()

	m.switchView(ViewAnalyzer)
	if m.ActiveView() != ViewAnalyzer {
		t.Fatalf("view = %q, want analyzer", m.ActiveView())
	}
	if m.Terminal().source.Generation() == termGen {
		t.Fatal("leaving the overview did not invalidate the terminal deck")
	}
	if cmd, _ := m.update(DeckTickMsg{DeckID: "terminal", Gen: termGen}); cmd != nil {
		t.Fatal("stale terminal tick rescheduled after unmount")
	}
}

func TestDashboard_TeardownInvalidatesClock(t *testing.T) {
	t.Parallel()

	m := newTestDashboard(t, loggedIn())
	m.Init()
	gen := m.clockGen
	m.Teardown()
	if cmd, _ := m.update(clockTickMsg{Gen: gen}); cmd != nil {
		t.Fatal("clock kept ticking after teardown")
	}
}

func TestDashboard_CycleTimeRange(t *testing.T) {
	t.Parallel()

	m := newTestDashboard(t, loggedIn())
	want := []string{"24h", "7d", "1h"}
	for _, w := range want {
		m.update(keyRunes("t"))
		if got := m.TimeRange(); got != w {
			t.Fatalf("range = %q, want %q", got, w)
		}
	}
}

func TestDashboard_NumberKeysToggleCategories(t *testing.T) {
	t.Parallel()

	m := newTestDashboard(t, loggedIn())
	m.update(keyRunes("3"))
	if !m.Chart().Visibility().Hidden("WARN") {
		t.Fatal("key 3 did not hide WARN")
	}
	m.update(keyRunes("3"))
	if m.Chart().Visibility().Hidden("WARN") {
		t.Fatal("second key 3 did not restore WARN")
	}
}

func TestDashboard_FocusCycle(t *testing.T) {
	t.Parallel()

	m := newTestDashboard(t, loggedIn())
	tab := tea.KeyMsg{Type: tea.KeyTab}

	m.update(tab) // terminal -> chart
	if m.activeSection != SectionContent || m.activeDeckIdx != 1 {
		t.Fatalf("after 1 tab: section=%d deck=%d", m.activeSection, m.activeDeckIdx)
	}
	m.update(tab) // chart -> sidebar
	if m.activeSection != SectionSidebar {
		t.Fatalf("after 2 tabs: section=%d, want sidebar", m.activeSection)
	}
	m.update(keyRunes("j"))
	m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.ActiveView() != ViewAnalyzer {
		t.Fatalf("sidebar enter on item 2: view = %q, want analyzer", m.ActiveView())
	}
}

func TestDashboard_View(t *testing.T) {
	t.Parallel()

	m := newTestDashboard(t, loggedIn())
	m.width, m.height = 50, 10
	if got := m.View(); got != "Terminal too small. Resize to at least 60x20." {
		t.Fatalf("small view = %q", got)
	}

	m.width, m.height = 120, 40
	view := m.View()
	for _, want := range []string{"F.R.O.T.E.C.T.", "OVERVIEW", "srv-01", "Terminal", "Logs by level"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestAnalyzer_LoadFilterSort(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(writeReports(t), nil, 0, nil)
	a.Update(a.Load()())

	names := func() []string {
		var out []string
		for _, r := range a.Visible() {
			out = append(out, r.ID)
		}
		return out
	}
	if got := strings.Join(names(), ","); got != "r2,r3,r1" {
		t.Fatalf("newest first = %s, want r2,r3,r1", got)
	}

	a.Update(keyRunes("s"))
	if a.Filter().Sort != reports.SortOld {
		t.Fatalf("sort = %s, want old", a.Filter().Sort)
	}
	a.Update(keyRunes("g")) // audit
	if got := strings.Join(names(), ","); got != "r2" {
		t.Fatalf("tag audit = %s, want r2", got)
	}
	a.Update(keyRunes("g")) // incident
	a.Update(keyRunes("g")) // weekly
	a.Update(keyRunes("g")) // all
	if a.Filter().Tag != reports.AllTag {
		t.Fatalf("tag = %q, want all", a.Filter().Tag)
	}

	a.Update(keyRunes("/"))
	if !a.Capturing() {
		t.Fatal("query not capturing after /")
	}
	for _, r := range "inc" {
		a.Update(keyRunes(string(r)))
	}
	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := strings.Join(names(), ","); got != "r3" {
		t.Fatalf("query inc = %s, want r3", got)
	}

	view := a.Render(100, 20)
	if !strings.Contains(view, "1/3 shown") {
		t.Fatalf("view missing status:\n%s", view)
	}
}

func TestAnalyzer_FallbackStatus(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(failingServer(t), nil, 0, nil)
	a.Update(a.Load()())
	if len(a.Visible()) != len(reports.Fallback()) {
		t.Fatalf("visible = %d, want fallback list", len(a.Visible()))
	}
	if view := a.Render(120, 20); !strings.Contains(view, "Loaded fallback • HTTP 500") {
		t.Fatalf("view missing fallback notice:\n%s", view)
	}
}

func TestAnalyzer_SelectedURL(t *testing.T) {
	t.Parallel()

	src := failingServer(t)
	a := NewAnalyzer(src, nil, 0, nil)
	a.Update(a.Load()())

	sel, ok := a.Selected()
	if !ok {
		t.Fatal("no report selected after load")
	}
	want := strings.TrimRight(src, "/") + sel.URL
	if got := a.SelectedURL(); got != want {
		t.Fatalf("SelectedURL() = %q, want %q", got, want)
	}
	if view := a.Render(160, 24); !strings.Contains(view, want) {
		t.Fatalf("view missing selected url %q:\n%s", want, view)
	}

	a.Update(keyRunes("j"))
	next, _ := a.Selected()
	if next.ID == sel.ID {
		t.Fatalf("cursor did not move from %s", sel.ID)
	}
	if view := a.Render(160, 24); !strings.Contains(view, next.URL) {
		t.Fatalf("view missing url of moved selection %q:\n%s", next.URL, view)
	}

	var copied string
	a.copyFn = func(s string) error { copied = s; return nil }
	a.Update(keyRunes("c"))
	if want := strings.TrimRight(src, "/") + next.URL; copied != want {
		t.Fatalf("copied %q, want %q", copied, want)
	}
	if view := a.Render(160, 24); !strings.Contains(view, "copied ") {
		t.Fatalf("view missing copy notice:\n%s", view)
	}
}

func TestAnalyzer_SelectedURLEmptyCatalog(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(writeReports(t), nil, 0, nil)
	if _, ok := a.Selected(); ok {
		t.Fatal("selection before load")
	}
	if got := a.SelectedURL(); got != "" {
		t.Fatalf("SelectedURL() = %q, want empty", got)
	}
	a.Update(keyRunes("c"))
	if view := a.Render(120, 20); !strings.Contains(view, "nothing to copy") {
		t.Fatalf("view missing empty copy notice:\n%s", view)
	}
}

func TestAnalyzer_StaleLoadDropped(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(writeReports(t), nil, 0, nil)
	msg := a.Load()()
	a.Cancel()
	a.Update(msg)
	if len(a.Visible()) != 0 {
		t.Fatal("cancelled load was applied")
	}
}
