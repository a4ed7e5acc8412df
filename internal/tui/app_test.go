package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Fraugrammers/frotect-dashboard/internal/eventsource"
	"github.com/Fraugrammers/frotect-dashboard/internal/session"
)

func newTestDashboard(t *testing.T, sess *session.State) *DashboardModel {
	t.Helper()
	events := writeEvents(t, threeEvents)
	return NewDashboardModel(DashboardConfig{
		Session:         sess,
		Loader:          testLoader(),
		Replay:          testReplayConfig(false),
		TerminalRequest: eventsource.Request{Source: events},
		ChartRequest:    eventsource.Request{Source: events},
		ReportsSource:   writeReports(t),
		ServerID:        "srv-01",
	})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_GatesDashboardBehindLogin(t *testing.T) {
	t.Parallel()

	sess := &session.State{}
	dash := NewDashboardPage(newTestDashboard(t, sess))
	app := NewApp(sess, dash, NewLoginPage(sess, nil))
	if got := app.ActivePage(); got != PageLogin {
		t.Fatalf("start page = %q, want %q", got, PageLogin)
	}

	for _, r := range "ada" {
		app.Update(keyRunes(string(r)))
	}
	app.Update(tea.KeyMsg{Type: tea.KeyEnter}) // to password
	app.Update(tea.KeyMsg{Type: tea.KeyEnter}) // submit

	if !sess.LoggedIn() || sess.User() != "ada" {
		t.Fatalf("session = (%v, %q), want logged in as ada", sess.LoggedIn(), sess.User())
	}
	if got := app.ActivePage(); got != PageDashboard {
		t.Fatalf("page after login = %q, want %q", got, PageDashboard)
	}

	app.Update(keyRunes("L"))
	if sess.LoggedIn() {
		t.Fatal("still logged in after logout")
	}
	if got := app.ActivePage(); got != PageLogin {
		t.Fatalf("page after logout = %q, want %q", got, PageLogin)
	}
}

func TestApp_LoggedInStartsOnDashboard(t *testing.T) {
	t.Parallel()

	sess := &session.State{}
	sess.Login("ops", "")
	app := NewApp(sess, NewDashboardPage(newTestDashboard(t, sess)), NewLoginPage(sess, nil))
	if got := app.ActivePage(); got != PageDashboard {
		t.Fatalf("start page = %q, want %q", got, PageDashboard)
	}
}

func TestLoginPage_EmptySubmissionLogsIn(t *testing.T) {
	t.Parallel()

	sess := &session.State{}
	p := NewLoginPage(sess, nil)
	p.Init()
	p.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, nav := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if nav == nil || nav.PageID != PageDashboard {
		t.Fatalf("nav = %+v, want dashboard", nav)
	}
	if !sess.LoggedIn() {
		t.Fatal("empty submission did not log in")
	}
	if view := p.View(80, 24); !strings.Contains(view, loginFooter) {
		t.Fatal("login view missing footer")
	}
}
