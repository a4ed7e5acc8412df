package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Fraugrammers/frotect-dashboard/internal/session"
)

// App is the top-level Bubble Tea model that routes between pages. Every
// page other than login requires a logged-in session; navigating to one
// without it lands on the login page instead.
type App struct {
	pages      map[string]Page
	activePage string
	session    *session.State
	width      int
	height     int
}

// NewApp creates a new App with the given pages. The first page is the
// requested start page, subject to the session gate.
func NewApp(sess *session.State, pages ...Page) *App {
	pageMap := make(map[string]Page, len(pages))
	var firstID string
	for i, p := range pages {
		pageMap[p.ID()] = p
		if i == 0 {
			firstID = p.ID()
		}
	}
	if sess == nil {
		sess = &session.State{}
	}
	a := &App{
		pages:   pageMap,
		session: sess,
	}
	a.activePage = a.gate(firstID)
	return a
}

// ActivePage returns the id of the page currently shown.
func (a *App) ActivePage() string { return a.activePage }

// gate resolves the page actually shown for a requested id.
func (a *App) gate(id string) string {
	if id == PageLogin || a.session.LoggedIn() {
		return id
	}
	if _, ok := a.pages[PageLogin]; ok {
		return PageLogin
	}
	return id
}

func (a *App) Init() tea.Cmd {
	if p, ok := a.pages[a.activePage]; ok {
		return p.Init()
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = wsm.Width
		a.height = wsm.Height
	}

	p, ok := a.pages[a.activePage]
	if !ok {
		return a, nil
	}

	cmd, nav := p.Update(msg)

	if nav != nil {
		target := a.gate(nav.PageID)
		if next, exists := a.pages[target]; exists && target != a.activePage {
			if l, ok := p.(Leaver); ok {
				l.Leave()
			}
			a.activePage = target
			return a, tea.Batch(cmd, next.Init())
		}
	}

	return a, cmd
}

func (a *App) View() string {
	if p, ok := a.pages[a.activePage]; ok {
		return p.View(a.width, a.height)
	}
	return "No active page"
}
