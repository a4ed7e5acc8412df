package tui

import tea "github.com/charmbracelet/bubbletea"

// Page represents a top-level screen in the TUI (login, dashboard).
type Page interface {
	ID() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// Leaver is implemented by pages that own timers or in-flight loads. Leave
// is called synchronously when the app navigates away from the page.
type Leaver interface {
	Leave()
}

// PageNav is returned from Update to request a page switch.
type PageNav struct {
	PageID string
	Params interface{}
}

// Page identifiers.
const (
	PageLogin     = "login"
	PageDashboard = "dashboard"
)
