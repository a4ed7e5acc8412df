package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// update handles messages. A non-nil PageNav asks the app to switch pages.
func (m *DashboardModel) update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return nil, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouseEvent(msg)

	case DeckDataMsg, DeckTickMsg:
		_, cmd := routeDeckMsg(m.decks, msg)
		return cmd, nil

	case reportsLoadedMsg:
		return m.analyzer.Update(msg), nil

	case kpiLoadedMsg:
		if msg.Gen != m.kpiGen {
			return nil, nil
		}
		m.kpiLoaded = msg.Err == nil
		m.kpi = msg.Summary
		m.kpiErr = ""
		if msg.Err != nil {
			m.kpiErr = errMessage(msg.Err)
			m.log.Warnw("kpi_load_failed", "server", m.serverID, "range", m.timeRange, "err", msg.Err)
		}
		return nil, nil

	case clockTickMsg:
		if msg.Gen != m.clockGen {
			return nil, nil
		}
		m.now = msg.At
		return m.clockTickCmd(), nil

	case SpinnerTickMsg:
		return m.startSpinnerIfNeeded(), nil
	}

	if m.activeView == ViewAnalyzer {
		return m.analyzer.Update(msg), nil
	}
	return nil, nil
}

func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return tea.Quit, nil
	}
	// The analyzer query box swallows every other key while open.
	if m.activeView == ViewAnalyzer && m.analyzer.Capturing() {
		return m.analyzer.Update(msg), nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, nil
	case key.Matches(msg, m.keys.Logout):
		return nil, m.logout()
	case key.Matches(msg, m.keys.NextSection), key.Matches(msg, m.keys.PrevSection):
		m.cycleFocus(key.Matches(msg, m.keys.NextSection))
		return nil, nil
	case key.Matches(msg, m.keys.Overview):
		return m.switchView(ViewOverview), nil
	case key.Matches(msg, m.keys.Analyzer):
		return m.switchView(ViewAnalyzer), nil
	case key.Matches(msg, m.keys.TimeRange):
		return m.cycleTimeRange(), nil
	}

	if m.activeSection == SectionSidebar {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.moveSidebarCursor(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveSidebarCursor(1)
		case key.Matches(msg, m.keys.Enter):
			return m.activateSidebarCursor()
		}
		return nil, nil
	}

	if m.activeView == ViewAnalyzer {
		return m.analyzer.Update(msg), nil
	}
	return m.handleOverviewKey(msg), nil
}

func (m *DashboardModel) handleOverviewKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.ToggleCategory):
		if r := msg.Runes; len(r) == 1 {
			m.chart.Toggle(int(r[0]-'1'))
		}
	case key.Matches(msg, m.keys.Pause):
		m.decks[m.activeDeckIdx].TogglePause()
	case key.Matches(msg, m.keys.Reload):
		stopDecks(m.decks)
		return tea.Batch(startDecks(m.decks), m.startSpinnerIfNeeded())
	case key.Matches(msg, m.keys.Up):
		m.terminal.Scroll(-1)
	case key.Matches(msg, m.keys.Down):
		m.terminal.Scroll(1)
	case key.Matches(msg, m.keys.PageUp):
		m.terminal.Scroll(-10)
	case key.Matches(msg, m.keys.PageDown):
		m.terminal.Scroll(10)
	}
	return nil
}

// cycleFocus walks sidebar -> each deck (overview only) -> sidebar.
func (m *DashboardModel) cycleFocus(forward bool) {
	stops := 2
	if m.activeView == ViewOverview {
		stops = 1 + len(m.decks)
	}
	pos := 0
	if m.activeSection == SectionContent {
		pos = 1
		if m.activeView == ViewOverview {
			pos += m.activeDeckIdx
		}
	}
	if forward {
		pos = (pos + 1) % stops
	} else {
		pos = (pos + stops - 1) % stops
	}
	if pos == 0 {
		m.activeSection = SectionSidebar
		return
	}
	m.activeSection = SectionContent
	if m.activeView == ViewOverview {
		m.activeDeckIdx = pos - 1
	}
}

func (m *DashboardModel) logout() *PageNav {
	m.log.Infow("logout", "user", m.session.User())
	m.session.Logout()
	return &PageNav{PageID: PageLogin}
}

// handleMouseEvent processes mouse interactions.
func (m *DashboardModel) handleMouseEvent(msg tea.MouseMsg) (tea.Cmd, *PageNav) {
	if m.width <= 0 || m.height <= 0 {
		return nil, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.activeView == ViewOverview {
			m.terminal.Scroll(-1)
		}
		return nil, nil
	case tea.MouseButtonWheelDown:
		if m.activeView == ViewOverview {
			m.terminal.Scroll(1)
		}
		return nil, nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil, nil
	}
	return m.handleMouseClick(msg.X, msg.Y)
}

// handleMouseClick focuses the region under the pointer. Clicks on the
// sidebar navigate; clicks on the chart legend toggle a category.
func (m *DashboardModel) handleMouseClick(x, y int) (tea.Cmd, *PageNav) {
	if x < sidebarWidth {
		m.activeSection = SectionSidebar
		if idx, ok := m.sidebarCursorAtMouseRow(y); ok {
			m.sidebarCursor = idx
			return m.activateSidebarCursor()
		}
		return nil, nil
	}

	m.activeSection = SectionContent
	if m.activeView != ViewOverview {
		return nil, nil
	}
	top, termH, _ := m.layoutHeights()
	switch {
	case y >= top && y < top+termH:
		m.activeDeckIdx = 0
	case y >= top+termH:
		m.activeDeckIdx = 1
		m.chart.HandleClick(x-sidebarWidth, y-top-termH)
	}
	return nil, nil
}

func (m *DashboardModel) startSpinnerIfNeeded() tea.Cmd {
	if m.anyDeckLoading() {
		return tea.Tick(120*time.Millisecond, func(_ time.Time) tea.Msg {
			return SpinnerTickMsg{}
		})
	}
	return nil
}

// anyDeckLoading returns true if any visible pane has a fetch in flight.
func (m *DashboardModel) anyDeckLoading() bool {
	if m.activeView == ViewAnalyzer {
		return m.analyzer.loading
	}
	for _, d := range m.decks {
		if d.State().FetchInFlight {
			return true
		}
	}
	return false
}
