package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type sidebarItemKind int

const (
	sidebarItemView sidebarItemKind = iota
	sidebarItemLogout
)

type sidebarItem struct {
	kind  sidebarItemKind
	view  string
	label string
}

var sidebarItems = []sidebarItem{
	{kind: sidebarItemView, view: ViewOverview, label: "OVERVIEW"},
	{kind: sidebarItemView, view: ViewAnalyzer, label: "ANALYZER"},
	{kind: sidebarItemLogout, label: "LOGOUT"},
}

func (m *DashboardModel) clampSidebarCursor() {
	if m.sidebarCursor < 0 {
		m.sidebarCursor = 0
	}
	if m.sidebarCursor >= len(sidebarItems) {
		m.sidebarCursor = len(sidebarItems) - 1
	}
}

func (m *DashboardModel) moveSidebarCursor(delta int) {
	m.sidebarCursor += delta
	m.clampSidebarCursor()
}

func (m *DashboardModel) activateSidebarCursor() (tea.Cmd, *PageNav) {
	m.clampSidebarCursor()
	item := sidebarItems[m.sidebarCursor]
	switch item.kind {
	case sidebarItemLogout:
		return nil, m.logout()
	default:
		return m.switchView(item.view), nil
	}
}

func (m *DashboardModel) buildSidebarLines(height int) ([]string, map[int]int) {
	rowToCursor := make(map[int]int)
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("F.R.O.T.E.C.T."),
		grayStyle.Render("fraugrammers"),
		"",
	}

	for i, item := range sidebarItems {
		label := "  " + item.label
		if item.kind == sidebarItemView && m.activeView == item.view {
			label = "> " + item.label
		}
		rowToCursor[len(lines)] = i
		if m.activeSection == SectionSidebar && m.sidebarCursor == i {
			label = selectedStyle.Render(label)
		}
		lines = append(lines, label)
	}

	card := m.clockCardLines()
	if pad := height - len(lines) - len(card); pad > 0 {
		lines = append(lines, make([]string, pad)...)
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, card...)
	return lines, rowToCursor
}

// clockCardLines renders weekday and date, the time, then location.
func (m *DashboardModel) clockCardLines() []string {
	now := m.now.In(m.clock.Location)
	inner := sidebarWidth - 4
	spread := func(l, r string) string {
		if gap := inner - lipgloss.Width(l) - lipgloss.Width(r); gap > 0 {
			return l + strings.Repeat(" ", gap) + r
		}
		return l
	}
	place := m.clock.City
	if m.clock.Country != "" {
		place += ", " + m.clock.Country
	}
	tz := m.clock.TZLabel
	if tz == "" {
		tz = now.Format("MST")
	}
	return []string{
		grayStyle.Render(spread(strings.ToUpper(now.Format("Monday")), now.Format("Jan 02"))),
		valueStyle.Render(lipgloss.PlaceHorizontal(inner, lipgloss.Center, now.Format("15:04:05"))),
		grayStyle.Render(spread(strings.ToUpper(place), tz)),
	}
}

func (m *DashboardModel) sidebarCursorAtMouseRow(y int) (int, bool) {
	_, rowToCursor := m.buildSidebarLines(m.height - 2)

	// Mouse rows include the border row above the content.
	for _, offset := range []int{-1, 0, -2, 1} {
		row := y + offset
		if row < 0 {
			continue
		}
		if idx, ok := rowToCursor[row]; ok {
			return idx, true
		}
	}
	return 0, false
}

// renderSidebar renders navigation and the clock card.
func (m *DashboardModel) renderSidebar(height int) string {
	m.clampSidebarCursor()

	style := lipgloss.NewStyle().
		Width(sidebarWidth-2).
		Height(height).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Padding(0, 1)

	if m.activeSection == SectionSidebar {
		style = style.BorderForeground(ColorBlue)
	}

	lines, _ := m.buildSidebarLines(height)
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
