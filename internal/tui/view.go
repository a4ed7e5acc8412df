package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

const (
	minWidth  = 60
	minHeight = 20
)

// contentWidth returns the width available for main content, accounting for sidebar.
func (m *DashboardModel) contentWidth() int {
	w := m.width - sidebarWidth
	if w < 40 {
		w = 40
	}
	return w
}

// layoutHeights splits the content column: the first content row below the
// header and KPI strip, then the terminal and chart deck heights.
func (m *DashboardModel) layoutHeights() (top, terminalHeight, chartHeight int) {
	const statusLineHeight = 1
	top = 1
	if m.kpiEndpoint != "" {
		top = 2
	}
	usable := m.height - top - statusLineHeight
	terminalHeight = usable * 45 / 100
	if terminalHeight < 6 {
		terminalHeight = 6
	}
	chartHeight = usable - terminalHeight
	return top, terminalHeight, chartHeight
}

// View renders the dashboard.
func (m *DashboardModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing dashboard..."
	}
	if m.height < minHeight || m.width < minWidth {
		return "Terminal too small. Resize to at least 60x20."
	}

	cw := m.contentWidth()
	top, termH, chartH := m.layoutHeights()

	sections := []string{m.renderHeader(cw)}
	if m.kpiEndpoint != "" {
		sections = append(sections, renderKPIStrip(m.kpi, m.kpiLoaded, m.kpiErr, cw))
	}

	switch m.activeView {
	case ViewAnalyzer:
		sections = append(sections, m.analyzer.Render(cw, m.height-top-1))
	default:
		focused := m.activeSection == SectionContent
		sections = append(sections,
			m.renderDeck(m.terminal, cw, termH, focused && m.activeDeckIdx == 0),
			m.renderDeck(m.chart, cw, chartH, focused && m.activeDeckIdx == 1),
		)
	}
	sections = append(sections, m.renderStatusLine(cw))

	contentArea := lipgloss.JoinVertical(lipgloss.Left, sections...)
	sidebar := m.renderSidebar(m.height - 2)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, contentArea)
}

func (m *DashboardModel) renderDeck(d Deck, width, height int, active bool) string {
	if d.State().FetchInFlight {
		style := sectionStyle.Width(width - 2).Height(height - 2)
		body := lipgloss.JoinVertical(lipgloss.Left,
			chartTitleStyle.Render(d.Title()),
			renderLoadingPlaceholder(width-4, height-3),
		)
		return style.Render(body)
	}
	return d.Render(width, height, active)
}

// renderHeader shows the product, selected server, time range and version.
func (m *DashboardModel) renderHeader(width int) string {
	server := m.serverID
	if server == "" {
		server = "-"
	}
	left := headerStyle.Render("Frotect") + grayStyle.Render("  server ") + server +
		grayStyle.Render("  range ") + valueStyle.Render(m.timeRange)
	right := grayStyle.Render("Latest version: v1")
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *DashboardModel) renderStatusLine(width int) string {
	k := m.keys
	var bindings []key.Binding
	switch m.activeView {
	case ViewAnalyzer:
		bindings = []key.Binding{k.Overview, k.Query, k.CycleTag, k.Sort, k.CopyURL, k.TimeRange, k.Logout, k.Quit}
	default:
		bindings = []key.Binding{k.Analyzer, k.ToggleCategory, k.Pause, k.Reload, k.TimeRange, k.NextSection, k.Logout, k.Quit}
	}
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	return helpStyle.MaxWidth(width).Render(strings.Join(hints, "  "))
}
