package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Fraugrammers/frotect-dashboard/internal/eventsource"
	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// kpiLoadedMsg carries one KPI fetch result.
type kpiLoadedMsg struct {
	Gen     uint64
	Summary model.KPISummary
	Err     error
}

// KPIURL builds the summary endpoint for a server and range.
func KPIURL(base, serverID, timeRange string) string {
	q := url.Values{}
	q.Set("serverId", serverID)
	q.Set("range", timeRange)
	return base + "?" + q.Encode()
}

// FetchKPI loads one summary.
func FetchKPI(ctx context.Context, client *http.Client, endpoint string) (model.KPISummary, error) {
	var s model.KPISummary
	data, _, err := eventsource.Fetch(ctx, client, endpoint, "application/json")
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decoding kpi: %w", err)
	}
	return s, nil
}

func fetchKPICmd(client *http.Client, endpoint string, timeout time.Duration, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s, err := FetchKPI(ctx, client, endpoint)
		return kpiLoadedMsg{Gen: gen, Summary: s, Err: err}
	}
}

// renderKPIStrip draws the cpu/ram/disk/alerts cards on one row.
func renderKPIStrip(s model.KPISummary, loaded bool, errMsg string, width int) string {
	if errMsg != "" {
		return errorStyle.Render("KPI unavailable: " + errMsg)
	}
	if !loaded {
		return helpStyle.Render("KPI loading…")
	}
	cards := []struct{ label, value string }{
		{"CPU", fmt.Sprintf("%.1f%%", s.CPU)},
		{"RAM", fmt.Sprintf("%.1f%%", s.RAM)},
		{"DISK", fmt.Sprintf("%.1f%%", s.Disk)},
		{"ALERTS", fmt.Sprintf("%d", s.Alerts)},
	}
	cardW := max(width/len(cards)-1, 10)
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, lipgloss.NewStyle().Width(cardW).Render(
			grayStyle.Render(c.label+" ")+valueStyle.Render(c.value),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

// errMessage strips the source prefix from a load error for display.
func errMessage(err error) string {
	var le *eventsource.LoadError
	if errors.As(err, &le) && le.Err != nil {
		return le.Err.Error()
	}
	return err.Error()
}
