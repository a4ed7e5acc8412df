package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Fraugrammers/frotect-dashboard/internal/model"
	"github.com/Fraugrammers/frotect-dashboard/internal/reports"
)

// reportsLoadedMsg carries a catalog load.
type reportsLoadedMsg struct {
	Gen    uint64
	Result reports.Result
}

// Analyzer lists the report catalog with query, tag and sort controls.
type Analyzer struct {
	source  string
	client  *http.Client
	timeout time.Duration
	loc     *time.Location
	keys    KeyMap

	gen     uint64
	loading bool
	all     []model.Report
	tags    []string
	errMsg  string

	filter   reports.Filter
	query    textinput.Model
	querying bool
	cursor   int

	copyFn func(string) error
	notice string
}

// NewAnalyzer creates the analyzer over a catalog source.
func NewAnalyzer(source string, client *http.Client, timeout time.Duration, loc *time.Location) *Analyzer {
	q := textinput.New()
	q.Placeholder = "search name or tag"
	q.Prompt = "/ "
	q.CharLimit = 128
	if loc == nil {
		loc = time.Local
	}
	if timeout <= 0 {
		timeout = model.DefaultRequestTimeout
	}
	return &Analyzer{
		source:  source,
		client:  client,
		timeout: timeout,
		loc:     loc,
		keys:    DefaultKeyMap(),
		filter:  reports.Filter{Tag: reports.AllTag, Sort: reports.SortNew},
		query:   q,
		copyFn:  clipboard.WriteAll,
	}
}

// Load fetches the catalog, discarding any older load still in flight.
func (a *Analyzer) Load() tea.Cmd {
	a.gen++
	a.loading = true
	gen, source, client, timeout := a.gen, a.source, a.client, a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return reportsLoadedMsg{Gen: gen, Result: reports.Load(ctx, client, source)}
	}
}

// Cancel drops the pending load, if any.
func (a *Analyzer) Cancel() {
	a.gen++
	a.loading = false
}

// Capturing reports whether the query input owns the keyboard.
func (a *Analyzer) Capturing() bool { return a.querying }

// Visible returns the filtered, sorted list.
func (a *Analyzer) Visible() []model.Report {
	return reports.Apply(a.all, a.filter)
}

// Filter returns the active filter.
func (a *Analyzer) Filter() reports.Filter { return a.filter }

// Selected returns the report under the cursor.
func (a *Analyzer) Selected() (model.Report, bool) {
	list := a.Visible()
	if a.cursor < 0 || a.cursor >= len(list) {
		return model.Report{}, false
	}
	return list[a.cursor], true
}

// SelectedURL is the selected report's link resolved against the catalog
// source, or "" when nothing is selected.
func (a *Analyzer) SelectedURL() string {
	r, ok := a.Selected()
	if !ok {
		return ""
	}
	return reports.ResolveURL(a.source, r.URL)
}

func (a *Analyzer) copySelected() {
	link := a.SelectedURL()
	if link == "" {
		a.notice = "nothing to copy"
		return
	}
	if err := a.copyFn(link); err != nil {
		a.notice = "copy failed: " + err.Error()
		return
	}
	a.notice = "copied " + link
}

func (a *Analyzer) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case reportsLoadedMsg:
		if msg.Gen != a.gen {
			return nil
		}
		a.loading = false
		a.all = msg.Result.Reports
		a.tags = reports.AllTags(a.all)
		a.errMsg = msg.Result.Message()
		a.clampCursor()
		return nil

	case tea.KeyMsg:
		if a.querying {
			return a.updateQuery(msg)
		}
		a.notice = ""
		switch {
		case key.Matches(msg, a.keys.Query):
			a.querying = true
			a.query.SetValue(a.filter.Query)
			return a.query.Focus()
		case key.Matches(msg, a.keys.CycleTag):
			a.filter.Tag = reports.NextTag(a.filter.Tag, a.tags)
			a.clampCursor()
		case key.Matches(msg, a.keys.Sort):
			a.filter.Sort = a.filter.Sort.Next()
		case key.Matches(msg, a.keys.Up):
			a.cursor--
			a.clampCursor()
		case key.Matches(msg, a.keys.Down):
			a.cursor++
			a.clampCursor()
		case key.Matches(msg, a.keys.CopyURL):
			a.copySelected()
		case key.Matches(msg, a.keys.Reload):
			return a.Load()
		}
	}
	return nil
}

func (a *Analyzer) updateQuery(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Enter):
		a.querying = false
		a.query.Blur()
		return nil
	case key.Matches(msg, a.keys.Escape):
		a.querying = false
		a.query.Blur()
		a.query.SetValue("")
		a.filter.Query = ""
		a.clampCursor()
		return nil
	}
	var cmd tea.Cmd
	a.query, cmd = a.query.Update(msg)
	a.filter.Query = a.query.Value()
	a.clampCursor()
	return cmd
}

func (a *Analyzer) clampCursor() {
	n := len(a.Visible())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *Analyzer) Render(width, height int) string {
	style := activeSectionStyle.Width(width - 2).Height(height - 2)
	if a.loading && a.all == nil {
		return style.Render(renderLoadingPlaceholder(width-4, height-4))
	}

	innerW := max(width-4, 20)
	visible := a.Visible()

	controls := fmt.Sprintf("tag: %s   sort: %s", a.filter.Tag, a.filter.Sort)
	var queryLine string
	if a.querying {
		queryLine = a.query.View()
	} else if a.filter.Query != "" {
		queryLine = grayStyle.Render("/ " + a.filter.Query)
	} else {
		queryLine = helpStyle.Render("/ search   g tag   s sort   c copy url   r reload")
	}

	status := reports.StatusText(len(visible), len(a.all), a.errMsg)
	statusStyle := helpStyle
	if a.errMsg != "" {
		statusStyle = errorStyle
	}

	rows := []string{
		chartTitleStyle.Render("Reports"),
		queryLine,
		grayStyle.Render(controls),
		"",
	}
	listH := max(height-2-len(rows)-3, 1)
	rows = append(rows, a.renderList(visible, innerW, listH))
	rows = append(rows, "", a.renderDetail(innerW), statusStyle.Render(status))
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a *Analyzer) renderList(list []model.Report, width, height int) string {
	if len(list) == 0 {
		return helpStyle.Render("No reports match.")
	}
	start := 0
	if a.cursor >= height {
		start = a.cursor - height + 1
	}
	end := min(start+height, len(list))

	nameW := max(width-46, 12)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := list[i]
		name := r.Name
		if len(name) > nameW {
			name = name[:nameW-1] + "~"
		}
		line := fmt.Sprintf("%-*s %8s  %-19s %s",
			nameW, name,
			reports.FormatBytes(r.SizeBytes),
			reports.FormatDate(r.CreatedAt, a.loc),
			strings.Join(r.Tags, ","),
		)
		if i == a.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderDetail shows the selected report's link, or the last copy notice.
func (a *Analyzer) renderDetail(width int) string {
	if a.notice != "" {
		return lipgloss.NewStyle().MaxWidth(width).Render(valueStyle.Render(a.notice))
	}
	link := a.SelectedURL()
	if link == "" {
		return ""
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(grayStyle.Render("url ") + link)
}
