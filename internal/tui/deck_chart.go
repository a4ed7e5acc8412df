package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Fraugrammers/frotect-dashboard/internal/aggregate"
	"github.com/Fraugrammers/frotect-dashboard/internal/eventsource"
	"github.com/Fraugrammers/frotect-dashboard/internal/model"
	"github.com/Fraugrammers/frotect-dashboard/internal/render"
	"github.com/Fraugrammers/frotect-dashboard/internal/replay"
)

const (
	legendWidth   = 24
	minChartWidth = 20
)

// ChartDeckConfig configures a ChartDeck.
type ChartDeckConfig struct {
	Loader     *eventsource.Loader
	Request    eventsource.Request
	Replay     replay.Config
	Categories []string
	CategoryOf aggregate.CategoryFunc
	Logger     *zap.SugaredLogger
}

// ChartDeck replays events into per-second stacked bars with a clickable
// legend.
type ChartDeck struct {
	categories []string
	folder     *aggregate.Folder
	visibility *render.Visibility
	source     *ReplaySource
	series     aggregate.Series
	loadErr    string
	revealed   int
	total      int

	// legend hit-testing, from the last render
	legendX   int
	legendTop int
}

// NewChartDeck creates a chart deck. Categories default to the six log
// levels and CategoryOf to model.CategoryOf.
func NewChartDeck(conf ChartDeckConfig) *ChartDeck {
	cats := conf.Categories
	if len(cats) == 0 {
		cats = model.LevelNames()
	}
	catOf := conf.CategoryOf
	if catOf == nil {
		catOf = model.CategoryOf
	}
	loc := conf.Replay.Location
	if loc == nil {
		loc = time.Local
	}
	d := &ChartDeck{
		categories: cats,
		folder:     aggregate.NewFolder(cats, catOf, loc),
		visibility: render.NewVisibility(),
	}
	d.series = d.folder.Series()
	d.source = NewReplaySource(ReplaySourceConfig{
		ID:       "chart",
		Loader:   conf.Loader,
		Request:  conf.Request,
		Replay:   conf.Replay,
		Observer: d.observe,
		OnLoad:   d.onLoad,
		Logger:   conf.Logger,
	})
	return d
}

func (d *ChartDeck) ID() string    { return "chart" }
func (d *ChartDeck) Title() string { return "Logs by level" }

// Start resets the series and loads. Hidden categories survive a reload.
func (d *ChartDeck) Start() tea.Cmd {
	d.folder.Reset()
	d.series = d.folder.Series()
	d.loadErr = ""
	d.revealed, d.total = 0, 0
	return d.source.Start()
}

func (d *ChartDeck) Stop()                { d.source.Stop() }
func (d *ChartDeck) State() DeckTypeState { return d.source.State() }
func (d *ChartDeck) TogglePause() bool    { return d.source.TogglePause() }

func (d *ChartDeck) Update(msg tea.Msg) (bool, tea.Cmd) {
	return d.source.Update(msg)
}

// Series returns the current aggregated series.
func (d *ChartDeck) Series() aggregate.Series { return d.series }

// Visibility exposes the hidden-category set.
func (d *ChartDeck) Visibility() *render.Visibility { return d.visibility }

// Categories returns the configured category order.
func (d *ChartDeck) Categories() []string { return d.categories }

// Toggle flips the category at idx (0-based) and reports whether it exists.
func (d *ChartDeck) Toggle(idx int) bool {
	if idx < 0 || idx >= len(d.categories) {
		return false
	}
	d.visibility.Toggle(d.categories[idx])
	return true
}

// HandleClick toggles the legend entry under (x, y), relative to the deck's
// top-left corner, as of the last render.
func (d *ChartDeck) HandleClick(x, y int) bool {
	if x < d.legendX {
		return false
	}
	return d.Toggle(y - d.legendTop)
}

func (d *ChartDeck) observe(f replay.Frame) {
	d.series = d.folder.Fold(f.Events)
	d.revealed = len(f.Events)
	d.total = f.State.Total
}

func (d *ChartDeck) onLoad(res eventsource.Result) {
	d.loadErr = res.Message()
}

func (d *ChartDeck) Render(width, height int, active bool) string {
	style := sectionStyle.Width(width - 2).Height(height - 2)
	if active {
		style = activeSectionStyle.Width(width - 2).Height(height - 2)
	}

	innerW := max(width-4, minChartWidth)
	left := d.Title() + d.State().statusSuffix()
	right := render.RevealedText(d.revealed, d.total)
	header := left
	if gap := innerW - lipgloss.Width(left) - lipgloss.Width(right); gap > 0 {
		header = left + strings.Repeat(" ", gap) + right
	}

	rows := []string{chartTitleStyle.Render(header)}
	for _, line := range render.ChartStatus(d.loadErr, d.series.Empty()) {
		if d.loadErr != "" && strings.HasPrefix(line, "Failed") {
			rows = append(rows, errorStyle.Render(line))
		} else {
			rows = append(rows, helpStyle.Render(line))
		}
	}

	// border + padding put content one row down and two columns right
	d.legendTop = 1 + len(rows)
	chartH := max(height-2-len(rows)-1, 3)
	rows = append(rows, d.renderBody(innerW, chartH))

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderBody draws the bars with the legend beside them and the first and
// last bucket keys underneath.
func (d *ChartDeck) renderBody(width, height int) string {
	chartW := max(width-legendWidth-2, minChartWidth)
	d.legendX = 2 + chartW + 2

	stacks := render.Stacks(d.series, d.visibility)
	maxBars := max(chartW/2, 1)
	if len(stacks) > maxBars {
		stacks = stacks[len(stacks)-maxBars:]
	}

	bc := barchart.New(chartW, height,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(1),
		barchart.WithNoAxis(),
	)
	empty := grayStyle
	for i := len(stacks); i < maxBars; i++ {
		bc.Push(barchart.BarData{
			Values: []barchart.BarValue{{Name: "EMPTY", Value: 0, Style: empty}},
		})
	}
	for _, st := range stacks {
		values := make([]barchart.BarValue, 0, len(st.Segments))
		for _, seg := range st.Segments {
			if seg.Value == 0 {
				continue
			}
			values = append(values, barchart.BarValue{
				Name:  seg.Category,
				Value: float64(seg.Value),
				Style: categoryStyle(seg.Category),
			})
		}
		if len(values) == 0 {
			values = append(values, barchart.BarValue{Name: "EMPTY", Value: 0, Style: empty})
		}
		bc.Push(barchart.BarData{Label: st.Key, Values: values})
	}
	bc.Draw()

	chartLines := strings.Split(bc.View(), "\n")
	legend := d.legendLines()

	n := max(len(chartLines), len(legend))
	var b strings.Builder
	for i := 0; i < n; i++ {
		c := ""
		if i < len(chartLines) {
			c = chartLines[i]
		}
		if pad := chartW - lipgloss.Width(c); pad > 0 {
			c += strings.Repeat(" ", pad)
		}
		l := ""
		if i < len(legend) {
			l = legend[i]
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(c + "  " + l)
	}

	if len(stacks) > 0 {
		first, last := stacks[0].Key, stacks[len(stacks)-1].Key
		axis := first
		if gap := chartW - len(first) - len(last); gap > 0 && first != last {
			axis = first + strings.Repeat(" ", gap) + last
		}
		b.WriteString("\n" + helpStyle.Render(axis))
	}
	return b.String()
}

// legendLines lists every category with its key number and total. Hidden
// categories stay listed, grayed out.
func (d *ChartDeck) legendLines() []string {
	totals := d.series.Totals()
	lines := make([]string, 0, len(d.categories))
	for i, cat := range d.categories {
		total := 0
		if i < len(totals) {
			total = totals[i]
		}
		text := fmt.Sprintf("%d %-9s:%6d", i+1, cat, total)
		if d.visibility.Hidden(cat) {
			lines = append(lines, grayStyle.Strikethrough(true).Render(text))
			continue
		}
		lines = append(lines, categoryTextStyle(cat).Render(text))
	}
	return lines
}
