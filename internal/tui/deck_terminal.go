package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Fraugrammers/frotect-dashboard/internal/eventsource"
	"github.com/Fraugrammers/frotect-dashboard/internal/render"
	"github.com/Fraugrammers/frotect-dashboard/internal/replay"
)

// terminalScrollback bounds how many trailing lines the viewport renders.
const terminalScrollback = 1000

// TerminalDeckConfig configures a TerminalDeck.
type TerminalDeckConfig struct {
	Loader  *eventsource.Loader
	Request eventsource.Request
	Replay  replay.Config
	Text    *render.Text
	Logger  *zap.SugaredLogger
}

// TerminalDeck replays events as colored log lines into a scrolling pane.
type TerminalDeck struct {
	text   *render.Text
	buf    *render.Buffer
	source *ReplaySource
	vp     viewport.Model
	follow bool
}

// NewTerminalDeck creates a terminal deck.
func NewTerminalDeck(conf TerminalDeckConfig) *TerminalDeck {
	text := conf.Text
	if text == nil {
		text = render.NewText()
	}
	d := &TerminalDeck{
		text:   text,
		buf:    &render.Buffer{},
		vp:     viewport.New(0, 0),
		follow: true,
	}
	d.source = NewReplaySource(ReplaySourceConfig{
		ID:      "terminal",
		Loader:  conf.Loader,
		Request: conf.Request,
		Replay:  conf.Replay,
		Observer: func(f replay.Frame) {
			d.text.Observer(d.buf)(f)
		},
		OnLoad: d.onLoad,
		Logger: conf.Logger,
	})
	return d
}

func (d *TerminalDeck) ID() string    { return "terminal" }
func (d *TerminalDeck) Title() string { return "Terminal" }

// Start clears the pane, writes the banner and loads.
func (d *TerminalDeck) Start() tea.Cmd {
	d.buf = &render.Buffer{}
	d.buf.Append(d.text.BannerLine())
	d.follow = true
	return d.source.Start()
}

func (d *TerminalDeck) Stop()                { d.source.Stop() }
func (d *TerminalDeck) State() DeckTypeState { return d.source.State() }
func (d *TerminalDeck) TogglePause() bool    { return d.source.TogglePause() }

// Lines returns everything written so far, banner included.
func (d *TerminalDeck) Lines() []string { return d.buf.Lines() }

func (d *TerminalDeck) onLoad(res eventsource.Result) {
	if res.Err != nil {
		d.buf.Append(d.text.FetchError(res.Message()))
	}
}

func (d *TerminalDeck) Update(msg tea.Msg) (bool, tea.Cmd) {
	return d.source.Update(msg)
}

// Scroll moves the viewport; scrolling back to the bottom resumes following.
func (d *TerminalDeck) Scroll(delta int) {
	if delta < 0 {
		d.vp.LineUp(-delta)
	} else {
		d.vp.LineDown(delta)
	}
	d.follow = d.vp.AtBottom()
}

func (d *TerminalDeck) Render(width, height int, active bool) string {
	style := sectionStyle.Width(width - 2).Height(height - 2)
	if active {
		style = activeSectionStyle.Width(width - 2).Height(height - 2)
	}

	title := chartTitleStyle.Render(d.Title() + d.State().statusSuffix())

	innerW := max(width-4, 1)
	innerH := max(height-3, 1)
	d.vp.Width = innerW
	d.vp.Height = innerH

	lines := d.buf.Lines()
	if len(lines) > terminalScrollback {
		lines = lines[len(lines)-terminalScrollback:]
	}
	d.vp.SetContent(strings.Join(lines, "\n"))
	if d.follow {
		d.vp.GotoBottom()
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, title, d.vp.View()))
}
