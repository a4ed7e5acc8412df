package tui

import (
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Fraugrammers/frotect-dashboard/internal/aggregate"
	"github.com/Fraugrammers/frotect-dashboard/internal/eventsource"
	"github.com/Fraugrammers/frotect-dashboard/internal/model"
	"github.com/Fraugrammers/frotect-dashboard/internal/render"
	"github.com/Fraugrammers/frotect-dashboard/internal/replay"
	"github.com/Fraugrammers/frotect-dashboard/internal/session"
)

// Section represents the focusable dashboard regions.
type Section int

const (
	SectionSidebar Section = iota // navigation sidebar
	SectionContent                // active view
)

// View identifiers.
const (
	ViewOverview = "overview"
	ViewAnalyzer = "analyzer"
)

// ClockConfig describes the sidebar clock card.
type ClockConfig struct {
	City     string
	Country  string
	TZLabel  string
	Location *time.Location
}

// DashboardConfig wires the dashboard to its data sources.
type DashboardConfig struct {
	Session *session.State
	Loader  *eventsource.Loader
	Client  *http.Client
	Timeout time.Duration
	Text    *render.Text
	Replay  replay.Config

	TerminalRequest eventsource.Request
	ChartRequest    eventsource.Request
	Categories      []string
	CategoryOf      aggregate.CategoryFunc

	ReportsSource string
	KPIEndpoint   string // empty disables the KPI strip
	ServerID      string
	TimeRange     string
	Clock         ClockConfig

	Logger *zap.SugaredLogger
	Now    func() time.Time
}

// clockTickMsg advances the header clock once per second.
type clockTickMsg struct {
	Gen uint64
	At  time.Time
}

// SpinnerTickMsg triggers a re-render for loading spinners.
type SpinnerTickMsg struct{}

// HeaderState holds the server selector, time range and clock.
type HeaderState struct {
	serverID  string
	timeRange string
	clock     ClockConfig
	now       time.Time
	clockGen  uint64
}

// KPIState holds the resource strip.
type KPIState struct {
	kpiEndpoint string
	kpi         model.KPISummary
	kpiLoaded   bool
	kpiErr      string
	kpiGen      uint64
}

// SidebarState holds sidebar navigation state.
type SidebarState struct {
	sidebarCursor int
}

// NavigationState holds section, view and deck focus.
type NavigationState struct {
	activeSection Section
	activeView    string
	activeDeckIdx int
}

// DashboardModel is the logged-in shell: sidebar, header, overview decks
// and the analyzer.
type DashboardModel struct {
	HeaderState
	KPIState
	SidebarState
	NavigationState

	session  *session.State
	keys     KeyMap
	log      *zap.SugaredLogger
	client   *http.Client
	timeout  time.Duration
	nowFn    func() time.Time
	terminal *TerminalDeck
	chart    *ChartDeck
	decks    []Deck
	analyzer *Analyzer

	width  int
	height int
}

// NewDashboardModel creates the dashboard.
func NewDashboardModel(conf DashboardConfig) *DashboardModel {
	log := conf.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if conf.Session == nil {
		conf.Session = &session.State{}
	}
	if conf.Loader == nil {
		conf.Loader = eventsource.NewLoader(eventsource.LoaderConfig{Client: conf.Client, Logger: log})
	}
	if conf.Client == nil {
		conf.Client = http.DefaultClient
	}
	if conf.Timeout <= 0 {
		conf.Timeout = model.DefaultRequestTimeout
	}
	if conf.Replay.TickInterval <= 0 {
		conf.Replay.TickInterval = model.DefaultTickInterval
	}
	if conf.TimeRange == "" {
		conf.TimeRange = model.DefaultTimeRange
	}
	if conf.Now == nil {
		conf.Now = time.Now
	}
	if conf.Clock.Location == nil {
		conf.Clock.Location = time.Local
	}

	terminal := NewTerminalDeck(TerminalDeckConfig{
		Loader:  conf.Loader,
		Request: conf.TerminalRequest,
		Replay:  conf.Replay,
		Text:    conf.Text,
		Logger:  log.Named("terminal"),
	})
	chart := NewChartDeck(ChartDeckConfig{
		Loader:     conf.Loader,
		Request:    conf.ChartRequest,
		Replay:     conf.Replay,
		Categories: conf.Categories,
		CategoryOf: conf.CategoryOf,
		Logger:     log.Named("chart"),
	})

	return &DashboardModel{
		HeaderState: HeaderState{
			serverID:  conf.ServerID,
			timeRange: conf.TimeRange,
			clock:     conf.Clock,
			now:       conf.Now(),
		},
		KPIState: KPIState{kpiEndpoint: conf.KPIEndpoint},
		NavigationState: NavigationState{
			activeSection: SectionContent,
			activeView:    ViewOverview,
		},
		session:  conf.Session,
		keys:     DefaultKeyMap(),
		log:      log,
		client:   conf.Client,
		timeout:  conf.Timeout,
		nowFn:    conf.Now,
		terminal: terminal,
		chart:    chart,
		decks:    []Deck{terminal, chart},
		analyzer: NewAnalyzer(conf.ReportsSource, conf.Client, conf.Timeout, conf.Clock.Location),
	}
}

// Terminal returns the terminal deck.
func (m *DashboardModel) Terminal() *TerminalDeck { return m.terminal }

// Chart returns the chart deck.
func (m *DashboardModel) Chart() *ChartDeck { return m.chart }

// Analyzer returns the report browser.
func (m *DashboardModel) Analyzer() *Analyzer { return m.analyzer }

// ActiveView returns the id of the view in the content area.
func (m *DashboardModel) ActiveView() string { return m.activeView }

// TimeRange returns the selected KPI range.
func (m *DashboardModel) TimeRange() string { return m.timeRange }

// Init mounts the active view and starts the clock.
func (m *DashboardModel) Init() tea.Cmd {
	m.clockGen++
	return tea.Batch(
		m.mountView(m.activeView),
		m.clockTickCmd(),
		m.fetchKPI(),
		m.startSpinnerIfNeeded(),
	)
}

// Teardown stops every timer and drops every pending load.
func (m *DashboardModel) Teardown() {
	m.unmountView(m.activeView)
	m.clockGen++
	m.kpiGen++
}

func (m *DashboardModel) mountView(id string) tea.Cmd {
	switch id {
	case ViewOverview:
		return startDecks(m.decks)
	case ViewAnalyzer:
		return m.analyzer.Load()
	}
	return nil
}

func (m *DashboardModel) unmountView(id string) {
	switch id {
	case ViewOverview:
		stopDecks(m.decks)
	case ViewAnalyzer:
		m.analyzer.Cancel()
	}
}

// switchView unmounts the current view before mounting the next, so the
// previous view's timers are cleared first.
func (m *DashboardModel) switchView(id string) tea.Cmd {
	if id == m.activeView {
		return nil
	}
	m.unmountView(m.activeView)
	m.activeView = id
	m.activeDeckIdx = 0
	return tea.Batch(m.mountView(id), m.startSpinnerIfNeeded())
}

func (m *DashboardModel) clockTickCmd() tea.Cmd {
	gen := m.clockGen
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg{Gen: gen, At: t}
	})
}

func (m *DashboardModel) fetchKPI() tea.Cmd {
	m.kpiGen++
	if m.kpiEndpoint == "" {
		return nil
	}
	m.kpiLoaded = false
	m.kpiErr = ""
	return fetchKPICmd(m.client, KPIURL(m.kpiEndpoint, m.serverID, m.timeRange), m.timeout, m.kpiGen)
}

// cycleTimeRange advances 1h -> 24h -> 7d -> 1h.
func (m *DashboardModel) cycleTimeRange() tea.Cmd {
	next := model.TimeRanges[0]
	for i, r := range model.TimeRanges {
		if r == m.timeRange {
			next = model.TimeRanges[(i+1)%len(model.TimeRanges)]
			break
		}
	}
	m.timeRange = next
	return m.fetchKPI()
}

// DashboardPage adapts DashboardModel to the Page interface.
type DashboardPage struct {
	model *DashboardModel
}

// NewDashboardPage creates the dashboard page.
func NewDashboardPage(m *DashboardModel) *DashboardPage {
	return &DashboardPage{model: m}
}

func (p *DashboardPage) ID() string    { return PageDashboard }
func (p *DashboardPage) Init() tea.Cmd { return p.model.Init() }
func (p *DashboardPage) Leave()        { p.model.Teardown() }

func (p *DashboardPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	return p.model.update(msg)
}

func (p *DashboardPage) View(width, height int) string {
	p.model.width = width
	p.model.height = height
	return p.model.View()
}
