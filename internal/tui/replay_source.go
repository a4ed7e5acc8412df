package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Fraugrammers/frotect-dashboard/internal/eventsource"
	"github.com/Fraugrammers/frotect-dashboard/internal/replay"
)

// DeckTickMsg fires independently for each deck.
type DeckTickMsg struct {
	DeckID string
	Gen    uint64
	At     time.Time
}

// DeckDataMsg carries a finished load back to the deck that asked for it.
type DeckDataMsg struct {
	DeckID string
	Gen    uint64
	Result eventsource.Result
}

// ReplaySourceConfig wires one replay pipeline.
type ReplaySourceConfig struct {
	ID       string
	Loader   *eventsource.Loader
	Request  eventsource.Request
	Replay   replay.Config
	Observer replay.Observer
	// OnLoad runs before the arming frame, once per completed load.
	OnLoad func(eventsource.Result)
	Logger *zap.SugaredLogger
}

// ReplaySource owns one loader request, one cursor and one tick chain. Each
// Start bumps the generation; ticks and load results stamped with an older
// generation are dropped, so a stopped source never advances again.
type ReplaySource struct {
	conf   ReplaySourceConfig
	log    *zap.SugaredLogger
	cursor *replay.Cursor
	frames *replay.Emitter
	gen    uint64
	cancel context.CancelFunc
	state  DeckTypeState
}

// NewReplaySource creates an idle source.
func NewReplaySource(conf ReplaySourceConfig) *ReplaySource {
	log := conf.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if conf.Loader == nil {
		conf.Loader = eventsource.NewLoader()
	}
	return &ReplaySource{
		conf: conf,
		log:  log,
		state: DeckTypeState{
			TypeID:   conf.ID,
			Interval: conf.Replay.TickInterval,
		},
	}
}

// Start tears down any running replay and issues a fresh load.
func (r *ReplaySource) Start() tea.Cmd {
	r.Stop()
	r.gen++

	cursor, err := replay.NewCursor(r.conf.Replay)
	if err != nil {
		r.cursor, r.frames = nil, nil
		r.recordError(err.Error())
		r.log.Warnw("replay_config_invalid", "deck", r.conf.ID, "err", err)
		return nil
	}
	r.cursor = cursor
	r.frames = replay.NewEmitter(cursor, r.conf.Observer)

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.state.FetchInFlight = true

	id, gen, loader, req := r.conf.ID, r.gen, r.conf.Loader, r.conf.Request
	return func() tea.Msg {
		return DeckDataMsg{DeckID: id, Gen: gen, Result: loader.Load(ctx, req)}
	}
}

// Stop clears the pending tick and abandons any in-flight load.
func (r *ReplaySource) Stop() {
	r.gen++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.state.FetchInFlight = false
}

// Generation returns the current liveness stamp.
func (r *ReplaySource) Generation() uint64 { return r.gen }

// State returns a snapshot of the tick state.
func (r *ReplaySource) State() DeckTypeState { return r.state }

// Cursor returns the active cursor, or nil before Start.
func (r *ReplaySource) Cursor() *replay.Cursor { return r.cursor }

// TogglePause flips the paused flag. A paused source keeps its tick chain
// alive but does not advance.
func (r *ReplaySource) TogglePause() bool {
	r.state.Paused = !r.state.Paused
	return r.state.Paused
}

// Update consumes the source's own messages and reports whether msg was one.
func (r *ReplaySource) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case DeckDataMsg:
		if msg.DeckID != r.conf.ID {
			return false, nil
		}
		if msg.Gen != r.gen {
			return true, nil
		}
		return true, r.applyLoad(msg.Result)

	case DeckTickMsg:
		if msg.DeckID != r.conf.ID {
			return false, nil
		}
		if msg.Gen != r.gen || r.cursor == nil {
			return true, nil
		}
		if !r.state.Paused {
			r.frames.Step()
		}
		r.state.LastTickOK = true
		r.state.LastTickAt = msg.At
		return true, r.scheduleTick()
	}
	return false, nil
}

func (r *ReplaySource) applyLoad(res eventsource.Result) tea.Cmd {
	r.state.FetchInFlight = false
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if res.Err != nil {
		r.recordError(res.Message())
	} else {
		r.state.LastError = ""
		r.state.ConsecutiveErrs = 0
	}
	if r.conf.OnLoad != nil {
		r.conf.OnLoad(res)
	}

	r.cursor.Arm(res.Events)
	if !r.frames.Begin() {
		return nil
	}
	r.log.Debugw("replay_armed", "deck", r.conf.ID, "total", r.cursor.State().Total, "fallback", res.UsedFallback)
	return r.scheduleTick()
}

func (r *ReplaySource) recordError(msg string) {
	r.state.LastError = msg
	r.state.LastErrorAt = time.Now()
	r.state.ConsecutiveErrs++
}

func (r *ReplaySource) scheduleTick() tea.Cmd {
	id, gen := r.conf.ID, r.gen
	return tea.Tick(r.conf.Replay.TickInterval, func(t time.Time) tea.Msg {
		return DeckTickMsg{DeckID: id, Gen: gen, At: t}
	})
}
