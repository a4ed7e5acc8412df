package replay

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// ErrNotArmed is returned by Run when the cursor has nothing to reveal.
var ErrNotArmed = errors.New("replay cursor not armed")

// Frame is what observers see after each reveal.
type Frame struct {
	Seq    int // 1 for the arming reveal, then one per advancing tick
	State  State
	Events []model.Event // revealed prefix
}

// Observer receives frames synchronously on the player goroutine. The next
// tick is not scheduled until every observer has returned.
type Observer func(Frame)

// PlayerConfig holds optional Player dependencies.
type PlayerConfig struct {
	Logger *zap.SugaredLogger
}

// Player drives one Cursor from exactly one timer.
type Player struct {
	cursor  *Cursor
	emitter *Emitter
	log     *zap.SugaredLogger
}

// NewPlayer creates a Player over an armed cursor.
func NewPlayer(cursor *Cursor, observers []Observer, conf ...PlayerConfig) *Player {
	p := &Player{cursor: cursor, emitter: NewEmitter(cursor, observers...), log: zap.NewNop().Sugar()}
	if len(conf) > 0 && conf[0].Logger != nil {
		p.log = conf[0].Logger
	}
	return p
}

// Run emits the arming frame immediately and then one frame per tick that
// moves the cursor, until ctx is cancelled. A finished non-looping replay
// keeps its timer running without emitting.
func (p *Player) Run(ctx context.Context) error {
	if !p.cursor.Armed() {
		return ErrNotArmed
	}
	interval := p.cursor.Config().TickInterval
	p.log.Debugw("replay_started", "total", p.cursor.State().Total, "interval", interval)
	defer func() { p.log.Debugw("replay_stopped", "frames", p.emitter.Seq()) }()

	p.emitter.Begin()

	timer := time.NewTimer(interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			p.emitter.Step()
			if ctx.Err() != nil {
				return nil
			}
			timer.Reset(interval)
		}
	}
}

// Controller runs at most one Player at a time. Start cancels and waits for
// the previous player before launching the next, so two timers never
// coexist for the same view.
type Controller struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	gen    uint64
	log    *zap.SugaredLogger
}

// NewController creates an idle Controller.
func NewController(log *zap.SugaredLogger) *Controller {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Controller{log: log}
}

// Start replaces the running player with p and returns its generation.
// It must not be called from inside an observer.
func (c *Controller) Start(ctx context.Context, p *Player) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	c.gen++
	gen := c.gen

	go func() {
		defer close(done)
		if err := p.Run(runCtx); err != nil {
			c.log.Warnw("replay_not_started", "generation", gen, "err", err)
		}
	}()
	return gen
}

// Stop cancels the running player, if any, and waits for it to exit.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Generation is incremented by every Start.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Wait blocks until the current player exits on its own or is stopped.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (c *Controller) stopLocked() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
	c.cancel, c.done = nil, nil
}
