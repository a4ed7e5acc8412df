// Package eventsource loads event collections from HTTP endpoints, files,
// stdin or DuckDB tables, choosing a decoder from the declared content type.
package eventsource

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Fraugrammers/frotect-dashboard/internal/event"
	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// DefaultTimeout bounds one shared load.
const DefaultTimeout = model.DefaultRequestTimeout

// LoaderConfig holds tunable parameters for a Loader.
type LoaderConfig struct {
	Client   *http.Client
	Timeout  time.Duration
	Now      func() time.Time
	Stdin    io.Reader
	Fallback *event.Collection // defaults to FallbackCollection()
	Logger   *zap.SugaredLogger
}

// Loader produces ordered event collections. Concurrent loads of the same
// source share one in-flight request.
type Loader struct {
	client   *http.Client
	timeout  time.Duration
	now      func() time.Time
	stdin    io.Reader
	fallback *event.Collection
	log      *zap.SugaredLogger
	group    singleflight.Group
}

// Request names what to load and the per-view failure policy.
type Request struct {
	Source   string
	Fallback bool // substitute the fallback collection on any failure
}

// Result is the outcome of one load. On failure Err is set; Events is the
// fallback collection when the request opted in, otherwise empty.
type Result struct {
	Source       string
	Events       *event.Collection
	Err          error
	UsedFallback bool
}

// Message is the short human-readable error for display, or "".
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	var le *LoadError
	if errors.As(r.Err, &le) && le.Err != nil {
		return le.Err.Error()
	}
	return r.Err.Error()
}

// NewLoader creates a Loader.
func NewLoader(conf ...LoaderConfig) *Loader {
	l := &Loader{
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		now:     time.Now,
		log:     zap.NewNop().Sugar(),
	}
	if len(conf) > 0 {
		c := conf[0]
		if c.Client != nil {
			l.client = c.Client
		}
		if c.Timeout > 0 {
			l.timeout = c.Timeout
		}
		if c.Now != nil {
			l.now = c.Now
		}
		if c.Stdin != nil {
			l.stdin = c.Stdin
		}
		if c.Fallback != nil {
			l.fallback = c.Fallback
		}
		if c.Logger != nil {
			l.log = c.Logger
		}
	}
	if l.fallback == nil {
		l.fallback = FallbackCollection()
	}
	return l
}

// Load resolves req.Source into a collection. It never retries.
//
// The shared load runs detached from every caller and is bounded by the
// loader timeout. A caller whose ctx ends first gets a fetch failure while
// the others keep waiting for the shared result.
func (l *Loader) Load(ctx context.Context, req Request) Result {
	detached := context.WithoutCancel(ctx)
	ch := l.group.DoChan(req.Source, func() (any, error) {
		return l.load(detached, req.Source)
	})

	var (
		v      any
		err    error
		shared bool
	)
	select {
	case r := <-ch:
		v, err, shared = r.Val, r.Err, r.Shared
	case <-ctx.Done():
		err = fetchErr(req.Source, ctx.Err())
	}
	res := Result{Source: req.Source}
	if err == nil {
		res.Events = v.(*event.Collection)
		l.log.Debugw("events_loaded", "source", req.Source, "count", res.Events.Len(), "shared", shared)
		return res
	}

	res.Err = err
	if req.Fallback {
		res.Events = l.fallback
		res.UsedFallback = true
	} else {
		res.Events = event.NewCollection(nil)
	}
	l.log.Warnw("events_load_failed", "source", req.Source, "err", err, "fallback", req.Fallback)
	return res
}

func (l *Loader) load(ctx context.Context, source string) (*event.Collection, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var events []model.Event
	switch {
	case strings.HasPrefix(source, "duckdb://"):
		evs, err := loadDuckDB(ctx, source)
		if err != nil {
			return nil, err
		}
		events = evs
	default:
		b, err := l.read(ctx, source)
		if err != nil {
			return nil, err
		}
		evs, err := Decode(b.data, b.contentType, l.now())
		if err != nil {
			return nil, parseErr(source, err)
		}
		events = evs
	}

	if len(events) == 0 {
		return nil, emptyErr(source)
	}
	return event.NewCollection(events), nil
}

func (l *Loader) read(ctx context.Context, source string) (body, error) {
	switch {
	case source == "":
		return body{}, fetchErr(source, errors.New("no source configured"))
	case source == "-":
		return readStdin(ctx, l.stdin)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return fetchHTTP(ctx, l.client, source)
	default:
		return readFile(source)
	}
}
