package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Fraugrammers/frotect-dashboard/internal/event"
	"github.com/Fraugrammers/frotect-dashboard/internal/model"
	"github.com/Fraugrammers/frotect-dashboard/internal/replay"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12
	maxIntervalMilli = 10_000
)

// Stream envelope types.
const (
	envelopeHello = "hello"
	envelopeEvent = "event"
	envelopeError = "error"
)

// envelope is one websocket message.
type envelope struct {
	Type     string `json:"type"`
	StreamID string `json:"stream_id"`
	Seq      int    `json:"seq,omitempty"`
	Revealed int    `json:"revealed,omitempty"`
	Total    int    `json:"total,omitempty"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
}

type helloData struct {
	Source     string `json:"source"`
	StartIndex int    `json:"start_index"`
	IntervalMs int64  `json:"interval_ms"`
	Loop       bool   `json:"loop"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamParams are the query parameters of /api/logs/stream.
type streamParams struct {
	source string
	cfg    replay.Config
}

func (s *Server) parseStreamParams(c *gin.Context) (streamParams, error) {
	p := streamParams{
		source: c.DefaultQuery("source", "logs"),
		cfg: replay.Config{
			TickInterval: model.DefaultTickInterval,
			Loop:         true,
			StartAt:      c.Query("start_at"),
			UseOffset:    c.Query("start_at") != "",
			Location:     s.loc,
		},
	}
	if ms := c.Query("interval_ms"); ms != "" {
		v, err := strconv.Atoi(ms)
		if err != nil || v <= 0 || v > maxIntervalMilli {
			return p, errBadInterval
		}
		p.cfg.TickInterval = time.Duration(v) * time.Millisecond
	}
	if l := c.Query("loop"); l != "" {
		v, err := strconv.ParseBool(l)
		if err != nil {
			return p, errBadLoop
		}
		p.cfg.Loop = v
	}
	if p.source != "logs" && p.source != "network" {
		return p, errBadSource
	}
	return p, p.cfg.Validate()
}

func (s *Server) collectionFor(source string) *event.Collection {
	var events []model.Event
	if source == "network" {
		for _, ev := range s.store.Network() {
			events = append(events, ev)
		}
	} else {
		for _, ev := range s.store.Logs(0) {
			events = append(events, ev)
		}
	}
	return event.NewCollection(events)
}

// handleStream replays the dataset over a websocket, one event envelope per
// tick. Parameter errors are reported with a plain 400 before upgrading.
func (s *Server) handleStream(c *gin.Context) {
	params, err := s.parseStreamParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cursor, err := replay.NewCursor(params.cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cursor.Arm(s.collectionFor(params.source))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	streamID := uuid.NewString()
	s.streams.Add(1)
	defer s.streams.Add(-1)
	log := s.log.With("stream_id", streamID)
	log.Infow("stream_opened", "source", params.source, "interval", params.cfg.TickInterval, "loop", params.cfg.Loop)
	defer log.Infow("stream_closed")

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// gorilla allows one concurrent writer; pings and frames share this lock.
	var writeMu sync.Mutex
	write := func(messageType int, v any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if v == nil {
			return conn.WriteMessage(messageType, nil)
		}
		return conn.WriteJSON(v)
	}

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				log.Debugw("ws_read_closed", "err", err)
				return
			}
		}
	}()

	go func() {
		ping := time.NewTicker(pingPeriod)
		defer ping.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ping.C:
				if err := write(websocket.PingMessage, nil); err != nil {
					log.Infow("ws_ping_failed", "err", err)
					cancel()
					return
				}
			}
		}
	}()

	st := cursor.State()
	hello := envelope{
		Type:     envelopeHello,
		StreamID: streamID,
		Total:    st.Total,
		Data: helloData{
			Source:     params.source,
			StartIndex: st.StartIndex,
			IntervalMs: params.cfg.TickInterval.Milliseconds(),
			Loop:       params.cfg.Loop,
		},
	}
	if err := write(websocket.TextMessage, hello); err != nil {
		log.Infow("ws_write_failed_initial", "err", err)
		return
	}

	send := func(f replay.Frame) {
		env := envelope{
			Type:     envelopeEvent,
			StreamID: streamID,
			Seq:      f.Seq,
			Revealed: f.State.Revealed,
			Total:    f.State.Total,
			Data:     f.Events[len(f.Events)-1],
		}
		if err := write(websocket.TextMessage, env); err != nil {
			log.Infow("ws_write_failed", "err", err)
			cancel()
		}
	}

	player := replay.NewPlayer(cursor, []replay.Observer{send}, replay.PlayerConfig{Logger: log})
	if err := player.Run(ctx); err != nil {
		_ = write(websocket.TextMessage, envelope{Type: envelopeError, StreamID: streamID, Error: err.Error()})
	}
}
