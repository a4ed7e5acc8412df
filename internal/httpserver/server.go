// Package httpserver serves the demo datasets behind the dashboard: log and
// network events, the report catalog, KPI figures and a websocket replay
// stream.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// DefaultAddr is used when NewServer is given an empty address.
const DefaultAddr = "127.0.0.1:3000"

// Store is the narrow dataset contract required by the HTTP API.
type Store interface {
	Logs(limit int) []model.LogEvent
	Network() []model.NetworkEvent
	Reports() []model.Report
	KPI(serverID, timeRange string) model.KPISummary
}

// ServerConfig holds optional server settings.
type ServerConfig struct {
	Logger   *zap.SugaredLogger
	Location *time.Location // time-of-day zone for stream start_at
}

// Server provides the mock dashboard API.
type Server struct {
	addr      string
	store     Store
	log       *zap.SugaredLogger
	loc       *time.Location
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
	streams   atomic.Int64
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, store Store, conf ...ServerConfig) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:      addr,
		store:     store,
		log:       zap.NewNop().Sugar(),
		loc:       time.Local,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
	if len(conf) > 0 {
		if conf[0].Logger != nil {
			s.log = conf[0].Logger
		}
		if conf[0].Location != nil {
			s.loc = conf[0].Location
		}
	}
	return s
}

// Handler builds the gin router with every API route.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/logs", s.handleLogs)
	api.GET("/logs/charts", s.handleChartLogs)
	api.GET("/logs/stream", s.handleStream)
	api.GET("/network", s.handleNetwork)
	api.GET("/reports", s.handleReports)
	api.GET("/kpi", s.handleKPI)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.startTime = time.Now()
	s.log.Infow("api_listening", "addr", listener.Addr().String())

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Errorw("api_serve_failed", "err", err)
		}
	}()
	return nil
}

// Addr is the bound address once started.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts down the HTTP server. Open streams see their
// request context cancelled.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"uptime":    time.Since(s.startTime).String(),
		"log_count": len(s.store.Logs(0)),
		"streams":   s.streams.Load(),
	})
}
