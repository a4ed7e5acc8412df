// Package tcpserver accepts newline-delimited JSON log events over TCP and
// appends them to the mock API's dataset.
package tcpserver

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Fraugrammers/frotect-dashboard/internal/eventsource"
	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

const (
	// DefaultAddr is used when NewServer is given an empty address.
	DefaultAddr = "127.0.0.1:4000"

	// DefaultMaxLineSize is the default maximum size (in bytes) of a single line.
	DefaultMaxLineSize = 1024 * 1024 // 1MB
)

// Sink receives decoded log events.
type Sink interface {
	AppendLogs(events ...model.LogEvent)
}

// ServerConfig holds tunable parameters for the TCP server.
type ServerConfig struct {
	MaxLineSize int
	Logger      *zap.SugaredLogger
}

// Server listens for newline-delimited log records, one JSON object per
// line, in the same shape the logs endpoint serves.
type Server struct {
	listener    net.Listener
	addr        string
	sink        Sink
	maxLineSize int
	log         *zap.SugaredLogger
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup

	seq      atomic.Int64
	accepted atomic.Int64
	rejected atomic.Int64
}

// NewServer creates a new TCP server writing into sink.
func NewServer(addr string, sink Sink, conf ...ServerConfig) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	maxLineSize := DefaultMaxLineSize
	log := zap.NewNop().Sugar()
	if len(conf) > 0 {
		if conf[0].MaxLineSize > 0 {
			maxLineSize = conf[0].MaxLineSize
		}
		if conf[0].Logger != nil {
			log = conf[0].Logger
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:        addr,
		sink:        sink,
		maxLineSize: maxLineSize,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins accepting TCP connections.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.log.Infow("ingest_listening", "addr", listener.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
					continue
				}
			}
			s.wg.Add(1)
			go s.handleConnection(conn)
		}
	}()

	return nil
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-s.ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	scanner := bufio.NewScanner(conn)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, s.maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		s.ingest(line)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			s.log.Warnw("ingest_line_too_long", "remote", conn.RemoteAddr().String(), "max", s.maxLineSize)
			return
		}
		if s.ctx.Err() == nil {
			s.log.Warnw("ingest_read_failed", "remote", conn.RemoteAddr().String(), "err", err)
		}
	}
}

// ingest decodes one line. Network records and malformed lines are counted
// as rejected.
func (s *Server) ingest(line []byte) {
	events, err := eventsource.DecodeNDJSON(line)
	if err != nil {
		s.rejected.Add(1)
		s.log.Debugw("ingest_line_rejected", "err", err)
		return
	}
	logs := make([]model.LogEvent, 0, len(events))
	for _, ev := range events {
		if le, ok := ev.(model.LogEvent); ok {
			le.ID = "tcp-" + strconv.FormatInt(s.seq.Add(1), 10)
			logs = append(logs, le)
		}
	}
	if len(logs) == 0 {
		s.rejected.Add(1)
		return
	}
	s.sink.AppendLogs(logs...)
	s.accepted.Add(int64(len(logs)))
}

// Stop closes the listener and open connections, then waits for them.
func (s *Server) Stop() error {
	s.cancel()
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	return nil
}

// Stats returns the number of accepted events and rejected lines.
func (s *Server) Stats() (accepted, rejected int64) {
	return s.accepted.Load(), s.rejected.Load()
}

// Addr returns the active listen address.
// Before Start, it returns the configured address.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}
