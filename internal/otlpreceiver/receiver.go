// Package otlpreceiver accepts OTLP/gRPC log exports and feeds them into the
// mock API's dataset.
package otlpreceiver

import (
	"context"
	"net"

	"go.uber.org/zap"
	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	"google.golang.org/grpc"

	"github.com/Fraugrammers/frotect-dashboard/internal/eventsource"
	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// DefaultAddr is the standard OTLP/gRPC port on loopback.
const DefaultAddr = "127.0.0.1:4317"

// Sink receives converted log events.
type Sink interface {
	AppendLogs(events ...model.LogEvent)
}

// Receiver implements the OTLP LogsService.
type Receiver struct {
	collogspb.UnimplementedLogsServiceServer

	sink   Sink
	log    *zap.SugaredLogger
	server *grpc.Server
}

// New creates a Receiver writing into sink.
func New(sink Sink, log *zap.SugaredLogger) *Receiver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	r := &Receiver{sink: sink, log: log, server: grpc.NewServer()}
	collogspb.RegisterLogsServiceServer(r.server, r)
	return r
}

// Export converts every log record with a timestamp and appends it.
func (r *Receiver) Export(_ context.Context, req *collogspb.ExportLogsServiceRequest) (*collogspb.ExportLogsServiceResponse, error) {
	events := eventsource.EventsFromOTLP(req.GetResourceLogs())
	logs := make([]model.LogEvent, 0, len(events))
	for _, ev := range events {
		if le, ok := ev.(model.LogEvent); ok {
			le.ID = "otlp-" + le.ID
			logs = append(logs, le)
		}
	}
	r.sink.AppendLogs(logs...)
	r.log.Debugw("otlp_export", "records", len(logs))
	return &collogspb.ExportLogsServiceResponse{}, nil
}

// Serve runs the receiver's own gRPC server on lis until Stop is called.
func (r *Receiver) Serve(lis net.Listener) error {
	r.log.Infow("otlp_listening", "addr", lis.Addr().String())
	return r.server.Serve(lis)
}

// Stop drains in-flight exports and stops the server.
func (r *Receiver) Stop() {
	r.server.GracefulStop()
}
