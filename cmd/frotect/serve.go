package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/Fraugrammers/frotect-dashboard/internal/fixtures"
	"github.com/Fraugrammers/frotect-dashboard/internal/httpserver"
	"github.com/Fraugrammers/frotect-dashboard/internal/logger"
	"github.com/Fraugrammers/frotect-dashboard/internal/otlpreceiver"
	"github.com/Fraugrammers/frotect-dashboard/internal/tcpserver"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mock dashboard API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromCmd(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
	f := cmd.Flags()
	f.String("api-addr", "", "HTTP listen address")
	f.Bool("otlp-enabled", false, "accept OTLP/gRPC log exports into the dataset")
	f.String("otlp-addr", "", "OTLP/gRPC listen address")
	f.Bool("ingest-enabled", false, "accept newline-delimited JSON log events over TCP")
	f.String("ingest-addr", "", "TCP ingest listen address")
	f.String("timezone", "", "IANA zone for stream start_at")
	f.String("log-level", "", "log level (debug, info, warn, error)")
	return cmd
}

// runServe runs until ctx is cancelled. Server logs go to stderr.
func runServe(ctx context.Context, cfg appConfig) error {
	logs, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer logs.Close()
	log := logs.Named("serve")

	loc, err := cfg.location()
	if err != nil {
		return err
	}
	store, err := fixtures.NewStore()
	if err != nil {
		return fmt.Errorf("loading fixtures: %w", err)
	}

	srv := httpserver.NewServer(cfg.APIAddr, store, httpserver.ServerConfig{
		Logger:   logs.Named("api"),
		Location: loc,
	})
	if err := srv.Start(); err != nil {
		return fmt.Errorf("starting api: %w", err)
	}

	var ingest *tcpserver.Server
	if cfg.IngestEnabled {
		ingest = tcpserver.NewServer(cfg.IngestAddr, store, tcpserver.ServerConfig{Logger: logs.Named("ingest")})
		if err := ingest.Start(); err != nil {
			_ = srv.Stop()
			return fmt.Errorf("starting tcp ingest: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	var receiver *otlpreceiver.Receiver
	if cfg.OTLPEnabled {
		lis, err := net.Listen("tcp", cfg.OTLPAddr)
		if err != nil {
			if ingest != nil {
				_ = ingest.Stop()
			}
			_ = srv.Stop()
			return fmt.Errorf("listening for otlp: %w", err)
		}
		receiver = otlpreceiver.New(store, logs.Named("otlp"))
		g.Go(func() error {
			if err := receiver.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("otlp receiver: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting_down")
		if receiver != nil {
			receiver.Stop()
		}
		if ingest != nil {
			_ = ingest.Stop()
			accepted, rejected := ingest.Stats()
			log.Infow("ingest_stopped", "accepted", accepted, "rejected", rejected)
		}
		return srv.Stop()
	})

	log.Infow("serve_started", "api", srv.Addr(), "otlp", cfg.OTLPEnabled, "ingest", cfg.IngestEnabled, "config", cfg.ConfigPath)
	return g.Wait()
}
