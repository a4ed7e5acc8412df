package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/Fraugrammers/frotect-dashboard/internal/eventsource"
	"github.com/Fraugrammers/frotect-dashboard/internal/logger"
	"github.com/Fraugrammers/frotect-dashboard/internal/render"
	"github.com/Fraugrammers/frotect-dashboard/internal/replay"
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [source]",
		Short: "Replay a source as colored lines on stdout",
		Long: `Replay loads a source (URL, file path, duckdb:// or - for stdin) and
prints one line per tick, the same lines the dashboard terminal shows.
Without --loop it exits after the last event.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromCmd(cmd)
			if err != nil {
				return err
			}
			source := cfg.terminalSource()
			if len(args) == 1 {
				source = args[0]
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runReplay(ctx, cfg, source, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.Duration("tick-interval", 0, "replay tick interval")
	f.Bool("loop", false, "wrap around after the last event")
	f.String("start-at", "", "start the replay at this clock time (HH:MM:SS)")
	f.Bool("use-offset", false, "reveal from the start index instead of from the first event")
	f.Bool("terminal-fallback", false, "replay the built-in demo events when the source fails")
	f.String("timezone", "", "IANA zone for start-at")
	f.Bool("no-color", false, "disable colors")
	f.String("log-level", "", "log level (debug, info, warn, error)")
	return cmd
}

// runReplay plays source to out until it finishes or ctx is cancelled.
func runReplay(ctx context.Context, cfg appConfig, source string, in io.Reader, out io.Writer) error {
	logs, err := logger.New(logger.Config{Level: cfg.LogLevel, Writer: os.Stderr})
	if err != nil {
		return err
	}
	defer logs.Close()

	loc, err := cfg.location()
	if err != nil {
		return err
	}
	cursor, err := replay.NewCursor(replay.Config{
		TickInterval: cfg.TickInterval,
		Loop:         cfg.Loop,
		StartAt:      cfg.StartAt,
		UseOffset:    cfg.UseOffset,
		Location:     loc,
	})
	if err != nil {
		return err
	}

	loader := eventsource.NewLoader(eventsource.LoaderConfig{
		Timeout: cfg.RequestTimeout,
		Stdin:   in,
		Logger:  logs.Named("loader"),
	})
	res := loader.Load(ctx, eventsource.Request{Source: source, Fallback: cfg.TerminalFallback})

	profile := termenv.ANSI256
	if cfg.NoColor {
		profile = termenv.Ascii
	}
	text := render.NewText(render.TextConfig{Profile: profile, Colors: cfg.CategoryColors})
	if msg := res.Message(); msg != "" {
		fmt.Fprintln(out, text.FetchError(msg))
	}
	if res.Events == nil || res.Events.Len() == 0 {
		if res.Err != nil {
			return res.Err
		}
		return nil
	}
	cursor.Arm(res.Events)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(out, text.BannerLine())
	observers := []replay.Observer{
		func(f replay.Frame) {
			if len(f.Events) > 0 {
				fmt.Fprintln(out, text.Line(f.Events[len(f.Events)-1]))
			}
			if cursor.Done() {
				cancel()
			}
		},
	}

	ctrl := replay.NewController(logs.Named("replay"))
	ctrl.Start(runCtx, replay.NewPlayer(cursor, observers, replay.PlayerConfig{Logger: logs.Named("player")}))
	ctrl.Wait()
	return nil
}
