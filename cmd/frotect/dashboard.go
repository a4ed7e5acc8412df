package main

import (
	"fmt"
	"maps"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/Fraugrammers/frotect-dashboard/internal/eventsource"
	"github.com/Fraugrammers/frotect-dashboard/internal/fixtures"
	"github.com/Fraugrammers/frotect-dashboard/internal/httpserver"
	"github.com/Fraugrammers/frotect-dashboard/internal/logger"
	"github.com/Fraugrammers/frotect-dashboard/internal/render"
	"github.com/Fraugrammers/frotect-dashboard/internal/replay"
	"github.com/Fraugrammers/frotect-dashboard/internal/session"
	"github.com/Fraugrammers/frotect-dashboard/internal/tui"
)

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Run the terminal dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromCmd(cmd)
			if err != nil {
				return err
			}
			return runDashboard(cfg)
		},
	}
	f := cmd.Flags()
	f.String("api-url", "", "base URL of the dashboard API")
	f.String("terminal-source", "", "override the terminal deck source (URL, file, duckdb://, -)")
	f.String("chart-source", "", "override the chart deck source")
	f.String("reports-source", "", "override the reports catalog source")
	f.Duration("tick-interval", 0, "replay tick interval")
	f.Bool("loop", true, "wrap around after the last event")
	f.String("start-at", "", "start the replay at this clock time (HH:MM:SS)")
	f.Bool("use-offset", false, "reveal from the start index instead of from the first event")
	f.Bool("terminal-fallback", false, "show the built-in demo events when the terminal source fails")
	f.Bool("chart-fallback", false, "show the built-in demo events when the chart source fails")
	f.StringSlice("categories", nil, "chart categories, in legend order")
	f.String("timezone", "", "IANA zone for start-at and displayed times")
	f.String("server-id", "", "server shown in the header and sent to the KPI endpoint")
	f.String("time-range", "", "initial KPI time range (1h, 24h, 7d)")
	f.String("skin", "", "color skin name")
	f.String("log-level", "", "log level (debug, info, warn, error)")
	f.String("log-file", "", "log file path")
	f.Bool("no-color", false, "disable colors in terminal lines")
	f.Bool("embedded", false, "serve the mock API in-process and point the dashboard at it")
	return cmd
}

func runDashboard(cfg appConfig) error {
	logs, err := logger.New(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer logs.Close()
	log := logs.Named("dashboard")

	loc, err := cfg.location()
	if err != nil {
		return err
	}

	if cfg.Embedded {
		store, err := fixtures.NewStore()
		if err != nil {
			return fmt.Errorf("loading fixtures: %w", err)
		}
		srv := httpserver.NewServer("127.0.0.1:0", store, httpserver.ServerConfig{
			Logger:   logs.Named("api"),
			Location: loc,
		})
		if err := srv.Start(); err != nil {
			return fmt.Errorf("starting embedded api: %w", err)
		}
		defer srv.Stop()
		cfg.APIURL = "http://" + srv.Addr()
	}

	if err := tui.InitializeSkin(cfg.Skin, cfg.ConfigDir); err != nil {
		return err
	}
	colors := tui.CategoryColors()
	maps.Copy(colors, cfg.CategoryColors)
	tui.SetCategoryColors(colors)

	profile := termenv.ANSI256
	if cfg.NoColor {
		profile = termenv.Ascii
	}
	text := render.NewText(render.TextConfig{Profile: profile, Colors: colors})

	client := &http.Client{}
	loader := eventsource.NewLoader(eventsource.LoaderConfig{
		Client:  client,
		Timeout: cfg.RequestTimeout,
		Logger:  logs.Named("loader"),
	})

	sess := &session.State{}
	model := tui.NewDashboardModel(tui.DashboardConfig{
		Session: sess,
		Loader:  loader,
		Client:  client,
		Timeout: cfg.RequestTimeout,
		Text:    text,
		Replay: replay.Config{
			TickInterval: cfg.TickInterval,
			Loop:         cfg.Loop,
			StartAt:      cfg.StartAt,
			UseOffset:    cfg.UseOffset,
			Location:     loc,
		},
		TerminalRequest: eventsource.Request{Source: cfg.terminalSource(), Fallback: cfg.TerminalFallback},
		ChartRequest:    eventsource.Request{Source: cfg.chartSource(), Fallback: cfg.ChartFallback},
		Categories:      cfg.Categories,
		ReportsSource:   cfg.reportsSource(),
		KPIEndpoint:     cfg.kpiEndpoint(),
		ServerID:        cfg.ServerID,
		TimeRange:       cfg.TimeRange,
		Clock: tui.ClockConfig{
			City:     cfg.ClockCity,
			Country:  cfg.ClockCountry,
			TZLabel:  cfg.ClockTZ,
			Location: loc,
		},
		Logger: log,
	})

	app := tui.NewApp(sess,
		tui.NewDashboardPage(model),
		tui.NewLoginPage(sess, logs.Named("login")),
	)
	log.Infow("dashboard_starting",
		"terminal", cfg.terminalSource(),
		"chart", cfg.chartSource(),
		"embedded", cfg.Embedded,
		"config", cfg.ConfigPath,
	)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	model.Teardown()
	log.Infow("dashboard_stopped")
	return nil
}
