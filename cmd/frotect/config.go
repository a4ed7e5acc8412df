package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Fraugrammers/frotect-dashboard/internal/httpserver"
	"github.com/Fraugrammers/frotect-dashboard/internal/logger"
	"github.com/Fraugrammers/frotect-dashboard/internal/model"
	"github.com/Fraugrammers/frotect-dashboard/internal/otlpreceiver"
	"github.com/Fraugrammers/frotect-dashboard/internal/tcpserver"
	"github.com/Fraugrammers/frotect-dashboard/internal/timestamp"
)

const (
	defaultServerID     = "frotect-01"
	defaultClockCity    = "Almaty"
	defaultClockCountry = "Kazakhstan"
	defaultTimezone     = "Local"
)

// appConfig holds every setting shared by the subcommands.
type appConfig struct {
	APIURL      string `mapstructure:"api-url"`
	LogsPath    string `mapstructure:"logs-path"`
	ChartsPath  string `mapstructure:"charts-path"`
	ReportsPath string `mapstructure:"reports-path"`
	KPIPath     string `mapstructure:"kpi-path"`

	// Explicit sources override api-url + path. They accept anything the
	// loader understands: URLs, file paths, duckdb:// and "-".
	TerminalSource string `mapstructure:"terminal-source"`
	ChartSource    string `mapstructure:"chart-source"`
	ReportsSource  string `mapstructure:"reports-source"`

	TickInterval     time.Duration     `mapstructure:"tick-interval"`
	Loop             bool              `mapstructure:"loop"`
	StartAt          string            `mapstructure:"start-at"`
	UseOffset        bool              `mapstructure:"use-offset"`
	TerminalFallback bool              `mapstructure:"terminal-fallback"`
	ChartFallback    bool              `mapstructure:"chart-fallback"`
	Categories       []string          `mapstructure:"categories"`
	CategoryColors   map[string]string `mapstructure:"category-colors"`
	Timezone         string            `mapstructure:"timezone"`

	Skin     string `mapstructure:"skin"`
	LogLevel string `mapstructure:"log-level"`
	LogFile  string `mapstructure:"log-file"`
	NoColor  bool   `mapstructure:"no-color"`

	APIAddr        string        `mapstructure:"api-addr"`
	OTLPEnabled    bool          `mapstructure:"otlp-enabled"`
	OTLPAddr       string        `mapstructure:"otlp-addr"`
	IngestEnabled  bool          `mapstructure:"ingest-enabled"`
	IngestAddr     string        `mapstructure:"ingest-addr"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
	Embedded       bool          `mapstructure:"embedded"`

	ServerID     string `mapstructure:"server-id"`
	TimeRange    string `mapstructure:"time-range"`
	ClockCity    string `mapstructure:"clock-city"`
	ClockCountry string `mapstructure:"clock-country"`
	ClockTZ      string `mapstructure:"clock-tz"`

	ConfigPath string `mapstructure:"-"`
	ConfigDir  string `mapstructure:"-"`
}

// location resolves the configured IANA zone; "Local" is the host zone.
func (c appConfig) location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == defaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// source returns the explicit source or api-url joined with path.
func (c appConfig) source(explicit, path string) string {
	if explicit != "" {
		return explicit
	}
	return strings.TrimRight(c.APIURL, "/") + path
}

func (c appConfig) terminalSource() string { return c.source(c.TerminalSource, c.LogsPath) }
func (c appConfig) chartSource() string    { return c.source(c.ChartSource, c.ChartsPath) }
func (c appConfig) reportsSource() string  { return c.source(c.ReportsSource, c.ReportsPath) }
func (c appConfig) kpiEndpoint() string    { return c.source("", c.KPIPath) }

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault("api-url", model.DefaultAPIURL)
	v.SetDefault("logs-path", model.DefaultLogsPath)
	v.SetDefault("charts-path", model.DefaultChartsPath)
	v.SetDefault("reports-path", model.DefaultReportsPath)
	v.SetDefault("kpi-path", model.DefaultKPIPath)
	v.SetDefault("terminal-source", "")
	v.SetDefault("chart-source", "")
	v.SetDefault("reports-source", "")

	v.SetDefault("tick-interval", model.DefaultTickInterval)
	v.SetDefault("loop", true)
	v.SetDefault("start-at", "")
	v.SetDefault("use-offset", false)
	v.SetDefault("terminal-fallback", false)
	v.SetDefault("chart-fallback", false)
	v.SetDefault("categories", model.LevelNames())
	v.SetDefault("category-colors", map[string]string{})
	v.SetDefault("timezone", defaultTimezone)

	v.SetDefault("skin", model.DefaultSkin)
	v.SetDefault("log-level", logger.InfoLevel)
	v.SetDefault("log-file", filepath.Join(home, ".local", "state", "frotect", "frotect.log"))
	v.SetDefault("no-color", false)

	v.SetDefault("api-addr", httpserver.DefaultAddr)
	v.SetDefault("otlp-enabled", false)
	v.SetDefault("otlp-addr", otlpreceiver.DefaultAddr)
	v.SetDefault("ingest-enabled", false)
	v.SetDefault("ingest-addr", tcpserver.DefaultAddr)
	v.SetDefault("request-timeout", model.DefaultRequestTimeout)
	v.SetDefault("embedded", false)

	v.SetDefault("server-id", defaultServerID)
	v.SetDefault("time-range", model.DefaultTimeRange)
	v.SetDefault("clock-city", defaultClockCity)
	v.SetDefault("clock-country", defaultClockCountry)
	v.SetDefault("clock-tz", "")
}

// loadConfig layers defaults, the config file, FROTECT_* environment
// variables and explicitly set flags, in rising precedence.
func loadConfig(configPath string, flags *pflag.FlagSet) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("FROTECT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	setDefaults(v, home)

	configDir := filepath.Join(home, ".config", "frotect")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(configDir, "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return cfg, fmt.Errorf("binding flags: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	cfg.ConfigDir = configDir

	// Viper lowercases map keys; categories are upper case.
	colors := make(map[string]string, len(cfg.CategoryColors))
	for k, c := range cfg.CategoryColors {
		colors[strings.ToUpper(k)] = c
	}
	cfg.CategoryColors = colors
	for i, c := range cfg.Categories {
		cfg.Categories[i] = strings.ToUpper(strings.TrimSpace(c))
	}

	if strings.HasPrefix(cfg.LogFile, "~/") {
		cfg.LogFile = filepath.Join(home, cfg.LogFile[2:])
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c appConfig) validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("invalid tick-interval: %s", c.TickInterval)
	}
	if c.StartAt != "" {
		if _, err := timestamp.ParseClock(c.StartAt); err != nil {
			return fmt.Errorf("invalid start-at: %w", err)
		}
	}
	if len(c.Categories) == 0 {
		return errors.New("categories must not be empty")
	}
	valid := false
	for _, r := range model.TimeRanges {
		if r == c.TimeRange {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid time-range %q (want one of %s)", c.TimeRange, strings.Join(model.TimeRanges, ", "))
	}
	if _, err := c.location(); err != nil {
		return err
	}
	return nil
}
