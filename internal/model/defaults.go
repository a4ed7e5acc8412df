package model

import "time"

// Shared defaults used by the dashboard, the replay command and the mock API.
const (
	DefaultTickInterval   = 1500 * time.Millisecond
	DefaultRequestTimeout = 10 * time.Second
	DefaultSkin           = "default"
	DefaultAPIURL         = "http://127.0.0.1:3000"
	DefaultLogsPath       = "/api/logs"
	DefaultChartsPath     = "/api/logs/charts"
	DefaultReportsPath    = "/api/reports"
	DefaultKPIPath        = "/api/kpi"
	DefaultTimeRange      = "1h"
)

// TimeRanges are the selectable KPI windows, in cycle order.
var TimeRanges = []string{"1h", "24h", "7d"}
