package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Fraugrammers/frotect-dashboard/internal/eventsource"
	"github.com/Fraugrammers/frotect-dashboard/internal/model"
	"github.com/Fraugrammers/frotect-dashboard/internal/render"
)

// Log payload formats selectable with ?format=.
const (
	FormatWrapped = "wrapped"
	FormatArray   = "array"
	FormatNDJSON  = "ndjson"
	FormatText    = "text"
)

const defaultLogLimit = 200

func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultLogLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// handleLogs serves log events in the requested shape, so the dashboard's
// content negotiation can be exercised against every format.
func (s *Server) handleLogs(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return
	}
	logs := s.store.Logs(limit)

	switch format := c.DefaultQuery("format", FormatWrapped); format {
	case FormatWrapped:
		c.JSON(http.StatusOK, gin.H{"events": logs})
	case FormatArray:
		c.JSON(http.StatusOK, logs)
	case FormatNDJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		for _, ev := range logs {
			if err := enc.Encode(ev); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode events"})
				return
			}
		}
		c.Data(http.StatusOK, eventsource.MediaNDJSON, buf.Bytes())
	case FormatText:
		var buf bytes.Buffer
		for _, ev := range logs {
			buf.WriteString(render.FormatLog(ev))
			buf.WriteByte('\n')
		}
		c.Data(http.StatusOK, eventsource.MediaText+"; charset=utf-8", buf.Bytes())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown format " + strconv.Quote(format)})
	}
}

// handleChartLogs serves the bare-array variant the chart view reads.
func (s *Server) handleChartLogs(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Logs(0))
}

func (s *Server) handleNetwork(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Network())
}

func (s *Server) handleReports(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reports": s.store.Reports()})
}

func (s *Server) handleKPI(c *gin.Context) {
	rng := c.DefaultQuery("range", model.DefaultTimeRange)
	if !slices.Contains(model.TimeRanges, rng) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "range must be one of 1h, 24h, 7d"})
		return
	}
	c.JSON(http.StatusOK, s.store.KPI(c.Query("serverId"), rng))
}
