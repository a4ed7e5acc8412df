package httpserver

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Fraugrammers/frotect-dashboard/internal/eventsource"
	"github.com/Fraugrammers/frotect-dashboard/internal/fixtures"
	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	store, err := fixtures.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	srv := NewServer("", store, ServerConfig{Location: time.UTC})
	return srv, srv.Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	w := get(t, h, "/api/health")
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want %d", w.Code, http.StatusOK)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal health: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("health status = %v, want ok", body["status"])
	}
}

func TestHealthEndpoint_WrongMethod(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed && w.Code != http.StatusNotFound {
		t.Errorf("health POST status = %d, want 405 or 404", w.Code)
	}
}

func TestLogsEndpoint_Formats(t *testing.T) {
	_, h := newTestServer(t)
	now := time.Date(2025, 9, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		query      string
		wantFormat eventsource.Format
		wantCount  int
	}{
		{"/api/logs?limit=5", eventsource.FormatJSON, 5},
		{"/api/logs?format=array&limit=3", eventsource.FormatJSON, 3},
		{"/api/logs?format=ndjson&limit=4", eventsource.FormatNDJSON, 4},
		{"/api/logs?format=text&limit=2", eventsource.FormatText, 2},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := get(t, h, tt.query)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			ct := w.Header().Get("Content-Type")
			if got := eventsource.FormatFor(ct); got != tt.wantFormat {
				t.Fatalf("content type %q classified as %s, want %s", ct, got, tt.wantFormat)
			}
			events, err := eventsource.Decode(w.Body.Bytes(), ct, now)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(events) != tt.wantCount {
				t.Errorf("got %d events, want %d", len(events), tt.wantCount)
			}
		})
	}
}

func TestLogsEndpoint_BadParams(t *testing.T) {
	_, h := newTestServer(t)

	for _, q := range []string{"/api/logs?limit=-1", "/api/logs?limit=abc", "/api/logs?format=xml"} {
		if w := get(t, h, q); w.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", q, w.Code)
		}
	}
}

func TestChartAndNetworkEndpoints(t *testing.T) {
	_, h := newTestServer(t)

	w := get(t, h, "/api/logs/charts")
	body := bytes.TrimSpace(w.Body.Bytes())
	if w.Code != http.StatusOK || len(body) == 0 || body[0] != '[' {
		t.Fatalf("charts: status %d body starts %q", w.Code, string(body[:1]))
	}

	w = get(t, h, "/api/network")
	events, err := eventsource.DecodeJSON(w.Body.Bytes())
	if err != nil {
		t.Fatalf("decode network: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("no network events")
	}
	if _, ok := events[0].(model.NetworkEvent); !ok {
		t.Errorf("event type = %T, want NetworkEvent", events[0])
	}
}

func TestReportsEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	w := get(t, h, "/api/reports")
	var body struct {
		Reports []model.Report `json:"reports"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Reports) == 0 || body.Reports[0].ID == "" {
		t.Fatalf("reports = %+v", body.Reports)
	}
}

func TestKPIEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	w := get(t, h, "/api/kpi?serverId=srv-1&range=24h")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var kpi model.KPISummary
	if err := json.Unmarshal(w.Body.Bytes(), &kpi); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if kpi.CPU <= 0 || kpi.Alerts == 0 {
		t.Errorf("kpi = %+v", kpi)
	}

	if w := get(t, h, "/api/kpi?range=30d"); w.Code != http.StatusBadRequest {
		t.Errorf("bad range status = %d, want 400", w.Code)
	}
}

func wsURL(httpURL, path string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http") + path
}

func TestStream(t *testing.T) {
	srv, h := newTestServer(t)
	ts := httptest.NewServer(h)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts.URL, "/api/logs/stream?interval_ms=5&loop=false"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello envelope
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.Type != envelopeHello || hello.StreamID == "" || hello.Total == 0 {
		t.Fatalf("hello = %+v", hello)
	}

	for want := 1; want <= 3; want++ {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read frame %d: %v", want, err)
		}
		if env.Type != envelopeEvent || env.Revealed != want || env.StreamID != hello.StreamID {
			t.Fatalf("frame %d = %+v", want, env)
		}
	}
	if got := srv.streams.Load(); got != 1 {
		t.Errorf("open streams = %d, want 1", got)
	}
}

func TestStream_StartAt(t *testing.T) {
	_, h := newTestServer(t)
	ts := httptest.NewServer(h)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts.URL, "/api/logs/stream?interval_ms=5&start_at=12:00:00"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello struct {
		Data helloData `json:"data"`
	}
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.Data.StartIndex == 0 {
		t.Fatal("start_at did not move the start index")
	}

	var first struct {
		Data model.LogEvent `json:"data"`
	}
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if first.Data.Timestamp.UTC().Hour() != 12 {
		t.Errorf("first streamed event at %v, want 12:00:00 or later", first.Data.Timestamp)
	}
}

func TestStream_BadParams(t *testing.T) {
	_, h := newTestServer(t)

	for _, q := range []string{
		"/api/logs/stream?interval_ms=0",
		"/api/logs/stream?interval_ms=60000",
		"/api/logs/stream?loop=maybe",
		"/api/logs/stream?start_at=99:00",
		"/api/logs/stream?source=dns",
	} {
		if w := get(t, h, q); w.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", q, w.Code)
		}
	}
}

func TestTextFormatLinesMatchRenderer(t *testing.T) {
	_, h := newTestServer(t)

	w := get(t, h, "/api/logs?format=text&limit=3")
	sc := bufio.NewScanner(w.Body)
	n := 0
	for sc.Scan() {
		if !strings.HasPrefix(sc.Text(), "[") {
			t.Errorf("line %q lacks level tag", sc.Text())
		}
		n++
	}
	if n != 3 {
		t.Errorf("got %d lines, want 3", n)
	}
}
