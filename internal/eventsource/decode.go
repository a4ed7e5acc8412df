package eventsource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// Placeholder fields for events synthesized from plain text lines.
const (
	TextLevel   = model.LevelInfo
	TextService = "raw"
	TextHost    = "demo"
)

// Decode turns a response body into events according to its declared
// content type. now seeds synthetic timestamps for plain text bodies.
func Decode(body []byte, contentType string, now time.Time) ([]model.Event, error) {
	switch FormatFor(contentType) {
	case FormatJSON:
		return DecodeJSON(body)
	case FormatNDJSON:
		return DecodeNDJSON(body)
	case FormatProtobuf:
		return DecodeOTLP(body)
	default:
		return DecodeText(body, now), nil
	}
}

// DecodeJSON accepts a bare array of events, an object wrapping them in an
// "events" field, or an OTLP/JSON export carrying "resourceLogs".
func DecodeJSON(body []byte) ([]model.Event, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	var items []any
	switch p := payload.(type) {
	case []any:
		items = p
	case map[string]any:
		if _, ok := p["resourceLogs"]; ok {
			return DecodeOTLPJSON(body)
		}
		events, ok := p["events"].([]any)
		if !ok {
			return nil, nil
		}
		items = events
	default:
		return nil, nil
	}

	out := make([]model.Event, 0, len(items))
	for i, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d: not an object", i+1)
		}
		ev, err := normalizeRecord(raw, i)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

// DecodeNDJSON parses one JSON object per non-empty line. A single bad line
// fails the whole body.
func DecodeNDJSON(body []byte) ([]model.Event, error) {
	var out []model.Event
	for i, line := range splitLines(body) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(line))
		dec.UseNumber()
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if dec.More() {
			return nil, fmt.Errorf("line %d: %w", i+1, errors.New("trailing data after object"))
		}
		ev, err := normalizeRecord(raw, len(out))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

// DecodeText synthesizes one INFO event per non-empty line, one second apart
// starting at now.
func DecodeText(body []byte, now time.Time) []model.Event {
	var out []model.Event
	for _, line := range splitLines(body) {
		if line == "" {
			continue
		}
		i := len(out)
		out = append(out, model.LogEvent{
			ID:        strconv.Itoa(i + 1),
			Timestamp: now.Add(time.Duration(i) * time.Second),
			Level:     TextLevel,
			Service:   TextService,
			Host:      TextHost,
			Message:   line,
		})
	}
	return out
}

// splitLines splits on \n or \r\n.
func splitLines(body []byte) []string {
	return strings.Split(strings.ReplaceAll(string(body), "\r\n", "\n"), "\n")
}
