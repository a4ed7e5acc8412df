// Package reports loads and filters the analyzer's PDF report catalog.
package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Fraugrammers/frotect-dashboard/internal/eventsource"
	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// AcceptHeader is sent when fetching the catalog.
const AcceptHeader = "application/json, */*"

// Fallback is shown whenever the catalog cannot be fetched.
func Fallback() []model.Report {
	at := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	return []model.Report{
		{
			ID: "rpt-001", Name: "Incident Summary – Web App (Sep 2025).pdf",
			URL: "/docs/incident-summary-sep-2025.pdf", SizeBytes: 824_320,
			CreatedAt: at("2025-09-18T09:30:00Z"), Tags: []string{"incident", "security"},
		},
		{
			ID: "rpt-002", Name: "Weekly Threat Intel Digest.pdf",
			URL: "/docs/threat-intel-weekly.pdf", SizeBytes: 512_008,
			CreatedAt: at("2025-09-17T07:05:00Z"), Tags: []string{"intel", "security"},
		},
		{
			ID: "rpt-003", Name: "Compliance Checklist – Q3.pdf",
			URL: "/docs/compliance-q3.pdf", SizeBytes: 1_224_000,
			CreatedAt: at("2025-09-10T12:00:00Z"), Tags: []string{"compliance"},
		},
		{
			ID: "rpt-004", Name: "Capacity & Performance Report.pdf",
			URL: "/docs/capacity-performance.pdf", SizeBytes: 2_048_120,
			CreatedAt: at("2025-09-05T15:12:00Z"), Tags: []string{"infra", "metrics"},
		},
		{
			ID: "rpt-005", Name: "Quarterly Risk Posture.pdf",
			URL: "/docs/risk-posture-q3.pdf", SizeBytes: 1_104_555,
			CreatedAt: at("2025-08-30T10:00:00Z"), Tags: []string{"risk", "security"},
		},
	}
}

// Result is a loaded catalog. On failure Reports holds the fallback list
// and Err the reason.
type Result struct {
	Reports      []model.Report
	Err          error
	UsedFallback bool
}

// Message is the short display form of Err.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	var le *eventsource.LoadError
	if errors.As(r.Err, &le) && le.Err != nil {
		return le.Err.Error()
	}
	return r.Err.Error()
}

// Load reads the catalog from an http(s) URL or a local file. A payload
// that is neither an array nor an object with a "reports" array silently
// yields the fallback list.
func Load(ctx context.Context, client *http.Client, source string) Result {
	data, err := read(ctx, client, source)
	if err != nil {
		return Result{Reports: Fallback(), Err: err, UsedFallback: true}
	}
	list, ok, err := Decode(data)
	if err != nil {
		return Result{Reports: Fallback(), Err: err, UsedFallback: true}
	}
	if !ok {
		return Result{Reports: Fallback(), UsedFallback: true}
	}
	return Result{Reports: list}
}

// Decode parses a bare array or a {"reports": [...]} wrapper. ok is false
// when the JSON is valid but has neither shape.
func Decode(data []byte) (list []model.Report, ok bool, err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, false, fmt.Errorf("decoding reports: %w", err)
		}
		return list, true, nil
	}

	var wrapped struct {
		Reports *[]model.Report `json:"reports"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, false, fmt.Errorf("decoding reports: %w", err)
	}
	if wrapped.Reports == nil {
		return nil, false, nil
	}
	return *wrapped.Reports, true, nil
}

func read(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, _, err := eventsource.Fetch(ctx, client, source, AcceptHeader)
		return data, err
	}
	data, err := os.ReadFile(strings.TrimPrefix(source, "file://"))
	if err != nil {
		return nil, fmt.Errorf("reading reports: %w", err)
	}
	return data, nil
}

// ResolveURL makes a report link absolute against the catalog source. Links
// from a file catalog, and links that are already absolute, are returned
// unchanged.
func ResolveURL(source, link string) string {
	if link == "" {
		return ""
	}
	base, err := url.Parse(source)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return link
	}
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	return base.ResolveReference(ref).String()
}
