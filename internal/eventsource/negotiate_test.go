package eventsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFormatFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        Format
	}{
		{"application/json", FormatJSON},
		{"application/json; charset=utf-8", FormatJSON},
		{"application/vnd.frotect+json", FormatJSON},
		{"application/x-ndjson", FormatNDJSON},
		{"application/jsonl", FormatNDJSON},
		{"application/x-protobuf", FormatProtobuf},
		{"text/plain; charset=utf-8", FormatText},
		{"", FormatText},
		{"garbage;;", FormatText},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			t.Parallel()
			if got := FormatFor(tt.contentType); got != tt.want {
				t.Errorf("FormatFor(%q) = %s, want %s", tt.contentType, got, tt.want)
			}
		})
	}
}

func TestLoad_FileSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return p
	}

	jsonPath := write("events.json", `[{"ts":"2025-09-18T10:00:00Z","message":"a"},{"ts":"2025-09-18T10:00:01Z","message":"b"}]`)
	ndjsonPath := write("events.ndjson", "{\"ts\":\"2025-09-18T10:00:00Z\",\"message\":\"a\"}\n")
	textPath := write("events.log", "one\ntwo\n")

	tests := []struct {
		source string
		want   int
	}{
		{jsonPath, 2},
		{"file://" + ndjsonPath, 1},
		{textPath, 2},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.source), func(t *testing.T) {
			t.Parallel()
			res := newTestLoader().Load(context.Background(), Request{Source: tt.source})
			if res.Err != nil {
				t.Fatalf("Load: %v", res.Err)
			}
			if res.Events.Len() != tt.want {
				t.Errorf("Len = %d, want %d", res.Events.Len(), tt.want)
			}
		})
	}

	res := newTestLoader().Load(context.Background(), Request{Source: filepath.Join(dir, "missing.json")})
	if res.Err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSniffLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"\n  {\"ts\":1}\n", MediaNDJSON},
		{"[{\"ts\":1}]", MediaJSON},
		{"plain words", MediaText},
		{"", MediaText},
	}
	for _, tt := range tests {
		if got := sniffLines([]byte(tt.in)); got != tt.want {
			t.Errorf("sniffLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
