package eventsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const (
	// AcceptHeader mirrors what a browser-side fetch of the log endpoints sends.
	AcceptHeader = "application/json, text/plain, */*"

	maxBodySize = 32 << 20
)

// body is a fetched payload and its declared media type.
type body struct {
	data        []byte
	contentType string
}

// Fetch retrieves a payload over HTTP. Non-2xx statuses are fetch failures.
func Fetch(ctx context.Context, client *http.Client, url, accept string) ([]byte, string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fetchErr(url, err)
	}
	req.Header.Set("Accept", accept)

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fetchErr(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, "", fetchErr(url, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, "", fetchErr(url, fmt.Errorf("reading body: %w", err))
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func fetchHTTP(ctx context.Context, client *http.Client, url string) (body, error) {
	data, ct, err := Fetch(ctx, client, url, AcceptHeader)
	if err != nil {
		return body{}, err
	}
	return body{data: data, contentType: ct}, nil
}

func readFile(source string) (body, error) {
	path := strings.TrimPrefix(source, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return body{}, fetchErr(source, err)
	}
	return body{data: data, contentType: contentTypeForPath(path)}, nil
}

// readStdin drains r. A body whose first non-blank line opens a JSON object
// is treated as NDJSON, anything else as text. When ctx ends first, r is
// closed if it is an io.Closer so the reading goroutine can return.
func readStdin(ctx context.Context, r io.Reader) (body, error) {
	if r == nil {
		r = os.Stdin
	}
	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := io.ReadAll(io.LimitReader(r, maxBodySize))
		done <- result{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		if c, ok := r.(io.Closer); ok {
			_ = c.Close()
		}
		return body{}, fetchErr("stdin", ctx.Err())
	case res := <-done:
		if res.err != nil && !errors.Is(res.err, io.EOF) {
			return body{}, fetchErr("stdin", res.err)
		}
		return body{data: res.data, contentType: sniffLines(res.data)}, nil
	}
}

func sniffLines(data []byte) string {
	for _, line := range splitLines(data) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "{") {
			return MediaNDJSON
		}
		if strings.HasPrefix(trimmed, "[") {
			return MediaJSON
		}
		return MediaText
	}
	return MediaText
}
