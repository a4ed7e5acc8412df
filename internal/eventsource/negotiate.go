package eventsource

import (
	"mime"
	"path/filepath"
	"strings"
)

// Format is the body encoding chosen from the declared content type.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatNDJSON
	FormatProtobuf
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatNDJSON:
		return "ndjson"
	case FormatProtobuf:
		return "protobuf"
	default:
		return "text"
	}
}

// Media types served and recognized.
const (
	MediaJSON     = "application/json"
	MediaNDJSON   = "application/x-ndjson"
	MediaProtobuf = "application/x-protobuf"
	MediaText     = "text/plain"
)

// FormatFor classifies a Content-Type header value. Unknown or missing
// types are treated as plain text.
func FormatFor(contentType string) Format {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	switch mt {
	case "application/x-ndjson", "application/ndjson", "application/jsonl",
		"application/x-jsonlines", "application/json-seq":
		return FormatNDJSON
	case "application/x-protobuf", "application/protobuf", "application/vnd.google.protobuf":
		return FormatProtobuf
	case "application/json", "text/json":
		return FormatJSON
	}
	if strings.HasSuffix(mt, "+json") {
		return FormatJSON
	}
	return FormatText
}

// contentTypeForPath infers a media type for local files.
func contentTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return MediaJSON
	case ".ndjson", ".jsonl":
		return MediaNDJSON
	case ".pb", ".binpb":
		return MediaProtobuf
	default:
		return MediaText
	}
}
