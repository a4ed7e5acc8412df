package eventsource

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/Fraugrammers/frotect-dashboard/internal/logparse"
	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// Resource attribute keys mapped onto LogEvent fields.
const (
	attrServiceName = "service.name"
	attrHostName    = "host.name"
)

// DecodeOTLP decodes a binary OTLP ExportLogsServiceRequest.
func DecodeOTLP(body []byte) ([]model.Event, error) {
	var req collogspb.ExportLogsServiceRequest
	if err := proto.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("decoding OTLP protobuf: %w", err)
	}
	return EventsFromOTLP(req.GetResourceLogs()), nil
}

// DecodeOTLPJSON decodes the OTLP/JSON encoding of the same request.
func DecodeOTLPJSON(body []byte) ([]model.Event, error) {
	var req collogspb.ExportLogsServiceRequest
	opts := protojson.UnmarshalOptions{DiscardUnknown: true}
	if err := opts.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("decoding OTLP JSON: %w", err)
	}
	return EventsFromOTLP(req.GetResourceLogs()), nil
}

// EventsFromOTLP flattens resource/scope/log-record nesting into log events.
// Records with neither time nor observed time are skipped.
func EventsFromOTLP(resourceLogs []*logspb.ResourceLogs) []model.Event {
	var out []model.Event
	for _, rl := range resourceLogs {
		resAttrs := attributesToMap(rl.GetResource().GetAttributes())
		service := stringAttr(resAttrs, attrServiceName)
		host := stringAttr(resAttrs, attrHostName)

		for _, sl := range rl.GetScopeLogs() {
			for _, rec := range sl.GetLogRecords() {
				ts := rec.GetTimeUnixNano()
				if ts == 0 {
					ts = rec.GetObservedTimeUnixNano()
				}
				if ts == 0 {
					continue
				}

				level := logparse.SeverityNumberToLevel(int(rec.GetSeverityNumber()))
				if text := rec.GetSeverityText(); text != "" {
					level = logparse.NormalizeLevel(text)
				}

				meta := attributesToMap(rec.GetAttributes())
				if len(meta) == 0 {
					meta = nil
				}

				id := hex.EncodeToString(rec.GetSpanId())
				if id == "" {
					id = strconv.Itoa(len(out) + 1)
				}

				out = append(out, model.LogEvent{
					ID:        id,
					Timestamp: time.Unix(0, int64(ts)).UTC(),
					Level:     level,
					Service:   service,
					Host:      host,
					Message:   anyValueString(rec.GetBody()),
					Metadata:  meta,
				})
			}
		}
	}
	return out
}

// EventToOTLP converts a log event back into an OTLP log record; used by the
// receiver tests and the fixture exporter.
func EventToOTLP(ev model.LogEvent) *logspb.LogRecord {
	attrs := make([]*commonpb.KeyValue, 0, len(ev.Metadata))
	for k, v := range ev.Metadata {
		attrs = append(attrs, &commonpb.KeyValue{Key: k, Value: toAnyValue(v)})
	}
	return &logspb.LogRecord{
		TimeUnixNano: uint64(ev.Timestamp.UnixNano()),
		SeverityText: string(ev.Level),
		Body:         &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: ev.Message}},
		Attributes:   attrs,
	}
}

func attributesToMap(kvs []*commonpb.KeyValue) map[string]any {
	out := make(map[string]any, len(kvs))
	for _, kv := range kvs {
		out[kv.GetKey()] = anyValueNative(kv.GetValue())
	}
	return out
}

func stringAttr(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		return fmt.Sprint(v)
	}
	return ""
}

func anyValueNative(v *commonpb.AnyValue) any {
	switch x := v.GetValue().(type) {
	case *commonpb.AnyValue_StringValue:
		return x.StringValue
	case *commonpb.AnyValue_IntValue:
		return x.IntValue
	case *commonpb.AnyValue_DoubleValue:
		return x.DoubleValue
	case *commonpb.AnyValue_BoolValue:
		return x.BoolValue
	case nil:
		return nil
	default:
		return anyValueString(v)
	}
}

func anyValueString(v *commonpb.AnyValue) string {
	if v == nil {
		return ""
	}
	switch x := v.GetValue().(type) {
	case *commonpb.AnyValue_StringValue:
		return x.StringValue
	case *commonpb.AnyValue_IntValue:
		return strconv.FormatInt(x.IntValue, 10)
	case *commonpb.AnyValue_DoubleValue:
		return strconv.FormatFloat(x.DoubleValue, 'f', -1, 64)
	case *commonpb.AnyValue_BoolValue:
		return strconv.FormatBool(x.BoolValue)
	case nil:
		return ""
	default:
		b, err := protojson.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func toAnyValue(v any) *commonpb.AnyValue {
	switch x := v.(type) {
	case string:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: x}}
	case bool:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_BoolValue{BoolValue: x}}
	case int:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_IntValue{IntValue: int64(x)}}
	case int64:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_IntValue{IntValue: x}}
	case float64:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_DoubleValue{DoubleValue: x}}
	default:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: fmt.Sprint(x)}}
	}
}
