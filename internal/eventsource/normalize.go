package eventsource

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Fraugrammers/frotect-dashboard/internal/logparse"
	"github.com/Fraugrammers/frotect-dashboard/internal/model"
	"github.com/Fraugrammers/frotect-dashboard/internal/timestamp"
)

// Field aliases accepted on input, in priority order.
var (
	timestampKeys = []string{"timestamp", "ts", "time", "@timestamp"}
	levelKeys     = []string{"level", "severity", "lvl"}
	messageKeys   = []string{"message", "msg"}
	hostKeys      = []string{"host", "hostname"}
	serviceKeys   = []string{"service", "svc"}
	metadataKeys  = []string{"meta", "metadata"}

	srcAddrKeys  = []string{"sourceAddress", "src_ip", "srcAddr"}
	srcPortKeys  = []string{"sourcePort", "src_port", "srcPort"}
	dstAddrKeys  = []string{"destAddress", "dst_ip", "dstAddr"}
	dstPortKeys  = []string{"destPort", "dst_port", "dstPort"}
	protoKeys    = []string{"protocol", "proto"}
	sessionKeys  = []string{"session", "session_id", "sessionId"}
	labelKeys    = []string{"label", "malicious"}
)

// normalizeRecord coerces one decoded object into the canonical Event shape.
// index is the record's position in the payload and seeds missing ids.
func normalizeRecord(raw map[string]any, index int) (model.Event, error) {
	tsVal, ok := first(raw, timestampKeys)
	if !ok {
		return nil, fmt.Errorf("record %d: missing timestamp", index+1)
	}
	ts, ok := timestamp.Coerce(tsVal)
	if !ok {
		return nil, fmt.Errorf("record %d: unparseable timestamp %v", index+1, tsVal)
	}

	if isNetworkRecord(raw) {
		return normalizeNetwork(raw, ts), nil
	}

	ev := model.LogEvent{
		ID:        firstString(raw, []string{"id"}),
		Timestamp: ts,
		Level:     logparse.NormalizeLevel(firstString(raw, levelKeys)),
		Service:   firstString(raw, serviceKeys),
		Host:      firstString(raw, hostKeys),
		Message:   firstString(raw, messageKeys),
		Metadata:  metadataOf(raw),
	}
	if ev.ID == "" {
		ev.ID = strconv.Itoa(index + 1)
	}
	return ev, nil
}

func isNetworkRecord(raw map[string]any) bool {
	_, hasSrc := first(raw, srcAddrKeys)
	_, hasDst := first(raw, dstAddrKeys)
	return hasSrc && hasDst
}

func normalizeNetwork(raw map[string]any, ts time.Time) model.NetworkEvent {
	return model.NetworkEvent{
		Timestamp:     ts,
		SourceAddress: firstString(raw, srcAddrKeys),
		SourcePort:    firstInt(raw, srcPortKeys),
		DestAddress:   firstString(raw, dstAddrKeys),
		DestPort:      firstInt(raw, dstPortKeys),
		Protocol:      strings.ToUpper(firstString(raw, protoKeys)),
		Session:       firstString(raw, sessionKeys),
		Label:         labelOf(raw),
	}
}

func first(raw map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func firstString(raw map[string]any, keys []string) string {
	v, ok := first(raw, keys)
	if !ok {
		return ""
	}
	return stringify(v)
}

func firstInt(raw map[string]any, keys []string) int {
	v, ok := first(raw, keys)
	if !ok {
		return 0
	}
	n, _ := toInt(v)
	return n
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			f, ferr := x.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(n), true
	case float64:
		return int(x), true
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	default:
		return 0, false
	}
}

func labelOf(raw map[string]any) int {
	v, ok := first(raw, labelKeys)
	if !ok {
		return 0
	}
	if s, isString := v.(string); isString {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "1", "malicious", "attack", "true":
			return 1
		default:
			return 0
		}
	}
	if n, ok := toInt(v); ok && n != 0 {
		return 1
	}
	return 0
}

// metadataOf returns the metadata object, decoding it when it arrives as a
// JSON string (as SQL sources tend to deliver it).
func metadataOf(raw map[string]any) map[string]any {
	v, ok := first(raw, metadataKeys)
	if !ok {
		return nil
	}
	switch m := v.(type) {
	case map[string]any:
		if len(m) == 0 {
			return nil
		}
		return m
	case string:
		return decodeMetadata([]byte(m))
	case []byte:
		return decodeMetadata(m)
	default:
		return nil
	}
}

func decodeMetadata(b []byte) map[string]any {
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil || len(out) == 0 {
		return nil
	}
	return out
}
