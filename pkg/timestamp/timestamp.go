// Package timestamp converts the heterogeneous timestamp shapes found in
// persisted campaign logs into a single canonical time.Time. Older documents
// carry document-store epoch objects, ISO strings or bare epoch numbers;
// everything is funneled through one resolver before display or comparison.
package timestamp

import (
	"encoding/json"
	"fmt"
	"time"

	"solo_adventure/pkg/logger"
)

// DisplayLayout is the time-of-day layout used for rendered messages.
const DisplayLayout = "3:04:05 PM"

var warnLog = logger.New("warn")

// SetLogger routes the unknown-format warning through the application
// logger instead of the package default.
func SetLogger(l logger.Logger) {
	if l != nil {
		warnLog = l
	}
}

// Timer is any value that can convert itself to a time.Time.
type Timer interface {
	Time() time.Time
}

// Normalize resolves an arbitrary raw timestamp value to a canonical
// time.Time. It never fails: unrecognized input yields the current time.
//
// Resolution order, first match wins:
//  1. nil → now
//  2. time.Time → returned unchanged
//  3. Timer → its Time()
//  4. object with a numeric "seconds" field → epoch seconds
//  5. string parseable as a date → parsed value
//  6. number → epoch milliseconds
//  7. anything else → warn, now
func Normalize(raw any) time.Time {
	t, ok := resolve(raw)
	if !ok {
		warnLog.Warn("Unknown timestamp format, using current time",
			"type", fmt.Sprintf("%T", raw), "value", fmt.Sprintf("%v", raw))
		return time.Now()
	}
	return t
}

// FormatDisplay renders a raw timestamp as a time-of-day string. It applies
// the same resolution order as Normalize, so the two can never disagree.
func FormatDisplay(raw any) string {
	return Normalize(raw).Format(DisplayLayout)
}

func resolve(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return time.Now(), true
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Now(), true
		}
		return *v, true
	case Timer:
		return v.Time(), true
	case json.RawMessage:
		return resolveJSON(v)
	case []byte:
		return resolveJSON(v)
	case map[string]any:
		if sec, ok := seconds(v); ok {
			return time.UnixMilli(sec * 1000), true
		}
		return time.Time{}, false
	case string:
		return parseString(v)
	case json.Number:
		if ms, err := v.Int64(); err == nil {
			return time.UnixMilli(ms), true
		}
		return time.Time{}, false
	case float64:
		return time.UnixMilli(int64(v)), true
	case int64:
		return time.UnixMilli(v), true
	case int:
		return time.UnixMilli(int64(v)), true
	default:
		return time.Time{}, false
	}
}

// resolveJSON decodes an undecoded JSON value and resolves the result.
func resolveJSON(data []byte) (time.Time, bool) {
	if len(data) == 0 || string(data) == "null" {
		return time.Now(), true
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return time.Time{}, false
	}
	return resolve(decoded)
}

func seconds(v map[string]any) (int64, bool) {
	raw, ok := v["seconds"]
	if !ok {
		return 0, false
	}
	switch n := raw.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		if sec, err := n.Int64(); err == nil {
			return sec, true
		}
	}
	return 0, false
}

var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseString(s string) (time.Time, bool) {
	for _, layout := range stringLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
