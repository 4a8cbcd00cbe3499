package timestamp

import (
	"encoding/json"
	"testing"
	"time"

	"solo_adventure/pkg/logger"
)

// captureLogger records warn messages so tests can assert on the fallback.
type captureLogger struct {
	warnings []string
}

func (c *captureLogger) Debug(msg string, args ...any)  {}
func (c *captureLogger) Info(msg string, args ...any)   {}
func (c *captureLogger) Warn(msg string, args ...any)   { c.warnings = append(c.warnings, msg) }
func (c *captureLogger) Error(msg string, args ...any)  {}
func (c *captureLogger) Fatal(msg string, args ...any)  {}
func (c *captureLogger) With(args ...any) logger.Logger { return c }

type fixedTimer struct {
	t time.Time
}

func (f fixedTimer) Time() time.Time { return f.t }

func TestNormalizeTime(t *testing.T) {
	want := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	got := Normalize(want)
	if !got.Equal(want) {
		t.Errorf("Normalize(time.Time) = %v, want %v", got, want)
	}
}

func TestNormalizeTimePointer(t *testing.T) {
	want := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	got := Normalize(&want)
	if !got.Equal(want) {
		t.Errorf("Normalize(*time.Time) = %v, want %v", got, want)
	}

	var nilPtr *time.Time
	before := time.Now()
	got = Normalize(nilPtr)
	if got.Before(before) {
		t.Errorf("Normalize(nil *time.Time) = %v, want approximately now", got)
	}
}

func TestNormalizeNil(t *testing.T) {
	before := time.Now()
	got := Normalize(nil)
	after := time.Now()
	if got.Before(before) || got.After(after) {
		t.Errorf("Normalize(nil) = %v, want between %v and %v", got, before, after)
	}
}

func TestNormalizeTimer(t *testing.T) {
	want := time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC)
	got := Normalize(fixedTimer{t: want})
	if !got.Equal(want) {
		t.Errorf("Normalize(Timer) = %v, want %v", got, want)
	}
}

func TestNormalizeSecondsObject(t *testing.T) {
	raw := map[string]any{"seconds": float64(1700000000), "nanoseconds": float64(0)}
	want := time.UnixMilli(1700000000 * 1000)
	got := Normalize(raw)
	if !got.Equal(want) {
		t.Errorf("Normalize(seconds object) = %v, want %v", got, want)
	}
}

func TestNormalizeString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", "2024-03-15T10:30:00Z", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"rfc3339 nano", "2024-03-15T10:30:00.123456789Z", time.Date(2024, 3, 15, 10, 30, 0, 123456789, time.UTC)},
		{"no zone", "2024-03-15T10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"space separated", "2024-03-15 10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"date only", "2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("Normalize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeEpochMillis(t *testing.T) {
	ms := int64(1700000000123)
	want := time.UnixMilli(ms)

	for name, raw := range map[string]any{
		"int64":   ms,
		"int":     int(ms),
		"float64": float64(ms),
	} {
		got := Normalize(raw)
		if !got.Equal(want) {
			t.Errorf("Normalize(%s %v) = %v, want %v", name, raw, got, want)
		}
	}
}

func TestNormalizeRawJSON(t *testing.T) {
	want := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	got := Normalize(json.RawMessage(`"2024-03-15T10:30:00Z"`))
	if !got.Equal(want) {
		t.Errorf("Normalize(raw string) = %v, want %v", got, want)
	}

	got = Normalize(json.RawMessage(`{"seconds": 1700000000}`))
	if !got.Equal(time.UnixMilli(1700000000 * 1000)) {
		t.Errorf("Normalize(raw seconds object) = %v", got)
	}

	before := time.Now()
	got = Normalize(json.RawMessage(`null`))
	if got.Before(before) {
		t.Errorf("Normalize(raw null) = %v, want approximately now", got)
	}
}

func TestNormalizeUnknownFallsBackToNow(t *testing.T) {
	before := time.Now()
	got := Normalize(struct{ X int }{X: 1})
	after := time.Now()
	if got.Before(before) || got.After(after) {
		t.Errorf("Normalize(unknown) = %v, want between %v and %v", got, before, after)
	}

	got = Normalize("not a date at all")
	if got.Before(before) {
		t.Errorf("Normalize(garbage string) = %v, want approximately now", got)
	}
}

func TestNormalizeUnknownWarnsThroughInjectedLogger(t *testing.T) {
	capture := &captureLogger{}
	SetLogger(capture)
	defer SetLogger(logger.New("warn"))

	Normalize(struct{ X int }{X: 1})
	if len(capture.warnings) != 1 {
		t.Fatalf("warnings after unknown input = %d, want 1", len(capture.warnings))
	}

	Normalize(time.Now())
	if len(capture.warnings) != 1 {
		t.Errorf("recognized input logged a warning: %v", capture.warnings)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	first := Normalize("2024-03-15T10:30:00Z")
	second := Normalize(first)
	if !second.Equal(first) {
		t.Errorf("Normalize(Normalize(x)) = %v, want %v", second, first)
	}
}

func TestFormatDisplayAgreesWithNormalize(t *testing.T) {
	raw := "2024-03-15T14:45:30Z"
	want := Normalize(raw).Format(DisplayLayout)
	got := FormatDisplay(raw)
	if got != want {
		t.Errorf("FormatDisplay(%q) = %q, want %q", raw, got, want)
	}
	if got != "2:45:30 PM" {
		t.Errorf("FormatDisplay(%q) = %q, want %q", raw, got, "2:45:30 PM")
	}
}
