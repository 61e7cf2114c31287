package prediction

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// backendLayout is what the classifier writes: local wall-clock time, no zone.
const backendLayout = "2006-01-02T15:04:05.000000"

// Timestamp is a history timestamp as sent by the backend. The backend omits
// the zone, so the value is kept raw and interpreted in a caller-supplied
// location.
type Timestamp struct {
	raw string
}

// NewTimestamp renders t as a zone-less backend timestamp (wall clock of t).
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{raw: t.Format(backendLayout)}
}

// ParseTimestamp wraps a raw backend timestamp string.
func ParseTimestamp(s string) Timestamp {
	return Timestamp{raw: s}
}

// In parses the timestamp in loc. Strings carrying their own offset keep it.
func (t Timestamp) In(loc *time.Location) (time.Time, error) {
	if t.raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.Local
	}
	parsed, err := dateparse.ParseIn(t.raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", t.raw, err)
	}
	return parsed.In(loc), nil
}

// IsZero reports whether no timestamp was sent.
func (t Timestamp) IsZero() bool {
	return t.raw == ""
}

func (t Timestamp) String() string {
	return t.raw
}

// Format renders the timestamp in loc, or the raw value when it can't be parsed.
func (t Timestamp) Format(loc *time.Location, layout string) string {
	parsed, err := t.In(loc)
	if err != nil {
		return t.raw
	}
	return parsed.Format(layout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.raw)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.raw = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	t.raw = s
	return nil
}
