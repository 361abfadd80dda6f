package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// timestampRe matches the MeteoSwiss reference_timestamp layout "DD.MM.YYYY HH:mm".
var timestampRe = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4}) (\d{2}):(\d{2})$`)

// isoMillis is the rendering used for logs and JSON, e.g. 2026-01-11T13:20:00.000Z.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Timestamp is an immutable UTC instant.
type Timestamp struct {
	t time.Time
}

// NewTimestamp wraps an instant. The zero time is rejected.
func NewTimestamp(t time.Time) (Timestamp, error) {
	if t.IsZero() {
		return Timestamp{}, InvalidValuef("timestamp requires a non-zero instant")
	}
	return Timestamp{t: t.UTC()}, nil
}

// ParseTimestamp parses "DD.MM.YYYY HH:mm" as a UTC wall-clock time.
func ParseTimestamp(raw string) (Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Timestamp{}, InvalidValuef("timestamp string is required")
	}
	m := timestampRe.FindStringSubmatch(raw)
	if m == nil {
		return Timestamp{}, InvalidValuef("timestamp %q must match DD.MM.YYYY HH:mm", raw)
	}

	// The regexp guarantees digits, so Atoi cannot fail.
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 {
		return Timestamp{}, InvalidValuef("timestamp %q contains out-of-range values", raw)
	}

	// Days past the end of the month roll over: 31.02.2026 is 03.03.2026.
	return Timestamp{t: time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)}, nil
}

// Time returns the instant in UTC.
func (ts Timestamp) Time() time.Time { return ts.t }

// IsZero reports whether ts was never constructed.
func (ts Timestamp) IsZero() bool { return ts.t.IsZero() }

// Before reports whether ts is strictly earlier than other.
func (ts Timestamp) Before(other Timestamp) bool { return ts.t.Before(other.t) }

// String renders the instant as ISO-8601 with milliseconds in UTC.
func (ts Timestamp) String() string {
	return ts.t.Format(isoMillis)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(ts.String())), nil
}
