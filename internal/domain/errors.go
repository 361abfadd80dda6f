package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure. The set is closed; callers switch on it
// at the entry-point boundary.
type Kind int

const (
	// KindUnknown is returned by KindOf for errors that are not a *Error.
	KindUnknown Kind = iota
	// KindInvalidValue: a value fails a domain invariant.
	KindInvalidValue
	// KindNetwork: the transport failed or returned a non-success status.
	KindNetwork
	// KindCsvParse: tabular content could not be decoded into rows.
	KindCsvParse
	// KindSchemaMismatch: rows violate the column contract or station identity.
	KindSchemaMismatch
	// KindNoDataForToday: neither feed had a reading inside today's window.
	KindNoDataForToday
)

func (k Kind) String() string {
	switch k {
	case KindInvalidValue:
		return "invalid_value"
	case KindNetwork:
		return "network"
	case KindCsvParse:
		return "csv_parse"
	case KindSchemaMismatch:
		return "schema_mismatch"
	case KindNoDataForToday:
		return "no_data_for_today"
	default:
		return "unknown"
	}
}

// Error is the single error type raised by the weather core.
type Error struct {
	Kind Kind
	Msg  string

	// URL and Status are set for network failures when known.
	URL    string
	Status int

	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.String() + ": " + e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidValuef builds a KindInvalidValue error.
func InvalidValuef(format string, args ...any) error {
	return &Error{Kind: KindInvalidValue, Msg: fmt.Sprintf(format, args...)}
}

// CsvParsef builds a KindCsvParse error.
func CsvParsef(format string, args ...any) error {
	return &Error{Kind: KindCsvParse, Msg: fmt.Sprintf(format, args...)}
}

// SchemaMismatchf builds a KindSchemaMismatch error.
func SchemaMismatchf(format string, args ...any) error {
	return &Error{Kind: KindSchemaMismatch, Msg: fmt.Sprintf(format, args...)}
}

// NetworkError reports a failed request. status is 0 when no response arrived.
func NetworkError(url string, status int, cause error) error {
	msg := "request failed: " + url
	if status != 0 {
		msg = fmt.Sprintf("HTTP %d: %s", status, url)
	}
	return &Error{Kind: KindNetwork, Msg: msg, URL: url, Status: status, Err: cause}
}

// NoDataForToday reports that no reading survived today's window.
func NoDataForToday(station string) error {
	return &Error{Kind: KindNoDataForToday, Msg: "no readings for today at station " + station}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
