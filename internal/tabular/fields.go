package tabular

import (
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/swiss-weather-today/internal/domain"
)

// RequiredString returns the trimmed value of column, failing with
// InvalidValue when it is absent or blank.
func (r Row) RequiredString(column string) (string, error) {
	v := strings.TrimSpace(r.values[column])
	if v == "" {
		return "", domain.InvalidValuef("%s is required", column)
	}
	return v, nil
}

// RequiredNumber parses column as a finite float, failing with InvalidValue
// when it is absent, blank, or not a finite number.
func (r Row) RequiredNumber(column string) (float64, error) {
	raw, err := r.RequiredString(column)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, domain.InvalidValuef("%s must be a finite number, got %q", column, raw)
	}
	return v, nil
}
