package tabular

import (
	"strings"

	"github.com/couchcryptid/swiss-weather-today/internal/domain"
)

// StationColumn carries the station abbreviation in MeteoSwiss feeds.
const StationColumn = "station_abbr"

// RequireColumns checks that the first row carries every required column.
// An empty row set passes.
func RequireColumns(rows []Row, required []string) error {
	if len(rows) == 0 {
		return nil
	}
	first := rows[0]

	var missing []string
	for _, col := range required {
		if _, ok := first.Get(col); !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return domain.SchemaMismatchf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// RequireStation checks that every row carrying station_abbr names the
// expected station, ignoring case. Rows without the column are skipped.
func RequireStation(rows []Row, expected string) error {
	for _, row := range rows {
		abbr, ok := row.Get(StationColumn)
		if !ok {
			continue
		}
		if !strings.EqualFold(abbr, expected) {
			return domain.SchemaMismatchf("station mismatch: expected %q, got %q", expected, abbr)
		}
	}
	return nil
}
