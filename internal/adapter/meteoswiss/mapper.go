// Package meteoswiss reads SwissMetNet open-data feeds: the ten-minute and
// hourly "now" files of one station, and the station metadata table.
package meteoswiss

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/swiss-weather-today/internal/domain"
	"github.com/couchcryptid/swiss-weather-today/internal/tabular"
)

// TimestampColumn is present in both measurement feeds.
const TimestampColumn = "reference_timestamp"

// msToKmh converts the feeds' wind speed unit (m/s) to km/h.
const msToKmh = 3.6

// columnSet names one feed's columns for each semantic field.
type columnSet struct {
	Temperature   string
	Sunshine      string
	Precipitation string
	WindSpeed     string
	WindDirection string
	Pressure      string
}

func (c columnSet) required() []string {
	return []string{
		TimestampColumn,
		c.Temperature,
		c.Sunshine,
		c.Precipitation,
		c.WindSpeed,
		c.WindDirection,
		c.Pressure,
	}
}

var (
	tenMinuteColumns = columnSet{
		Temperature:   "tre200s0",
		Sunshine:      "sre000z0",
		Precipitation: "rre150z0",
		WindSpeed:     "fkl010z0",
		WindDirection: "dkl010z0",
		Pressure:      "pp0qnhs0",
	}
	hourlyColumns = columnSet{
		Temperature:   "tre200h0",
		Sunshine:      "sre000h0",
		Precipitation: "rre150h0",
		WindSpeed:     "fkl010h0",
		WindDirection: "dkl010h0",
		Pressure:      "pp0qnhh0",
	}
)

// TenMinuteColumns lists the columns a ten-minute feed must carry.
func TenMinuteColumns() []string { return tenMinuteColumns.required() }

// HourlyColumns lists the columns an hourly feed must carry.
func HourlyColumns() []string { return hourlyColumns.required() }

// ColumnsFor returns the required columns of a feed kind.
func ColumnsFor(kind domain.ReadingKind) []string {
	if kind == domain.KindHourly {
		return HourlyColumns()
	}
	return TenMinuteColumns()
}

// ParseOptionalNumber reads a nullable measurement. Blank input yields nil;
// anything else must be a finite number.
func ParseOptionalNumber(raw, field string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, domain.InvalidValuef("invalid numeric value for %s: %q", field, raw)
	}
	return &v, nil
}

// MapTenMinuteRow converts a ten-minute feed row into a Reading.
func MapTenMinuteRow(row tabular.Row) (domain.Reading, error) {
	return mapRow(row, domain.KindTenMinute, tenMinuteColumns)
}

// MapHourlyRow converts an hourly feed row into a Reading.
func MapHourlyRow(row tabular.Row) (domain.Reading, error) {
	return mapRow(row, domain.KindHourly, hourlyColumns)
}

// MapRow dispatches on kind.
func MapRow(row tabular.Row, kind domain.ReadingKind) (domain.Reading, error) {
	if kind == domain.KindHourly {
		return MapHourlyRow(row)
	}
	return MapTenMinuteRow(row)
}

func mapRow(row tabular.Row, kind domain.ReadingKind, cols columnSet) (domain.Reading, error) {
	ts, err := domain.ParseTimestamp(row.Value(TimestampColumn))
	if err != nil {
		return domain.Reading{}, err
	}

	p := domain.ReadingParams{Kind: kind, Timestamp: ts}
	fields := []struct {
		column string
		dst    **float64
	}{
		{cols.Temperature, &p.TemperatureC},
		{cols.Sunshine, &p.SunshineMinutes},
		{cols.Precipitation, &p.PrecipitationMm},
		{cols.WindSpeed, &p.WindSpeedKmh},
		{cols.WindDirection, &p.WindDirDeg},
		{cols.Pressure, &p.PressureHPa},
	}
	for _, f := range fields {
		v, err := ParseOptionalNumber(row.Value(f.column), f.column)
		if err != nil {
			return domain.Reading{}, err
		}
		*f.dst = v
	}

	if p.WindSpeedKmh != nil {
		kmh := *p.WindSpeedKmh * msToKmh
		p.WindSpeedKmh = &kmh
	}

	return domain.NewReading(p)
}

// MapRows converts every row, failing on the first bad one with its 1-based
// data line number.
func MapRows(rows []tabular.Row, kind domain.ReadingKind) ([]domain.Reading, error) {
	out := make([]domain.Reading, 0, len(rows))
	for i, row := range rows {
		r, err := MapRow(row, kind)
		if err != nil {
			return nil, wrapRow(i+1, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func wrapRow(line int, err error) error {
	return fmt.Errorf("row %d: %w", line, err)
}
