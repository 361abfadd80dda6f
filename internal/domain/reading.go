package domain

import (
	"encoding/json"
	"math"
	"time"
)

// ReadingKind distinguishes the ten-minute feed from the hourly feed.
type ReadingKind string

const (
	KindTenMinute ReadingKind = "ten-minute"
	KindHourly    ReadingKind = "hourly"
)

// Temperature bounds in °C, inclusive.
const (
	MinTemperatureC = -50.0
	MaxTemperatureC = 60.0
)

// MaxSunshineMinutes is the length of the aggregation interval per kind.
func (k ReadingKind) MaxSunshineMinutes() float64 {
	if k == KindHourly {
		return 60
	}
	return 10
}

func (k ReadingKind) valid() bool {
	return k == KindTenMinute || k == KindHourly
}

// ReadingParams are the raw inputs to NewReading. Nil pointers mean "no value".
type ReadingParams struct {
	Kind            ReadingKind
	Timestamp       Timestamp
	TemperatureC    *float64
	SunshineMinutes *float64
	PrecipitationMm *float64
	WindSpeedKmh    *float64
	WindDirDeg      *float64
	PressureHPa     *float64
}

// Reading is one validated measurement. Fields are unexported so a Reading
// cannot change after NewReading returns.
type Reading struct {
	kind          ReadingKind
	timestamp     Timestamp
	temperature   *float64
	sunshine      *float64
	precipitation *float64
	windSpeed     *float64
	windDir       *float64
	pressure      *float64
}

// NewReading validates p and returns an immutable Reading.
func NewReading(p ReadingParams) (Reading, error) {
	if !p.Kind.valid() {
		return Reading{}, InvalidValuef("reading kind %q is not supported", p.Kind)
	}
	if p.Timestamp.IsZero() {
		return Reading{}, InvalidValuef("reading timestamp is required")
	}

	checks := []struct {
		name  string
		value *float64
		ok    func(float64) bool
		rule  string
	}{
		{"temperature", p.TemperatureC, func(v float64) bool { return v >= MinTemperatureC && v <= MaxTemperatureC }, "between -50 and 60 °C"},
		{"sunshine", p.SunshineMinutes, func(v float64) bool { return v >= 0 && v <= p.Kind.MaxSunshineMinutes() }, sunshineRule(p.Kind)},
		{"precipitation", p.PrecipitationMm, func(v float64) bool { return v >= 0 }, "non-negative"},
		{"wind speed", p.WindSpeedKmh, func(v float64) bool { return v >= 0 }, "non-negative"},
		{"wind direction", p.WindDirDeg, func(v float64) bool { return v >= 0 && v <= 360 }, "between 0 and 360 degrees"},
		{"pressure", p.PressureHPa, func(v float64) bool { return v > 0 }, "positive"},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		v := *c.value
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Reading{}, InvalidValuef("%s must be a finite number", c.name)
		}
		if !c.ok(v) {
			return Reading{}, InvalidValuef("%s %g must be %s", c.name, v, c.rule)
		}
	}

	return Reading{
		kind:          p.Kind,
		timestamp:     p.Timestamp,
		temperature:   copyFloat(p.TemperatureC),
		sunshine:      copyFloat(p.SunshineMinutes),
		precipitation: copyFloat(p.PrecipitationMm),
		windSpeed:     copyFloat(p.WindSpeedKmh),
		windDir:       copyFloat(p.WindDirDeg),
		pressure:      copyFloat(p.PressureHPa),
	}, nil
}

func sunshineRule(k ReadingKind) string {
	if k == KindHourly {
		return "between 0 and 60 minutes for hourly readings"
	}
	return "between 0 and 10 minutes for ten-minute readings"
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

func (r Reading) Kind() ReadingKind { return r.kind }
func (r Reading) Timestamp() Timestamp { return r.timestamp }
func (r Reading) Instant() time.Time { return r.timestamp.Time() }
func (r Reading) TemperatureC() (float64, bool) { return deref(r.temperature) }
func (r Reading) SunshineMinutes() (float64, bool) { return deref(r.sunshine) }
func (r Reading) PrecipitationMm() (float64, bool) { return deref(r.precipitation) }
func (r Reading) WindSpeedKmh() (float64, bool) { return deref(r.windSpeed) }
func (r Reading) WindDirectionDeg() (float64, bool) { return deref(r.windDir) }
func (r Reading) PressureHPa() (float64, bool) { return deref(r.pressure) }

type readingJSON struct {
	Kind            ReadingKind `json:"kind"`
	Timestamp       Timestamp   `json:"timestamp"`
	TemperatureC    *float64    `json:"temperature_c"`
	SunshineMinutes *float64    `json:"sunshine_minutes"`
	PrecipitationMm *float64    `json:"precipitation_mm"`
	WindSpeedKmh    *float64    `json:"wind_speed_kmh"`
	WindDirDeg      *float64    `json:"wind_direction_deg"`
	PressureHPa     *float64    `json:"pressure_hpa"`
}

func (r Reading) MarshalJSON() ([]byte, error) {
	return json.Marshal(readingJSON{
		Kind:            r.kind,
		Timestamp:       r.timestamp,
		TemperatureC:    r.temperature,
		SunshineMinutes: r.sunshine,
		PrecipitationMm: r.precipitation,
		WindSpeedKmh:    r.windSpeed,
		WindDirDeg:      r.windDir,
		PressureHPa:     r.pressure,
	})
}
