package domain

import (
	"math"
	"regexp"
	"strings"
)

var (
	tokenRe = regexp.MustCompile(`^[a-z0-9]+$`)
	abbrRe  = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)
)

// Station identifies a MeteoSwiss SwissMetNet station. The token builds feed
// URLs ("goe"), the abbreviation is what the feeds carry in station_abbr ("GOE").
type Station struct {
	token        string
	abbreviation string
}

// NewStation validates the token and upper-cases the abbreviation.
func NewStation(token, abbreviation string) (Station, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Station{}, InvalidValuef("station token is required")
	}
	if !tokenRe.MatchString(token) {
		return Station{}, InvalidValuef("station token %q must be lowercase alphanumeric", token)
	}

	abbreviation = strings.ToUpper(strings.TrimSpace(abbreviation))
	if abbreviation == "" {
		return Station{}, InvalidValuef("station abbreviation is required")
	}
	if !abbrRe.MatchString(abbreviation) {
		return Station{}, InvalidValuef("station abbreviation %q must be 2-10 uppercase alphanumeric characters", abbreviation)
	}
	return Station{token: token, abbreviation: abbreviation}, nil
}

// StationFromMeta derives the feed identity of a ranked station.
func StationFromMeta(meta StationMeta) (Station, error) {
	return NewStation(strings.ToLower(meta.Abbreviation), meta.Abbreviation)
}

func (s Station) Token() string        { return s.token }
func (s Station) Abbreviation() string { return s.abbreviation }
func (s Station) String() string       { return s.abbreviation }

// StationMeta is one row of the station metadata table. It is a plain value
// record: fields are exported for JSON and every copy is independent, so a
// caller can only change its own copy. NewStationMeta is the validation gate.
type StationMeta struct {
	Abbreviation string  `json:"abbreviation"`
	Name         string  `json:"name"`
	ElevationM   float64 `json:"elevation_m"`
	East         float64 `json:"lv95_east"`
	North        float64 `json:"lv95_north"`
}

// NewStationMeta validates a metadata row. The abbreviation is upper-cased.
func NewStationMeta(abbr, name string, elevation, east, north float64) (StationMeta, error) {
	abbr = strings.ToUpper(strings.TrimSpace(abbr))
	name = strings.TrimSpace(name)
	if abbr == "" {
		return StationMeta{}, InvalidValuef("station_abbr is required")
	}
	if name == "" {
		return StationMeta{}, InvalidValuef("station_name is required for %s", abbr)
	}
	coords := []struct {
		label string
		v     float64
	}{
		{"elevation", elevation},
		{"east", east},
		{"north", north},
	}
	for _, c := range coords {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return StationMeta{}, InvalidValuef("station %s %s must be finite", abbr, c.label)
		}
	}
	return StationMeta{Abbreviation: abbr, Name: name, ElevationM: elevation, East: east, North: north}, nil
}
