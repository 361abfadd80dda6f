package domain

import (
	"math"
	"sort"
	"time"
)

// TodayWeather is the "today" view of one station: the latest ten-minute
// reading (nil when there is none today) and the hourly series in ascending
// time order. Reference is the instant whose civil day the readings were cut
// to; the zero value means the caller did not record one.
type TodayWeather struct {
	Station   Station   `json:"-"`
	Reference time.Time `json:"-"`
	Current   *Reading  `json:"current"`
	Hourly    []Reading `json:"hourly"`
}

// NewTodayWeather reduces already-windowed readings into the today view.
// The hourly slice is copied and sorted; current is the reading with the
// latest timestamp, or nil.
func NewTodayWeather(station Station, current, hourly []Reading) TodayWeather {
	sorted := make([]Reading, len(hourly))
	copy(sorted, hourly)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp().Before(sorted[j].Timestamp())
	})

	var latest *Reading
	for i := range current {
		if latest == nil || latest.Timestamp().Before(current[i].Timestamp()) {
			r := current[i]
			latest = &r
		}
	}

	return TodayWeather{Station: station, Current: latest, Hourly: sorted}
}

// StationDistance pairs a station with its planar distance from a place.
type StationDistance struct {
	Station    StationMeta `json:"station"`
	DistanceKm float64     `json:"distance_km"`
}

// MaxNearestLimit is the most stations RankStations ever returns. It is also
// the default when the caller does not choose.
const (
	MaxNearestLimit     = 10
	DefaultNearestLimit = MaxNearestLimit
)

// RankStations orders stations by LV95 distance from place, nearest first.
// Equal distances are ordered by name, then abbreviation, so the result does
// not depend on input order. At most limit entries are returned; limits
// outside 1..MaxNearestLimit fall back to the default.
func RankStations(place Place, stations []StationMeta, limit int) []StationDistance {
	if limit <= 0 || limit > MaxNearestLimit {
		limit = DefaultNearestLimit
	}

	ranked := make([]StationDistance, len(stations))
	for i, s := range stations {
		ranked[i] = StationDistance{Station: s, DistanceKm: planarDistanceKm(place, s)}
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		if a.Station.Name != b.Station.Name {
			return a.Station.Name < b.Station.Name
		}
		return a.Station.Abbreviation < b.Station.Abbreviation
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// planarDistanceKm is the Euclidean distance between two LV95 positions in km.
func planarDistanceKm(p Place, s StationMeta) float64 {
	dx := s.East - p.East
	dy := s.North - p.North
	return math.Sqrt(dx*dx+dy*dy) / 1000
}
