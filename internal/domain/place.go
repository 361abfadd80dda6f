package domain

import (
	"math"
	"strings"
)

// Place is a gazetteer entry: a locality with its postal code and LV95 position.
// Like StationMeta it is a by-value record with exported fields; repositories
// hand out cloned slices so callers never share backing arrays.
type Place struct {
	PostalCode string  `json:"plz"`
	Name       string  `json:"name"`
	East       float64 `json:"lv95_east"`
	North      float64 `json:"lv95_north"`
}

// NewPlace validates a gazetteer row.
func NewPlace(postalCode, name string, east, north float64) (Place, error) {
	postalCode = strings.TrimSpace(postalCode)
	name = strings.TrimSpace(name)
	if postalCode == "" {
		return Place{}, InvalidValuef("PLZ4 is required")
	}
	if name == "" {
		return Place{}, InvalidValuef("Ortschaftsname is required")
	}
	if math.IsNaN(east) || math.IsInf(east, 0) {
		return Place{}, InvalidValuef("E must be a finite number")
	}
	if math.IsNaN(north) || math.IsInf(north, 0) {
		return Place{}, InvalidValuef("N must be a finite number")
	}
	return Place{PostalCode: postalCode, Name: name, East: east, North: north}, nil
}

// SearchPlaces returns places whose postal code (when the query starts with a
// digit) or name (otherwise) starts with query, case-insensitively. Entries
// with the same postal code and name are reported once, in input order.
func SearchPlaces(places []Place, query string) []Place {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	byCode := q[0] >= '0' && q[0] <= '9'

	seen := make(map[string]struct{})
	var out []Place
	for _, p := range places {
		var match bool
		if byCode {
			match = strings.HasPrefix(p.PostalCode, q)
		} else {
			match = strings.HasPrefix(strings.ToLower(p.Name), q)
		}
		if !match {
			continue
		}
		key := p.PostalCode + "::" + p.Name
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
