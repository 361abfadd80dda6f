// Package domain models MeteoSwiss SwissMetNet (SMN) observations and the
// swisstopo locality gazetteer.
//
// # Data Sources
//
// MeteoSwiss publishes open-data station feeds as semicolon-separated CSV at
// https://data.geo.admin.ch/ch.meteoschweiz.ogd-smn/. Each station has a
// ten-minute "now" file (ogd-smn_<token>_t_now.csv) and an hourly "now" file
// (ogd-smn_<token>_h_now.csv). Station metadata lives in a single CSV,
// ogd-smn_meta_stations.csv. Localities with postal codes come from the
// swisstopo Ortschaftenverzeichnis, shipped as a ZIP archive whose CSV may be
// Latin-1 encoded.
//
// # Feed Conventions
//
// Timestamps:
//
//	reference_timestamp is "DD.MM.YYYY HH:mm" in UTC, e.g. "11.01.2026 13:20".
//
// Parameters (ten-minute suffix / hourly suffix):
//
//	tre200s0 / tre200h0   air temperature 2 m above ground, °C
//	sre000z0 / sre000h0   sunshine duration, minutes per interval
//	rre150z0 / rre150h0   precipitation, mm
//	fkl010z0 / fkl010h0   wind speed scalar, m/s (converted to km/h here)
//	dkl010z0 / dkl010h0   wind direction, degrees
//	pp0qnhs0 / pp0qnhh0   pressure reduced to sea level (QNH), hPa
//
// An empty field means "not measured" and becomes an absent value. Anything
// else must parse as a finite number.
//
// Coordinates:
//
//	Stations and places use LV95 (EPSG:2056) easting/northing in metres, so
//	distances are computed in the plane and divided by 1000 for kilometres.
//
// # Validation
//
// Every value type has one constructor (NewTimestamp, ParseTimestamp,
// NewReading, NewStation, NewStationMeta, NewPlace) which is the only place
// invariants are checked. Failures are *Error values tagged with a Kind.
// Timestamp, Reading and Station keep their fields unexported and cannot
// change after construction. StationMeta and Place are by-value records with
// exported fields; a copy can be edited, but never the original.
package domain
