// Package swisstopo loads the official directory of Swiss localities and
// postal codes (Amtliches Ortschaftenverzeichnis) in LV95 coordinates.
package swisstopo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/couchcryptid/swiss-weather-today/internal/adapter/cache"
	"github.com/couchcryptid/swiss-weather-today/internal/domain"
	"github.com/couchcryptid/swiss-weather-today/internal/observability"
	"github.com/couchcryptid/swiss-weather-today/internal/tabular"
)

// DefaultPlacesURL is the zipped CSV in EPSG:2056 (LV95).
const DefaultPlacesURL = "https://data.geo.admin.ch/ch.swisstopo-vd.ortschaftenverzeichnis_plz/ortschaftenverzeichnis_plz/ortschaftenverzeichnis_plz_2056.csv.zip"

// Gazetteer columns.
const (
	colName       = "Ortschaftsname"
	colPostalCode = "PLZ4"
	colEast       = "E"
	colNorth      = "N"
)

// PlaceColumns lists the columns the gazetteer must carry.
func PlaceColumns() []string {
	return []string{colName, colPostalCode, colEast, colNorth}
}

// ByteFetcher downloads a binary resource. source labels the request.
type ByteFetcher interface {
	FetchBytes(ctx context.Context, source, url string) ([]byte, error)
}

// PlaceRepository loads the gazetteer once per process.
type PlaceRepository struct {
	fetcher ByteFetcher
	url     string
	cache   *cache.Slot[[]domain.Place]
	logger  *slog.Logger
}

// NewPlaceRepository creates a repository for the archive at url.
func NewPlaceRepository(fetcher ByteFetcher, url string, metrics *observability.Metrics, logger *slog.Logger) *PlaceRepository {
	return &PlaceRepository{
		fetcher: fetcher,
		url:     url,
		cache:   cache.NewSlot[[]domain.Place]("places", metrics),
		logger:  logger,
	}
}

// Places returns every gazetteer entry. The first successful load is cached;
// concurrent first calls share one download.
func (r *PlaceRepository) Places(ctx context.Context) ([]domain.Place, error) {
	places, err := r.cache.Get(ctx, r.load)
	if err != nil {
		return nil, err
	}
	return slices.Clone(places), nil
}

func (r *PlaceRepository) load(ctx context.Context) ([]domain.Place, error) {
	archive, err := r.fetcher.FetchBytes(ctx, "places", r.url)
	if err != nil {
		return nil, err
	}
	places, err := ParseArchive(archive)
	if err != nil {
		return nil, fmt.Errorf("places archive %s: %w", r.url, err)
	}
	r.logger.Info("loaded places", "count", len(places))
	return places, nil
}

// ParseArchive extracts the first .csv entry of a ZIP archive and maps its
// rows to places.
func ParseArchive(archive []byte) ([]domain.Place, error) {
	raw, err := extractCSV(archive)
	if err != nil {
		return nil, err
	}
	text, err := tabular.DecodeText(raw)
	if err != nil {
		return nil, err
	}
	return ParsePlaces(text)
}

// ParsePlaces maps decoded gazetteer text to places.
func ParsePlaces(text string) ([]domain.Place, error) {
	rows, err := tabular.Decode(text)
	if err != nil {
		return nil, err
	}
	if err := tabular.RequireColumns(rows, PlaceColumns()); err != nil {
		return nil, err
	}

	out := make([]domain.Place, 0, len(rows))
	for i, row := range rows {
		p, err := mapPlaceRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func mapPlaceRow(row tabular.Row) (domain.Place, error) {
	plz, err := row.RequiredString(colPostalCode)
	if err != nil {
		return domain.Place{}, err
	}
	name, err := row.RequiredString(colName)
	if err != nil {
		return domain.Place{}, err
	}
	east, err := row.RequiredNumber(colEast)
	if err != nil {
		return domain.Place{}, err
	}
	north, err := row.RequiredNumber(colNorth)
	if err != nil {
		return domain.Place{}, err
	}
	return domain.NewPlace(plz, name, east, north)
}

func extractCSV(archive []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindCsvParse, Msg: "open ZIP archive", Err: err}
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, &domain.Error{Kind: domain.KindCsvParse, Msg: "open " + f.Name, Err: err}
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, &domain.Error{Kind: domain.KindCsvParse, Msg: "read " + f.Name, Err: err}
		}
		return data, nil
	}
	return nil, domain.CsvParsef("ZIP archive does not contain a CSV file")
}
