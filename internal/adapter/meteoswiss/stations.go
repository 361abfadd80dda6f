package meteoswiss

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/couchcryptid/swiss-weather-today/internal/adapter/cache"
	"github.com/couchcryptid/swiss-weather-today/internal/domain"
	"github.com/couchcryptid/swiss-weather-today/internal/observability"
	"github.com/couchcryptid/swiss-weather-today/internal/tabular"
)

// DefaultStationMetaURL is the SwissMetNet station table.
const DefaultStationMetaURL = DefaultBaseURL + "/ogd-smn_meta_stations.csv"

// Station metadata columns.
const (
	colStationName  = "station_name"
	colStationElev  = "station_height_masl"
	colStationEast  = "station_coordinates_lv95_east"
	colStationNorth = "station_coordinates_lv95_north"
)

// StationMetaColumns lists the columns the station table must carry.
func StationMetaColumns() []string {
	return []string{tabular.StationColumn, colStationName, colStationElev, colStationEast, colStationNorth}
}

// StationMetaRepository loads the station table once per process.
type StationMetaRepository struct {
	fetcher TextFetcher
	url     string
	cache   *cache.Slot[[]domain.StationMeta]
	logger  *slog.Logger
}

// NewStationMetaRepository creates a repository for the table at url.
func NewStationMetaRepository(fetcher TextFetcher, url string, metrics *observability.Metrics, logger *slog.Logger) *StationMetaRepository {
	return &StationMetaRepository{
		fetcher: fetcher,
		url:     url,
		cache:   cache.NewSlot[[]domain.StationMeta]("stations", metrics),
		logger:  logger,
	}
}

// Stations returns every station in the table. The first successful load is
// cached; concurrent first calls share one download.
func (r *StationMetaRepository) Stations(ctx context.Context) ([]domain.StationMeta, error) {
	stations, err := r.cache.Get(ctx, r.load)
	if err != nil {
		return nil, err
	}
	return slices.Clone(stations), nil
}

func (r *StationMetaRepository) load(ctx context.Context) ([]domain.StationMeta, error) {
	text, err := r.fetcher.FetchText(ctx, "stations", r.url)
	if err != nil {
		return nil, err
	}
	stations, err := ParseStationMeta(text)
	if err != nil {
		return nil, fmt.Errorf("station metadata %s: %w", r.url, err)
	}
	r.logger.Info("loaded station metadata", "count", len(stations))
	return stations, nil
}

// ParseStationMeta decodes and validates the station table.
func ParseStationMeta(text string) ([]domain.StationMeta, error) {
	rows, err := tabular.Decode(text)
	if err != nil {
		return nil, err
	}
	if err := tabular.RequireColumns(rows, StationMetaColumns()); err != nil {
		return nil, err
	}

	out := make([]domain.StationMeta, 0, len(rows))
	for i, row := range rows {
		meta, err := mapStationRow(row)
		if err != nil {
			return nil, wrapRow(i+1, err)
		}
		out = append(out, meta)
	}
	return out, nil
}

func mapStationRow(row tabular.Row) (domain.StationMeta, error) {
	abbr, err := row.RequiredString(tabular.StationColumn)
	if err != nil {
		return domain.StationMeta{}, err
	}
	name, err := row.RequiredString(colStationName)
	if err != nil {
		return domain.StationMeta{}, err
	}
	elev, err := row.RequiredNumber(colStationElev)
	if err != nil {
		return domain.StationMeta{}, err
	}
	east, err := row.RequiredNumber(colStationEast)
	if err != nil {
		return domain.StationMeta{}, err
	}
	north, err := row.RequiredNumber(colStationNorth)
	if err != nil {
		return domain.StationMeta{}, err
	}
	return domain.NewStationMeta(abbr, name, elev, east, north)
}
