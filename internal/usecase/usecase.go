// Package usecase holds the entry points callers drive: today's weather for a
// station, the stations nearest a place, and the place list.
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/swiss-weather-today/internal/domain"
)

// WeatherSource assembles the today view of a station.
type WeatherSource interface {
	TodayWeather(ctx context.Context, station domain.Station) (domain.TodayWeather, error)
}

// StationSource lists station metadata.
type StationSource interface {
	Stations(ctx context.Context) ([]domain.StationMeta, error)
}

// PlaceSource lists gazetteer places.
type PlaceSource interface {
	Places(ctx context.Context) ([]domain.Place, error)
}

// SnapshotSink receives today views for downstream consumers.
type SnapshotSink interface {
	Publish(ctx context.Context, weather domain.TodayWeather, generatedAt time.Time) error
}

// Default station: Zürich / Fluntern.
const (
	DefaultStationToken = "goe"
	DefaultStationAbbr  = "GOE"
)

// Service wires the repositories behind the entry points.
type Service struct {
	weather        WeatherSource
	stations       StationSource
	places         PlaceSource
	publisher      SnapshotSink
	defaultStation domain.Station
	nearestLimit   int
	now            func() time.Time
	logger         *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher enables PublishTodayWeather.
func WithPublisher(p SnapshotSink) Option {
	return func(s *Service) { s.publisher = p }
}

// WithDefaultStation replaces the GOE default.
func WithDefaultStation(st domain.Station) Option {
	return func(s *Service) { s.defaultStation = st }
}

// WithNearestLimit caps FindNearestStations. Values outside
// 1..domain.MaxNearestLimit keep the default.
func WithNearestLimit(n int) Option {
	return func(s *Service) {
		if n > 0 && n <= domain.MaxNearestLimit {
			s.nearestLimit = n
		}
	}
}

// WithNow sets the clock that stamps published snapshots.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service.
func New(weather WeatherSource, stations StationSource, places PlaceSource, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		weather:        weather,
		stations:       stations,
		places:         places,
		defaultStation: mustDefaultStation(),
		nearestLimit:   domain.DefaultNearestLimit,
		now:            time.Now,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func mustDefaultStation() domain.Station {
	st, err := domain.NewStation(DefaultStationToken, DefaultStationAbbr)
	if err != nil {
		panic(err)
	}
	return st
}

// DefaultStation is the station shown when the caller has not picked one.
func (s *Service) DefaultStation() domain.Station {
	return s.defaultStation
}

// LoadTodayWeather returns the today view of station.
func (s *Service) LoadTodayWeather(ctx context.Context, station domain.Station) (domain.TodayWeather, error) {
	w, err := s.weather.TodayWeather(ctx, station)
	if err != nil {
		s.logger.Warn("load today weather failed",
			"station", station.Abbreviation(),
			"kind", domain.KindOf(err).String(),
			"error", err,
		)
		return domain.TodayWeather{}, err
	}
	return w, nil
}

// PublishTodayWeather loads the today view of station and hands it to the
// configured publisher.
func (s *Service) PublishTodayWeather(ctx context.Context, station domain.Station) (domain.TodayWeather, error) {
	if s.publisher == nil {
		return domain.TodayWeather{}, errors.New("publishing is not configured")
	}
	w, err := s.LoadTodayWeather(ctx, station)
	if err != nil {
		return domain.TodayWeather{}, err
	}
	if err := s.publisher.Publish(ctx, w, s.now()); err != nil {
		return domain.TodayWeather{}, err
	}
	return w, nil
}

// FindNearestStations ranks every known station by distance from place.
func (s *Service) FindNearestStations(ctx context.Context, place domain.Place) ([]domain.StationDistance, error) {
	stations, err := s.stations.Stations(ctx)
	if err != nil {
		return nil, err
	}
	return domain.RankStations(place, stations, s.nearestLimit), nil
}

// FindNearestToPostalCode resolves postalCode to its first gazetteer place
// and ranks stations from there.
func (s *Service) FindNearestToPostalCode(ctx context.Context, postalCode string) (domain.Place, []domain.StationDistance, error) {
	places, err := s.places.Places(ctx)
	if err != nil {
		return domain.Place{}, nil, err
	}
	for _, p := range places {
		if p.PostalCode == postalCode {
			ranked, err := s.FindNearestStations(ctx, p)
			return p, ranked, err
		}
	}
	return domain.Place{}, nil, domain.InvalidValuef("unknown postal code %q", postalCode)
}

// LoadPlaces returns the gazetteer.
func (s *Service) LoadPlaces(ctx context.Context) ([]domain.Place, error) {
	return s.places.Places(ctx)
}

// SearchPlaces filters the gazetteer by postal-code or name prefix.
func (s *Service) SearchPlaces(ctx context.Context, query string) ([]domain.Place, error) {
	places, err := s.places.Places(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SearchPlaces(places, query), nil
}

// StationFor derives the feed identity of a ranked station.
func StationFor(d domain.StationDistance) (domain.Station, error) {
	return domain.StationFromMeta(d.Station)
}
