package meteoswiss

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/swiss-weather-today/internal/civilday"
	"github.com/couchcryptid/swiss-weather-today/internal/domain"
	"github.com/couchcryptid/swiss-weather-today/internal/observability"
	"github.com/couchcryptid/swiss-weather-today/internal/tabular"
)

// DefaultBaseURL hosts the per-station SwissMetNet feeds.
const DefaultBaseURL = "https://data.geo.admin.ch/ch.meteoschweiz.ogd-smn"

// Aggregation outcomes.
const (
	outcomeSuccess = "success"
	outcomeNoData  = "no_data"
	outcomeError   = "error"
)

// TextFetcher downloads a text resource. source labels the request.
type TextFetcher interface {
	FetchText(ctx context.Context, source, url string) (string, error)
}

// WeatherRepository builds the today view of a station from its two feeds.
type WeatherRepository struct {
	fetcher  TextFetcher
	baseURL  string
	calendar *civilday.Calendar
	clock    clockwork.Clock
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewWeatherRepository creates a repository reading feeds under baseURL.
// The clock supplies the reference instant that decides which day is today.
func NewWeatherRepository(
	fetcher TextFetcher,
	baseURL string,
	calendar *civilday.Calendar,
	clock clockwork.Clock,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *WeatherRepository {
	return &WeatherRepository{
		fetcher:  fetcher,
		baseURL:  baseURL,
		calendar: calendar,
		clock:    clock,
		metrics:  metrics,
		logger:   logger,
	}
}

// TenMinuteURL is the ten-minute "now" feed of token.
func (r *WeatherRepository) TenMinuteURL(token string) string {
	return feedURL(r.baseURL, token, "t")
}

// HourlyURL is the hourly "now" feed of token.
func (r *WeatherRepository) HourlyURL(token string) string {
	return feedURL(r.baseURL, token, "h")
}

func feedURL(base, token, granularity string) string {
	return fmt.Sprintf("%s/%s/ogd-smn_%s_%s_now.csv", base, token, token, granularity)
}

// TodayWeather fetches both feeds concurrently and keeps what falls inside
// today's civil-day window. Any failure in either feed fails the whole call
// and cancels the other fetch. When neither feed has a reading for today the
// result is a NoDataForToday error. The clock is read once, before fetching,
// and that instant is returned as Reference.
func (r *WeatherRepository) TodayWeather(ctx context.Context, station domain.Station) (domain.TodayWeather, error) {
	ref := r.clock.Now()

	var current, hourly []domain.Reading
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = r.readFeed(gctx, station, domain.KindTenMinute, r.TenMinuteURL(station.Token()))
		return err
	})
	g.Go(func() error {
		var err error
		hourly, err = r.readFeed(gctx, station, domain.KindHourly, r.HourlyURL(station.Token()))
		return err
	})
	if err := g.Wait(); err != nil {
		r.metrics.Aggregations.WithLabelValues(outcomeError).Inc()
		return domain.TodayWeather{}, err
	}

	current = civilday.FilterToday(r.calendar, current, ref)
	hourly = civilday.FilterToday(r.calendar, hourly, ref)
	r.metrics.ReadingsToday.WithLabelValues(string(domain.KindTenMinute)).Set(float64(len(current)))
	r.metrics.ReadingsToday.WithLabelValues(string(domain.KindHourly)).Set(float64(len(hourly)))

	if len(current) == 0 && len(hourly) == 0 {
		r.metrics.Aggregations.WithLabelValues(outcomeNoData).Inc()
		r.logger.Warn("no readings for today", "station", station.Abbreviation(), "reference", ref)
		return domain.TodayWeather{}, domain.NoDataForToday(station.Abbreviation())
	}

	r.metrics.Aggregations.WithLabelValues(outcomeSuccess).Inc()
	r.logger.Debug("today weather assembled",
		"station", station.Abbreviation(),
		"ten_minute", len(current),
		"hourly", len(hourly),
	)
	w := domain.NewTodayWeather(station, current, hourly)
	w.Reference = ref
	return w, nil
}

// readFeed runs fetch, decode, column and station checks, then row mapping.
func (r *WeatherRepository) readFeed(ctx context.Context, station domain.Station, kind domain.ReadingKind, url string) ([]domain.Reading, error) {
	text, err := r.fetcher.FetchText(ctx, string(kind), url)
	if err != nil {
		return nil, err
	}
	readings, err := ParseFeed(text, kind, station.Abbreviation())
	if err != nil {
		return nil, fmt.Errorf("%s feed %s: %w", kind, url, err)
	}
	return readings, nil
}

// ParseFeed decodes and validates feed text without any network access.
func ParseFeed(text string, kind domain.ReadingKind, stationAbbr string) ([]domain.Reading, error) {
	rows, err := tabular.Decode(text)
	if err != nil {
		return nil, err
	}
	if err := tabular.RequireColumns(rows, ColumnsFor(kind)); err != nil {
		return nil, err
	}
	if err := tabular.RequireStation(rows, stationAbbr); err != nil {
		return nil, err
	}
	return MapRows(rows, kind)
}
