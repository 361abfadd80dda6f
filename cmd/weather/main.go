// Command weather prints today's MeteoSwiss observations for a station,
// ranks stations near a Swiss place, and validates downloaded feed files.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/swiss-weather-today/internal/adapter/httpfetch"
	kafkaadapter "github.com/couchcryptid/swiss-weather-today/internal/adapter/kafka"
	"github.com/couchcryptid/swiss-weather-today/internal/adapter/meteoswiss"
	"github.com/couchcryptid/swiss-weather-today/internal/adapter/swisstopo"
	"github.com/couchcryptid/swiss-weather-today/internal/civilday"
	"github.com/couchcryptid/swiss-weather-today/internal/config"
	"github.com/couchcryptid/swiss-weather-today/internal/domain"
	"github.com/couchcryptid/swiss-weather-today/internal/observability"
	"github.com/couchcryptid/swiss-weather-today/internal/usecase"
)

const pushJob = "swiss-weather-cli"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "kind", domain.KindOf(err).String(), "error", err)
		stop()
		os.Exit(1)
	}
}

// app holds everything a subcommand needs, built once per invocation.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	calendar  *civilday.Calendar
	service   *usecase.Service
	publisher *kafkaadapter.SnapshotPublisher
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var at string

	root := &cobra.Command{
		Use:   "weather",
		Short: "Today's Swiss weather from MeteoSwiss open data",
		Long: `weather reads SwissMetNet open-data feeds and prints today's readings
(as observed in Europe/Zurich), the stations nearest a place, or the swisstopo
place directory. Output is JSON on stdout; logs go to stderr.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(at)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&at, "at", "", "reference instant (RFC 3339) instead of the current time")

	root.AddCommand(
		newTodayCmd(a),
		newNearestCmd(a),
		newPlacesCmd(a),
		newCheckCmd(a),
	)
	return root
}

func (a *app) init(at string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	a.logger = observability.NewLogger(cfg)
	slog.SetDefault(a.logger)
	a.metrics = observability.NewMetrics()

	a.clock = clockwork.NewRealClock()
	if at != "" {
		ref, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return fmt.Errorf("invalid --at %q: %w", at, err)
		}
		a.clock = clockwork.NewFakeClockAt(ref)
	}

	a.calendar, err = civilday.Load(cfg.Timezone)
	if err != nil {
		return err
	}

	defaultStation, err := domain.NewStation(cfg.DefaultStationToken, cfg.DefaultStationAbbr)
	if err != nil {
		return fmt.Errorf("default station: %w", err)
	}

	fetcher := httpfetch.NewClient(cfg.HTTPTimeout, a.metrics, a.logger)
	weather := meteoswiss.NewWeatherRepository(fetcher, cfg.WeatherBaseURL, a.calendar, a.clock, a.metrics, a.logger)
	stations := meteoswiss.NewStationMetaRepository(fetcher, cfg.StationMetaURL, a.metrics, a.logger)
	places := swisstopo.NewPlaceRepository(fetcher, cfg.PlacesURL, a.metrics, a.logger)

	opts := []usecase.Option{
		usecase.WithDefaultStation(defaultStation),
		usecase.WithNearestLimit(cfg.NearestLimit),
		usecase.WithNow(a.clock.Now),
	}
	if cfg.PublishEnabled() {
		a.publisher = kafkaadapter.NewSnapshotPublisher(cfg, a.logger)
		opts = append(opts, usecase.WithPublisher(a.publisher))
	}
	a.service = usecase.New(weather, stations, places, a.logger, opts...)
	return nil
}

func (a *app) close(ctx context.Context) error {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("kafka writer close error", "error", err)
		}
	}
	if a.cfg != nil && a.cfg.PushgatewayURL != "" {
		if err := a.metrics.Push(ctx, a.cfg.PushgatewayURL, pushJob); err != nil {
			a.logger.Warn("metrics push failed", "error", err)
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
