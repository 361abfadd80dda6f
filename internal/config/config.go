package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/swiss-weather-today/internal/domain"
)

// Config holds all settings, populated from environment variables.
type Config struct {
	WeatherBaseURL string
	StationMetaURL string
	PlacesURL      string
	HTTPTimeout    time.Duration
	Timezone       string

	DefaultStationToken string
	DefaultStationAbbr  string
	NearestLimit        int

	LogLevel  string
	LogFormat string

	// Kafka publishing is disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string

	// Metrics are pushed only when PushgatewayURL is set.
	PushgatewayURL string
}

const (
	defaultWeatherBaseURL = "https://data.geo.admin.ch/ch.meteoschweiz.ogd-smn"
	defaultStationMetaURL = "https://data.geo.admin.ch/ch.meteoschweiz.ogd-smn/ogd-smn_meta_stations.csv"
	defaultPlacesURL      = "https://data.geo.admin.ch/ch.swisstopo-vd.ortschaftenverzeichnis_plz/ortschaftenverzeichnis_plz/ortschaftenverzeichnis_plz_2056.csv.zip"
)

// Load reads an optional .env file, then configuration from environment
// variables, applying defaults where unset. Variables already present in the
// environment win over the file.
func Load() (*Config, error) {
	return LoadFiles()
}

// LoadFiles is Load with explicit dotenv paths. Missing files are ignored.
func LoadFiles(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", p, err)
		}
	}

	timeout, err := parseDuration("HTTP_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	nearest, err := parsePositiveInt("NEAREST_LIMIT", domain.DefaultNearestLimit)
	if err != nil {
		return nil, err
	}
	if nearest > domain.MaxNearestLimit {
		return nil, fmt.Errorf("invalid NEAREST_LIMIT %d: at most %d", nearest, domain.MaxNearestLimit)
	}

	cfg := &Config{
		WeatherBaseURL:      strings.TrimRight(envOrDefault("WEATHER_BASE_URL", defaultWeatherBaseURL), "/"),
		StationMetaURL:      envOrDefault("STATION_META_URL", defaultStationMetaURL),
		PlacesURL:           envOrDefault("PLACES_URL", defaultPlacesURL),
		HTTPTimeout:         timeout,
		Timezone:            envOrDefault("TIMEZONE", "Europe/Zurich"),
		DefaultStationToken: envOrDefault("DEFAULT_STATION_TOKEN", "goe"),
		DefaultStationAbbr:  envOrDefault("DEFAULT_STATION_ABBR", "GOE"),
		NearestLimit:        nearest,
		LogLevel:            envOrDefault("LOG_LEVEL", "info"),
		LogFormat:           envOrDefault("LOG_FORMAT", "json"),
		KafkaBrokers:        parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:          envOrDefault("KAFKA_TOPIC", "weather-today"),
		PushgatewayURL:      os.Getenv("PUSHGATEWAY_URL"),
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want json or text", cfg.LogFormat)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// PublishEnabled reports whether a Kafka broker is configured.
func (c *Config) PublishEnabled() bool { return len(c.KafkaBrokers) > 0 }

func envOrDefault(key, fallback string) string {
	return strings.TrimSpace(sharedcfg.EnvOrDefault(key, fallback))
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, b := range sharedcfg.ParseBrokers(s) {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
