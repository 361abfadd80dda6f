package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://data.geo.admin.ch/ch.meteoschweiz.ogd-smn", cfg.WeatherBaseURL)
	assert.Equal(t, defaultStationMetaURL, cfg.StationMetaURL)
	assert.Equal(t, defaultPlacesURL, cfg.PlacesURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "Europe/Zurich", cfg.Timezone)
	assert.Equal(t, "goe", cfg.DefaultStationToken)
	assert.Equal(t, "GOE", cfg.DefaultStationAbbr)
	assert.Equal(t, 10, cfg.NearestLimit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.PublishEnabled())
	assert.Equal(t, "weather-today", cfg.KafkaTopic)
	assert.Empty(t, cfg.PushgatewayURL)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("WEATHER_BASE_URL", "http://localhost:9000/feeds/")
	t.Setenv("STATION_META_URL", "http://localhost:9000/meta.csv")
	t.Setenv("PLACES_URL", "http://localhost:9000/places.zip")
	t.Setenv("HTTP_TIMEOUT", "750ms")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("DEFAULT_STATION_TOKEN", "ber")
	t.Setenv("DEFAULT_STATION_ABBR", "BER")
	t.Setenv("NEAREST_LIMIT", "3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-topic")
	t.Setenv("PUSHGATEWAY_URL", "http://pushgateway:9091")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/feeds", cfg.WeatherBaseURL, "trailing slash trimmed")
	assert.Equal(t, "http://localhost:9000/meta.csv", cfg.StationMetaURL)
	assert.Equal(t, "http://localhost:9000/places.zip", cfg.PlacesURL)
	assert.Equal(t, 750*time.Millisecond, cfg.HTTPTimeout)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "ber", cfg.DefaultStationToken)
	assert.Equal(t, "BER", cfg.DefaultStationAbbr)
	assert.Equal(t, 3, cfg.NearestLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.PublishEnabled())
	assert.Equal(t, "custom-topic", cfg.KafkaTopic)
	assert.Equal(t, "http://pushgateway:9091", cfg.PushgatewayURL)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad timeout", "HTTP_TIMEOUT", "soon"},
		{"zero timeout", "HTTP_TIMEOUT", "0s"},
		{"negative timeout", "HTTP_TIMEOUT", "-1s"},
		{"bad nearest limit", "NEAREST_LIMIT", "ten"},
		{"zero nearest limit", "NEAREST_LIMIT", "0"},
		{"nearest limit above maximum", "NEAREST_LIMIT", "25"},
		{"unknown timezone", "TIMEZONE", "Europe/Atlantis"},
		{"unknown log format", "LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_NearestLimitAtMaximum(t *testing.T) {
	t.Setenv("NEAREST_LIMIT", "10")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.NearestLimit)
}

func TestLoadFiles_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DEFAULT_STATION_TOKEN=sma\nDEFAULT_STATION_ABBR=SMA\n"), 0o600))

	// godotenv sets process env; register cleanup for the keys it touches.
	t.Setenv("DEFAULT_STATION_TOKEN", "")
	t.Setenv("DEFAULT_STATION_ABBR", "")
	require.NoError(t, os.Unsetenv("DEFAULT_STATION_TOKEN"))
	require.NoError(t, os.Unsetenv("DEFAULT_STATION_ABBR"))

	cfg, err := LoadFiles(path)
	require.NoError(t, err)
	assert.Equal(t, "sma", cfg.DefaultStationToken)
	assert.Equal(t, "SMA", cfg.DefaultStationAbbr)
}

func TestLoadFiles_EnvironmentWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("KAFKA_TOPIC=from-file\n"), 0o600))
	t.Setenv("KAFKA_TOPIC", "from-env")

	cfg, err := LoadFiles(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.KafkaTopic)
}

func TestLoadFiles_MissingFileIgnored(t *testing.T) {
	_, err := LoadFiles(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}
