// Package kafka publishes today-weather snapshots to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/swiss-weather-today/internal/config"
	"github.com/couchcryptid/swiss-weather-today/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// SnapshotPublisher writes one message per TodayWeather, keyed by station
// abbreviation so a compacted topic keeps the latest view per station.
type SnapshotPublisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewSnapshotPublisher creates a producer for the configured topic.
func NewSnapshotPublisher(cfg *config.Config, logger *slog.Logger) *SnapshotPublisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &SnapshotPublisher{writer: w, logger: logger}
}

// snapshot is the message value.
type snapshot struct {
	Station     string           `json:"station"`
	Token       string           `json:"token"`
	GeneratedAt time.Time        `json:"generated_at"`
	Current     *domain.Reading  `json:"current"`
	Hourly      []domain.Reading `json:"hourly"`
}

// Publish sends weather, stamped with generatedAt.
func (p *SnapshotPublisher) Publish(ctx context.Context, weather domain.TodayWeather, generatedAt time.Time) error {
	msg, err := serializeToMessage(weather, generatedAt)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish snapshot for %s: %w", weather.Station.Abbreviation(), err)
	}
	p.logger.Info("published today snapshot",
		"station", weather.Station.Abbreviation(),
		"hourly", len(weather.Hourly),
	)
	return nil
}

func (p *SnapshotPublisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a TodayWeather into a Kafka message.
func serializeToMessage(weather domain.TodayWeather, generatedAt time.Time) (kafkago.Message, error) {
	hourly := weather.Hourly
	if hourly == nil {
		hourly = []domain.Reading{}
	}
	data, err := json.Marshal(snapshot{
		Station:     weather.Station.Abbreviation(),
		Token:       weather.Station.Token(),
		GeneratedAt: generatedAt.UTC(),
		Current:     weather.Current,
		Hourly:      hourly,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize today snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(weather.Station.Abbreviation()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "station", Value: []byte(weather.Station.Abbreviation())},
			{Key: "generated_at", Value: []byte(generatedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
