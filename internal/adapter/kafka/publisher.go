package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/storm-wind-scan/internal/config"
	"github.com/couchcryptid/storm-wind-scan/internal/domain"
)

// Publisher produces outlier candidates to a Kafka topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured outlier topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishBatch serializes and publishes the candidates in a single
// WriteMessages call for efficiency.
func (p *Publisher) PublishBatch(ctx context.Context, candidates []domain.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(candidates))
	for i := range candidates {
		msg, err := serializeToMessage(candidates[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish candidates: %w", err)
	}
	p.logger.Info("candidates published", "count", len(candidates))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a candidate into a Kafka message, keyed by
// station and observation hour so replays of the same run coalesce.
func serializeToMessage(c domain.Candidate) (kafkago.Message, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize candidate: %w", err)
	}
	key := fmt.Sprintf("%s-%04d%02d%02d%02d",
		c.Record.StationID, c.Record.Year, c.Record.Month, c.Record.Day, c.Record.Hour)
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "station_id", Value: []byte(c.Record.StationID)},
			{Key: "processed_at", Value: []byte(domain.Now().Format(time.RFC3339))},
		},
	}, nil
}
