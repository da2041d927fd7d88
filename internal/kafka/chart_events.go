package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"

	"inventory-chart-backend/config"
	"inventory-chart-backend/internal/model"
)

// ChartEventPublisher streams the outcome of chart requests.
type ChartEventPublisher interface {
	Publish(ctx context.Context, event model.ChartEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaChartEventPublisher struct {
	writer messageWriter
	topic  string
}

// NewChartEventPublisher returns a Kafka backed publisher, or a no-op one when no brokers
// are configured.
func NewChartEventPublisher(lc fx.Lifecycle, cfg *config.Config) ChartEventPublisher {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.ChartTopic == "" {
		log.Info().Msg("Kafka brokers not configured, chart events will not be published")
		return NoopPublisher{}
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.ChartTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 500 * time.Millisecond,
		Async:        true,
	})
	p := newKafkaChartEventPublisher(writer, cfg.Kafka.ChartTopic)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Kafka producer")
			return p.Close()
		},
	})
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.ChartTopic).Msg("Kafka producer initialized")
	return p
}

func newKafkaChartEventPublisher(writer messageWriter, topic string) *kafkaChartEventPublisher {
	return &kafkaChartEventPublisher{writer: writer, topic: topic}
}

func (p *kafkaChartEventPublisher) Publish(ctx context.Context, event model.ChartEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal chart event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.DatasetID),
		Value: value,
		Time:  event.Time,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Error().Err(err).Str("topic", p.topic).Str("event_id", event.ID).Msg("Failed to write chart event to Kafka")
		return err
	}
	log.Debug().Str("topic", p.topic).Str("event_id", event.ID).Msg("Produced chart event")
	return nil
}

func (p *kafkaChartEventPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, model.ChartEvent) error { return nil }
func (NoopPublisher) Close() error                                   { return nil }
