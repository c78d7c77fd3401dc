package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer is the subset of *kgo.Client the Kafka sink uses.
type Producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

// KafkaPublisher produces audit events as JSON records keyed by company id.
// Produce is asynchronous; delivery failures are logged from the promise.
type KafkaPublisher struct {
	producer Producer
	client   *kgo.Client
	topic    string
	logger   *slog.Logger
}

// NewKafkaPublisher connects to brokers and produces to topic.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(50*time.Millisecond),
		kgo.RecordRetries(5),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	p := NewKafkaPublisherWithProducer(client, topic, logger)
	p.client = client
	return p, nil
}

// NewKafkaPublisherWithProducer wraps an existing producer.
func NewKafkaPublisherWithProducer(producer Producer, topic string, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

func (p *KafkaPublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic:     p.topic,
		Key:       []byte(event.CompanyID.String()),
		Value:     payload,
		Timestamp: event.Timestamp,
		Headers:   []kgo.RecordHeader{{Key: "event", Value: []byte(event.Event)}},
	}
	// Records sit in the linger batch after the request returns.
	ctx = context.WithoutCancel(ctx)
	p.producer.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.WarnContext(ctx, "audit event not delivered",
				"company_id", event.CompanyID,
				"event", event.Event,
				"error", err,
			)
		}
	})
	return nil
}

// Close flushes buffered records and closes the client it owns.
func (p *KafkaPublisher) Close(ctx context.Context) error {
	if p.client == nil {
		return nil
	}
	defer p.client.Close()
	if err := p.client.Flush(ctx); err != nil {
		return fmt.Errorf("flush audit records: %w", err)
	}
	return nil
}
