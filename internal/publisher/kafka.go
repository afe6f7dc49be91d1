package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/go_till/internal/domain"
	"github.com/fjod/go_till/pkg/circuitbreaker"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const DefaultTopic = "till-transactions"

// MessageWriter is the part of *kafka.Writer the publisher uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// KafkaPublisher sends ledger events to a topic, keyed by transaction id so
// the events of one transaction stay ordered.
type KafkaPublisher struct {
	writer  MessageWriter
	breaker *circuitbreaker.Breaker
	timeout time.Duration
	logger  *zap.Logger
}

func NewKafkaPublisher(cfg Config, logger *zap.Logger) *KafkaPublisher {
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 3 * time.Second
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		MaxAttempts:            3,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(w, cfg.WriteTimeout, logger)
}

func newKafkaPublisher(w MessageWriter, timeout time.Duration, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{
		writer:  w,
		breaker: circuitbreaker.New(circuitbreaker.DefaultSettings("kafka-publisher"), logger),
		timeout: timeout,
		logger:  logger,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.TransactionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Transaction.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	}

	err = p.breaker.Do(func() error {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return p.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("publish %s for %s: %w", event.Type, event.Transaction.ID, err)
	}

	p.logger.Debug("event published",
		zap.String("event_type", string(event.Type)),
		zap.String("transaction_id", event.Transaction.ID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, domain.TransactionEvent) error { return nil }

func (Nop) Close() error { return nil }
