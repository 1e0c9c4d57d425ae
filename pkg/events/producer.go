package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"carbook/pkg/logger"
)

// Publisher emits booking lifecycle events.
type Publisher interface {
	PublishBookingCreated(ctx context.Context, event BookingCreated) error
	Close() error
}

// NoopPublisher is used when no Kafka brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishBookingCreated(context.Context, BookingCreated) error { return nil }
func (NoopPublisher) Close() error                                                { return nil }

type kafkaPublisher struct {
	writer *kafka.Writer
	log    *logger.Logger
	mu     sync.Mutex
	closed bool
}

func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) (Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // hash by car id keeps per-car ordering
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error("kafka writer error", "message", fmt.Sprintf(msg, args...))
		}),
	}

	return &kafkaPublisher{writer: writer, log: log}, nil
}

func (p *kafkaPublisher) PublishBookingCreated(ctx context.Context, event BookingCreated) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("publisher is closed")
	}
	p.mu.Unlock()

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.CarID, 10)),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(uuid.NewString())},
			{Key: HeaderEventType, Value: []byte(TypeBookingCreated)},
			{Key: HeaderSource, Value: []byte("carbook")},
			{Key: HeaderTimestamp, Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", TypeBookingCreated, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
