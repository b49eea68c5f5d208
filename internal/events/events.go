package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	TopicOrders  = "order_events"
	TopicCatalog = "catalog_events"
	TopicUsers   = "user_events"

	writeTimeout = 5 * time.Second
	// batchTimeout caps how long a lone event waits before the writer
	// flushes; kafka-go defaults to one second.
	batchTimeout = 10 * time.Millisecond
)

const (
	TypeUserRegistered       = "user_registered"
	TypeBookCreated          = "book_created"
	TypeBookUpdated          = "book_updated"
	TypeBookRetired          = "book_retired"
	TypeOrderCreated         = "order_created"
	TypeOrderUpdated         = "order_updated"
	TypeOrderCancelled       = "order_cancelled"
	TypePaymentProofUploaded = "payment_proof_uploaded"
	TypeReviewCreated        = "review_created"
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

// Envelope wraps every payload written to Kafka.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

func New(typ string, data any) Envelope {
	return Envelope{
		ID:         uuid.NewString(),
		Type:       typ,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
}

func NewProducer(brokers []string) *Producer {
	return &Producer{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
		BatchTimeout:           batchTimeout,
	}}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Nop drops every event; used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }
