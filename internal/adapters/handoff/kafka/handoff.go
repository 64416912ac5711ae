// Package kafka publishes booking requests to a Kafka topic.
package kafka

import (
	"context"
	"fmt"
	"log"
	"time"

	skafka "github.com/segmentio/kafka-go"

	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/handoff"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/bookinghandoff"
)

const Provider = "kafka"

// Writer is the subset of kafka.Writer the hand-off needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

type Handoff struct {
	writer Writer
	topic  string
}

// New creates a hand-off writing to topic on the given brokers.
// Messages are keyed by booking reference so retries land on the same partition.
func New(brokers []string, topic string) *Handoff {
	w := &skafka.Writer{
		Addr:         skafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &skafka.Hash{},
		RequiredAcks: skafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	}
	return &Handoff{writer: w, topic: topic}
}

// NewWithWriter allows injecting a test writer.
func NewWithWriter(w Writer, topic string) *Handoff {
	return &Handoff{writer: w, topic: topic}
}

func (h *Handoff) Submit(ctx context.Context, req bookinghandoff.Request) (bookinghandoff.Receipt, error) {
	b, err := handoff.Encode(req)
	if err != nil {
		return bookinghandoff.Receipt{}, err
	}
	msg := skafka.Message{
		Key:   []byte(req.Reference),
		Value: b,
		Time:  req.SubmittedAt,
		Headers: []skafka.Header{
			{Key: "type", Value: []byte(handoff.EventType)},
		},
	}
	if req.IdempotencyKey != "" {
		msg.Headers = append(msg.Headers, skafka.Header{Key: "idempotency-key", Value: []byte(req.IdempotencyKey)})
	}
	if err := h.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("kafka handoff write error topic=%s ref=%s: %v", h.topic, req.Reference, err)
		return bookinghandoff.Receipt{}, fmt.Errorf("kafka write: %w", err)
	}
	return bookinghandoff.Receipt{Provider: Provider, ExternalID: req.Reference}, nil
}

func (h *Handoff) Close() error {
	return h.writer.Close()
}
