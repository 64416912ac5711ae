// Package rabbitmq publishes booking requests to a durable RabbitMQ queue.
package rabbitmq

import (
	"context"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/handoff"
	"github.com/Meridian-Yachting/brokerage-api/internal/ports/out/bookinghandoff"
)

const Provider = "rabbitmq"

// Publisher is the subset of *amqp.Channel the hand-off needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Handoff struct {
	pub   Publisher
	queue string

	conn *amqp.Connection
	chn  *amqp.Channel
}

// Dial connects to url, opens a channel and declares queue.
func Dial(url, queue string) (*Handoff, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	chn, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := chn.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		_ = chn.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq declare %s: %w", queue, err)
	}
	return &Handoff{pub: chn, queue: queue, conn: conn, chn: chn}, nil
}

// NewWithPublisher allows injecting a test publisher.
func NewWithPublisher(pub Publisher, queue string) *Handoff {
	return &Handoff{pub: pub, queue: queue}
}

func (h *Handoff) Submit(ctx context.Context, req bookinghandoff.Request) (bookinghandoff.Receipt, error) {
	b, err := handoff.Encode(req)
	if err != nil {
		return bookinghandoff.Receipt{}, err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    req.Reference,
		Type:         handoff.EventType,
		Timestamp:    req.SubmittedAt,
		Body:         b,
	}
	if req.IdempotencyKey != "" {
		msg.Headers = amqp.Table{"idempotency-key": req.IdempotencyKey}
	}
	if err := h.pub.PublishWithContext(ctx, "", h.queue, false, false, msg); err != nil {
		log.Printf("rabbitmq handoff publish error queue=%s ref=%s: %v", h.queue, req.Reference, err)
		return bookinghandoff.Receipt{}, fmt.Errorf("rabbitmq publish: %w", err)
	}
	return bookinghandoff.Receipt{Provider: Provider, ExternalID: req.Reference}, nil
}

func (h *Handoff) Close() error {
	if h.chn != nil {
		if err := h.chn.Close(); err != nil {
			return err
		}
	}
	if h.conn != nil {
		return h.conn.Close()
	}
	return nil
}
