// Package queue contains the AMQP transport adapters: the publisher used by
// the gateway and the pipeline, and the consumer supervising the pipeline
// workers. Queues are durable and messages persistent; delivery is
// at-least-once, so consumers must be idempotent.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/erencelik/ticketline/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// ReservationsQueue carries ReservationRequest messages from the
	// gateway to the pipeline.
	ReservationsQueue = "seat-reservations"
	// BookingEventsQueue carries confirmation events to notification
	// collaborators.
	BookingEventsQueue = "booking-events"
)

// Publisher keeps one connection and channel, redialing lazily on failure. A
// publish error surfaces to the caller so the gateway can fall back to
// synchronous processing instead of silently dropping a checkout.
type Publisher struct {
	url    string
	logger *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url string, logger *slog.Logger) *Publisher {
	return &Publisher{
		url:    url,
		logger: logger,
	}
}

func (p *Publisher) PublishReservationRequest(ctx context.Context, req domain.ReservationRequest) error {
	return p.publish(ctx, ReservationsQueue, req)
}

func (p *Publisher) PublishBookingConfirmed(ctx context.Context, event domain.BookingConfirmedEvent) error {
	return p.publish(ctx, BookingEventsQueue, event)
}

func (p *Publisher) publish(ctx context.Context, queueName string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", queueName, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		p.reset()
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	err = ch.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.reset()
		return fmt.Errorf("failed to publish to %s: %w", queueName, err)
	}

	return nil
}

// channel returns the cached channel, dialing a fresh connection when
// needed. Callers must hold p.mu.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}

	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p.conn = conn
	p.ch = ch

	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close shuts the publisher down; safe to call more than once.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}
