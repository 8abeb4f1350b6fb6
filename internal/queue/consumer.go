package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/erencelik/ticketline/internal/domain"
	"github.com/erencelik/ticketline/internal/pipeline"
	amqp "github.com/rabbitmq/amqp091-go"
)

const consumerPrefetch = 50

// acker is the slice of amqp.Delivery the consumer needs; narrowed for tests.
type acker interface {
	Ack(multiple bool) error
	Nack(multiple bool, requeue bool) error
}

// Consumer reads the seat-reservations queue and hands messages to the
// pipeline processor. Messages are routed to a worker by showtime so that
// reservations for one showtime are processed sequentially while different
// showtimes proceed in parallel.
type Consumer struct {
	url       string
	processor *pipeline.Processor
	logger    *slog.Logger
	workers   int
}

func NewConsumer(url string, processor *pipeline.Processor, workers int, logger *slog.Logger) *Consumer {
	if workers < 1 {
		workers = 1
	}

	return &Consumer{
		url:       url,
		processor: processor,
		logger:    logger,
		workers:   workers,
	}
}

// Run consumes until the context is cancelled, reconnecting with capped
// exponential backoff when the broker drops the connection.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second

	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Error("reservation consumer failed to dial broker", "error", err, "retry_in", backoff)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}

			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}

		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Error("reservation consume loop ended, reconnecting", "error", err)
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(consumerPrefetch, 0, false); err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(ReservationsQueue, true, false, false, false, nil); err != nil {
		return err
	}

	deliveries, err := ch.Consume(ReservationsQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	type job struct {
		req      domain.ReservationRequest
		delivery amqp.Delivery
	}

	partitions := make([]chan job, c.workers)
	var wg sync.WaitGroup

	for i := range partitions {
		partitions[i] = make(chan job)
		wg.Add(1)

		go func(jobs <-chan job) {
			defer wg.Done()

			for j := range jobs {
				c.handle(ctx, j.req, j.delivery)
			}
		}(partitions[i])
	}

	defer func() {
		for _, partition := range partitions {
			close(partition)
		}
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return amqp.ErrClosed
			}

			var req domain.ReservationRequest
			if err := json.Unmarshal(d.Body, &req); err != nil {
				c.logger.Error("discarding malformed reservation message", "error", err)
				_ = d.Nack(false, false)
				continue
			}

			partitions[partitionIndex(req.ShowtimeID, c.workers)] <- job{req: req, delivery: d}
		}
	}
}

func (c *Consumer) handle(ctx context.Context, req domain.ReservationRequest, d amqp.Delivery) {
	result := c.processor.Process(ctx, req)
	c.settle(result, d, req)
}

// settle applies the redelivery policy for a processing result: committed
// and rejected messages are acked (a rejected reservation is terminal; the
// hold simply expires), retryable ones are requeued.
func (c *Consumer) settle(result pipeline.Result, d acker, req domain.ReservationRequest) {
	switch result {
	case pipeline.ResultRetryable:
		if err := d.Nack(false, true); err != nil {
			c.logger.Error("failed to nack reservation message", "error", err, "tracking_id", req.TrackingID)
		}
	default:
		if err := d.Ack(false); err != nil {
			c.logger.Error("failed to ack reservation message", "error", err, "tracking_id", req.TrackingID)
		}
	}
}

func partitionIndex(showtimeID, workers int) int {
	idx := showtimeID % workers
	if idx < 0 {
		idx += workers
	}

	return idx
}
