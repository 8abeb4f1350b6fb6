// Package pipeline turns a validated reservation request into a durable,
// non-duplicated booking. The same Processor backs the queue consumer and
// the gateway's synchronous fallback path, so both run identical guards.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/erencelik/ticketline/internal/domain"
	"github.com/erencelik/ticketline/internal/lock"
)

// Result classifies the outcome of processing one reservation message. The
// supervising loop owns the retry policy: Rejected is terminal and dropped
// after logging, Retryable is redelivered.
type Result int

const (
	ResultCommitted Result = iota
	ResultRejected
	ResultRetryable
)

func (r Result) String() string {
	switch r {
	case ResultCommitted:
		return "committed"
	case ResultRejected:
		return "rejected"
	case ResultRetryable:
		return "retryable"
	default:
		return "unknown"
	}
}

type Processor struct {
	locker    lock.Locker
	bookings  domain.BookingRepository
	publisher domain.EventPublisher
	logger    *slog.Logger
}

func NewProcessor(
	locker lock.Locker,
	bookings domain.BookingRepository,
	publisher domain.EventPublisher,
	logger *slog.Logger) *Processor {

	return &Processor{
		locker:    locker,
		bookings:  bookings,
		publisher: publisher,
		logger:    logger,
	}
}

// Process executes the booking transaction for one reservation request.
// Delivery is at-least-once, so the tracking id is checked against existing
// bookings first: a redelivery after a successful commit is a no-op rather
// than a second debit.
func (p *Processor) Process(ctx context.Context, req domain.ReservationRequest) Result {
	logger := p.logger.With("tracking_id", req.TrackingID, "showtime_id", req.ShowtimeID)

	existing, err := p.bookings.GetByTrackingID(ctx, req.TrackingID)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		logger.Error("failed to check for existing booking", "error", err)
		return ResultRetryable
	}

	if existing != nil {
		logger.Info("duplicate delivery for already committed booking", "booking_id", existing.ID)
		p.releaseLock(ctx, req, logger)
		return ResultCommitted
	}

	// The hold may have expired between quote and processing; never
	// re-acquire it silently.
	held, err := p.locker.Validate(ctx, req.ShowtimeID, req.SeatIDs, req.ActorID)
	if err != nil {
		logger.Error("failed to validate seat hold", "error", err)
		return ResultRetryable
	}

	if !held {
		logger.Warn("reservation rejected: seat hold expired or lost")
		return ResultRejected
	}

	booking, err := p.bookings.Create(ctx, domain.BookingParams{
		ActorID:       req.ActorID,
		ShowtimeID:    req.ShowtimeID,
		SeatIDs:       req.SeatIDs,
		TotalAmount:   req.TotalAmount,
		TrackingID:    req.TrackingID,
		PaymentMethod: req.PaymentMethod,
	})

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientBalance):
			logger.Warn("reservation rejected: insufficient wallet balance")
			return ResultRejected
		case errors.Is(err, domain.ErrSeatAlreadyTicketed):
			// Last-resort safety net, independent of the lock.
			logger.Warn("reservation rejected: seat(s) already ticketed")
			return ResultRejected
		default:
			logger.Error("booking transaction failed", "error", err)
			return ResultRetryable
		}
	}

	logger.Info("booking committed", "booking_id", booking.ID)

	// Everything past the commit is best-effort: the booking is the source
	// of truth and is never rolled back from here.
	p.releaseLock(ctx, req, logger)

	err = p.publisher.PublishBookingConfirmed(ctx, domain.BookingConfirmedEvent{
		ActorID:     req.ActorID,
		ShowtimeID:  req.ShowtimeID,
		BookingID:   booking.ID,
		TrackingID:  req.TrackingID,
		TotalAmount: req.TotalAmount,
		ConfirmedAt: time.Now().UTC(),
	})
	if err != nil {
		logger.Error("failed to publish booking confirmation event", "error", err)
	}

	return ResultCommitted
}

func (p *Processor) releaseLock(ctx context.Context, req domain.ReservationRequest, logger *slog.Logger) {
	err := p.locker.Release(ctx, req.ShowtimeID, req.SeatIDs, req.ActorID)
	if err != nil {
		logger.Error("failed to release seat hold after commit", "error", err)
	}
}
