package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodWallet PaymentMethod = "WALLET"
	PaymentMethodCard   PaymentMethod = "CARD"
)

// ReservationRequest is the message published to the seat-reservations queue.
// TrackingID is caller-generated and acts as the idempotency key for the
// whole pipeline; delivery is at-least-once.
type ReservationRequest struct {
	ActorID       int             `json:"actor_id"`
	ShowtimeID    int             `json:"showtime_id"`
	SeatIDs       []int           `json:"seat_ids"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TrackingID    string          `json:"tracking_id"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
}

// BookingConfirmedEvent is published to booking-events after a commit so
// notification collaborators can fan out without querying the database.
type BookingConfirmedEvent struct {
	ActorID     int             `json:"actor_id"`
	ShowtimeID  int             `json:"showtime_id"`
	BookingID   int             `json:"booking_id"`
	TrackingID  string          `json:"tracking_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ConfirmedAt time.Time       `json:"confirmed_at"`
}

type EventPublisher interface {
	PublishReservationRequest(ctx context.Context, req ReservationRequest) error
	PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error
}
