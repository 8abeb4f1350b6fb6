package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID            int
	ActorID       int
	ShowtimeID    int
	TrackingID    string
	TotalAmount   decimal.Decimal
	PaymentMethod PaymentMethod
	Status        BookingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Ticket struct {
	ID         int
	BookingID  int
	ShowtimeID int
	SeatID     int
}

// BookingParams carries everything the transactional booking routine needs.
// TotalAmount is the price agreed at quote time; the pipeline does not
// recompute it.
type BookingParams struct {
	ActorID       int
	ShowtimeID    int
	SeatIDs       []int
	TotalAmount   decimal.Decimal
	TrackingID    string
	PaymentMethod PaymentMethod
}

type BookingRepository interface {
	// Create runs the whole booking transaction: wallet debit with its
	// paired ledger row (WALLET payments only), the authoritative
	// seat-conflict check, and the booking and ticket inserts. It returns
	// ErrInsufficientBalance or ErrSeatAlreadyTicketed without committing
	// anything.
	Create(ctx context.Context, params BookingParams) (*Booking, error)
	GetByTrackingID(ctx context.Context, trackingID string) (*Booking, error)
	GetTicketsByShowtime(ctx context.Context, showtimeID int) ([]Ticket, error)
	// Cancel flips a pending or confirmed booking to cancelled, deletes its
	// tickets, and credits the wallet for WALLET payments, all in one
	// transaction.
	Cancel(ctx context.Context, trackingID string, actorID int) error
}
