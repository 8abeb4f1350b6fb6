package mocks

import (
	"context"

	"github.com/erencelik/ticketline/internal/domain"
)

type MockBookingRepo struct {
	CreateFunc               func(ctx context.Context, params domain.BookingParams) (*domain.Booking, error)
	GetByTrackingIDFunc      func(ctx context.Context, trackingID string) (*domain.Booking, error)
	GetTicketsByShowtimeFunc func(ctx context.Context, showtimeID int) ([]domain.Ticket, error)
	CancelFunc               func(ctx context.Context, trackingID string, actorID int) error
}

func (m *MockBookingRepo) Create(ctx context.Context, params domain.BookingParams) (*domain.Booking, error) {
	return m.CreateFunc(ctx, params)
}

func (m *MockBookingRepo) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Booking, error) {
	return m.GetByTrackingIDFunc(ctx, trackingID)
}

func (m *MockBookingRepo) GetTicketsByShowtime(ctx context.Context, showtimeID int) ([]domain.Ticket, error) {
	return m.GetTicketsByShowtimeFunc(ctx, showtimeID)
}

func (m *MockBookingRepo) Cancel(ctx context.Context, trackingID string, actorID int) error {
	return m.CancelFunc(ctx, trackingID, actorID)
}
