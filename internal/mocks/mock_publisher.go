package mocks

import (
	"context"

	"github.com/erencelik/ticketline/internal/domain"
)

type MockPublisher struct {
	PublishReservationRequestFunc func(ctx context.Context, req domain.ReservationRequest) error
	PublishBookingConfirmedFunc   func(ctx context.Context, event domain.BookingConfirmedEvent) error
}

func (m *MockPublisher) PublishReservationRequest(ctx context.Context, req domain.ReservationRequest) error {
	return m.PublishReservationRequestFunc(ctx, req)
}

func (m *MockPublisher) PublishBookingConfirmed(ctx context.Context, event domain.BookingConfirmedEvent) error {
	return m.PublishBookingConfirmedFunc(ctx, event)
}
