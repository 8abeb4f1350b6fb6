package mocks

import (
	"context"

	"github.com/erencelik/ticketline/internal/domain"
)

type MockShowtimeRepo struct {
	GetSeatMapFunc        func(ctx context.Context, showtimeID int) (*domain.ShowtimeSeats, error)
	GetPricingContextFunc func(ctx context.Context, showtimeID int, seatIDs []int) (*domain.ShowtimePricingContext, error)
}

func (m *MockShowtimeRepo) GetSeatMap(ctx context.Context, showtimeID int) (*domain.ShowtimeSeats, error) {
	return m.GetSeatMapFunc(ctx, showtimeID)
}

func (m *MockShowtimeRepo) GetPricingContext(
	ctx context.Context,
	showtimeID int,
	seatIDs []int) (*domain.ShowtimePricingContext, error) {

	return m.GetPricingContextFunc(ctx, showtimeID, seatIDs)
}
