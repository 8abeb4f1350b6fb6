package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Seat struct {
	ID        int
	Row       int
	Col       int
	Category  string
	BasePrice decimal.Decimal
	Available bool
}

// ShowtimeSeats is the seat map of a showtime, pre-sorted by (Row, Col).
type ShowtimeSeats struct {
	ShowtimeID int
	HallID     int
	HallName   string
	MovieTitle string
	StartTime  time.Time
	Seats      []Seat
}

// ShowtimePricingContext bundles every read-only input the pricing engine
// needs for one quote. Seats contains only the requested seats.
type ShowtimePricingContext struct {
	ShowtimeID       int
	MovieID          int
	MovieTitle       string
	StartTime        time.Time
	PopularityScore  float64
	OccupancyPercent float64
	SurgeThreshold   float64
	TierPrices       map[string]decimal.Decimal
	Seats            []Seat
}

type ShowtimeRepository interface {
	GetSeatMap(ctx context.Context, showtimeID int) (*ShowtimeSeats, error)
	// GetPricingContext returns ErrRecordNotFound when the showtime does not
	// exist or any requested seat does not belong to its hall.
	GetPricingContext(ctx context.Context, showtimeID int, seatIDs []int) (*ShowtimePricingContext, error)
}
