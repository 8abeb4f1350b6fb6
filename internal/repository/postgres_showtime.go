package repository

import (
	"context"
	"errors"

	"github.com/erencelik/ticketline/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

func (p *PostgresShowtimeRepository) GetSeatMap(ctx context.Context, showtimeID int) (*domain.ShowtimeSeats, error) {
	query := `
		SELECT st.id, h.id, h.name, m.title, st.start_time
		FROM showtimes st
		JOIN halls h ON st.hall_id = h.id
		JOIN movies m ON st.movie_id = m.id
		WHERE st.id = $1
	`

	var seatMap domain.ShowtimeSeats

	err := p.db.QueryRow(ctx, query, showtimeID).Scan(
		&seatMap.ShowtimeID,
		&seatMap.HallID,
		&seatMap.HallName,
		&seatMap.MovieTitle,
		&seatMap.StartTime,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	query = `
		SELECT id, seat_row, seat_col, category, base_price
		FROM seats
		WHERE hall_id = $1
		ORDER BY seat_row ASC, seat_col ASC
	`

	rows, err := p.db.Query(ctx, query, seatMap.HallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		seat := domain.Seat{Available: true}

		err = rows.Scan(&seat.ID, &seat.Row, &seat.Col, &seat.Category, &seat.BasePrice)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	seatMap.Seats = seats

	return &seatMap, nil
}

// GetPricingContext loads every read-only input a quote needs in one round
// trip per concern: showtime header, tier prices, and the requested seats.
// Occupancy is derived from sold tickets over hall capacity.
func (p *PostgresShowtimeRepository) GetPricingContext(
	ctx context.Context,
	showtimeID int,
	seatIDs []int) (*domain.ShowtimePricingContext, error) {

	query := `
		SELECT
			st.id,
			m.id,
			m.title,
			st.start_time,
			m.popularity_score,
			st.surge_threshold,
			COALESCE(
				(SELECT COUNT(*) FROM tickets t WHERE t.showtime_id = st.id) * 100.0 /
				NULLIF((SELECT COUNT(*) FROM seats s WHERE s.hall_id = st.hall_id), 0),
				0
			)
		FROM showtimes st
		JOIN movies m ON st.movie_id = m.id
		WHERE st.id = $1
	`

	pctx := domain.ShowtimePricingContext{
		TierPrices: make(map[string]decimal.Decimal),
	}

	err := p.db.QueryRow(ctx, query, showtimeID).Scan(
		&pctx.ShowtimeID,
		&pctx.MovieID,
		&pctx.MovieTitle,
		&pctx.StartTime,
		&pctx.PopularityScore,
		&pctx.SurgeThreshold,
		&pctx.OccupancyPercent,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	err = p.loadTierPrices(ctx, showtimeID, pctx.TierPrices)
	if err != nil {
		return nil, err
	}

	seats, err := p.loadRequestedSeats(ctx, showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}

	if len(seats) != len(seatIDs) {
		return nil, domain.ErrRecordNotFound
	}

	pctx.Seats = seats

	return &pctx, nil
}

func (p *PostgresShowtimeRepository) loadTierPrices(
	ctx context.Context,
	showtimeID int,
	tierPrices map[string]decimal.Decimal) error {

	query := `
		SELECT category, price
		FROM showtime_tier_prices
		WHERE showtime_id = $1
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var price decimal.Decimal

		if err = rows.Scan(&category, &price); err != nil {
			return err
		}

		tierPrices[category] = price
	}

	return rows.Err()
}

func (p *PostgresShowtimeRepository) loadRequestedSeats(
	ctx context.Context,
	showtimeID int,
	seatIDs []int) ([]domain.Seat, error) {

	query := `
		SELECT s.id, s.seat_row, s.seat_col, s.category, s.base_price
		FROM seats s
		JOIN showtimes st ON st.hall_id = s.hall_id
		WHERE st.id = $1 AND s.id = ANY($2)
		ORDER BY s.seat_row ASC, s.seat_col ASC
	`

	rows, err := p.db.Query(ctx, query, showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0, len(seatIDs))

	for rows.Next() {
		var seat domain.Seat

		err = rows.Scan(&seat.ID, &seat.Row, &seat.Col, &seat.Category, &seat.BasePrice)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}
