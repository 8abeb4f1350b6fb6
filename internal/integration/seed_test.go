package integration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	TestActorA = 1
	TestActorB = 2

	TestShowtimeID = 42
	TestMovieID    = 1
	TestHallID     = 1
)

var seedStatements = []string{
	`INSERT INTO actors (id, membership_tier) VALUES (1, 'NONE'), (2, 'NONE')`,
	`INSERT INTO wallets (actor_id, balance) VALUES (1, 1000.00), (2, 20.00)`,
	`INSERT INTO movies (id, title, popularity_score) VALUES (1, 'Test Movie', 7.50)`,
	`INSERT INTO halls (id, name) VALUES (1, 'Hall 1')`,
	`INSERT INTO seats (id, hall_id, seat_row, seat_col, category, base_price) VALUES
		(5, 1, 1, 1, 'STANDARD', 150.00),
		(6, 1, 1, 2, 'STANDARD', 150.00),
		(7, 1, 2, 1, 'STANDARD', 150.00),
		(8, 1, 2, 2, 'PREMIUM', 220.00)`,
	`INSERT INTO showtimes (id, movie_id, hall_id, start_time, surge_threshold)
		VALUES (42, 1, 1, NOW() + INTERVAL '3 days', 80)`,
}

func seedDatabase(t testing.TB, app *TestApp) {
	ctx := context.Background()

	for _, stmt := range seedStatements {
		_, err := app.DB.Exec(ctx, stmt)
		require.NoError(t, err)
	}
}

func resetDatabase(t testing.TB, app *TestApp) {
	ctx := context.Background()

	_, err := app.DB.Exec(ctx, `TRUNCATE
		wallet_transactions, tickets, bookings, coupon_redemptions, coupons,
		pricing_rules, showtime_tier_prices, showtimes, seats, halls, movies,
		wallets, actors
		RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

func countRows(t testing.TB, app *TestApp, query string, args ...any) int {
	var count int
	err := app.DB.QueryRow(context.Background(), query, args...).Scan(&count)
	require.NoError(t, err)

	return count
}

func walletBalance(t testing.TB, app *TestApp, actorID int) string {
	var balance string
	err := app.DB.QueryRow(context.Background(),
		`SELECT balance::text FROM wallets WHERE actor_id = $1`, actorID).Scan(&balance)
	require.NoError(t, err)

	return balance
}
