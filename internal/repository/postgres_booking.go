package repository

import (
	"context"
	"errors"

	"github.com/erencelik/ticketline/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Create runs the booking transaction: optional wallet debit with its paired
// ledger row, the authoritative ticket-conflict check, and the booking and
// ticket inserts. Any failure rolls back the whole scope; no debit without a
// booking and no booking without tickets can survive.
func (p *PostgresBookingRepository) Create(ctx context.Context, params domain.BookingParams) (*domain.Booking, error) {
	booking := domain.Booking{
		ActorID:       params.ActorID,
		ShowtimeID:    params.ShowtimeID,
		TrackingID:    params.TrackingID,
		TotalAmount:   params.TotalAmount,
		PaymentMethod: params.PaymentMethod,
		Status:        domain.BookingStatusConfirmed,
	}

	// Card payments are captured by the external provider; the booking
	// stays pending until that settles.
	if params.PaymentMethod == domain.PaymentMethodCard {
		booking.Status = domain.BookingStatusPending
	}

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var walletID int

		if params.PaymentMethod == domain.PaymentMethodWallet {
			id, err := debitWallet(ctx, tx, params)
			if err != nil {
				return err
			}
			walletID = id
		}

		// The unique index on tickets (showtime_id, seat_id) backs this
		// check up; the explicit query gives a clean abort before any row
		// is written.
		taken, err := anyTicketExists(ctx, tx, params.ShowtimeID, params.SeatIDs)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrSeatAlreadyTicketed
		}

		query := `
			INSERT INTO bookings (actor_id, showtime_id, tracking_id, total_amount, payment_method, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`

		err = tx.QueryRow(
			ctx,
			query,
			booking.ActorID,
			booking.ShowtimeID,
			booking.TrackingID,
			booking.TotalAmount,
			booking.PaymentMethod,
			booking.Status).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(params.SeatIDs))
		for _, seatID := range params.SeatIDs {
			rows = append(rows, []any{booking.ID, params.ShowtimeID, seatID})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"tickets"},
			[]string{"booking_id", "showtime_id", "seat_id"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrSeatAlreadyTicketed
			}
			return err
		}

		if params.PaymentMethod == domain.PaymentMethodWallet {
			query = `
				INSERT INTO wallet_transactions (wallet_id, booking_id, amount, direction)
				VALUES ($1, $2, $3, 'DEBIT')
			`

			if _, err := tx.Exec(ctx, query, walletID, booking.ID, params.TotalAmount); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// debitWallet locks the actor's wallet row, verifies the balance, and applies
// the debit. The paired ledger row is inserted after the booking exists so it
// can reference it; both stay inside the same transaction.
func debitWallet(ctx context.Context, tx pgx.Tx, params domain.BookingParams) (int, error) {
	var walletID int
	var hasBalance bool

	query := `
		SELECT id, balance >= $2
		FROM wallets
		WHERE actor_id = $1
		FOR UPDATE
	`

	err := tx.QueryRow(ctx, query, params.ActorID, params.TotalAmount).Scan(&walletID, &hasBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrInsufficientBalance
		}
		return 0, err
	}

	if !hasBalance {
		return 0, domain.ErrInsufficientBalance
	}

	query = `
		UPDATE wallets
		SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := tx.Exec(ctx, query, params.TotalAmount, walletID); err != nil {
		return 0, err
	}

	return walletID, nil
}

func anyTicketExists(ctx context.Context, tx pgx.Tx, showtimeID int, seatIDs []int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM tickets
			WHERE showtime_id = $1 AND seat_id = ANY($2)
		)
	`

	var exists bool

	err := tx.QueryRow(ctx, query, showtimeID, seatIDs).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (p *PostgresBookingRepository) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Booking, error) {
	query := `
		SELECT id, actor_id, showtime_id, tracking_id, total_amount, payment_method, status, created_at, updated_at
		FROM bookings
		WHERE tracking_id = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, trackingID).Scan(
		&booking.ID,
		&booking.ActorID,
		&booking.ShowtimeID,
		&booking.TrackingID,
		&booking.TotalAmount,
		&booking.PaymentMethod,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) GetTicketsByShowtime(ctx context.Context, showtimeID int) ([]domain.Ticket, error) {
	query := `
		SELECT id, booking_id, showtime_id, seat_id
		FROM tickets
		WHERE showtime_id = $1
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)

	for rows.Next() {
		var ticket domain.Ticket

		err = rows.Scan(&ticket.ID, &ticket.BookingID, &ticket.ShowtimeID, &ticket.SeatID)
		if err != nil {
			return nil, err
		}

		tickets = append(tickets, ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

// Cancel is the refund path: pending/confirmed -> cancelled, ticket rows
// deleted so the seats free up, and the wallet credited with a paired ledger
// row for WALLET payments. No other status transition is legal.
func (p *PostgresBookingRepository) Cancel(ctx context.Context, trackingID string, actorID int) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT id, total_amount::text, payment_method, status
			FROM bookings
			WHERE tracking_id = $1 AND actor_id = $2
			FOR UPDATE
		`

		var (
			bookingID     int
			totalAmount   string
			paymentMethod domain.PaymentMethod
			status        domain.BookingStatus
		)

		err := tx.QueryRow(ctx, query, trackingID, actorID).Scan(&bookingID, &totalAmount, &paymentMethod, &status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}
			return err
		}

		if status == domain.BookingStatusCancelled {
			return domain.ErrBookingNotCancellable
		}

		query = `
			UPDATE bookings
			SET status = 'cancelled', updated_at = NOW()
			WHERE id = $1
		`

		if _, err := tx.Exec(ctx, query, bookingID); err != nil {
			return err
		}

		query = `DELETE FROM tickets WHERE booking_id = $1`

		if _, err := tx.Exec(ctx, query, bookingID); err != nil {
			return err
		}

		if paymentMethod != domain.PaymentMethodWallet {
			return nil
		}

		query = `
			UPDATE wallets
			SET balance = balance + $1::numeric, updated_at = NOW()
			WHERE actor_id = $2
			RETURNING id
		`

		var walletID int

		if err := tx.QueryRow(ctx, query, totalAmount, actorID).Scan(&walletID); err != nil {
			return err
		}

		query = `
			INSERT INTO wallet_transactions (wallet_id, booking_id, amount, direction)
			VALUES ($1, $2, $3::numeric, 'CREDIT')
		`

		_, err = tx.Exec(ctx, query, walletID, bookingID, totalAmount)

		return err
	})
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
