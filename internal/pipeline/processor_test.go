package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/erencelik/ticketline/internal/domain"
	"github.com/erencelik/ticketline/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() domain.ReservationRequest {
	return domain.ReservationRequest{
		ActorID:       1,
		ShowtimeID:    42,
		SeatIDs:       []int{5, 6},
		TotalAmount:   decimal.RequireFromString("288.00"),
		TrackingID:    "7f9c24e8-3b2a-4f01-9e8d-1c5a6b7d8e9f",
		PaymentMethod: domain.PaymentMethodWallet,
	}
}

func newTestProcessor(locker *mocks.MockLocker, bookings *mocks.MockBookingRepo, publisher *mocks.MockPublisher) *Processor {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewProcessor(locker, bookings, publisher, logger)
}

func noBooking(ctx context.Context, trackingID string) (*domain.Booking, error) {
	return nil, domain.ErrRecordNotFound
}

func heldLock(ctx context.Context, showtimeID int, seatIDs []int, actorID int) (bool, error) {
	return true, nil
}

func TestProcess_CommitsAndReleasesLock(t *testing.T) {
	var released bool
	var published *domain.BookingConfirmedEvent

	locker := &mocks.MockLocker{
		ValidateFunc: heldLock,
		ReleaseFunc: func(ctx context.Context, showtimeID int, seatIDs []int, actorID int) error {
			released = true
			assert.Equal(t, 42, showtimeID)
			assert.Equal(t, []int{5, 6}, seatIDs)
			assert.Equal(t, 1, actorID)
			return nil
		},
	}

	bookings := &mocks.MockBookingRepo{
		GetByTrackingIDFunc: noBooking,
		CreateFunc: func(ctx context.Context, params domain.BookingParams) (*domain.Booking, error) {
			assert.Equal(t, testRequest().TrackingID, params.TrackingID)
			return &domain.Booking{ID: 77, Status: domain.BookingStatusConfirmed}, nil
		},
	}

	publisher := &mocks.MockPublisher{
		PublishBookingConfirmedFunc: func(ctx context.Context, event domain.BookingConfirmedEvent) error {
			published = &event
			return nil
		},
	}

	result := newTestProcessor(locker, bookings, publisher).Process(context.Background(), testRequest())

	assert.Equal(t, ResultCommitted, result)
	assert.True(t, released)
	require.NotNil(t, published)
	assert.Equal(t, 77, published.BookingID)
	assert.Equal(t, testRequest().TrackingID, published.TrackingID)
}

func TestProcess_DuplicateDeliveryIsNoOp(t *testing.T) {
	var created, released bool

	locker := &mocks.MockLocker{
		ReleaseFunc: func(ctx context.Context, showtimeID int, seatIDs []int, actorID int) error {
			released = true
			return nil
		},
	}

	bookings := &mocks.MockBookingRepo{
		GetByTrackingIDFunc: func(ctx context.Context, trackingID string) (*domain.Booking, error) {
			return &domain.Booking{ID: 77, TrackingID: trackingID}, nil
		},
		CreateFunc: func(ctx context.Context, params domain.BookingParams) (*domain.Booking, error) {
			created = true
			return nil, nil
		},
	}

	result := newTestProcessor(locker, bookings, &mocks.MockPublisher{}).Process(context.Background(), testRequest())

	assert.Equal(t, ResultCommitted, result)
	assert.False(t, created, "redelivery must not create a second booking")
	assert.True(t, released)
}

func TestProcess_LostHoldIsRejected(t *testing.T) {
	locker := &mocks.MockLocker{
		ValidateFunc: func(ctx context.Context, showtimeID int, seatIDs []int, actorID int) (bool, error) {
			return false, nil
		},
	}

	bookings := &mocks.MockBookingRepo{GetByTrackingIDFunc: noBooking}

	result := newTestProcessor(locker, bookings, &mocks.MockPublisher{}).Process(context.Background(), testRequest())

	assert.Equal(t, ResultRejected, result)
}

func TestProcess_CreateFailureClassification(t *testing.T) {
	tests := []struct {
		name       string
		createErr  error
		wantResult Result
	}{
		{
			name:       "insufficient balance is terminal",
			createErr:  domain.ErrInsufficientBalance,
			wantResult: ResultRejected,
		},
		{
			name:       "seat already ticketed is terminal",
			createErr:  domain.ErrSeatAlreadyTicketed,
			wantResult: ResultRejected,
		},
		{
			name:       "transient database error is retryable",
			createErr:  errors.New("connection reset"),
			wantResult: ResultRetryable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locker := &mocks.MockLocker{ValidateFunc: heldLock}
			bookings := &mocks.MockBookingRepo{
				GetByTrackingIDFunc: noBooking,
				CreateFunc: func(ctx context.Context, params domain.BookingParams) (*domain.Booking, error) {
					return nil, tt.createErr
				},
			}

			result := newTestProcessor(locker, bookings, &mocks.MockPublisher{}).Process(context.Background(), testRequest())

			assert.Equal(t, tt.wantResult, result)
		})
	}
}

func TestProcess_TransientLookupFailuresAreRetryable(t *testing.T) {
	t.Run("booking lookup error", func(t *testing.T) {
		bookings := &mocks.MockBookingRepo{
			GetByTrackingIDFunc: func(ctx context.Context, trackingID string) (*domain.Booking, error) {
				return nil, errors.New("connection reset")
			},
		}

		result := newTestProcessor(&mocks.MockLocker{}, bookings, &mocks.MockPublisher{}).Process(context.Background(), testRequest())
		assert.Equal(t, ResultRetryable, result)
	})

	t.Run("lock validation error", func(t *testing.T) {
		locker := &mocks.MockLocker{
			ValidateFunc: func(ctx context.Context, showtimeID int, seatIDs []int, actorID int) (bool, error) {
				return false, errors.New("lock store unavailable")
			},
		}
		bookings := &mocks.MockBookingRepo{GetByTrackingIDFunc: noBooking}

		result := newTestProcessor(locker, bookings, &mocks.MockPublisher{}).Process(context.Background(), testRequest())
		assert.Equal(t, ResultRetryable, result)
	})
}

func TestProcess_PostCommitFailuresDoNotChangeResult(t *testing.T) {
	locker := &mocks.MockLocker{
		ValidateFunc: heldLock,
		ReleaseFunc: func(ctx context.Context, showtimeID int, seatIDs []int, actorID int) error {
			return errors.New("lock store unavailable")
		},
	}

	bookings := &mocks.MockBookingRepo{
		GetByTrackingIDFunc: noBooking,
		CreateFunc: func(ctx context.Context, params domain.BookingParams) (*domain.Booking, error) {
			return &domain.Booking{ID: 77}, nil
		},
	}

	publisher := &mocks.MockPublisher{
		PublishBookingConfirmedFunc: func(ctx context.Context, event domain.BookingConfirmedEvent) error {
			return errors.New("broker unavailable")
		},
	}

	result := newTestProcessor(locker, bookings, publisher).Process(context.Background(), testRequest())

	// The committed booking is the source of truth; release and publish are
	// best-effort.
	assert.Equal(t, ResultCommitted, result)
}
