package mocks

import "context"

type MockLocker struct {
	AcquireFunc   func(ctx context.Context, showtimeID int, seatIDs []int, actorID int) (bool, error)
	ReleaseFunc   func(ctx context.Context, showtimeID int, seatIDs []int, actorID int) error
	ValidateFunc  func(ctx context.Context, showtimeID int, seatIDs []int, actorID int) (bool, error)
	HeldSeatsFunc func(ctx context.Context, showtimeID int) ([]int, error)
}

func (m *MockLocker) Acquire(ctx context.Context, showtimeID int, seatIDs []int, actorID int) (bool, error) {
	return m.AcquireFunc(ctx, showtimeID, seatIDs, actorID)
}

func (m *MockLocker) Release(ctx context.Context, showtimeID int, seatIDs []int, actorID int) error {
	return m.ReleaseFunc(ctx, showtimeID, seatIDs, actorID)
}

func (m *MockLocker) Validate(ctx context.Context, showtimeID int, seatIDs []int, actorID int) (bool, error) {
	return m.ValidateFunc(ctx, showtimeID, seatIDs, actorID)
}

func (m *MockLocker) HeldSeats(ctx context.Context, showtimeID int) ([]int, error) {
	return m.HeldSeatsFunc(ctx, showtimeID)
}
