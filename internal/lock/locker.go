// Package lock implements the distributed seat-hold layer: an atomic
// multi-key acquire/release/validate contract over (showtime, seat) keys
// with a TTL-bound holder.
package lock

import (
	"context"
	"fmt"
	"time"
)

const (
	// HoldTTL is the user-facing hold duration.
	HoldTTL = 600 * time.Second
	// GraceTTL covers pipeline processing after the hold is confirmed, so a
	// lock does not expire between enqueue and consumption.
	GraceTTL = 10 * time.Second
	// LockTTL is the actual key expiry.
	LockTTL = HoldTTL + GraceTTL
)

// Locker is the seat-hold capability injected into the gateway and the
// pipeline. Implementations must make Acquire all-or-nothing with respect to
// concurrent acquires: either every key is set for the actor or none is.
type Locker interface {
	// Acquire returns false when any seat is held by a different actor; in
	// that case no key is changed. Re-acquiring own seats refreshes the TTL.
	Acquire(ctx context.Context, showtimeID int, seatIDs []int, actorID int) (bool, error)
	// Release deletes only keys currently held by the actor
	// (compare-and-delete); releasing expired or foreign keys is a no-op.
	Release(ctx context.Context, showtimeID int, seatIDs []int, actorID int) error
	// Validate reports whether every key exists and is held by the actor.
	Validate(ctx context.Context, showtimeID int, seatIDs []int, actorID int) (bool, error)
	// HeldSeats lists seats of the showtime with a currently valid hold,
	// regardless of holder. Used for seat-map availability overlays.
	HeldSeats(ctx context.Context, showtimeID int) ([]int, error)
}

func seatLockKey(showtimeID, seatID int) string {
	return fmt.Sprintf("seat_lock:%d:%d", showtimeID, seatID)
}

func seatSetKey(showtimeID int) string {
	return fmt.Sprintf("seat_locks:%d", showtimeID)
}
