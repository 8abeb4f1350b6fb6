package lock

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	actorID   int
	expiresAt time.Time
}

// MemoryLocker is the in-process fallback used when Redis is unreachable. It
// honors the same contract (actor-scoped entries, lazy expiry on read) but
// only for a single-instance deployment: cross-instance correctness is
// abandoned, which callers must treat as a documented degradation.
type MemoryLocker struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// now is swappable for tests.
	now func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (l *MemoryLocker) Acquire(_ context.Context, showtimeID int, seatIDs []int, actorID int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	for _, seatID := range seatIDs {
		entry, ok := l.entries[seatLockKey(showtimeID, seatID)]
		if ok && entry.expiresAt.After(now) && entry.actorID != actorID {
			return false, nil
		}
	}

	expiresAt := now.Add(LockTTL)
	for _, seatID := range seatIDs {
		l.entries[seatLockKey(showtimeID, seatID)] = memoryEntry{
			actorID:   actorID,
			expiresAt: expiresAt,
		}
	}

	return true, nil
}

func (l *MemoryLocker) Release(_ context.Context, showtimeID int, seatIDs []int, actorID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, seatID := range seatIDs {
		key := seatLockKey(showtimeID, seatID)

		entry, ok := l.entries[key]
		if ok && entry.actorID == actorID {
			delete(l.entries, key)
		}
	}

	return nil
}

func (l *MemoryLocker) Validate(_ context.Context, showtimeID int, seatIDs []int, actorID int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	for _, seatID := range seatIDs {
		entry, ok := l.entries[seatLockKey(showtimeID, seatID)]
		if !ok || !entry.expiresAt.After(now) || entry.actorID != actorID {
			return false, nil
		}
	}

	return true, nil
}

func (l *MemoryLocker) HeldSeats(_ context.Context, showtimeID int) ([]int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	prefix := seatSetPrefix(showtimeID)

	held := make([]int, 0)

	for key, entry := range l.entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		if !entry.expiresAt.After(now) {
			delete(l.entries, key)
			continue
		}

		seatID, err := strconv.Atoi(strings.TrimPrefix(key, prefix))
		if err != nil {
			continue
		}

		held = append(held, seatID)
	}

	return held, nil
}

func seatSetPrefix(showtimeID int) string {
	return "seat_lock:" + strconv.Itoa(showtimeID) + ":"
}
