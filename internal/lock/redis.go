package lock

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Each operation is a single Lua script so the check-then-set sequence across
// N keys cannot interleave with another actor's acquire. KEYS[1] is the
// per-showtime set of held seat IDs kept for seat-map overlays; KEYS[2..] are
// the lock keys, matching ARGV[2..] seat IDs pairwise.

var acquireScript = redis.NewScript(`
	for i = 2, #KEYS do
		local holder = redis.call("GET", KEYS[i])
		if holder and holder ~= ARGV[1] then
			return 0
		end
	end

	for i = 2, #KEYS do
		redis.call("SET", KEYS[i], ARGV[1], "EX", tonumber(ARGV[2]))
		redis.call("SADD", KEYS[1], ARGV[i + 1])
	end

	return 1
`)

var releaseScript = redis.NewScript(`
	for i = 2, #KEYS do
		if redis.call("GET", KEYS[i]) == ARGV[1] then
			redis.call("DEL", KEYS[i])
			redis.call("SREM", KEYS[1], ARGV[i])
		end
	end

	return 1
`)

var validateScript = redis.NewScript(`
	for i = 1, #KEYS do
		if redis.call("GET", KEYS[i]) ~= ARGV[1] then
			return 0
		end
	end

	return 1
`)

// heldSeatsScript prunes expired members from the per-showtime set and
// returns the seat IDs that still have a live lock key.
var heldSeatsScript = redis.NewScript(`
	local setKey = KEYS[1]
	local showtimeId = ARGV[1]
	local cursor = "0"
	local expired = {}
	local held = {}

	repeat
		local result = redis.call("SSCAN", setKey, cursor, "COUNT", 100)
		cursor = result[1]

		for _, seatId in ipairs(result[2]) do
			local lockKey = "seat_lock:" .. showtimeId .. ":" .. seatId
			if redis.call("EXISTS", lockKey) == 0 then
				table.insert(expired, seatId)
			else
				table.insert(held, seatId)
			end
		end
	until cursor == "0"

	if #expired > 0 then
		redis.call("SREM", setKey, unpack(expired))
	end

	return held
`)

type RedisLocker struct {
	client redis.UniversalClient
}

func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, showtimeID int, seatIDs []int, actorID int) (bool, error) {
	keys := make([]string, 0, len(seatIDs)+1)
	keys = append(keys, seatSetKey(showtimeID))

	args := make([]interface{}, 0, len(seatIDs)+2)
	args = append(args, strconv.Itoa(actorID), int(LockTTL.Seconds()))

	for _, seatID := range seatIDs {
		keys = append(keys, seatLockKey(showtimeID, seatID))
		args = append(args, seatID)
	}

	acquired, err := acquireScript.Run(ctx, l.client, keys, args...).Int()
	if err != nil {
		return false, fmt.Errorf("failed to run seat acquire script: %w", err)
	}

	return acquired == 1, nil
}

func (l *RedisLocker) Release(ctx context.Context, showtimeID int, seatIDs []int, actorID int) error {
	keys := make([]string, 0, len(seatIDs)+1)
	keys = append(keys, seatSetKey(showtimeID))

	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, strconv.Itoa(actorID))

	for _, seatID := range seatIDs {
		keys = append(keys, seatLockKey(showtimeID, seatID))
		args = append(args, seatID)
	}

	err := releaseScript.Run(ctx, l.client, keys, args...).Err()
	if err != nil {
		return fmt.Errorf("failed to run seat release script: %w", err)
	}

	return nil
}

func (l *RedisLocker) Validate(ctx context.Context, showtimeID int, seatIDs []int, actorID int) (bool, error) {
	keys := make([]string, len(seatIDs))
	for i, seatID := range seatIDs {
		keys[i] = seatLockKey(showtimeID, seatID)
	}

	held, err := validateScript.Run(ctx, l.client, keys, strconv.Itoa(actorID)).Int()
	if err != nil {
		return false, fmt.Errorf("failed to run seat validate script: %w", err)
	}

	return held == 1, nil
}

func (l *RedisLocker) HeldSeats(ctx context.Context, showtimeID int) ([]int, error) {
	cmd := heldSeatsScript.Run(ctx, l.client, []string{seatSetKey(showtimeID)}, showtimeID)

	seatIDs, err := cmd.Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run held seats script: %w", err)
	}

	held := make([]int, len(seatIDs))
	for i, seatID := range seatIDs {
		held[i] = int(seatID)
	}

	return held, nil
}
