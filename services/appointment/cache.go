package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// BookedSlotCache memoizes booked times per (date, doctor) for the slot picker.
// It is never consulted when deciding whether a booking may be written.
type BookedSlotCache interface {
	Get(ctx context.Context, doctor, date string) ([]string, bool, error)
	Set(ctx context.Context, doctor, date string, times []string) error
	Invalidate(ctx context.Context, doctor, date string) error
}

const bookedSlotsPrefix = "slots:booked:"

// anyDoctor keys the date-wide entry used when no doctor is selected.
const anyDoctor = "*"

// RedisBookedSlotCache stores booked times as JSON arrays with a TTL.
type RedisBookedSlotCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisBookedSlotCache(client *redis.Client, ttl time.Duration) *RedisBookedSlotCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisBookedSlotCache{Client: client, TTL: ttl}
}

func bookedSlotsKey(doctor, date string) string {
	if doctor == "" {
		doctor = anyDoctor
	}
	return bookedSlotsPrefix + date + ":" + doctor
}

func (c *RedisBookedSlotCache) Get(ctx context.Context, doctor, date string) ([]string, bool, error) {
	raw, err := c.Client.Get(ctx, bookedSlotsKey(doctor, date)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read booked slots cache: %w", err)
	}
	var times []string
	if err := json.Unmarshal([]byte(raw), &times); err != nil {
		return nil, false, fmt.Errorf("corrupt booked slots cache entry: %w", err)
	}
	return times, true, nil
}

func (c *RedisBookedSlotCache) Set(ctx context.Context, doctor, date string, times []string) error {
	data, err := json.Marshal(times)
	if err != nil {
		return err
	}
	if err := c.Client.Set(ctx, bookedSlotsKey(doctor, date), data, c.TTL).Err(); err != nil {
		return fmt.Errorf("failed to write booked slots cache: %w", err)
	}
	return nil
}

// Invalidate drops both the doctor entry and the date-wide entry.
func (c *RedisBookedSlotCache) Invalidate(ctx context.Context, doctor, date string) error {
	keys := []string{bookedSlotsKey("", date)}
	if doctor != "" {
		keys = append(keys, bookedSlotsKey(doctor, date))
	}
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate booked slots cache: %w", err)
	}
	return nil
}
