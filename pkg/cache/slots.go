package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dentflow/dentflow/internal/domain/schedule"
)

// SlotCache memoizes computed available-slot lists per (doctor, date, slot
// length) in Redis. Entries carry a doctor-day version: invalidation bumps
// the version, orphaning every cached slot list for that doctor-day at once
// regardless of slot length. A nil *SlotCache is valid and always misses.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSlotCache(client *redis.Client, ttl time.Duration) *SlotCache {
	if client == nil {
		return nil
	}
	return &SlotCache{client: client, ttl: ttl}
}

func (c *SlotCache) Get(ctx context.Context, doctorID uuid.UUID, date time.Time, units int) ([]schedule.TimeInterval, bool) {
	if c == nil {
		return nil, false
	}

	version, err := c.client.Get(ctx, versionKey(doctorID, date)).Int64()
	if err != nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, slotsKey(doctorID, date, units, version)).Bytes()
	if err != nil {
		return nil, false
	}

	var slots []schedule.TimeInterval
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) Set(ctx context.Context, doctorID uuid.UUID, date time.Time, units int, slots []schedule.TimeInterval) {
	if c == nil {
		return
	}

	vk := versionKey(doctorID, date)
	version, err := c.client.Get(ctx, vk).Int64()
	if err != nil {
		version = 1
		if err := c.client.Set(ctx, vk, version, c.ttl).Err(); err != nil {
			return
		}
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, slotsKey(doctorID, date, units, version), raw, c.ttl).Err()
}

// Invalidate drops every cached slot list for the doctor-day. Called on any
// appointment write touching that doctor and date.
func (c *SlotCache) Invalidate(ctx context.Context, doctorID uuid.UUID, date time.Time) {
	if c == nil {
		return
	}
	_ = c.client.Incr(ctx, versionKey(doctorID, date)).Err()
}

func versionKey(doctorID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("slots:ver:%s:%s", doctorID, date.Format("2006-01-02"))
}

func slotsKey(doctorID uuid.UUID, date time.Time, units int, version int64) string {
	return fmt.Sprintf("slots:%s:%s:%d:v%d", doctorID, date.Format("2006-01-02"), units, version)
}
