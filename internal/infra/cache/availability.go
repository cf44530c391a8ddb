package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"resbook/internal/domain/availability"
	"resbook/internal/pkg/errs"
)

// AvailabilityCache is a short-TTL read cache for availability queries.
// Serving a slightly stale view is acceptable because capacity is
// enforced at hold-creation time, never from the cache; misses and redis
// failures both fall through to the database.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

func key(resourceID uuid.UUID, date string, quantity int) string {
	return fmt.Sprintf("avail:%s:%s:%d", resourceID, date, quantity)
}

func (c *AvailabilityCache) Get(ctx context.Context, resourceID uuid.UUID, date string, quantity int) ([]availability.Slot, bool) {
	payload, err := c.client.Get(ctx, key(resourceID, date, quantity)).Bytes()
	if err != nil {
		return nil, false
	}

	var slots []availability.Slot
	if err := json.Unmarshal(payload, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *AvailabilityCache) Set(ctx context.Context, resourceID uuid.UUID, date string, quantity int, slots []availability.Slot) error {
	payload, err := json.Marshal(slots)
	if err != nil {
		return errs.Wrap(err, "failed to marshal availability snapshot")
	}
	return c.client.Set(ctx, key(resourceID, date, quantity), payload, c.ttl).Err()
}

// Invalidate drops every cached snapshot for the resource after a
// capacity mutation. Best effort; the TTL bounds staleness anyway.
func (c *AvailabilityCache) Invalidate(ctx context.Context, resourceID uuid.UUID) error {
	pattern := fmt.Sprintf("avail:%s:*", resourceID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return errs.Wrap(err, "failed to drop availability key")
		}
	}
	return errs.Wrap(iter.Err(), "failed to scan availability keys")
}
