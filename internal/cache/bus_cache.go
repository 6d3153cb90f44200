package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smarttransit/seat-admin/internal/models"
)

// BusCache is a read-through Redis cache of buses with their seat templates
type BusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBusCache creates a new BusCache
func NewBusCache(client *redis.Client, ttl time.Duration) *BusCache {
	return &BusCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the connection
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func busKey(busID string) string {
	return "bus:" + busID
}

// Get returns the cached bus or nil on a miss
func (c *BusCache) Get(ctx context.Context, busID string) (*models.Bus, error) {
	data, err := c.client.Get(ctx, busKey(busID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read bus cache: %w", err)
	}

	var bus models.Bus
	if err := json.Unmarshal(data, &bus); err != nil {
		return nil, fmt.Errorf("failed to decode cached bus: %w", err)
	}

	return &bus, nil
}

// Set stores a bus for the configured TTL
func (c *BusCache) Set(ctx context.Context, bus *models.Bus) error {
	data, err := json.Marshal(bus)
	if err != nil {
		return fmt.Errorf("failed to encode bus: %w", err)
	}

	if err := c.client.Set(ctx, busKey(bus.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write bus cache: %w", err)
	}

	return nil
}

// Invalidate drops a cached bus after it was written
func (c *BusCache) Invalidate(ctx context.Context, busID string) error {
	if err := c.client.Del(ctx, busKey(busID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate bus cache: %w", err)
	}
	return nil
}
