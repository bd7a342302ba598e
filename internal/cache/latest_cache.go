package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"aquamon/internal/models"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second

	// Stale devices fall out of the cache on their own; Postgres remains
	// the source of truth.
	latestTTL = 24 * time.Hour
)

// NewRedisClient returns a configured go-redis client and validates the
// connection with PING.
func NewRedisClient(addr, password string) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("cache: addr is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), defaultDialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// LatestCache keeps each device's most recent reading in Redis so the live
// status endpoint can skip Postgres on the hot path. Best effort: a degraded
// cache never fails a request.
type LatestCache struct {
	client *redis.Client
}

// NewLatestCache returns cache backed by the given client.
func NewLatestCache(client *redis.Client) *LatestCache {
	return &LatestCache{client: client}
}

func latestKey(deviceID int64) string {
	return fmt.Sprintf("device:last:%d", deviceID)
}

// SetLatest overwrites the device's cached reading.
func (c *LatestCache) SetLatest(ctx context.Context, m models.Measurement) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, latestKey(m.DeviceID), payload, latestTTL).Err()
}

// GetLatest returns the cached reading and whether it was present.
func (c *LatestCache) GetLatest(ctx context.Context, deviceID int64) (models.Measurement, bool, error) {
	payload, err := c.client.Get(ctx, latestKey(deviceID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Measurement{}, false, nil
		}
		return models.Measurement{}, false, err
	}

	var m models.Measurement
	if err := json.Unmarshal(payload, &m); err != nil {
		return models.Measurement{}, false, err
	}
	return m, true, nil
}

// Close releases the underlying client.
func (c *LatestCache) Close() error {
	return c.client.Close()
}
