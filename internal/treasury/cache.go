package treasury

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "glowdesk:treasury:snapshot"

// SnapshotCache stores the latest treasury report in Redis so repeated
// dashboard hits do not re-aggregate every bucket.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache builds a SnapshotCache. A zero ttl disables expiry.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

// Get returns the cached report, or (nil, nil) on a miss.
func (c *SnapshotCache) Get(ctx context.Context) (*Report, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	payload, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("treasury: cache get: %w", err)
	}
	var report Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("treasury: cache decode: %w", err)
	}
	return &report, nil
}

// Set stores the report.
func (c *SnapshotCache) Set(ctx context.Context, report *Report) error {
	if c == nil || c.client == nil || report == nil {
		return nil
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("treasury: cache encode: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("treasury: cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached report.
func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("treasury: cache invalidate: %w", err)
	}
	return nil
}
