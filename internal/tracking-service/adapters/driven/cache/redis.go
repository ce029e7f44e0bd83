package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bus-track/internal/config"
	"bus-track/internal/tracking-service/core/domain/dto"
	ports "bus-track/internal/tracking-service/core/ports/driven"

	"github.com/redis/go-redis/v9"
)

type SnapshotCache struct {
	client *redis.Client
}

var _ ports.ISnapshotCache = (*SnapshotCache)(nil)

func New(ctx context.Context, cfg config.Redisconfig) (*SnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &SnapshotCache{client: client}, nil
}

func snapshotKey(vehicleID string) string {
	return fmt.Sprintf("vehicle:%s:snapshot", vehicleID)
}

func (c *SnapshotCache) Get(ctx context.Context, vehicleID string) (*dto.VehicleSnapshot, error) {
	raw, err := c.client.Get(ctx, snapshotKey(vehicleID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var snap dto.VehicleSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		// corrupt entry, treat as a miss
		return nil, nil
	}
	return &snap, nil
}

func (c *SnapshotCache) Set(ctx context.Context, snap dto.VehicleSnapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey(snap.VehicleID), raw, ttl).Err()
}

func (c *SnapshotCache) Invalidate(ctx context.Context, vehicleID string) error {
	return c.client.Del(ctx, snapshotKey(vehicleID)).Err()
}

func (c *SnapshotCache) Close() error {
	return c.client.Close()
}
