package driven

import (
	"context"
	"time"

	"bus-track/internal/tracking-service/core/domain/dto"
)

// ISnapshotCache is a best-effort read-through cache of per-vehicle latest
// snapshots. A nil snapshot with nil error means a miss.
type ISnapshotCache interface {
	Get(ctx context.Context, vehicleID string) (*dto.VehicleSnapshot, error)
	Set(ctx context.Context, snap dto.VehicleSnapshot, ttl time.Duration) error
	Invalidate(ctx context.Context, vehicleID string) error
}
