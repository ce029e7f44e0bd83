package services

import (
	"time"

	"bus-track/internal/config"
	"bus-track/internal/tracking-service/core/domain/model"
)

// StatusDeriver computes movement and online flags from a vehicle's latest
// record. It holds no state of its own; everything is a pure function of the
// record, the clock and the configured thresholds.
type StatusDeriver struct {
	cfg *config.Trackingconfig
}

func NewStatusDeriver(cfg *config.Trackingconfig) *StatusDeriver {
	return &StatusDeriver{cfg: cfg}
}

// IsMoving applies the single movement threshold. The same threshold is used
// at write time and on every read path.
func (sd *StatusDeriver) IsMoving(speedKmh float64) bool {
	return speedKmh > sd.cfg.MovementThresholdKmh
}

// IsOnline reports whether the latest record is within the online window.
// A vehicle with no records is offline.
func (sd *StatusDeriver) IsOnline(latest *model.LocationRecord, now time.Time) bool {
	if latest == nil {
		return false
	}
	return now.Sub(latest.Timestamp) <= sd.cfg.OnlineWindow
}

// CurrentSpeed is the latest record's speed, zero when there is none.
func (sd *StatusDeriver) CurrentSpeed(latest *model.LocationRecord) float64 {
	if latest == nil {
		return 0
	}
	return latest.SpeedKmh
}

// MinutesSince reports whole minutes elapsed since the latest record.
func (sd *StatusDeriver) MinutesSince(latest *model.LocationRecord, now time.Time) int {
	if latest == nil {
		return 0
	}
	return int(now.Sub(latest.Timestamp).Minutes())
}
