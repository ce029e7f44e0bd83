package services

import (
	"context"
	"testing"
	"time"

	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/domain/model"
	"bus-track/internal/tracking-service/core/myerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queryFixture struct {
	svc      *QueryService
	records  *fakeLocationRepo
	vehicles *fakeVehicleRepo
	alerts   *fakeAlertRepo
	cache    *fakeCache
	now      time.Time
}

func newQueryFixture(t *testing.T, vehicles ...model.Vehicle) *queryFixture {
	t.Helper()
	cfg := testTrackingConfig()
	f := &queryFixture{
		records:  newFakeLocationRepo(),
		vehicles: newFakeVehicleRepo(vehicles...),
		alerts:   newFakeAlertRepo(),
		cache:    newFakeCache(),
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewQueryService(cfg, testLogger(t), NewStatusDeriver(cfg), f.vehicles, f.records, f.alerts, f.cache)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *queryFixture) report(vehicleID string, speed float64, at time.Time) {
	f.records.now = at
	_, _ = f.records.InsertWithProjection(context.Background(), model.LocationRecord{
		RecordID:  "rec-" + vehicleID,
		VehicleID: vehicleID,
		Latitude:  8.4657,
		Longitude: -13.2317,
		SpeedKmh:  speed,
		IsMoving:  speed > 1.0,
	})
}

func TestLatestPositions(t *testing.T) {
	f := newQueryFixture(t, activeBus("v1"), activeBus("v2"), activeBus("v3"))
	ctx := context.Background()

	// v1 online and moving, v2 stale and idle, v3 never reported
	f.report("v1", 40, f.now.Add(-2*time.Minute))
	f.report("v2", 0.5, f.now.Add(-25*time.Minute))

	res, err := f.svc.LatestPositions(ctx, dto.PositionsFilter{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.TotalBuses, "silent vehicles are omitted, not zero-filled")
	assert.Equal(t, 1, res.OnlineBuses)
	assert.Equal(t, f.now, res.GeneratedAt)

	byID := make(map[string]dto.VehicleSnapshot)
	for _, snap := range res.Buses {
		byID[snap.VehicleID] = snap
	}
	require.Contains(t, byID, "v1")
	require.Contains(t, byID, "v2")
	assert.NotContains(t, byID, "v3")

	assert.True(t, byID["v1"].IsOnline)
	assert.True(t, byID["v1"].IsMoving)
	assert.Equal(t, 2, byID["v1"].MinutesAgo)

	assert.False(t, byID["v2"].IsOnline)
	assert.False(t, byID["v2"].IsMoving)
	assert.Equal(t, 25, byID["v2"].MinutesAgo)
}

func TestLatestPositionsVehicleNumberFilter(t *testing.T) {
	f := newQueryFixture(t, activeBus("v1"), activeBus("v2"), activeBus("v12"))
	ctx := context.Background()

	f.report("v1", 20, f.now.Add(-time.Minute))
	f.report("v2", 20, f.now.Add(-time.Minute))
	f.report("v12", 20, f.now.Add(-time.Minute))

	t.Run("substring match, case-insensitive", func(t *testing.T) {
		res, err := f.svc.LatestPositions(ctx, dto.PositionsFilter{VehicleNumber: "L-V1"})
		require.NoError(t, err)
		require.Len(t, res.Buses, 2, "SL-v1 and SL-v12 both contain the fragment")
		for _, snap := range res.Buses {
			assert.Contains(t, []string{"SL-v1", "SL-v12"}, snap.VehicleNumber)
		}
	})

	t.Run("no match yields an empty fleet", func(t *testing.T) {
		res, err := f.svc.LatestPositions(ctx, dto.PositionsFilter{VehicleNumber: "FT-9"})
		require.NoError(t, err)
		assert.Empty(t, res.Buses)
		assert.Equal(t, 0, res.TotalBuses)
	})
}

func TestLatestPositionsRecomputesOnlineFromStaleCache(t *testing.T) {
	f := newQueryFixture(t, activeBus("v1"))
	ctx := context.Background()

	// a snapshot cached while the vehicle was online, now 20 minutes old
	stale := dto.VehicleSnapshot{
		VehicleID:     "v1",
		VehicleNumber: "SL-v1",
		Timestamp:     f.now.Add(-20 * time.Minute),
		SpeedKmh:      30,
		IsOnline:      true,
		MinutesAgo:    1,
	}
	require.NoError(t, f.cache.Set(ctx, stale, time.Minute))

	res, err := f.svc.LatestPositions(ctx, dto.PositionsFilter{})
	require.NoError(t, err)
	require.Len(t, res.Buses, 1)
	assert.False(t, res.Buses[0].IsOnline, "online must follow the clock, not the cached flag")
	assert.Equal(t, 20, res.Buses[0].MinutesAgo)
	assert.Equal(t, 0, res.OnlineBuses)
}

func TestLatestPositionsFillsCache(t *testing.T) {
	f := newQueryFixture(t, activeBus("v1"))
	ctx := context.Background()
	f.report("v1", 40, f.now.Add(-time.Minute))

	_, err := f.svc.LatestPositions(ctx, dto.PositionsFilter{})
	require.NoError(t, err)

	cached, err := f.cache.Get(ctx, "v1")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "SL-v1", cached.VehicleNumber)
}

func TestHistory(t *testing.T) {
	f := newQueryFixture(t, activeBus("v1"))
	ctx := context.Background()

	t.Run("unknown vehicle", func(t *testing.T) {
		_, err := f.svc.History(ctx, "ghost", 10)
		assert.ErrorIs(t, err, myerrors.ErrVehicleNotFound)
	})

	t.Run("newest first, limited", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			f.report("v1", float64(10+i), f.now.Add(time.Duration(i)*time.Minute))
		}
		entries, err := f.svc.History(ctx, "v1", 3)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, 14.0, entries[0].SpeedKmh)
		assert.True(t, entries[0].Timestamp.After(entries[2].Timestamp))
	})
}

func TestFleetSummary(t *testing.T) {
	inactive := activeBus("v9")
	inactive.IsActive = false
	f := newQueryFixture(t, activeBus("v1"), activeBus("v2"), inactive)
	ctx := context.Background()

	// v1 online and moving, v2 online but idle, v9 inactive and excluded
	f.report("v1", 40, f.now.Add(-time.Minute))
	f.report("v2", 0, f.now.Add(-3*time.Minute))
	f.report("v9", 50, f.now.Add(-time.Minute))

	_, err := f.alerts.InsertSpeedAlert(ctx, model.SpeedAlert{AlertID: "a1", LocationRecordID: "r1", AlertType: model.SpeedAlertOverspeed})
	require.NoError(t, err)
	require.NoError(t, f.alerts.InsertEmergencyAlert(ctx, model.EmergencyAlert{AlertID: "e1"}))

	sum, err := f.svc.FleetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalVehicles)
	assert.Equal(t, 2, sum.OnlineVehicles)
	assert.Equal(t, 1, sum.MovingVehicles)
	assert.Equal(t, 1, sum.OutstandingSpeed)
	assert.Equal(t, 1, sum.OutstandingEmergency)
}
