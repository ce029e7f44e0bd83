package services

import (
	"context"
	"testing"

	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/domain/model"
	"bus-track/internal/tracking-service/core/myerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type trackingFixture struct {
	svc      *TrackingService
	records  *fakeLocationRepo
	vehicles *fakeVehicleRepo
	drivers  *fakeDriverRepo
	devices  *fakeDeviceRepo
	alerts   *fakeAlertRepo
	broker   *fakeBroker
	feed     *fakeFeed
	cache    *fakeCache
}

func newTrackingFixture(t *testing.T, vehicles []model.Vehicle, drivers []model.Driver, devices []model.Device) *trackingFixture {
	t.Helper()
	cfg := testTrackingConfig()
	log := testLogger(t)

	f := &trackingFixture{
		records:  newFakeLocationRepo(),
		vehicles: newFakeVehicleRepo(vehicles...),
		drivers:  newFakeDriverRepo(drivers...),
		devices:  newFakeDeviceRepo(devices...),
		alerts:   newFakeAlertRepo(),
		broker:   &fakeBroker{},
		feed:     &fakeFeed{},
		cache:    newFakeCache(),
	}
	status := NewStatusDeriver(cfg)
	alertService := NewAlertService(cfg, log, f.alerts, newFakeGeofenceRepo(), f.drivers, f.vehicles, f.records, f.broker)
	f.svc = NewTrackingService(cfg, log, status, alertService, f.vehicles, f.drivers, f.devices, f.records, f.broker, f.feed, f.cache)
	return f
}

func activeBus(id string) model.Vehicle {
	return model.Vehicle{VehicleID: id, VehicleNumber: "SL-" + id, VehicleName: "Bus " + id, IsActive: true}
}

func TestSubmitByVehicleValidation(t *testing.T) {
	f := newTrackingFixture(t, []model.Vehicle{activeBus("v1")}, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.SubmitLocationRequest
		want error
	}{
		{"latitude above range", dto.SubmitLocationRequest{Latitude: 90.01, Longitude: 0}, myerrors.ErrInvalidCoordinate},
		{"latitude below range", dto.SubmitLocationRequest{Latitude: -91, Longitude: 0}, myerrors.ErrInvalidCoordinate},
		{"longitude above range", dto.SubmitLocationRequest{Latitude: 0, Longitude: 180.5}, myerrors.ErrInvalidCoordinate},
		{"negative speed", dto.SubmitLocationRequest{Latitude: 8.46, Longitude: -13.23, SpeedKmh: -3}, myerrors.ErrInvalidSpeed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.SubmitByVehicle(ctx, "v1", "", tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("heading out of range", func(t *testing.T) {
		heading := 361.0
		_, err := f.svc.SubmitByVehicle(ctx, "v1", "", dto.SubmitLocationRequest{
			Latitude: 8.46, Longitude: -13.23, HeadingDegrees: &heading,
		})
		assert.ErrorIs(t, err, myerrors.ErrMalformedRequest)
	})

	t.Run("nothing persisted on rejection", func(t *testing.T) {
		assert.Empty(t, f.records.records)
	})
}

func TestSubmitByVehicleAccepted(t *testing.T) {
	f := newTrackingFixture(t, []model.Vehicle{activeBus("v1")}, nil, nil)
	ctx := context.Background()

	res, err := f.svc.SubmitByVehicle(ctx, "v1", "", dto.SubmitLocationRequest{
		Latitude:  8.4700,
		Longitude: -13.2300,
		SpeedKmh:  35,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RecordID)
	assert.Equal(t, "SL-v1", res.VehicleNumber)
	assert.False(t, res.Timestamp.IsZero())

	latest, err := f.records.LatestByVehicle(ctx, "v1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, res.RecordID, latest.RecordID)
	assert.Equal(t, 35.0, latest.SpeedKmh)
	assert.True(t, latest.IsMoving)

	require.Len(t, f.broker.published, 1)
	assert.Equal(t, "location.updated.v1", f.broker.published[0].RoutingKey)
	assert.Len(t, f.feed.broadcasts, 1)
	assert.Equal(t, 1, f.cache.invalidations)
}

func TestSubmitByVehicleRejectsUnknownAndInactive(t *testing.T) {
	inactive := activeBus("v2")
	inactive.IsActive = false
	f := newTrackingFixture(t, []model.Vehicle{activeBus("v1"), inactive}, nil, nil)
	ctx := context.Background()
	req := dto.SubmitLocationRequest{Latitude: 8.46, Longitude: -13.23, SpeedKmh: 10}

	_, err := f.svc.SubmitByVehicle(ctx, "nope", "", req)
	assert.ErrorIs(t, err, myerrors.ErrVehicleNotFound)

	_, err = f.svc.SubmitByVehicle(ctx, "v2", "", req)
	assert.ErrorIs(t, err, myerrors.ErrVehicleInactive)
}

func TestSubmitByVehicleDeviceKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("good-key"), bcrypt.MinCost)
	require.NoError(t, err)
	device := model.Device{DeviceID: "d1", VehicleID: "v1", KeyHash: string(hash), IsActive: true}
	f := newTrackingFixture(t, []model.Vehicle{activeBus("v1"), activeBus("v2")}, nil, []model.Device{device})
	ctx := context.Background()
	req := dto.SubmitLocationRequest{Latitude: 8.46, Longitude: -13.23, SpeedKmh: 10, DeviceID: "d1"}

	t.Run("wrong key rejected", func(t *testing.T) {
		_, err := f.svc.SubmitByVehicle(ctx, "v1", "bad-key", req)
		assert.ErrorIs(t, err, myerrors.ErrBadDeviceKey)
	})

	t.Run("device bound to another vehicle rejected", func(t *testing.T) {
		_, err := f.svc.SubmitByVehicle(ctx, "v2", "good-key", req)
		assert.ErrorIs(t, err, myerrors.ErrBadDeviceKey, "a device registered to v1 must not report for v2")
		assert.Empty(t, f.records.records["v2"], "nothing may be persisted for the foreign vehicle")
	})

	t.Run("unknown device rejected", func(t *testing.T) {
		bad := req
		bad.DeviceID = "ghost"
		_, err := f.svc.SubmitByVehicle(ctx, "v1", "good-key", bad)
		assert.ErrorIs(t, err, myerrors.ErrDeviceNotFound)
	})

	t.Run("matching key accepted", func(t *testing.T) {
		_, err := f.svc.SubmitByVehicle(ctx, "v1", "good-key", req)
		assert.NoError(t, err)
	})

	t.Run("no device id skips the check", func(t *testing.T) {
		plain := req
		plain.DeviceID = ""
		_, err := f.svc.SubmitByVehicle(ctx, "v1", "", plain)
		assert.NoError(t, err)
	})
}

func TestSubmitByVehicleDiscardsImplausibleAccuracy(t *testing.T) {
	f := newTrackingFixture(t, []model.Vehicle{activeBus("v1")}, nil, nil)
	ctx := context.Background()

	accuracy := 250.0
	_, err := f.svc.SubmitByVehicle(ctx, "v1", "", dto.SubmitLocationRequest{
		Latitude: 8.46, Longitude: -13.23, SpeedKmh: 20, AccuracyMeters: &accuracy,
	})
	require.NoError(t, err)

	latest, err := f.records.LatestByVehicle(ctx, "v1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Nil(t, latest.AccuracyMeters, "implausible accuracy is nulled, the record survives")
}

func TestSubmitByDriver(t *testing.T) {
	vehicleID := "v1"
	drivers := []model.Driver{
		{DriverID: "drv1", FullName: "Abu Kamara", IsActive: true, AssignedVehicleID: &vehicleID},
		{DriverID: "drv2", FullName: "Isatu Sesay", IsActive: true},
		{DriverID: "drv3", FullName: "Musa Conteh", IsActive: false, AssignedVehicleID: &vehicleID},
	}
	f := newTrackingFixture(t, []model.Vehicle{activeBus("v1")}, drivers, nil)
	ctx := context.Background()
	req := dto.SubmitLocationRequest{Latitude: 8.46, Longitude: -13.23, SpeedKmh: 25}

	t.Run("assigned driver lands on the vehicle", func(t *testing.T) {
		res, err := f.svc.SubmitByDriver(ctx, "drv1", req)
		require.NoError(t, err)
		assert.Equal(t, "SL-v1", res.VehicleNumber)
	})

	t.Run("driver without vehicle is rejected", func(t *testing.T) {
		_, err := f.svc.SubmitByDriver(ctx, "drv2", req)
		assert.ErrorIs(t, err, myerrors.ErrNoVehicleAssigned)
	})

	t.Run("inactive driver is rejected", func(t *testing.T) {
		_, err := f.svc.SubmitByDriver(ctx, "drv3", req)
		assert.ErrorIs(t, err, myerrors.ErrDriverInactive)
	})

	t.Run("unknown driver is rejected", func(t *testing.T) {
		_, err := f.svc.SubmitByDriver(ctx, "ghost", req)
		assert.ErrorIs(t, err, myerrors.ErrDriverNotFound)
	})
}
