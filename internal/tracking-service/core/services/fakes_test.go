package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"bus-track/internal/config"
	"bus-track/internal/mylogger"
	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/domain/model"
	"bus-track/internal/tracking-service/core/myerrors"
)

func testLogger(t *testing.T) mylogger.Logger {
	t.Helper()
	log, err := mylogger.New("test", mylogger.LevelError)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func testTrackingConfig() *config.Trackingconfig {
	return &config.Trackingconfig{
		MovementThresholdKmh: 1.0,
		OnlineWindow:         10 * time.Minute,
		DefaultSpeedLimitKmh: 80,
		MaxAccuracyMeters:    100,
		MediumBandFrac:       0.10,
		HighBandFrac:         0.30,
		CriticalBandFrac:     0.50,
	}
}

type fakeLocationRepo struct {
	records map[string][]model.LocationRecord // per vehicle, oldest first
	now     time.Time
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{
		records: make(map[string][]model.LocationRecord),
		now:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeLocationRepo) InsertWithProjection(_ context.Context, rec model.LocationRecord) (time.Time, error) {
	rec.Timestamp = f.now
	f.records[rec.VehicleID] = append(f.records[rec.VehicleID], rec)
	return f.now, nil
}

func (f *fakeLocationRepo) LatestByVehicle(_ context.Context, vehicleID string) (*model.LocationRecord, error) {
	recs := f.records[vehicleID]
	if len(recs) == 0 {
		return nil, nil
	}
	latest := recs[len(recs)-1]
	return &latest, nil
}

func (f *fakeLocationRepo) HistoryByVehicle(_ context.Context, vehicleID string, limit int) ([]model.LocationRecord, error) {
	recs := f.records[vehicleID]
	if limit <= 0 {
		limit = 50
	}
	out := make([]model.LocationRecord, 0, limit)
	for i := len(recs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, recs[i])
	}
	return out, nil
}

type fakeVehicleRepo struct {
	vehicles map[string]model.Vehicle
}

func newFakeVehicleRepo(vehicles ...model.Vehicle) *fakeVehicleRepo {
	f := &fakeVehicleRepo{vehicles: make(map[string]model.Vehicle)}
	for _, v := range vehicles {
		f.vehicles[v.VehicleID] = v
	}
	return f
}

func (f *fakeVehicleRepo) ByID(_ context.Context, vehicleID string) (model.Vehicle, error) {
	v, ok := f.vehicles[vehicleID]
	if !ok {
		return model.Vehicle{}, myerrors.ErrVehicleNotFound
	}
	return v, nil
}

func (f *fakeVehicleRepo) List(_ context.Context, filter dto.PositionsFilter) ([]model.Vehicle, error) {
	var out []model.Vehicle
	for _, v := range f.vehicles {
		if filter.ActiveOnly && !v.IsActive {
			continue
		}
		if filter.RouteID != "" && (v.RouteID == nil || *v.RouteID != filter.RouteID) {
			continue
		}
		if filter.VehicleNumber != "" &&
			!strings.Contains(strings.ToLower(v.VehicleNumber), strings.ToLower(filter.VehicleNumber)) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

type fakeDriverRepo struct {
	drivers map[string]model.Driver
}

func newFakeDriverRepo(drivers ...model.Driver) *fakeDriverRepo {
	f := &fakeDriverRepo{drivers: make(map[string]model.Driver)}
	for _, d := range drivers {
		f.drivers[d.DriverID] = d
	}
	return f
}

func (f *fakeDriverRepo) ByID(_ context.Context, driverID string) (model.Driver, error) {
	d, ok := f.drivers[driverID]
	if !ok {
		return model.Driver{}, myerrors.ErrDriverNotFound
	}
	return d, nil
}

func (f *fakeDriverRepo) ByAssignedVehicle(_ context.Context, vehicleID string) (*model.Driver, error) {
	for _, d := range f.drivers {
		if d.AssignedVehicleID != nil && *d.AssignedVehicleID == vehicleID {
			drv := d
			return &drv, nil
		}
	}
	return nil, nil
}

type fakeDeviceRepo struct {
	devices map[string]model.Device
}

func newFakeDeviceRepo(devices ...model.Device) *fakeDeviceRepo {
	f := &fakeDeviceRepo{devices: make(map[string]model.Device)}
	for _, d := range devices {
		f.devices[d.DeviceID] = d
	}
	return f
}

func (f *fakeDeviceRepo) ByID(_ context.Context, deviceID string) (model.Device, error) {
	d, ok := f.devices[deviceID]
	if !ok || !d.IsActive {
		return model.Device{}, myerrors.ErrDeviceNotFound
	}
	return d, nil
}

type fakeAlertRepo struct {
	speed     map[string]model.SpeedAlert
	emergency map[string]model.EmergencyAlert
	seen      map[string]bool // location_record_id + alert_type
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{
		speed:     make(map[string]model.SpeedAlert),
		emergency: make(map[string]model.EmergencyAlert),
		seen:      make(map[string]bool),
	}
}

func (f *fakeAlertRepo) InsertSpeedAlert(_ context.Context, a model.SpeedAlert) (bool, error) {
	key := a.LocationRecordID + "|" + a.AlertType
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	f.speed[a.AlertID] = a
	return true, nil
}

func (f *fakeAlertRepo) InsertEmergencyAlert(_ context.Context, a model.EmergencyAlert) error {
	f.emergency[a.AlertID] = a
	return nil
}

func (f *fakeAlertRepo) SpeedAlertByID(_ context.Context, alertID string) (model.SpeedAlert, error) {
	a, ok := f.speed[alertID]
	if !ok {
		return model.SpeedAlert{}, myerrors.ErrAlertNotFound
	}
	return a, nil
}

func (f *fakeAlertRepo) EmergencyAlertByID(_ context.Context, alertID string) (model.EmergencyAlert, error) {
	a, ok := f.emergency[alertID]
	if !ok {
		return model.EmergencyAlert{}, myerrors.ErrAlertNotFound
	}
	return a, nil
}

func (f *fakeAlertRepo) AcknowledgeSpeedAlert(_ context.Context, alertID, actor string, at time.Time) error {
	a, ok := f.speed[alertID]
	if !ok || a.IsAcknowledged {
		return myerrors.ErrAlreadyAcknowledged
	}
	a.IsAcknowledged = true
	a.AcknowledgedBy = &actor
	a.AcknowledgedAt = &at
	f.speed[alertID] = a
	return nil
}

func (f *fakeAlertRepo) ResolveEmergencyAlert(_ context.Context, alertID, actor, notes string, authoritiesContacted bool, at time.Time, responseMinutes int) error {
	a, ok := f.emergency[alertID]
	if !ok || a.IsResolved {
		return myerrors.ErrAlreadyResolved
	}
	a.IsResolved = true
	a.ResolvedBy = &actor
	a.ResolvedAt = &at
	a.ResolutionNotes = notes
	a.AuthoritiesContacted = authoritiesContacted
	a.ResponseTimeMinutes = &responseMinutes
	f.emergency[alertID] = a
	return nil
}

func (f *fakeAlertRepo) ListSpeedAlerts(_ context.Context, outstandingOnly bool) ([]model.SpeedAlert, error) {
	var out []model.SpeedAlert
	for _, a := range f.speed {
		if outstandingOnly && a.IsAcknowledged {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAlertRepo) ListEmergencyAlerts(_ context.Context, outstandingOnly bool) ([]model.EmergencyAlert, error) {
	var out []model.EmergencyAlert
	for _, a := range f.emergency {
		if outstandingOnly && a.IsResolved {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAlertRepo) CountOutstanding(_ context.Context) (int, int, error) {
	speed, emergency := 0, 0
	for _, a := range f.speed {
		if !a.IsAcknowledged {
			speed++
		}
	}
	for _, a := range f.emergency {
		if !a.IsResolved {
			emergency++
		}
	}
	return speed, emergency, nil
}

type fakeGeofenceRepo struct {
	areas []model.GeofenceArea
	state map[string]model.GeofenceState
}

func newFakeGeofenceRepo(areas ...model.GeofenceArea) *fakeGeofenceRepo {
	return &fakeGeofenceRepo{areas: areas, state: make(map[string]model.GeofenceState)}
}

func (f *fakeGeofenceRepo) ActiveAreas(_ context.Context) ([]model.GeofenceArea, error) {
	var out []model.GeofenceArea
	for _, a := range f.areas {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeGeofenceRepo) ContainmentState(_ context.Context, vehicleID, geofenceID string) (*model.GeofenceState, error) {
	st, ok := f.state[vehicleID+"|"+geofenceID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (f *fakeGeofenceRepo) SetContainmentState(_ context.Context, st model.GeofenceState) error {
	f.state[st.VehicleID+"|"+st.GeofenceID] = st
	return nil
}

type fakeProgressRepo struct {
	byVehicle map[string]model.RouteProgress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{byVehicle: make(map[string]model.RouteProgress)}
}

func (f *fakeProgressRepo) Upsert(_ context.Context, p model.RouteProgress) error {
	f.byVehicle[p.VehicleID] = p
	return nil
}

func (f *fakeProgressRepo) ByVehicle(_ context.Context, vehicleID string) (*model.RouteProgress, error) {
	p, ok := f.byVehicle[vehicleID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type publishedMessage struct {
	Exchange   string
	RoutingKey string
	Body       any
}

type fakeBroker struct {
	published []publishedMessage
}

func (f *fakeBroker) PublishJSON(_ context.Context, exchange, routingKey string, msg any) error {
	f.published = append(f.published, publishedMessage{exchange, routingKey, msg})
	return nil
}

func (f *fakeBroker) IsAlive() bool { return true }
func (f *fakeBroker) Close() error  { return nil }

func (f *fakeBroker) keys() []string {
	out := make([]string, 0, len(f.published))
	for _, m := range f.published {
		out = append(out, m.RoutingKey)
	}
	return out
}

type fakeFeed struct {
	broadcasts [][]byte
}

func (f *fakeFeed) Broadcast(msg []byte) {
	f.broadcasts = append(f.broadcasts, msg)
}

type fakeCache struct {
	snaps         map[string]dto.VehicleSnapshot
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{snaps: make(map[string]dto.VehicleSnapshot)}
}

func (f *fakeCache) Get(_ context.Context, vehicleID string) (*dto.VehicleSnapshot, error) {
	snap, ok := f.snaps[vehicleID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (f *fakeCache) Set(_ context.Context, snap dto.VehicleSnapshot, _ time.Duration) error {
	f.snaps[snap.VehicleID] = snap
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, vehicleID string) error {
	delete(f.snaps, vehicleID)
	f.invalidations++
	return nil
}
