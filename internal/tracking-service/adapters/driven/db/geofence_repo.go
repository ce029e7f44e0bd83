package db

import (
	"context"
	"errors"

	"bus-track/internal/tracking-service/core/domain/model"

	"github.com/jackc/pgx/v5"
)

type GeofenceRepository struct {
	db *DataBase
}

func NewGeofenceRepository(db *DataBase) *GeofenceRepository {
	return &GeofenceRepository{db: db}
}

func (gr *GeofenceRepository) ActiveAreas(ctx context.Context) ([]model.GeofenceArea, error) {
	q := `
		SELECT geofence_id, name, description, center_latitude, center_longitude,
			radius_meters, area_type, is_active, alert_on_entry, alert_on_exit, speed_limit_kmh
		FROM geofence_areas
		WHERE is_active = TRUE
		ORDER BY geofence_id;
	`
	rows, err := gr.db.Pool().Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var areas []model.GeofenceArea
	for rows.Next() {
		var a model.GeofenceArea
		if err := rows.Scan(
			&a.GeofenceID,
			&a.Name,
			&a.Description,
			&a.CenterLatitude,
			&a.CenterLongitude,
			&a.RadiusMeters,
			&a.AreaType,
			&a.IsActive,
			&a.AlertOnEntry,
			&a.AlertOnExit,
			&a.SpeedLimitKmh,
		); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

func (gr *GeofenceRepository) ContainmentState(ctx context.Context, vehicleID, geofenceID string) (*model.GeofenceState, error) {
	q := `
		SELECT vehicle_id, geofence_id, inside
		FROM vehicle_geofence_state
		WHERE vehicle_id = $1 AND geofence_id = $2;
	`
	var st model.GeofenceState
	err := gr.db.Pool().QueryRow(ctx, q, vehicleID, geofenceID).Scan(&st.VehicleID, &st.GeofenceID, &st.Inside)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

func (gr *GeofenceRepository) SetContainmentState(ctx context.Context, st model.GeofenceState) error {
	q := `
		INSERT INTO vehicle_geofence_state(vehicle_id, geofence_id, inside)
		VALUES ($1, $2, $3)
		ON CONFLICT (vehicle_id, geofence_id) DO UPDATE
			SET inside = EXCLUDED.inside,
				updated_at = NOW();
	`
	_, err := gr.db.Pool().Exec(ctx, q, st.VehicleID, st.GeofenceID, st.Inside)
	return err
}
