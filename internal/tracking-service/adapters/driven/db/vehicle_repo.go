package db

import (
	"context"
	"errors"

	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/domain/model"
	"bus-track/internal/tracking-service/core/myerrors"

	"github.com/jackc/pgx/v5"
)

type VehicleRepository struct {
	db *DataBase
}

func NewVehicleRepository(db *DataBase) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (vr *VehicleRepository) ByID(ctx context.Context, vehicleID string) (model.Vehicle, error) {
	q := `
		SELECT vehicle_id, vehicle_number, vehicle_name, capacity, is_active,
			route_id, route_name, current_latitude, current_longitude, last_location_update
		FROM vehicles
		WHERE vehicle_id = $1;
	`
	var v model.Vehicle
	err := vr.db.Pool().QueryRow(ctx, q, vehicleID).Scan(
		&v.VehicleID,
		&v.VehicleNumber,
		&v.VehicleName,
		&v.Capacity,
		&v.IsActive,
		&v.RouteID,
		&v.RouteName,
		&v.CurrentLatitude,
		&v.CurrentLongitude,
		&v.LastLocationUpdate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Vehicle{}, myerrors.ErrVehicleNotFound
		}
		return model.Vehicle{}, err
	}
	return v, nil
}

// List returns vehicles matching the filter, ordered by vehicle id for
// deterministic output.
func (vr *VehicleRepository) List(ctx context.Context, filter dto.PositionsFilter) ([]model.Vehicle, error) {
	q := `
		SELECT vehicle_id, vehicle_number, vehicle_name, capacity, is_active,
			route_id, route_name, current_latitude, current_longitude, last_location_update
		FROM vehicles
		WHERE ($1 = FALSE OR is_active = TRUE)
			AND ($2 = '' OR route_id = $2)
			AND ($3 = '' OR vehicle_number ILIKE '%' || $3 || '%')
		ORDER BY vehicle_id;
	`
	rows, err := vr.db.Pool().Query(ctx, q, filter.ActiveOnly, filter.RouteID, filter.VehicleNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []model.Vehicle
	for rows.Next() {
		var v model.Vehicle
		if err := rows.Scan(
			&v.VehicleID,
			&v.VehicleNumber,
			&v.VehicleName,
			&v.Capacity,
			&v.IsActive,
			&v.RouteID,
			&v.RouteName,
			&v.CurrentLatitude,
			&v.CurrentLongitude,
			&v.LastLocationUpdate,
		); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}
