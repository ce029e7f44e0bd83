package db

import (
	"context"
	"errors"

	"bus-track/internal/tracking-service/core/domain/model"
	"bus-track/internal/tracking-service/core/myerrors"

	"github.com/jackc/pgx/v5"
)

type DriverRepository struct {
	db *DataBase
}

func NewDriverRepository(db *DataBase) *DriverRepository {
	return &DriverRepository{db: db}
}

func (dr *DriverRepository) ByID(ctx context.Context, driverID string) (model.Driver, error) {
	q := `
		SELECT driver_id, full_name, license_number, phone_number, is_active, assigned_vehicle_id
		FROM drivers
		WHERE driver_id = $1;
	`
	var d model.Driver
	err := dr.db.Pool().QueryRow(ctx, q, driverID).Scan(
		&d.DriverID,
		&d.FullName,
		&d.LicenseNumber,
		&d.PhoneNumber,
		&d.IsActive,
		&d.AssignedVehicleID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Driver{}, myerrors.ErrDriverNotFound
		}
		return model.Driver{}, err
	}
	return d, nil
}

// ByAssignedVehicle returns nil without error when the vehicle has no
// assigned driver.
func (dr *DriverRepository) ByAssignedVehicle(ctx context.Context, vehicleID string) (*model.Driver, error) {
	q := `
		SELECT driver_id, full_name, license_number, phone_number, is_active, assigned_vehicle_id
		FROM drivers
		WHERE assigned_vehicle_id = $1;
	`
	var d model.Driver
	err := dr.db.Pool().QueryRow(ctx, q, vehicleID).Scan(
		&d.DriverID,
		&d.FullName,
		&d.LicenseNumber,
		&d.PhoneNumber,
		&d.IsActive,
		&d.AssignedVehicleID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}
