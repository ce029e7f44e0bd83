package db

import (
	"context"
	"errors"

	"bus-track/internal/tracking-service/core/domain/model"
	"bus-track/internal/tracking-service/core/myerrors"

	"github.com/jackc/pgx/v5"
)

type DeviceRepository struct {
	db *DataBase
}

func NewDeviceRepository(db *DataBase) *DeviceRepository {
	return &DeviceRepository{db: db}
}

func (dr *DeviceRepository) ByID(ctx context.Context, deviceID string) (model.Device, error) {
	q := `
		SELECT device_id, vehicle_id, key_hash, is_active
		FROM devices
		WHERE device_id = $1 AND is_active = TRUE;
	`
	var d model.Device
	err := dr.db.Pool().QueryRow(ctx, q, deviceID).Scan(
		&d.DeviceID,
		&d.VehicleID,
		&d.KeyHash,
		&d.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Device{}, myerrors.ErrDeviceNotFound
		}
		return model.Device{}, err
	}
	return d, nil
}
