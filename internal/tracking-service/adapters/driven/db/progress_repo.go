package db

import (
	"context"
	"errors"

	"bus-track/internal/tracking-service/core/domain/model"

	"github.com/jackc/pgx/v5"
)

type ProgressRepository struct {
	db *DataBase
}

func NewProgressRepository(db *DataBase) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Upsert keeps one journey row per vehicle; a new journey replaces the old
// row.
func (pr *ProgressRepository) Upsert(ctx context.Context, p model.RouteProgress) error {
	q := `
		INSERT INTO route_progress(
			progress_id, vehicle_id, route_id, journey_start_time,
			estimated_arrival, actual_arrival, distance_covered_km,
			total_distance_km, progress_percentage, status,
			delay_minutes, delay_reason, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (vehicle_id) DO UPDATE
			SET progress_id = EXCLUDED.progress_id,
				route_id = EXCLUDED.route_id,
				journey_start_time = EXCLUDED.journey_start_time,
				estimated_arrival = EXCLUDED.estimated_arrival,
				actual_arrival = EXCLUDED.actual_arrival,
				distance_covered_km = EXCLUDED.distance_covered_km,
				total_distance_km = EXCLUDED.total_distance_km,
				progress_percentage = EXCLUDED.progress_percentage,
				status = EXCLUDED.status,
				delay_minutes = EXCLUDED.delay_minutes,
				delay_reason = EXCLUDED.delay_reason,
				updated_at = EXCLUDED.updated_at;
	`
	_, err := pr.db.Pool().Exec(ctx, q,
		p.ProgressID,
		p.VehicleID,
		p.RouteID,
		p.JourneyStartTime,
		p.EstimatedArrival,
		p.ActualArrival,
		p.DistanceCoveredKm,
		p.TotalDistanceKm,
		p.ProgressPercentage,
		p.Status,
		p.DelayMinutes,
		p.DelayReason,
		p.UpdatedAt,
	)
	return err
}

func (pr *ProgressRepository) ByVehicle(ctx context.Context, vehicleID string) (*model.RouteProgress, error) {
	q := `
		SELECT progress_id, vehicle_id, route_id, journey_start_time,
			estimated_arrival, actual_arrival, distance_covered_km,
			total_distance_km, progress_percentage, status,
			delay_minutes, delay_reason, updated_at
		FROM route_progress
		WHERE vehicle_id = $1;
	`
	var p model.RouteProgress
	err := pr.db.Pool().QueryRow(ctx, q, vehicleID).Scan(
		&p.ProgressID,
		&p.VehicleID,
		&p.RouteID,
		&p.JourneyStartTime,
		&p.EstimatedArrival,
		&p.ActualArrival,
		&p.DistanceCoveredKm,
		&p.TotalDistanceKm,
		&p.ProgressPercentage,
		&p.Status,
		&p.DelayMinutes,
		&p.DelayReason,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
