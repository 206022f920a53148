package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/trakby/trakby-backend-go/internal/domain/tracking"
	"github.com/trakby/trakby-backend-go/internal/pkg/database"
)

type trackingRepositoryImpl struct {
	db *database.DB
}

func NewTrackingRepository(db *database.DB) tracking.Repository {
	return &trackingRepositoryImpl{db: db}
}

const pingColumns = `p.id, p.staff_id, p.latitude, p.longitude, p.accuracy, p.address, p.distance_meters, p.recorded_at, s.name`

func scanPing(row pgx.Row) (tracking.Ping, error) {
	var p tracking.Ping
	err := row.Scan(&p.ID, &p.StaffID, &p.Latitude, &p.Longitude, &p.Accuracy, &p.Address, &p.DistanceMeters, &p.RecordedAt, &p.StaffName)
	return p, err
}

func (r *trackingRepositoryImpl) collect(ctx context.Context, query string, args ...interface{}) ([]tracking.Ping, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pings []tracking.Ping
	for rows.Next() {
		p, err := scanPing(rows)
		if err != nil {
			return nil, err
		}
		pings = append(pings, p)
	}
	return pings, rows.Err()
}

// Append implements tracking.Repository.
func (r *trackingRepositoryImpl) Append(ctx context.Context, p tracking.Ping) error {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO location_pings (id, staff_id, latitude, longitude, accuracy, address, distance_meters, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := q.Exec(ctx, query, p.ID, p.StaffID, p.Latitude, p.Longitude, p.Accuracy, p.Address, p.DistanceMeters, p.RecordedAt); err != nil {
		return fmt.Errorf("failed to insert location ping: %w", err)
	}
	return nil
}

// LastForStaff implements tracking.Repository.
func (r *trackingRepositoryImpl) LastForStaff(ctx context.Context, staffID string) (tracking.Ping, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + pingColumns + `
		FROM location_pings p
		JOIN staff s ON s.id = p.staff_id
		WHERE p.staff_id = $1
		ORDER BY p.recorded_at DESC
		LIMIT 1`

	p, err := scanPing(q.QueryRow(ctx, query, staffID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tracking.Ping{}, tracking.ErrNoPosition
		}
		return tracking.Ping{}, fmt.Errorf("failed to get last position: %w", err)
	}
	return p, nil
}

// Latest implements tracking.Repository.
func (r *trackingRepositoryImpl) Latest(ctx context.Context) ([]tracking.Ping, error) {
	query := `SELECT DISTINCT ON (p.staff_id) ` + pingColumns + `
		FROM location_pings p
		JOIN staff s ON s.id = p.staff_id
		WHERE lower(trim(s.status)) = 'active'
		ORDER BY p.staff_id, p.recorded_at DESC`

	pings, err := r.collect(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest positions: %w", err)
	}
	return pings, nil
}

// History implements tracking.Repository.
func (r *trackingRepositoryImpl) History(ctx context.Context, staffID string, since *time.Time, limit int) ([]tracking.Ping, error) {
	query := `SELECT * FROM (
			SELECT ` + pingColumns + `
			FROM location_pings p
			JOIN staff s ON s.id = p.staff_id
			WHERE p.staff_id = $1 AND ($2::timestamptz IS NULL OR p.recorded_at >= $2)
			ORDER BY p.recorded_at DESC
			LIMIT $3
		) recent
		ORDER BY recorded_at ASC`

	pings, err := r.collect(ctx, query, staffID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list position history: %w", err)
	}
	return pings, nil
}
