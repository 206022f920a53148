package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/trakby/trakby-backend-go/internal/domain/attendance"
	"github.com/trakby/trakby-backend-go/internal/pkg/database"
)

const pgUniqueViolation = "23505"

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	a.id, a.staff_id, a.date,
	a.check_in_time, a.check_in_latitude, a.check_in_longitude,
	a.check_in_short_address, a.check_in_full_address, a.check_in_building_hint, a.check_in_location_type,
	a.check_out_time, a.check_out_latitude, a.check_out_longitude,
	a.check_out_short_address, a.check_out_full_address, a.check_out_building_hint, a.check_out_location_type,
	a.total_hours, a.created_at, a.updated_at, s.name`

// locationColumns holds one side of a record's nullable location columns.
type locationColumns struct {
	latitude     *float64
	longitude    *float64
	shortAddress *string
	fullAddress  *string
	buildingHint *string
	locationType *string
}

func (c locationColumns) toLocation() *attendance.Location {
	if c.latitude == nil || c.longitude == nil {
		return nil
	}
	loc := &attendance.Location{
		Latitude:     *c.latitude,
		Longitude:    *c.longitude,
		FullAddress:  c.fullAddress,
		BuildingHint: c.buildingHint,
	}
	if c.shortAddress != nil {
		loc.ShortAddress = *c.shortAddress
	}
	if c.locationType != nil {
		loc.Type = attendance.LocationType(*c.locationType)
	}
	return loc
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var r attendance.Record
	var in, out locationColumns

	err := row.Scan(
		&r.ID, &r.StaffID, &r.Date,
		&r.CheckInTime, &in.latitude, &in.longitude,
		&in.shortAddress, &in.fullAddress, &in.buildingHint, &in.locationType,
		&r.CheckOutTime, &out.latitude, &out.longitude,
		&out.shortAddress, &out.fullAddress, &out.buildingHint, &out.locationType,
		&r.TotalHours, &r.CreatedAt, &r.UpdatedAt, &r.StaffName,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	r.CheckInLocation = in.toLocation()
	r.CheckOutLocation = out.toLocation()
	return r, nil
}

func (r *attendanceRepositoryImpl) collect(ctx context.Context, query string, args ...interface{}) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func dateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}

// Create implements attendance.Repository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)
	if rec.CheckInTime == nil || rec.CheckInLocation == nil {
		return attendance.Record{}, fmt.Errorf("attendance record without check-in")
	}
	loc := rec.CheckInLocation

	query := `
		INSERT INTO attendance_records (
			id, staff_id, date,
			check_in_time, check_in_latitude, check_in_longitude,
			check_in_short_address, check_in_full_address, check_in_building_hint, check_in_location_type,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := q.Exec(ctx, query,
		rec.ID, rec.StaffID, dateOnly(rec.Date),
		*rec.CheckInTime, loc.Latitude, loc.Longitude,
		loc.ShortAddress, loc.FullAddress, loc.BuildingHint, string(loc.Type),
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to insert attendance: %w", err)
	}
	return rec, nil
}

// GetByStaffAndDate implements attendance.Repository.
func (r *attendanceRepositoryImpl) GetByStaffAndDate(ctx context.Context, staffID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records a
		JOIN staff s ON s.id = a.staff_id
		WHERE a.staff_id = $1 AND a.date = $2`

	rec, err := scanRecord(q.QueryRow(ctx, query, staffID, dateOnly(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &rec, nil
}

// CloseSession implements attendance.Repository.
func (r *attendanceRepositoryImpl) CloseSession(ctx context.Context, rec attendance.Record) error {
	q := GetQuerier(ctx, r.db)
	if rec.CheckOutTime == nil || rec.CheckOutLocation == nil || !rec.TotalHours.Valid {
		return fmt.Errorf("attendance record without check-out")
	}
	loc := rec.CheckOutLocation

	query := `
		UPDATE attendance_records SET
			check_out_time = $1,
			check_out_latitude = $2,
			check_out_longitude = $3,
			check_out_short_address = $4,
			check_out_full_address = $5,
			check_out_building_hint = $6,
			check_out_location_type = $7,
			total_hours = $8,
			updated_at = $9
		WHERE id = $10 AND check_out_time IS NULL
	`
	tag, err := q.Exec(ctx, query,
		*rec.CheckOutTime, loc.Latitude, loc.Longitude,
		loc.ShortAddress, loc.FullAddress, loc.BuildingHint, string(loc.Type),
		rec.TotalHours.Decimal.StringFixed(2), rec.UpdatedAt,
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to close attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrNotCheckedIn
	}
	return nil
}

// ListByStaff implements attendance.Repository.
func (r *attendanceRepositoryImpl) ListByStaff(ctx context.Context, staffID string, filter attendance.MyAttendanceFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE a.staff_id = $1"
	args := []interface{}{staffID}
	argIdx := 2

	if filter.StartDate != nil && *filter.StartDate != "" {
		where += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		where += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendance_records a "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM attendance_records a
		JOIN staff s ON s.id = a.staff_id
		%s
		ORDER BY a.date DESC
		LIMIT $%d OFFSET $%d`, attendanceColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	records, err := r.collect(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, total, nil
}

// List implements attendance.Repository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.StaffID != nil && *filter.StaffID != "" {
		where += fmt.Sprintf(" AND a.staff_id = $%d", argIdx)
		args = append(args, *filter.StaffID)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		where += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		where += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		where += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.LocationType != nil && *filter.LocationType != "" {
		where += fmt.Sprintf(" AND a.check_in_location_type = $%d", argIdx)
		args = append(args, *filter.LocationType)
		argIdx++
	}

	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendance_records a "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM attendance_records a
		JOIN staff s ON s.id = a.staff_id
		%s
		ORDER BY a.date %s, a.check_in_time %s
		LIMIT $%d OFFSET $%d`, attendanceColumns, where, sortOrder, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	records, err := r.collect(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, total, nil
}

// ListSince implements attendance.Repository.
func (r *attendanceRepositoryImpl) ListSince(ctx context.Context, staffID *string, since *time.Time) ([]attendance.Record, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if staffID != nil {
		where += fmt.Sprintf(" AND a.staff_id = $%d", argIdx)
		args = append(args, *staffID)
		argIdx++
	}
	if since != nil {
		where += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, dateOnly(*since))
	}

	query := fmt.Sprintf(`SELECT %s
		FROM attendance_records a
		JOIN staff s ON s.id = a.staff_id
		%s
		ORDER BY a.date ASC`, attendanceColumns, where)

	records, err := r.collect(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}
