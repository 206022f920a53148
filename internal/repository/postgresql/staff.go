package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/trakby/trakby-backend-go/internal/domain/staff"
	"github.com/trakby/trakby-backend-go/internal/pkg/database"
)

type staffRepositoryImpl struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) staff.Repository {
	return &staffRepositoryImpl{db: db}
}

const staffColumns = `id, name, email, role, status, device_id, created_at, updated_at`

// scanMember normalises the loosely stored role and status columns.
func scanMember(row pgx.Row) (staff.Member, error) {
	var m staff.Member
	var role, status string
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &role, &status, &m.DeviceID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return staff.Member{}, err
	}
	m.Role = staff.ParseRole(role)

	parsed, err := staff.ParseStatus(status)
	if err != nil {
		return staff.Member{}, fmt.Errorf("staff %s has status %q: %w", m.ID, status, err)
	}
	m.Status = parsed
	return m, nil
}

func (r *staffRepositoryImpl) collect(ctx context.Context, query string, args ...interface{}) ([]staff.Member, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []staff.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetByID implements staff.Repository.
func (r *staffRepositoryImpl) GetByID(ctx context.Context, id string) (staff.Member, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`

	m, err := scanMember(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return staff.Member{}, staff.ErrStaffNotFound
		}
		return staff.Member{}, fmt.Errorf("failed to get staff member: %w", err)
	}
	return m, nil
}

// List implements staff.Repository.
func (r *staffRepositoryImpl) List(ctx context.Context, filter staff.StaffFilter) ([]staff.Member, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Role != nil && *filter.Role != "" {
		where += fmt.Sprintf(" AND lower(trim(role)) = $%d", argIdx)
		args = append(args, string(staff.ParseRole(*filter.Role)))
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		status, err := staff.ParseStatus(*filter.Status)
		if err != nil {
			return nil, 0, err
		}
		where += fmt.Sprintf(" AND lower(trim(status)) = $%d", argIdx)
		args = append(args, string(status))
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM staff "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count staff: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM staff %s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
		staffColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	members, err := r.collect(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list staff: %w", err)
	}
	return members, total, nil
}

// ListByRole implements staff.Repository.
func (r *staffRepositoryImpl) ListByRole(ctx context.Context, role staff.Role) ([]staff.Member, error) {
	query := `SELECT ` + staffColumns + ` FROM staff
		WHERE lower(trim(role)) = $1 AND lower(trim(status)) = 'active'
		ORDER BY name ASC`

	members, err := r.collect(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to list staff by role: %w", err)
	}
	return members, nil
}

// ListActive implements staff.Repository.
func (r *staffRepositoryImpl) ListActive(ctx context.Context) ([]staff.Member, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE lower(trim(status)) = 'active' ORDER BY name ASC`

	members, err := r.collect(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active staff: %w", err)
	}
	return members, nil
}
