package attendance

import (
	"context"
	"time"
)

type Repository interface {
	// Create inserts the day's record. A second record for the same (staff, date)
	// must fail with ErrAlreadyCheckedIn.
	Create(ctx context.Context, record Record) (Record, error)

	// GetByStaffAndDate returns nil, nil when no record exists.
	GetByStaffAndDate(ctx context.Context, staffID string, date time.Time) (*Record, error)

	// CloseSession sets the check-out fields of an open record. It fails with
	// ErrNotCheckedIn when the record is missing or already closed.
	CloseSession(ctx context.Context, record Record) error

	// ListByStaff returns a staff member's records, newest first.
	ListByStaff(ctx context.Context, staffID string, filter MyAttendanceFilter) ([]Record, int64, error)

	// List returns records across staff for admins.
	List(ctx context.Context, filter AttendanceFilter) ([]Record, int64, error)

	// ListSince returns records dated on or after since (nil = all time) for scoring.
	ListSince(ctx context.Context, staffID *string, since *time.Time) ([]Record, error)
}
