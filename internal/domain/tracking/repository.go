package tracking

import (
	"context"
	"time"
)

type Repository interface {
	Append(ctx context.Context, ping Ping) error

	// LastForStaff returns ErrNoPosition when the staff member has never reported.
	LastForStaff(ctx context.Context, staffID string) (Ping, error)

	// Latest returns the most recent ping of every staff member.
	Latest(ctx context.Context) ([]Ping, error)

	// History returns pings oldest first.
	History(ctx context.Context, staffID string, since *time.Time, limit int) ([]Ping, error)
}
