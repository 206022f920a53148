package job

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (Job, error)

	// ListByAssignee returns jobs assigned to staffID created at or after since (nil = all time).
	ListByAssignee(ctx context.Context, staffID string, since *time.Time) ([]Job, error)

	// ListAssigned returns every assigned job created at or after since (nil = all time).
	ListAssigned(ctx context.Context, since *time.Time) ([]Job, error)

	// UpdateStatus persists status, started_at and completed_at.
	UpdateStatus(ctx context.Context, j Job) error
}
