package photo

import (
	"context"
	"time"
)

// Photo is only used as a compliance signal; its content never enters scoring.
type Photo struct {
	ID         string
	JobID      string
	UploadedBy string
	URL        string
	CreatedAt  time.Time
}

type Repository interface {
	// CountByUploader counts photos uploaded by staffID at or after since (nil = all time).
	CountByUploader(ctx context.Context, staffID string, since *time.Time) (int, error)

	// ListSince returns every photo created at or after since (nil = all time).
	ListSince(ctx context.Context, since *time.Time) ([]Photo, error)
}
