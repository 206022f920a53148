package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/trakby/trakby-backend-go/internal/domain/photo"
	"github.com/trakby/trakby-backend-go/internal/pkg/database"
)

type photoRepositoryImpl struct {
	db *database.DB
}

func NewPhotoRepository(db *database.DB) photo.Repository {
	return &photoRepositoryImpl{db: db}
}

// CountByUploader implements photo.Repository.
func (r *photoRepositoryImpl) CountByUploader(ctx context.Context, staffID string, since *time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT COUNT(*) FROM job_photos
		WHERE uploaded_by = $1 AND ($2::timestamptz IS NULL OR created_at >= $2)
	`
	var count int
	if err := q.QueryRow(ctx, query, staffID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return count, nil
}

// ListSince implements photo.Repository.
func (r *photoRepositoryImpl) ListSince(ctx context.Context, since *time.Time) ([]photo.Photo, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, job_id, uploaded_by, url, created_at
		FROM job_photos
		WHERE $1::timestamptz IS NULL OR created_at >= $1
		ORDER BY created_at ASC
	`
	rows, err := q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var photos []photo.Photo
	for rows.Next() {
		var p photo.Photo
		if err := rows.Scan(&p.ID, &p.JobID, &p.UploadedBy, &p.URL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}
