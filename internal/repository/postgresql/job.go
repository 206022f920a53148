package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/trakby/trakby-backend-go/internal/domain/job"
	"github.com/trakby/trakby-backend-go/internal/pkg/database"
)

type jobRepositoryImpl struct {
	db *database.DB
}

func NewJobRepository(db *database.DB) job.Repository {
	return &jobRepositoryImpl{db: db}
}

const jobColumns = `
	j.id, j.client_id, j.assigned_to, j.status, j.job_type_label, j.title,
	j.created_at, j.started_at, j.completed_at, j.updated_at, c.name`

func scanJob(row pgx.Row) (job.Job, error) {
	var j job.Job
	var status string
	err := row.Scan(
		&j.ID, &j.ClientID, &j.AssignedTo, &status, &j.JobTypeLabel, &j.Title,
		&j.CreatedAt, &j.StartedAt, &j.CompletedAt, &j.UpdatedAt, &j.ClientName,
	)
	if err != nil {
		return job.Job{}, err
	}
	if j.Status, err = job.ParseStatus(status); err != nil {
		return job.Job{}, fmt.Errorf("job %s has status %q: %w", j.ID, status, err)
	}
	return j, nil
}

func (r *jobRepositoryImpl) collect(ctx context.Context, query string, args ...interface{}) ([]job.Job, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []job.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// GetByID implements job.Repository.
func (r *jobRepositoryImpl) GetByID(ctx context.Context, id string) (job.Job, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + jobColumns + `
		FROM jobs j
		LEFT JOIN clients c ON c.id = j.client_id
		WHERE j.id = $1`

	j, err := scanJob(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrJobNotFound
		}
		return job.Job{}, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// ListByAssignee implements job.Repository.
func (r *jobRepositoryImpl) ListByAssignee(ctx context.Context, staffID string, since *time.Time) ([]job.Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM jobs j
		LEFT JOIN clients c ON c.id = j.client_id
		WHERE j.assigned_to = $1 AND ($2::timestamptz IS NULL OR j.created_at >= $2)
		ORDER BY j.created_at DESC`

	jobs, err := r.collect(ctx, query, staffID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs by assignee: %w", err)
	}
	return jobs, nil
}

// ListAssigned implements job.Repository.
func (r *jobRepositoryImpl) ListAssigned(ctx context.Context, since *time.Time) ([]job.Job, error) {
	query := `SELECT ` + jobColumns + `
		FROM jobs j
		LEFT JOIN clients c ON c.id = j.client_id
		WHERE j.assigned_to IS NOT NULL AND ($1::timestamptz IS NULL OR j.created_at >= $1)
		ORDER BY j.created_at ASC`

	jobs, err := r.collect(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned jobs: %w", err)
	}
	return jobs, nil
}

// UpdateStatus implements job.Repository.
func (r *jobRepositoryImpl) UpdateStatus(ctx context.Context, j job.Job) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE jobs
		SET status = $1, started_at = $2, completed_at = $3, updated_at = $4
		WHERE id = $5
	`
	tag, err := q.Exec(ctx, query, string(j.Status), j.StartedAt, j.CompletedAt, j.UpdatedAt, j.ID)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return job.ErrJobNotFound
	}
	return nil
}
