package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trakby/trakby-backend-go/internal/domain/job"
	"github.com/trakby/trakby-backend-go/internal/repository/postgresql"
	"github.com/trakby/trakby-backend-go/migrations"
)

func (t *TestDatabaseSetup) createJob(tb testing.TB, assignee string) string {
	tb.Helper()
	ctx := context.Background()
	clientID := uuid.New().String()
	_, err := t.DB.Exec(ctx, `INSERT INTO clients (id, name) VALUES ($1, $2)`, clientID, "PT Maju")
	require.NoError(tb, err)

	id := uuid.New().String()
	_, err = t.DB.Exec(ctx,
		`INSERT INTO jobs (id, client_id, assigned_to, title, job_type_label) VALUES ($1, $2, $3, $4, $5)`,
		id, clientID, assignee, "AC service", "Maintenance",
	)
	require.NoError(tb, err)
	return id
}

func TestJobRepository_CancelAfterStartPersists(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewJobRepository(setup.DB)
	staffID := setup.createStaff(t, "Budi", "staff", "active")
	jobID := setup.createJob(t, staffID)

	j, err := repo.GetByID(ctx, jobID)
	require.NoError(t, err)

	now := time.Now().UTC()
	j, err = job.Transition(j, job.StatusInProgress, now)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, j))

	j, err = job.Transition(j, job.StatusCancelled, now.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, j))

	got, err := repo.GetByID(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusCancelled, got.Status)
	assert.Nil(t, got.StartedAt)
	assert.Nil(t, got.CompletedAt)
}

func TestJobsTable_RejectsStartedTimestampOnInactiveJob(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	staffID := setup.createStaff(t, "Budi", "staff", "active")
	jobID := setup.createJob(t, staffID)

	for _, status := range []string{"pending", "cancelled"} {
		_, err := setup.DB.Exec(ctx,
			`UPDATE jobs SET status = $1, started_at = now() WHERE id = $2`, status, jobID)

		var pgErr *pgconn.PgError
		require.True(t, errors.As(err, &pgErr), "status %s", status)
		assert.Equal(t, "23514", pgErr.Code)
		assert.Equal(t, "jobs_started_requires_active", pgErr.ConstraintName)
	}
}

func TestMigrations_ApplyIsRepeatable(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, migrations.Apply(ctx, setup.DB.Pool))

	version, err := migrations.Version(ctx, setup.DB.Pool)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}
