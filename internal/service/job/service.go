package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trakby/trakby-backend-go/internal/domain/job"
	"github.com/trakby/trakby-backend-go/internal/domain/notification"
	"github.com/trakby/trakby-backend-go/internal/domain/performance"
)

// ScoreInvalidator drops cached leaderboards after job data changes.
type ScoreInvalidator interface {
	Invalidate(window performance.Window)
}

type AdminNotifier interface {
	NotifyAdmins(ctx context.Context, intent notification.Intent) error
}

type JobServiceImpl struct {
	repo        job.Repository
	invalidator ScoreInvalidator
	notifier    AdminNotifier
	now         func() time.Time
}

func NewJobService(repo job.Repository, invalidator ScoreInvalidator, notifier AdminNotifier) *JobServiceImpl {
	return &JobServiceImpl{
		repo:        repo,
		invalidator: invalidator,
		notifier:    notifier,
		now:         time.Now,
	}
}

// UpdateStatus implements job.Service. Only the assignee or an admin may move a job.
func (s *JobServiceImpl) UpdateStatus(ctx context.Context, req job.UpdateStatusRequest) (job.JobResponse, error) {
	if err := req.Validate(); err != nil {
		return job.JobResponse{}, err
	}
	to, err := job.ParseStatus(req.Status)
	if err != nil {
		return job.JobResponse{}, err
	}

	current, err := s.repo.GetByID(ctx, req.JobID)
	if err != nil {
		return job.JobResponse{}, err
	}
	if !req.IsAdmin && (current.AssignedTo == nil || *current.AssignedTo != req.ActorID) {
		return job.JobResponse{}, job.ErrNotAssignee
	}

	updated, err := job.Transition(current, to, s.now())
	if err != nil {
		return job.JobResponse{}, fmt.Errorf("%w: %s to %s", err, current.Status, to)
	}

	if err := s.repo.UpdateStatus(ctx, updated); err != nil {
		return job.JobResponse{}, fmt.Errorf("failed to update job status: %w", err)
	}

	if s.invalidator != nil {
		for _, w := range performance.Windows {
			s.invalidator.Invalidate(w)
		}
	}

	if updated.IsCompleted() && s.notifier != nil {
		err := s.notifier.NotifyAdmins(ctx, notification.Intent{
			SenderID: &req.ActorID,
			Type:     notification.TypeJobStatusChanged,
			Title:    "Job completed",
			Message:  fmt.Sprintf("%q was marked completed", updated.Title),
			Data: map[string]interface{}{
				"job_id": updated.ID,
				"status": string(updated.Status),
			},
		})
		if err != nil {
			slog.Error("admin notification delivery failed", "job_id", updated.ID, "error", err)
		}
	}

	return job.ToResponse(updated), nil
}

// ListMyJobs implements job.Service.
func (s *JobServiceImpl) ListMyJobs(ctx context.Context, staffID string) ([]job.JobResponse, error) {
	jobs, err := s.repo.ListByAssignee(ctx, staffID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	out := make([]job.JobResponse, len(jobs))
	for i, j := range jobs {
		out[i] = job.ToResponse(j)
	}
	return out, nil
}
