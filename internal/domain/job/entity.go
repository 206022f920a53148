package job

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus normalises a status string ("In_Progress", "COMPLETED").
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusCancelled:
		return StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}

type Job struct {
	ID           string
	ClientID     string
	AssignedTo   *string
	Status       Status
	JobTypeLabel string
	Title        string
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	UpdatedAt    time.Time

	// DTO / Join
	ClientName *string
}

func (j Job) IsCompleted() bool {
	return j.Status == StatusCompleted
}

// WasStarted reports whether the job ever reached in_progress.
func (j Job) WasStarted() bool {
	return j.StartedAt != nil
}

// Duration is only defined when the job has both a start and a completion time.
func (j Job) Duration() (time.Duration, bool) {
	if j.StartedAt == nil || j.CompletedAt == nil {
		return 0, false
	}
	return j.CompletedAt.Sub(*j.StartedAt), true
}

// Transition moves j to status `to`, stamping started_at/completed_at so that
// completed_at implies started_at implies status in {in_progress, completed}.
func Transition(j Job, to Status, now time.Time) (Job, error) {
	if j.Status == to {
		return j, ErrInvalidTransition
	}

	switch j.Status {
	case StatusCompleted, StatusCancelled:
		return j, ErrInvalidTransition
	}

	switch to {
	case StatusInProgress:
		if j.Status != StatusPending {
			return j, ErrInvalidTransition
		}
		j.StartedAt = &now
	case StatusCompleted:
		if j.StartedAt == nil {
			j.StartedAt = &now
		}
		j.CompletedAt = &now
	case StatusCancelled:
		j.StartedAt = nil
		j.CompletedAt = nil
	case StatusPending:
		return j, ErrInvalidTransition
	default:
		return j, ErrInvalidStatus
	}

	j.Status = to
	j.UpdatedAt = now
	return j, nil
}
