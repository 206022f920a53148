package job

import (
	"time"

	"github.com/trakby/trakby-backend-go/internal/pkg/validator"
)

type UpdateStatusRequest struct {
	JobID   string `json:"-"`
	ActorID string `json:"-"`
	IsAdmin bool   `json:"-"`
	Status  string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.JobID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "job id is required"})
	}
	if validator.IsEmpty(r.Status) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status is required"})
	} else if _, err := ParseStatus(r.Status); err != nil {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of pending, in_progress, completed, cancelled"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type JobResponse struct {
	ID           string     `json:"id"`
	ClientID     string     `json:"client_id"`
	ClientName   *string    `json:"client_name,omitempty"`
	AssignedTo   *string    `json:"assigned_to,omitempty"`
	Title        string     `json:"title"`
	JobTypeLabel string     `json:"job_type"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func ToResponse(j Job) JobResponse {
	return JobResponse{
		ID:           j.ID,
		ClientID:     j.ClientID,
		ClientName:   j.ClientName,
		AssignedTo:   j.AssignedTo,
		Title:        j.Title,
		JobTypeLabel: j.JobTypeLabel,
		Status:       string(j.Status),
		CreatedAt:    j.CreatedAt,
		StartedAt:    j.StartedAt,
		CompletedAt:  j.CompletedAt,
	}
}
