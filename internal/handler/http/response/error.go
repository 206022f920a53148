package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/trakby/trakby-backend-go/internal/domain/attendance"
	"github.com/trakby/trakby-backend-go/internal/domain/job"
	"github.com/trakby/trakby-backend-go/internal/domain/notification"
	"github.com/trakby/trakby-backend-go/internal/domain/performance"
	"github.com/trakby/trakby-backend-go/internal/domain/staff"
	"github.com/trakby/trakby-backend-go/internal/domain/tracking"
	"github.com/trakby/trakby-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrLocationUnavailable):
		UnprocessableEntity(w, "LOCATION_UNAVAILABLE", err.Error())
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "you have already checked out today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Staff domain errors
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff member not found")
	case errors.Is(err, staff.ErrStaffInactive):
		Forbidden(w, "Staff member is not active")

	// Job domain errors
	case errors.Is(err, job.ErrJobNotFound):
		NotFound(w, "Job not found")
	case errors.Is(err, job.ErrNotAssignee):
		Forbidden(w, err.Error())
	case errors.Is(err, job.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, job.ErrInvalidStatus):
		BadRequest(w, err.Error(), nil)

	// Performance domain errors
	case errors.Is(err, performance.ErrInvalidWindow):
		BadRequest(w, err.Error(), map[string]string{"window": err.Error()})

	// Tracking domain errors
	case errors.Is(err, tracking.ErrNoPosition):
		NotFound(w, "No position recorded")

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
