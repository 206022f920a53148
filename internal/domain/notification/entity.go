package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeAttendanceCheckIn  NotificationType = "attendance_check_in"
	TypeAttendanceCheckOut NotificationType = "attendance_check_out"
	TypeJobStatusChanged   NotificationType = "job_status_changed"
)

// Intent is what a producer wants delivered to every admin. Delivery is the
// notification service's business.
type Intent struct {
	SenderID *string
	Type     NotificationType
	Title    string
	Message  string
	Data     map[string]interface{}
}

// Notification represents a stored notification for one recipient
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
