package notification

import "errors"

// Notification domain errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNoRecipients         = errors.New("no active admins to notify")
	ErrQueueFull            = errors.New("notification queue is full")
)
