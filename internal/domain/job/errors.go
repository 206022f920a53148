package job

import "errors"

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrInvalidStatus     = errors.New("invalid job status")
	ErrInvalidTransition = errors.New("invalid job status transition")
	ErrNotAssignee       = errors.New("job is not assigned to you")
)
