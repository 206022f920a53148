package attendance

import (
	"errors"
	"fmt"
)

var (
	ErrLocationUnavailable = errors.New("location is unavailable, enable location access and try again")
	ErrAlreadyCheckedIn    = errors.New("you have already checked in today")
	ErrNotCheckedIn        = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut   = fmt.Errorf("%w: you have already checked out today", ErrNotCheckedIn)

	ErrAttendanceNotFound = errors.New("attendance record not found")
)
