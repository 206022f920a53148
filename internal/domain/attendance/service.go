package attendance

import (
	"context"
)

type Service interface {
	// CheckIn opens today's record for the staff member.
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes today's record for the staff member.
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// Today reports the current state and live working hours.
	Today(ctx context.Context, staffID string) (TodayResponse, error)

	GetMyAttendance(ctx context.Context, staffID string, filter MyAttendanceFilter) (ListAttendanceResponse, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
}
