package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trakby/trakby-backend-go/internal/domain/attendance"
	"github.com/trakby/trakby-backend-go/internal/domain/notification"
	"github.com/trakby/trakby-backend-go/internal/domain/staff"
	"github.com/trakby/trakby-backend-go/internal/pkg/geocode"
)

// AdminNotifier receives the check-in and check-out intents.
type AdminNotifier interface {
	NotifyAdmins(ctx context.Context, intent notification.Intent) error
}

type AttendanceServiceImpl struct {
	repo      attendance.Repository
	staffRepo staff.Repository
	geocoder  geocode.ReverseGeocoder
	notifier  AdminNotifier

	// loc decides which calendar day a timestamp belongs to.
	loc *time.Location
	now func() time.Time
}

func NewAttendanceService(
	repo attendance.Repository,
	staffRepo staff.Repository,
	geocoder geocode.ReverseGeocoder,
	notifier AdminNotifier,
	loc *time.Location,
) *AttendanceServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		repo:      repo,
		staffRepo: staffRepo,
		geocoder:  geocoder,
		notifier:  notifier,
		loc:       loc,
		now:       time.Now,
	}
}

// CheckIn implements attendance.Service.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	fix := req.Fix()
	if fix == nil {
		return attendance.AttendanceResponse{}, attendance.ErrLocationUnavailable
	}

	member, err := s.activeMember(ctx, req.StaffID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	date := attendance.CalendarDate(now, s.loc)

	existing, err := s.repo.GetByStaffAndDate(ctx, req.StaffID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	location := s.resolveLocation(ctx, req.StaffID, *fix)

	record, err := s.repo.Create(ctx, attendance.Record{
		ID:              uuid.New().String(),
		StaffID:         req.StaffID,
		Date:            date,
		CheckInTime:     &now,
		CheckInLocation: &location,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	record.StaffName = &member.Name

	s.notify(ctx, member, notification.Intent{
		SenderID: &member.ID,
		Type:     notification.TypeAttendanceCheckIn,
		Title:    "Staff checked in",
		Message: fmt.Sprintf("%s checked in at %s (%s) at %s",
			member.Name, location.ShortAddress, location.Type, now.In(s.loc).Format("15:04")),
		Data: map[string]interface{}{
			"attendance_id": record.ID,
			"staff_id":      member.ID,
			"location_type": string(location.Type),
			"latitude":      location.Latitude,
			"longitude":     location.Longitude,
		},
	})

	return attendance.ToResponse(record), nil
}

// CheckOut implements attendance.Service.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	fix := req.Fix()
	if fix == nil {
		return attendance.AttendanceResponse{}, attendance.ErrLocationUnavailable
	}

	member, err := s.activeMember(ctx, req.StaffID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	date := attendance.CalendarDate(now, s.loc)

	record, err := s.repo.GetByStaffAndDate(ctx, req.StaffID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	switch record.State() {
	case attendance.StateNotCheckedIn:
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	case attendance.StateCheckedOut:
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	// check_out_time must never precede check_in_time
	if now.Before(*record.CheckInTime) {
		now = *record.CheckInTime
	}

	location := s.resolveLocation(ctx, req.StaffID, *fix)
	hours := attendance.TotalHours(*record.CheckInTime, now)

	record.CheckOutTime = &now
	record.CheckOutLocation = &location
	record.TotalHours = decimal.NullDecimal{Decimal: hours, Valid: true}
	record.UpdatedAt = now

	if err := s.repo.CloseSession(ctx, *record); err != nil {
		if errors.Is(err, attendance.ErrNotCheckedIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to close attendance: %w", err)
	}
	record.StaffName = &member.Name

	s.notify(ctx, member, notification.Intent{
		SenderID: &member.ID,
		Type:     notification.TypeAttendanceCheckOut,
		Title:    "Staff checked out",
		Message: fmt.Sprintf("%s checked out at %s (%s) after %s hours",
			member.Name, location.ShortAddress, location.Type, hours.StringFixed(2)),
		Data: map[string]interface{}{
			"attendance_id": record.ID,
			"staff_id":      member.ID,
			"location_type": string(location.Type),
			"total_hours":   hours.StringFixed(2),
		},
	})

	return attendance.ToResponse(*record), nil
}

// Today implements attendance.Service.
func (s *AttendanceServiceImpl) Today(ctx context.Context, staffID string) (attendance.TodayResponse, error) {
	now := s.now()
	record, err := s.repo.GetByStaffAndDate(ctx, staffID, attendance.CalendarDate(now, s.loc))
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}

	resp := attendance.TodayResponse{
		State:        record.State(),
		WorkingHours: attendance.FormatDuration(0),
	}
	if record == nil {
		return resp, nil
	}

	worked := attendance.WorkingHours(*record, now)
	r := attendance.ToResponse(*record)
	resp.Record = &r
	resp.WorkingHours = attendance.FormatDuration(worked)
	resp.WorkingMinutes = int(worked / time.Minute)
	return resp, nil
}

// GetMyAttendance implements attendance.Service.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, staffID string, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.repo.ListByStaff(ctx, staffID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get my attendance: %w", err)
	}
	return toListResponse(records, total, filter.Page, filter.Limit), nil
}

// ListAttendance implements attendance.Service.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	return toListResponse(records, total, filter.Page, filter.Limit), nil
}

func toListResponse(records []attendance.Record, total int64, page, limit int) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.ToResponse(r))
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	showing := fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}
}

func (s *AttendanceServiceImpl) activeMember(ctx context.Context, staffID string) (staff.Member, error) {
	member, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return staff.Member{}, err
	}
	if !member.IsActive() {
		return staff.Member{}, staff.ErrStaffInactive
	}
	return member, nil
}

// resolveLocation never fails. When reverse geocoding does, the raw
// coordinates become the short address and the location is remote.
func (s *AttendanceServiceImpl) resolveLocation(ctx context.Context, staffID string, fix attendance.GeoFix) attendance.Location {
	loc := attendance.Location{
		Latitude:  fix.Latitude,
		Longitude: fix.Longitude,
	}

	addr, err := s.geocoder.Reverse(ctx, fix.Latitude, fix.Longitude)
	if err != nil || addr.ShortAddress == "" {
		if err == nil {
			err = geocode.ErrNoAddress
		}
		slog.Warn("reverse geocoding failed, storing raw coordinates",
			"staff_id", staffID,
			"latitude", fix.Latitude,
			"longitude", fix.Longitude,
			"error", err)
		loc.ShortAddress = attendance.RawCoordinates(fix.Latitude, fix.Longitude)
		loc.Type = attendance.ClassifyLocation(loc.ShortAddress, false)
		return loc
	}

	loc.ShortAddress = addr.ShortAddress
	if addr.FullAddress != "" {
		loc.FullAddress = &addr.FullAddress
	}
	loc.BuildingHint = addr.BuildingHint
	loc.Type = attendance.ClassifyLocation(addr.ShortAddress, true)
	return loc
}

// notify is best effort. Failures are logged and never reach the caller.
func (s *AttendanceServiceImpl) notify(ctx context.Context, member staff.Member, intent notification.Intent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyAdmins(ctx, intent); err != nil {
		slog.Error("admin notification delivery failed",
			"staff_id", member.ID,
			"type", string(intent.Type),
			"error", err)
	}
}
