package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// State is the per-staff, per-calendar-day attendance state.
type State string

const (
	StateNotCheckedIn State = "NOT_CHECKED_IN"
	StateCheckedIn    State = "CHECKED_IN"
	StateCheckedOut   State = "CHECKED_OUT"
)

// GeoFix is a position reported by the device's geolocation provider.
type GeoFix struct {
	Latitude  float64
	Longitude float64
	Accuracy  *float64
}

// Location is a resolved check-in or check-out position.
type Location struct {
	Latitude     float64
	Longitude    float64
	ShortAddress string
	FullAddress  *string
	BuildingHint *string
	Type         LocationType
}

// Record is the single attendance row for one staff member on one calendar day.
// TotalHours is set iff CheckOutTime is set.
type Record struct {
	ID               string
	StaffID          string
	Date             time.Time
	CheckInTime      *time.Time
	CheckInLocation  *Location
	CheckOutTime     *time.Time
	CheckOutLocation *Location
	TotalHours       decimal.NullDecimal
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO / Join
	StaffName *string
}

// State derives the lifecycle state from the record. A nil record has not checked in.
func (r *Record) State() State {
	switch {
	case r == nil || r.CheckInTime == nil:
		return StateNotCheckedIn
	case r.CheckOutTime == nil:
		return StateCheckedIn
	default:
		return StateCheckedOut
	}
}

// IsOpen reports whether the staff member is still clocked in.
func (r *Record) IsOpen() bool {
	return r.State() == StateCheckedIn
}

// CalendarDate truncates t to midnight of its calendar day in loc.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
