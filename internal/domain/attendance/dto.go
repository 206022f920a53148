package attendance

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/trakby/trakby-backend-go/internal/pkg/validator"
)

// ========================================
// CHECK-IN / CHECK-OUT
// ========================================

// PositionPayload carries the device's geolocation fix. Missing coordinates mean
// the geolocation provider was denied or timed out.
type PositionPayload struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

// Fix returns nil when no fix was supplied.
func (p PositionPayload) Fix() *GeoFix {
	if p.Latitude == nil || p.Longitude == nil {
		return nil
	}
	return &GeoFix{Latitude: *p.Latitude, Longitude: *p.Longitude, Accuracy: p.Accuracy}
}

func (p PositionPayload) validate(errs validator.ValidationErrors) validator.ValidationErrors {
	if p.Latitude != nil && !validator.IsValidLatitude(*p.Latitude) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	if p.Longitude != nil && !validator.IsValidLongitude(*p.Longitude) {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}
	if p.Accuracy != nil && *p.Accuracy < 0 {
		errs = append(errs, validator.ValidationError{Field: "accuracy", Message: "accuracy must not be negative"})
	}
	return errs
}

type CheckInRequest struct {
	StaffID string `json:"-"`
	PositionPayload
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "staff_id is required"})
	}
	errs = r.PositionPayload.validate(errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	StaffID string `json:"-"`
	PositionPayload
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "staff_id is required"})
	}
	errs = r.PositionPayload.validate(errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// RESPONSES
// ========================================

type LocationResponse struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	ShortAddress string  `json:"short_address"`
	FullAddress  *string `json:"full_address,omitempty"`
	BuildingHint *string `json:"building_hint,omitempty"`
	Type         string  `json:"location_type"`
}

type AttendanceResponse struct {
	ID               string            `json:"id"`
	StaffID          string            `json:"staff_id"`
	StaffName        *string           `json:"staff_name,omitempty"`
	Date             string            `json:"date"`
	CheckInTime      *time.Time        `json:"check_in_time,omitempty"`
	CheckInLocation  *LocationResponse `json:"check_in_location,omitempty"`
	CheckOutTime     *time.Time        `json:"check_out_time,omitempty"`
	CheckOutLocation *LocationResponse `json:"check_out_location,omitempty"`
	TotalHours       *decimal.Decimal  `json:"total_hours,omitempty"`
	State            State             `json:"state"`
}

type TodayResponse struct {
	State          State               `json:"state"`
	WorkingHours   string              `json:"working_hours"`
	WorkingMinutes int                 `json:"working_minutes"`
	Record         *AttendanceResponse `json:"record,omitempty"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

func toLocationResponse(l *Location) *LocationResponse {
	if l == nil {
		return nil
	}
	return &LocationResponse{
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		ShortAddress: l.ShortAddress,
		FullAddress:  l.FullAddress,
		BuildingHint: l.BuildingHint,
		Type:         string(l.Type),
	}
}

// ToResponse maps a Record to its API shape.
func ToResponse(r Record) AttendanceResponse {
	var total *decimal.Decimal
	if r.TotalHours.Valid {
		v := r.TotalHours.Decimal
		total = &v
	}
	return AttendanceResponse{
		ID:               r.ID,
		StaffID:          r.StaffID,
		StaffName:        r.StaffName,
		Date:             r.Date.Format("2006-01-02"),
		CheckInTime:      r.CheckInTime,
		CheckInLocation:  toLocationResponse(r.CheckInLocation),
		CheckOutTime:     r.CheckOutTime,
		CheckOutLocation: toLocationResponse(r.CheckOutLocation),
		TotalHours:       total,
		State:            r.State(),
	}
}

// ========================================
// FILTERS
// ========================================

type MyAttendanceFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors
	errs = validatePaging(&f.Page, &f.Limit, errs)
	errs = validateDateRange(f.StartDate, f.EndDate, errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceFilter struct {
	StaffID      *string `json:"staff_id,omitempty"`
	Date         *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	LocationType *string `json:"location_type,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors
	errs = validatePaging(&f.Page, &f.Limit, errs)

	if f.Date != nil && *f.Date != "" {
		if _, ok := validator.IsValidDate(*f.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
		}
	}
	errs = validateDateRange(f.StartDate, f.EndDate, errs)

	if f.LocationType != nil && *f.LocationType != "" && !LocationType(*f.LocationType).Valid() {
		errs = append(errs, validator.ValidationError{Field: "location_type", Message: "location_type must be one of office, field, remote"})
	}

	if f.SortOrder != "" && !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "sort_order must be asc or desc"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePaging(page, limit *int, errs validator.ValidationErrors) validator.ValidationErrors {
	if *page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if *page == 0 {
		*page = 1
	}
	if *limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if *limit == 0 {
		*limit = 20
	}
	if *limit > 100 {
		*limit = 100
	}
	return errs
}

func validateDateRange(start, end *string, errs validator.ValidationErrors) validator.ValidationErrors {
	var startDate, endDate time.Time
	var okStart, okEnd bool

	if start != nil && *start != "" {
		if startDate, okStart = validator.IsValidDate(*start); !okStart {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
		}
	}
	if end != nil && *end != "" {
		if endDate, okEnd = validator.IsValidDate(*end); !okEnd {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		}
	}
	if okStart && okEnd && endDate.Before(startDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	}
	return errs
}
