package tracking

import (
	"time"

	"github.com/trakby/trakby-backend-go/internal/pkg/validator"
)

type RecordPositionRequest struct {
	StaffID   string   `json:"-"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

func (r *RecordPositionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "staff_id is required"})
	}
	if r.Latitude == nil {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude is required"})
	} else if !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	if r.Longitude == nil {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude is required"})
	} else if !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}
	if r.Accuracy != nil && *r.Accuracy < 0 {
		errs = append(errs, validator.ValidationError{Field: "accuracy", Message: "accuracy must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HistoryFilter struct {
	StaffID string  `json:"-"`
	Since   *string `json:"since,omitempty"` // RFC3339
	Limit   int     `json:"limit"`
}

// Validate fills the default limit and returns the parsed since bound.
func (f *HistoryFilter) Validate() (*time.Time, error) {
	var errs validator.ValidationErrors
	var since *time.Time

	if validator.IsEmpty(f.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "staff_id is required"})
	}
	if f.Since != nil && *f.Since != "" {
		t, ok := validator.IsValidDateTime(*f.Since)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "since", Message: "since must be an RFC3339 timestamp"})
		} else {
			since = &t
		}
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if f.Limit == 0 {
		f.Limit = 500
	}
	if f.Limit > 5000 {
		f.Limit = 5000
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return since, nil
}

type PingResponse struct {
	ID             string    `json:"id"`
	StaffID        string    `json:"staff_id"`
	StaffName      *string   `json:"staff_name,omitempty"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Accuracy       *float64  `json:"accuracy,omitempty"`
	Address        *string   `json:"address,omitempty"`
	DistanceMeters float64   `json:"distance_meters"`
	RecordedAt     time.Time `json:"recorded_at"`
}

type HistoryResponse struct {
	StaffID             string         `json:"staff_id"`
	TotalDistanceMeters float64        `json:"total_distance_meters"`
	Pings               []PingResponse `json:"pings"`
}

func ToResponse(p Ping) PingResponse {
	return PingResponse{
		ID:             p.ID,
		StaffID:        p.StaffID,
		StaffName:      p.StaffName,
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		Accuracy:       p.Accuracy,
		Address:        p.Address,
		DistanceMeters: p.DistanceMeters,
		RecordedAt:     p.RecordedAt,
	}
}
