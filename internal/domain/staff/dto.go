package staff

import (
	"github.com/trakby/trakby-backend-go/internal/pkg/validator"
)

type StaffFilter struct {
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
	Search *string `json:"search,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *StaffFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	if f.Status != nil && *f.Status != "" {
		if _, err := ParseStatus(*f.Status); err != nil {
			errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of active, suspended, terminated"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StaffResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	Status   string  `json:"status"`
	DeviceID *string `json:"device_id,omitempty"`
}

type ListStaffResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Staff      []StaffResponse `json:"staff"`
}

func ToResponse(m Member) StaffResponse {
	return StaffResponse{
		ID:       m.ID,
		Name:     m.Name,
		Email:    m.Email,
		Role:     string(m.Role),
		Status:   string(m.Status),
		DeviceID: m.DeviceID,
	}
}
