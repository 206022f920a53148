package staff

import (
	"context"
	"fmt"
	"math"

	"github.com/trakby/trakby-backend-go/internal/domain/staff"
)

type StaffServiceImpl struct {
	staff.Repository
}

func NewStaffService(repo staff.Repository) staff.Service {
	return &StaffServiceImpl{Repository: repo}
}

// GetStaff implements staff.Service.
func (s *StaffServiceImpl) GetStaff(ctx context.Context, id string) (staff.StaffResponse, error) {
	m, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return staff.StaffResponse{}, err
	}
	return staff.ToResponse(m), nil
}

// ListStaff implements staff.Service.
func (s *StaffServiceImpl) ListStaff(ctx context.Context, filter staff.StaffFilter) (staff.ListStaffResponse, error) {
	if err := filter.Validate(); err != nil {
		return staff.ListStaffResponse{}, err
	}

	members, total, err := s.Repository.List(ctx, filter)
	if err != nil {
		return staff.ListStaffResponse{}, fmt.Errorf("failed to list staff: %w", err)
	}

	out := make([]staff.StaffResponse, 0, len(members))
	for _, m := range members {
		out = append(out, staff.ToResponse(m))
	}

	return staff.ListStaffResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Staff:      out,
	}, nil
}
