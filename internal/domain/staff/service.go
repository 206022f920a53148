package staff

import "context"

type Service interface {
	GetStaff(ctx context.Context, id string) (StaffResponse, error)
	ListStaff(ctx context.Context, filter StaffFilter) (ListStaffResponse, error)
}
