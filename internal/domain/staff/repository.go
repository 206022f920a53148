package staff

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Member, error)
	List(ctx context.Context, filter StaffFilter) ([]Member, int64, error)

	// ListByRole returns active members with the given role.
	ListByRole(ctx context.Context, role Role) ([]Member, error)

	// ListActive returns every active member, ordered by name.
	ListActive(ctx context.Context) ([]Member, error)
}
