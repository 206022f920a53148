package postgresql_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trakby/trakby-backend-go/internal/domain/staff"
	"github.com/trakby/trakby-backend-go/internal/repository/postgresql"
)

func TestStaffRepository_ListByRoleNormalisesStoredValues(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewStaffRepository(setup.DB)

	setup.createStaff(t, "Alice", " Staff ", "active")
	setup.createStaff(t, "Bob", "STAFF", "Active")
	setup.createStaff(t, "Carol", "staff", "suspended")
	setup.createStaff(t, "Dana", "Admin", "active")

	members, err := repo.ListByRole(ctx, staff.RoleStaff)
	require.NoError(t, err)
	require.Len(t, members, 2)
	for _, m := range members {
		assert.Equal(t, staff.RoleStaff, m.Role)
		assert.Equal(t, staff.StatusActive, m.Status)
	}

	admins, err := repo.ListByRole(ctx, staff.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "Dana", admins[0].Name)
}

func TestStaffRepository_GetByIDNotFound(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewStaffRepository(setup.DB)

	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)
}
