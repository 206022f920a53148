package postgresql_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trakby/trakby-backend-go/internal/domain/notification"
	"github.com/trakby/trakby-backend-go/internal/repository/postgresql"
)

func TestNotificationRepository_BatchAndRead(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewNotificationRepository(setup.DB)
	admin := setup.createStaff(t, "Dana", "admin", "active")
	sender := setup.createStaff(t, "Alice", "staff", "active")

	batch := make([]*notification.Notification, 0, 620)
	for i := 0; i < 620; i++ {
		batch = append(batch, &notification.Notification{
			RecipientID: admin,
			SenderID:    &sender,
			Type:        notification.TypeAttendanceCheckIn,
			Title:       "Check-in",
			Message:     fmt.Sprintf("Alice checked in #%d", i),
			Data:        map[string]interface{}{"seq": i},
		})
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))

	count, err := repo.GetUnreadCount(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 620, count)

	page, total, err := repo.GetByRecipient(ctx, admin, 1, 20, true)
	require.NoError(t, err)
	assert.Equal(t, 620, total)
	require.Len(t, page, 20)
	assert.Equal(t, notification.TypeAttendanceCheckIn, page[0].Type)
	assert.Contains(t, page[0].Data, "seq")

	require.NoError(t, repo.MarkAsRead(ctx, []string{page[0].ID, page[1].ID}, admin))
	count, err = repo.GetUnreadCount(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 618, count)

	require.NoError(t, repo.MarkAllAsRead(ctx, admin))
	count, err = repo.GetUnreadCount(ctx, admin)
	require.NoError(t, err)
	assert.Zero(t, count)
}
