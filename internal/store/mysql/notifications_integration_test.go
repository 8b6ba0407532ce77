//go:build integration

package mysql

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"notify_hub/internal/domain"
	"notify_hub/internal/model"
	"notify_hub/internal/repository"
)

func strPtr(v string) *string {
	return &v
}

func TestMySQLStoreIntegration(t *testing.T) {
	ctx := context.Background()
	dsn, cleanup := setupMySQLContainer(t, ctx)
	defer cleanup()

	db, err := sqlx.Connect("mysql", dsn)
	require.NoError(t, err)
	defer db.Close()

	store := New(db, zap.NewNop())
	appID := strPtr("app1")

	created, err := store.CreateNotification(ctx, model.Notification{
		ReceiverID: "u1",
		Type:       "order",
		Payload:    map[string]any{"orderId": float64(7)},
		AppID:      appID,
		SenderID:   strPtr("shop-1"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.Read)
	require.Equal(t, model.DefaultChannel, created.Channel)

	second, err := store.CreateNotification(ctx, model.Notification{
		ReceiverID: "u1",
		Type:       "chat",
		AppID:      appID,
		Channel:    "email",
	})
	require.NoError(t, err)

	// Different tenant and no tenant stay invisible to app1 queries.
	_, err = store.CreateNotification(ctx, model.Notification{ReceiverID: "u1", Type: "order", AppID: strPtr("app2")})
	require.NoError(t, err)
	_, err = store.CreateNotification(ctx, model.Notification{ReceiverID: "u1", Type: "order"})
	require.NoError(t, err)

	listed, err := store.ListNotifications(ctx, repository.ListQuery{ReceiverID: "u1", AppID: appID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, second.ID, listed[0].ID)
	require.Equal(t, created.ID, listed[1].ID)
	require.Equal(t, float64(7), listed[1].Payload["orderId"])

	// A zero limit means no limit.
	unlimited, err := store.ListNotifications(ctx, repository.ListQuery{ReceiverID: "u1", AppID: appID})
	require.NoError(t, err)
	require.Len(t, unlimited, 2)

	skipped, err := store.ListNotifications(ctx, repository.ListQuery{ReceiverID: "u1", AppID: appID, Skip: 1})
	require.NoError(t, err)
	require.Len(t, skipped, 1)
	require.Equal(t, created.ID, skipped[0].ID)

	nullScoped, err := store.ListNotifications(ctx, repository.ListQuery{ReceiverID: "u1", AppID: nil, Limit: 10})
	require.NoError(t, err)
	require.Len(t, nullScoped, 1)
	require.Nil(t, nullScoped[0].AppID)

	total, err := store.CountNotifications(ctx, repository.CountQuery{ReceiverID: "u1", AppID: appID})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)

	marked, err := store.MarkRead(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, marked.Read)

	again, err := store.MarkRead(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, again.Read)
	require.Equal(t, marked.UpdatedAt, again.UpdatedAt)

	_, err = store.MarkRead(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotificationNotFound)

	unread, err := store.CountNotifications(ctx, repository.CountQuery{ReceiverID: "u1", AppID: appID, UnreadOnly: true})
	require.NoError(t, err)
	require.EqualValues(t, 1, unread)

	modified, err := store.MarkAllRead(ctx, repository.MarkAllReadQuery{ReceiverID: "u1", AppID: appID})
	require.NoError(t, err)
	require.EqualValues(t, 1, modified)

	modified, err = store.MarkAllRead(ctx, repository.MarkAllReadQuery{ReceiverID: "u1", AppID: appID})
	require.NoError(t, err)
	require.EqualValues(t, 0, modified)
}
