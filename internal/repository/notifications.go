package repository

import (
	"context"

	"notify_hub/internal/model"
)

// ListQuery scopes a page of notifications. AppID matches exactly: a nil
// AppID only matches records stored without one. A Limit of zero or less
// means no limit.
type ListQuery struct {
	ReceiverID string
	AppID      *string
	UnreadOnly bool
	Type       string
	Channel    string
	Limit      int
	Skip       int
}

// CountQuery scopes a count. Zero-value filters are ignored.
type CountQuery struct {
	ReceiverID string
	AppID      *string
	UnreadOnly bool
	Type       string
	Channel    string
}

// MarkAllReadQuery scopes a bulk mark-read to unread records of one
// receiver within one tenant.
type MarkAllReadQuery struct {
	ReceiverID string
	AppID      *string
	Type       string
	Channel    string
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification model.Notification) (model.Notification, error)
	// ListNotifications returns matching records newest first.
	ListNotifications(ctx context.Context, q ListQuery) ([]model.Notification, error)
	CountNotifications(ctx context.Context, q CountQuery) (int64, error)
	// MarkRead flips a single notification to read. Idempotent; returns
	// domain.ErrNotificationNotFound for an unknown id.
	MarkRead(ctx context.Context, id string) (model.Notification, error)
	// MarkAllRead flips every unread match and returns how many flipped.
	MarkAllRead(ctx context.Context, q MarkAllReadQuery) (int64, error)
}
