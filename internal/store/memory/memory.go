package memory

import (
	"sync"

	"go.uber.org/zap"

	"notify_hub/internal/model"
	"notify_hub/internal/repository"
)

// Store keeps notifications in insertion order, which is also createdAt
// order because createdAt is assigned at insert.
type Store struct {
	mu      sync.Mutex
	records []model.Notification
	log     *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{log: logger}
}

func matches(n model.Notification, receiverID string, appID *string, unreadOnly bool, notificationType, channel string) bool {
	if n.ReceiverID != receiverID {
		return false
	}
	if !sameAppID(n.AppID, appID) {
		return false
	}
	if unreadOnly && n.Read {
		return false
	}
	if notificationType != "" && n.Type != notificationType {
		return false
	}
	if channel != "" && n.Channel != channel {
		return false
	}
	return true
}

// sameAppID implements exact tenant matching: absent only matches absent.
func sameAppID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

var _ repository.NotificationRepository = (*Store)(nil)
