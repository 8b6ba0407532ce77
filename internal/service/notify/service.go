package notify

import (
	"context"

	"go.uber.org/zap"

	"notify_hub/internal/domain"
	"notify_hub/internal/model"
	"notify_hub/internal/repository"
	"notify_hub/internal/telemetry"
	"notify_hub/internal/ws"
)

// CreateRequest carries the caller-supplied fields of a new notification.
type CreateRequest struct {
	ReceiverID string
	Type       string
	Payload    map[string]any
	AppID      *string
	SenderID   *string
	Channel    string
}

// Overview bundles a page of notifications with the receiver's counters
// and live-presence flag.
type Overview struct {
	Notifications []model.Notification
	Total         int64
	UnreadCount   int64
	IsOnline      bool
}

// Service coordinates durable persistence with best-effort live delivery.
// Persistence always precedes the push attempt, so a false delivered flag
// never means data loss.
type Service struct {
	store repository.NotificationRepository
	hub   *ws.Hub
	log   *zap.Logger
}

func NewService(store repository.NotificationRepository, hub *ws.Hub, logger *zap.Logger) *Service {
	return &Service{store: store, hub: hub, log: logger}
}

// CreateAndDeliver persists the notification, then pushes its projection to
// every live session of the receiver. The returned flag reports whether the
// receiver was online at push time.
func (s *Service) CreateAndDeliver(ctx context.Context, req CreateRequest) (model.Notification, bool, error) {
	if err := domain.ValidateCreate(req.ReceiverID, req.Type); err != nil {
		return model.Notification{}, false, err
	}

	created, err := s.store.CreateNotification(ctx, model.Notification{
		ReceiverID: req.ReceiverID,
		Type:       req.Type,
		Payload:    req.Payload,
		AppID:      req.AppID,
		SenderID:   req.SenderID,
		Channel:    req.Channel,
	})
	if err != nil {
		s.log.Error("store create notification failed",
			zap.String("receiver_id", req.ReceiverID),
			zap.String("type", req.Type),
			zap.Error(err),
		)
		return model.Notification{}, false, err
	}
	telemetry.NotificationsCreated.WithLabelValues(created.Type).Inc()

	delivered := false
	if s.hub != nil {
		delivered = s.hub.Push(created.ReceiverID, model.EventOf(created))
	}
	return created, delivered, nil
}

// Overview lists a page of the receiver's notifications together with the
// total, unread count and online flag. AppID is mandatory: there is no
// cross-tenant listing.
func (s *Service) Overview(ctx context.Context, q repository.ListQuery) (Overview, error) {
	if q.AppID == nil {
		return Overview{}, domain.ErrAppIDRequired
	}

	notifications, err := s.store.ListNotifications(ctx, q)
	if err != nil {
		s.log.Error("store list notifications failed", zap.String("receiver_id", q.ReceiverID), zap.Error(err))
		return Overview{}, err
	}

	// Total always counts the whole receiver/tenant scope, even when the
	// page itself was filtered to unread.
	countQuery := repository.CountQuery{
		ReceiverID: q.ReceiverID,
		AppID:      q.AppID,
		Type:       q.Type,
		Channel:    q.Channel,
	}
	total, err := s.store.CountNotifications(ctx, countQuery)
	if err != nil {
		s.log.Error("store count notifications failed", zap.String("receiver_id", q.ReceiverID), zap.Error(err))
		return Overview{}, err
	}

	countQuery.UnreadOnly = true
	unread, err := s.store.CountNotifications(ctx, countQuery)
	if err != nil {
		s.log.Error("store count unread failed", zap.String("receiver_id", q.ReceiverID), zap.Error(err))
		return Overview{}, err
	}

	online := false
	if s.hub != nil {
		online = s.hub.IsOnline(q.ReceiverID)
	}
	return Overview{
		Notifications: notifications,
		Total:         total,
		UnreadCount:   unread,
		IsOnline:      online,
	}, nil
}

// MarkRead flips one notification to read. Idempotent.
func (s *Service) MarkRead(ctx context.Context, id string) (model.Notification, error) {
	return s.store.MarkRead(ctx, id)
}

// MarkAllRead flips every unread notification in the receiver/tenant scope
// and returns how many actually flipped.
func (s *Service) MarkAllRead(ctx context.Context, q repository.MarkAllReadQuery) (int64, error) {
	if q.AppID == nil {
		return 0, domain.ErrAppIDRequired
	}
	modified, err := s.store.MarkAllRead(ctx, q)
	if err != nil {
		s.log.Error("store mark all read failed", zap.String("receiver_id", q.ReceiverID), zap.Error(err))
		return 0, err
	}
	return modified, nil
}
