package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"notify_hub/internal/domain"
	"notify_hub/internal/model"
	"notify_hub/internal/repository"
)

func (s *Store) CreateNotification(_ context.Context, notification model.Notification) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	notification.CreatedAt = now
	notification.UpdatedAt = now
	if notification.Payload == nil {
		notification.Payload = map[string]any{}
	}
	if notification.Channel == "" {
		notification.Channel = model.DefaultChannel
	}
	s.records = append(s.records, notification)
	return notification, nil
}

func (s *Store) ListNotifications(_ context.Context, q repository.ListQuery) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.Notification
	skipped := 0
	for i := len(s.records) - 1; i >= 0; i-- {
		record := s.records[i]
		if !matches(record, q.ReceiverID, q.AppID, q.UnreadOnly, q.Type, q.Channel) {
			continue
		}
		if skipped < q.Skip {
			skipped++
			continue
		}
		result = append(result, record)
		if q.Limit > 0 && len(result) >= q.Limit {
			break
		}
	}
	return result, nil
}

func (s *Store) CountNotifications(_ context.Context, q repository.CountQuery) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, record := range s.records {
		if matches(record, q.ReceiverID, q.AppID, q.UnreadOnly, q.Type, q.Channel) {
			total++
		}
	}
	return total, nil
}

func (s *Store) MarkRead(_ context.Context, id string) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		if !s.records[i].Read {
			s.records[i].Read = true
			s.records[i].UpdatedAt = time.Now().UTC()
		}
		return s.records[i], nil
	}
	return model.Notification{}, domain.ErrNotificationNotFound
}

func (s *Store) MarkAllRead(_ context.Context, q repository.MarkAllReadQuery) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var modified int64
	now := time.Now().UTC()
	for i := range s.records {
		if !matches(s.records[i], q.ReceiverID, q.AppID, true, q.Type, q.Channel) {
			continue
		}
		s.records[i].Read = true
		s.records[i].UpdatedAt = now
		modified++
	}
	return modified, nil
}
