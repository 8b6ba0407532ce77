package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"notify_hub/internal/domain"
	"notify_hub/internal/model"
	"notify_hub/internal/repository"
)

func (s *Store) CreateNotification(ctx context.Context, notification model.Notification) (model.Notification, error) {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	notification.CreatedAt = now
	notification.UpdatedAt = now
	if notification.Payload == nil {
		notification.Payload = map[string]any{}
	}
	if notification.Channel == "" {
		notification.Channel = model.DefaultChannel
	}

	payload, err := json.Marshal(notification.Payload)
	if err != nil {
		return model.Notification{}, err
	}

	const query = `INSERT INTO notifications
		(id, receiver_id, type, payload, is_read, app_id, sender_id, channel, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		notification.ID,
		notification.ReceiverID,
		notification.Type,
		payload,
		notification.Read,
		nullable(notification.AppID),
		nullable(notification.SenderID),
		notification.Channel,
		notification.CreatedAt,
		notification.UpdatedAt,
	)
	if err != nil {
		s.log.Error("sql create notification failed",
			zap.String("receiver_id", notification.ReceiverID),
			zap.String("type", notification.Type),
			zap.Error(err),
		)
		return model.Notification{}, err
	}
	return notification, nil
}

func appIDClause(appID *string, args *[]any) string {
	if appID == nil {
		return " AND app_id IS NULL"
	}
	*args = append(*args, *appID)
	return " AND app_id = ?"
}

func (s *Store) ListNotifications(ctx context.Context, q repository.ListQuery) ([]model.Notification, error) {
	query := `SELECT id, receiver_id, type, payload, is_read, app_id, sender_id, channel, created_at, updated_at
		FROM notifications WHERE receiver_id = ?`
	args := []any{q.ReceiverID}
	query += appIDClause(q.AppID, &args)
	if q.UnreadOnly {
		query += " AND is_read = FALSE"
	}
	if q.Type != "" {
		query += " AND type = ?"
		args = append(args, q.Type)
	}
	if q.Channel != "" {
		query += " AND channel = ?"
		args = append(args, q.Channel)
	}
	query += " ORDER BY created_at DESC"
	if q.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, q.Limit, q.Skip)
	} else if q.Skip > 0 {
		// MySQL has no OFFSET without LIMIT.
		query += " LIMIT 18446744073709551615 OFFSET ?"
		args = append(args, q.Skip)
	}

	var rows []notificationRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		s.log.Error("sql list notifications failed", zap.String("receiver_id", q.ReceiverID), zap.Error(err))
		return nil, err
	}

	result := make([]model.Notification, 0, len(rows))
	for _, row := range rows {
		n, err := row.toModel()
		if err != nil {
			s.log.Error("decode notification payload failed", zap.String("id", row.ID), zap.Error(err))
			return nil, err
		}
		result = append(result, n)
	}
	return result, nil
}

func (s *Store) CountNotifications(ctx context.Context, q repository.CountQuery) (int64, error) {
	query := "SELECT COUNT(*) FROM notifications WHERE receiver_id = ?"
	args := []any{q.ReceiverID}
	query += appIDClause(q.AppID, &args)
	if q.UnreadOnly {
		query += " AND is_read = FALSE"
	}
	if q.Type != "" {
		query += " AND type = ?"
		args = append(args, q.Type)
	}
	if q.Channel != "" {
		query += " AND channel = ?"
		args = append(args, q.Channel)
	}

	var total int64
	if err := s.db.GetContext(ctx, &total, query, args...); err != nil {
		s.log.Error("sql count notifications failed", zap.String("receiver_id", q.ReceiverID), zap.Error(err))
		return 0, err
	}
	return total, nil
}

func (s *Store) MarkRead(ctx context.Context, id string) (model.Notification, error) {
	const update = "UPDATE notifications SET is_read = TRUE, updated_at = ? WHERE id = ? AND is_read = FALSE"
	if _, err := s.db.ExecContext(ctx, update, time.Now().UTC().Truncate(time.Microsecond), id); err != nil {
		s.log.Error("sql mark read failed", zap.String("id", id), zap.Error(err))
		return model.Notification{}, err
	}

	const query = `SELECT id, receiver_id, type, payload, is_read, app_id, sender_id, channel, created_at, updated_at
		FROM notifications WHERE id = ?`
	var row notificationRow
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Notification{}, domain.ErrNotificationNotFound
		}
		s.log.Error("sql get notification failed", zap.String("id", id), zap.Error(err))
		return model.Notification{}, err
	}
	return row.toModel()
}

func (s *Store) MarkAllRead(ctx context.Context, q repository.MarkAllReadQuery) (int64, error) {
	query := "UPDATE notifications SET is_read = TRUE, updated_at = ? WHERE receiver_id = ? AND is_read = FALSE"
	args := []any{time.Now().UTC().Truncate(time.Microsecond), q.ReceiverID}
	query += appIDClause(q.AppID, &args)
	if q.Type != "" {
		query += " AND type = ?"
		args = append(args, q.Type)
	}
	if q.Channel != "" {
		query += " AND channel = ?"
		args = append(args, q.Channel)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.log.Error("sql mark all read failed", zap.String("receiver_id", q.ReceiverID), zap.Error(err))
		return 0, err
	}
	modified, err := result.RowsAffected()
	if err != nil {
		s.log.Error("sql rows affected failed", zap.Error(err))
		return 0, err
	}
	return modified, nil
}
