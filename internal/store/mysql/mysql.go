package mysql

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"notify_hub/internal/model"
	"notify_hub/internal/repository"
)

type Store struct {
	db  *sqlx.DB
	log *zap.Logger
}

func New(db *sqlx.DB, logger *zap.Logger) *Store {
	return &Store{db: db, log: logger}
}

type notificationRow struct {
	ID         string         `db:"id"`
	ReceiverID string         `db:"receiver_id"`
	Type       string         `db:"type"`
	Payload    []byte         `db:"payload"`
	Read       bool           `db:"is_read"`
	AppID      sql.NullString `db:"app_id"`
	SenderID   sql.NullString `db:"sender_id"`
	Channel    string         `db:"channel"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r notificationRow) toModel() (model.Notification, error) {
	payload := map[string]any{}
	if len(r.Payload) > 0 {
		if err := json.Unmarshal(r.Payload, &payload); err != nil {
			return model.Notification{}, err
		}
	}
	n := model.Notification{
		ID:         r.ID,
		ReceiverID: r.ReceiverID,
		Type:       r.Type,
		Payload:    payload,
		Read:       r.Read,
		Channel:    r.Channel,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.AppID.Valid {
		appID := r.AppID.String
		n.AppID = &appID
	}
	if r.SenderID.Valid {
		senderID := r.SenderID.String
		n.SenderID = &senderID
	}
	return n, nil
}

func nullable(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

var _ repository.NotificationRepository = (*Store)(nil)
