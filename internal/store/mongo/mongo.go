package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"notify_hub/internal/model"
	"notify_hub/internal/repository"
)

const collectionName = "notifications"

type Store struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// New wraps the notifications collection and ensures the lookup indexes
// that keep list and count operations bounded.
func New(ctx context.Context, db *mongo.Database, logger *zap.Logger) (*Store, error) {
	s := &Store{coll: db.Collection(collectionName), log: logger}

	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "receiverId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "receiverId", Value: 1}, {Key: "read", Value: 1}}},
		{Keys: bson.D{{Key: "appId", Value: 1}, {Key: "receiverId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		logger.Error("mongo create indexes failed", zap.Error(err))
		return nil, err
	}
	return s, nil
}

type notificationDoc struct {
	ID         string         `bson:"_id"`
	ReceiverID string         `bson:"receiverId"`
	Type       string         `bson:"type"`
	Payload    map[string]any `bson:"payload"`
	Read       bool           `bson:"read"`
	AppID      *string        `bson:"appId"`
	SenderID   *string        `bson:"senderId"`
	Channel    string         `bson:"channel"`
	CreatedAt  time.Time      `bson:"createdAt"`
	UpdatedAt  time.Time      `bson:"updatedAt"`
}

func (d notificationDoc) toModel() model.Notification {
	payload := d.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	return model.Notification{
		ID:         d.ID,
		ReceiverID: d.ReceiverID,
		Type:       d.Type,
		Payload:    payload,
		Read:       d.Read,
		AppID:      d.AppID,
		SenderID:   d.SenderID,
		Channel:    d.Channel,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// scopeFilter builds the receiver/tenant filter. A nil appID only matches
// documents stored with a null appId.
func scopeFilter(receiverID string, appID *string, unreadOnly bool, notificationType, channel string) bson.M {
	filter := bson.M{
		"receiverId": receiverID,
		"appId":      appID,
	}
	if unreadOnly {
		filter["read"] = false
	}
	if notificationType != "" {
		filter["type"] = notificationType
	}
	if channel != "" {
		filter["channel"] = channel
	}
	return filter
}

var _ repository.NotificationRepository = (*Store)(nil)
