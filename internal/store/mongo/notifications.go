package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"notify_hub/internal/domain"
	"notify_hub/internal/model"
	"notify_hub/internal/repository"
)

func (s *Store) CreateNotification(ctx context.Context, notification model.Notification) (model.Notification, error) {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	notification.CreatedAt = now
	notification.UpdatedAt = now
	if notification.Payload == nil {
		notification.Payload = map[string]any{}
	}
	if notification.Channel == "" {
		notification.Channel = model.DefaultChannel
	}

	doc := notificationDoc{
		ID:         notification.ID,
		ReceiverID: notification.ReceiverID,
		Type:       notification.Type,
		Payload:    notification.Payload,
		Read:       notification.Read,
		AppID:      notification.AppID,
		SenderID:   notification.SenderID,
		Channel:    notification.Channel,
		CreatedAt:  notification.CreatedAt,
		UpdatedAt:  notification.UpdatedAt,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		s.log.Error("mongo insert notification failed",
			zap.String("receiver_id", notification.ReceiverID),
			zap.String("type", notification.Type),
			zap.Error(err),
		)
		return model.Notification{}, err
	}
	return notification, nil
}

func (s *Store) ListNotifications(ctx context.Context, q repository.ListQuery) ([]model.Notification, error) {
	filter := scopeFilter(q.ReceiverID, q.AppID, q.UnreadOnly, q.Type, q.Channel)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(q.Skip))
	if q.Limit > 0 {
		opts = opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		s.log.Error("mongo list notifications failed", zap.String("receiver_id", q.ReceiverID), zap.Error(err))
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []notificationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		s.log.Error("mongo decode notifications failed", zap.String("receiver_id", q.ReceiverID), zap.Error(err))
		return nil, err
	}

	result := make([]model.Notification, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.toModel())
	}
	return result, nil
}

func (s *Store) CountNotifications(ctx context.Context, q repository.CountQuery) (int64, error) {
	filter := scopeFilter(q.ReceiverID, q.AppID, q.UnreadOnly, q.Type, q.Channel)
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		s.log.Error("mongo count notifications failed", zap.String("receiver_id", q.ReceiverID), zap.Error(err))
		return 0, err
	}
	return total, nil
}

func (s *Store) MarkRead(ctx context.Context, id string) (model.Notification, error) {
	update := bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now().UTC().Truncate(time.Millisecond)}}
	if _, err := s.coll.UpdateOne(ctx, bson.M{"_id": id, "read": false}, update); err != nil {
		s.log.Error("mongo mark read failed", zap.String("id", id), zap.Error(err))
		return model.Notification{}, err
	}

	var doc notificationDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Notification{}, domain.ErrNotificationNotFound
		}
		s.log.Error("mongo get notification failed", zap.String("id", id), zap.Error(err))
		return model.Notification{}, err
	}
	return doc.toModel(), nil
}

func (s *Store) MarkAllRead(ctx context.Context, q repository.MarkAllReadQuery) (int64, error) {
	filter := scopeFilter(q.ReceiverID, q.AppID, true, q.Type, q.Channel)
	update := bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now().UTC().Truncate(time.Millisecond)}}

	result, err := s.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		s.log.Error("mongo mark all read failed", zap.String("receiver_id", q.ReceiverID), zap.Error(err))
		return 0, err
	}
	return result.ModifiedCount, nil
}
