package dto

import "notify_hub/internal/model"

type CreateNotificationRequest struct {
	ReceiverID string         `json:"receiverId"`
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload"`
	AppID      *string        `json:"appId"`
	SenderID   *string        `json:"senderId"`
	Channel    string         `json:"channel"`
}

type CreateNotificationResponse struct {
	Success      bool               `json:"success"`
	Notification model.Notification `json:"notification"`
	Delivered    bool               `json:"delivered"`
}

type ListNotificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
	Total         int64                `json:"total"`
	UnreadCount   int64                `json:"unreadCount"`
	IsOnline      bool                 `json:"isOnline"`
}

type MarkReadResponse struct {
	Success      bool               `json:"success"`
	Notification model.Notification `json:"notification"`
}

type MarkAllReadResponse struct {
	Success       bool  `json:"success"`
	ModifiedCount int64 `json:"modifiedCount"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
