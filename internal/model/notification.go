package model

import "time"

// Notification is the persisted record. ReceiverID addresses the
// notification; AppID scopes it to a tenant and must match exactly
// (including absent) on every read path.
type Notification struct {
	ID         string         `json:"id"`
	ReceiverID string         `json:"receiverId"`
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload"`
	Read       bool           `json:"read"`
	AppID      *string        `json:"appId"`
	SenderID   *string        `json:"senderId"`
	Channel    string         `json:"channel"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// DefaultChannel is assigned when a create request carries no channel.
const DefaultChannel = "default"

// Event is the projection pushed to live sessions. ReceiverID and AppID are
// addressing metadata and never part of the pushed body.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	Channel   string         `json:"channel"`
	SenderID  *string        `json:"senderId"`
	CreatedAt time.Time      `json:"createdAt"`
}

// EventOf builds the pushed projection of a stored notification.
func EventOf(n Notification) Event {
	return Event{
		ID:        n.ID,
		Type:      n.Type,
		Payload:   n.Payload,
		Channel:   n.Channel,
		SenderID:  n.SenderID,
		CreatedAt: n.CreatedAt,
	}
}
