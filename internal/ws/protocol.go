package ws

import "encoding/json"

// Wire events. Clients send subscribe/unsubscribe; the server answers with
// subscribed, notification or error frames on the same connection.
const (
	EventSubscribe    = "subscribe"
	EventUnsubscribe  = "unsubscribe"
	EventSubscribed   = "subscribed"
	EventNotification = "notification"
	EventError        = "error"
)

type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type SubscribeRequest struct {
	ReceiverID string `json:"receiverId"`
}

type SubscribedAck struct {
	ReceiverID string `json:"receiverId"`
	Message    string `json:"message"`
}

type ErrorFrame struct {
	Message string `json:"message"`
}
