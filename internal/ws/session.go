package ws

import "github.com/google/uuid"

// Session is one live connection. The hub only ever touches ID and Send;
// the transport attaches the rest of the connection lifecycle around it.
type Session struct {
	ID   string
	Send chan []byte
}

func NewSession(buffer int) *Session {
	return &Session{
		ID:   uuid.NewString(),
		Send: make(chan []byte, buffer),
	}
}
