package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"notify_hub/internal/domain"
	"notify_hub/internal/model"
	"notify_hub/internal/telemetry"
)

// Hub is the process-wide connection registry: receiver id -> set of live
// sessions. Entries are created on first subscribe and pruned as soon as
// the set empties, so the map never holds an empty set. The instance is
// created at server start and owned by the app; there is no package-level
// hub.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Session]struct{}
	log   *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Session]struct{}),
		log:   logger,
	}
}

// Subscribe joins session to the receiver's broadcast group.
func (h *Hub) Subscribe(receiverID string, session *Session) error {
	if receiverID == "" {
		return domain.ErrReceiverIDRequired
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[receiverID] == nil {
		h.rooms[receiverID] = make(map[*Session]struct{})
	}
	h.rooms[receiverID][session] = struct{}{}
	return nil
}

// Unsubscribe removes session from the receiver's group. No-op if the
// session never joined it.
func (h *Hub) Unsubscribe(receiverID string, session *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(receiverID, session)
}

// DropSession removes session from every group it joined, pruning groups
// that empty. Called once from the transport teardown path.
func (h *Hub) DropSession(session *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for receiverID := range h.rooms {
		h.removeLocked(receiverID, session)
	}
}

func (h *Hub) removeLocked(receiverID string, session *Session) {
	room := h.rooms[receiverID]
	if room == nil {
		return
	}
	delete(room, session)
	if len(room) == 0 {
		delete(h.rooms, receiverID)
	}
}

// IsOnline reports whether at least one live session is subscribed to the
// receiver.
func (h *Hub) IsOnline(receiverID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[receiverID]) > 0
}

// Push broadcasts event to every session in the receiver's group. It
// returns true when the receiver was online at push time; it does not
// confirm client-side receipt, and frames to slow sessions are dropped.
func (h *Hub) Push(receiverID string, event model.Event) bool {
	frame, err := json.Marshal(Envelope{Event: EventNotification, Data: marshalData(event)})
	if err != nil {
		h.log.Error("marshal notification frame failed", zap.String("notification_id", event.ID), zap.Error(err))
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	room := h.rooms[receiverID]
	if len(room) == 0 {
		telemetry.PushesTotal.WithLabelValues("offline").Inc()
		return false
	}
	for session := range room {
		select {
		case session.Send <- frame:
		default:
			// Drop if the session is too slow.
			h.log.Warn("dropped frame for slow session",
				zap.String("session_id", session.ID),
				zap.String("notification_id", event.ID),
			)
			telemetry.PushesTotal.WithLabelValues("dropped").Inc()
		}
	}
	telemetry.PushesTotal.WithLabelValues("delivered").Inc()
	return true
}

func marshalData(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
