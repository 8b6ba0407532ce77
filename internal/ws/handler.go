package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"notify_hub/internal/config"
	"notify_hub/internal/telemetry"
)

const maxFrameSize = 4096

// Handler upgrades HTTP requests to websocket sessions and speaks the
// subscribe/unsubscribe protocol on them.
type Handler struct {
	cfg      *config.Config
	hub      *Hub
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewHandler(cfg *config.Config, hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{
		cfg: cfg,
		hub: hub,
		log: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", zap.String("client_ip", c.ClientIP()), zap.Error(err))
		return
	}

	session := NewSession(h.cfg.WSSendBuffer)
	h.log.Info("session connected", zap.String("session_id", session.ID), zap.String("client_ip", c.ClientIP()))
	telemetry.ActiveSessions.Inc()

	done := make(chan struct{})
	go h.writePump(conn, session, done)

	h.readPump(conn, session)

	// Teardown runs synchronously on read failure or client close: the
	// session leaves every broadcast group before the connection is gone.
	h.hub.DropSession(session)
	close(done)
	_ = conn.Close()
	telemetry.ActiveSessions.Dec()
	h.log.Info("session disconnected", zap.String("session_id", session.ID))
}

func (h *Handler) readPump(conn *websocket.Conn, session *Session) {
	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.WSPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.cfg.WSPongTimeout))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("session read failed", zap.String("session_id", session.ID), zap.Error(err))
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			h.sendError(session, "invalid message")
			continue
		}

		switch envelope.Event {
		case EventSubscribe:
			h.handleSubscribe(session, envelope.Data)
		case EventUnsubscribe:
			h.handleUnsubscribe(session, envelope.Data)
		default:
			h.sendError(session, "unknown event: "+envelope.Event)
		}
	}
}

func (h *Handler) handleSubscribe(session *Session, data json.RawMessage) {
	var req SubscribeRequest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			h.sendError(session, "invalid subscribe payload")
			return
		}
	}
	if err := h.hub.Subscribe(req.ReceiverID, session); err != nil {
		h.sendError(session, err.Error())
		return
	}
	h.log.Info("session subscribed", zap.String("session_id", session.ID), zap.String("receiver_id", req.ReceiverID))
	h.send(session, Envelope{
		Event: EventSubscribed,
		Data: marshalData(SubscribedAck{
			ReceiverID: req.ReceiverID,
			Message:    "subscribed to " + req.ReceiverID,
		}),
	})
}

func (h *Handler) handleUnsubscribe(session *Session, data json.RawMessage) {
	var req SubscribeRequest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			h.sendError(session, "invalid unsubscribe payload")
			return
		}
	}
	h.hub.Unsubscribe(req.ReceiverID, session)
	h.log.Info("session unsubscribed", zap.String("session_id", session.ID), zap.String("receiver_id", req.ReceiverID))
}

func (h *Handler) sendError(session *Session, message string) {
	h.send(session, Envelope{Event: EventError, Data: marshalData(ErrorFrame{Message: message})})
}

func (h *Handler) send(session *Session, envelope Envelope) {
	frame, err := json.Marshal(envelope)
	if err != nil {
		h.log.Error("marshal frame failed", zap.String("session_id", session.ID), zap.Error(err))
		return
	}
	select {
	case session.Send <- frame:
	default:
		h.log.Warn("dropped frame for slow session", zap.String("session_id", session.ID))
	}
}

// writePump is the single writer for the connection. It drains the session
// channel and keeps the connection alive with pings until done closes.
func (h *Handler) writePump(conn *websocket.Conn, session *Session, done <-chan struct{}) {
	ping := time.NewTicker(h.cfg.WSPongTimeout * 9 / 10)
	defer ping.Stop()

	for {
		select {
		case <-done:
			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WSWriteTimeout))
			_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case frame := <-session.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WSWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				h.log.Warn("session write failed", zap.String("session_id", session.ID), zap.Error(err))
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WSWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
