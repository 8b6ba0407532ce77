package e2e

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"notify_hub/internal/config"
	httpserver "notify_hub/internal/http"
	"notify_hub/internal/http/controller"
	"notify_hub/internal/service/notify"
	"notify_hub/internal/store/memory"
	"notify_hub/internal/ws"
)

type noopPublisher struct{}

func (n *noopPublisher) Publish(ctx context.Context, payload []byte, routingKey string) error {
	_ = ctx
	_ = payload
	_ = routingKey
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *ws.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		RabbitPublishPrefix: "notification",
		WSWriteTimeout:      5 * time.Second,
		WSPongTimeout:       30 * time.Second,
		WSSendBuffer:        16,
		DefaultPageSize:     20,
		MaxPageSize:         100,
		OTELServiceName:     "notify-hub-test",
	}
	logger := zap.NewNop()
	repo := memory.New(logger)
	hub := ws.NewHub(logger)
	svc := notify.NewService(repo, hub, logger)
	handler := controller.NewHandler(cfg, svc, logger, &noopPublisher{})
	wsHandler := ws.NewHandler(cfg, hub, logger)
	router := httpserver.NewRouter(cfg, handler, wsHandler, logger)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, hub
}

func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendEnvelope(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(ws.Envelope{Event: event, Data: raw}))
}

func readEnvelope(t *testing.T, conn *websocket.Conn) ws.Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var envelope ws.Envelope
	require.NoError(t, conn.ReadJSON(&envelope))
	return envelope
}

func subscribe(t *testing.T, conn *websocket.Conn, receiverID string) {
	t.Helper()
	sendEnvelope(t, conn, ws.EventSubscribe, ws.SubscribeRequest{ReceiverID: receiverID})
	envelope := readEnvelope(t, conn)
	require.Equal(t, ws.EventSubscribed, envelope.Event)

	var ack ws.SubscribedAck
	require.NoError(t, json.Unmarshal(envelope.Data, &ack))
	require.Equal(t, receiverID, ack.ReceiverID)
}

func waitOffline(t *testing.T, hub *ws.Hub, receiverID string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if !hub.IsOnline(receiverID) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("receiver %s still online", receiverID)
}
