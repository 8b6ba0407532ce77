package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"notify_hub/internal/http/dto"
	"notify_hub/internal/model"
	"notify_hub/internal/ws"
)

// Full round trip: subscribe over websocket, create over HTTP, receive the
// live frame, then walk the read-state lifecycle through list and mark-read.
func TestNotificationFlow(t *testing.T) {
	server, _ := newTestServer(t)

	conn := dialWS(t, server)
	subscribe(t, conn, "u1")

	body := `{"receiverId":"u1","type":"chat","appId":"app1","payload":{"text":"hi"}}`
	postResp, err := http.Post(server.URL+"/api/notifications", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer func() { _ = postResp.Body.Close() }()
	require.Equal(t, http.StatusCreated, postResp.StatusCode)

	var created dto.CreateNotificationResponse
	require.NoError(t, json.NewDecoder(postResp.Body).Decode(&created))
	require.True(t, created.Success)
	require.True(t, created.Delivered)
	require.False(t, created.Notification.Read)
	require.Equal(t, model.DefaultChannel, created.Notification.Channel)

	envelope := readEnvelope(t, conn)
	require.Equal(t, ws.EventNotification, envelope.Event)
	var pushed model.Event
	require.NoError(t, json.Unmarshal(envelope.Data, &pushed))
	require.Equal(t, created.Notification.ID, pushed.ID)
	require.Equal(t, "chat", pushed.Type)
	require.Equal(t, "hi", pushed.Payload["text"])

	listResp, err := http.Get(server.URL + "/api/notifications/u1?appId=app1")
	require.NoError(t, err)
	defer func() { _ = listResp.Body.Close() }()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var listed dto.ListNotificationsResponse
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&listed))
	require.EqualValues(t, 1, listed.Total)
	require.EqualValues(t, 1, listed.UnreadCount)
	require.True(t, listed.IsOnline)

	req, err := http.NewRequest(http.MethodPatch, server.URL+"/api/notifications/"+created.Notification.ID+"/read", nil)
	require.NoError(t, err)
	patchResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = patchResp.Body.Close() }()
	require.Equal(t, http.StatusOK, patchResp.StatusCode)

	var marked dto.MarkReadResponse
	require.NoError(t, json.NewDecoder(patchResp.Body).Decode(&marked))
	require.True(t, marked.Notification.Read)

	listResp, err = http.Get(server.URL + "/api/notifications/u1?appId=app1")
	require.NoError(t, err)
	defer func() { _ = listResp.Body.Close() }()
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&listed))
	require.EqualValues(t, 1, listed.Total)
	require.EqualValues(t, 0, listed.UnreadCount)
}

func TestNotificationFanOutToAllSessions(t *testing.T) {
	server, _ := newTestServer(t)

	first := dialWS(t, server)
	subscribe(t, first, "u1")
	second := dialWS(t, server)
	subscribe(t, second, "u1")

	body := `{"receiverId":"u1","type":"order","appId":"app1"}`
	postResp, err := http.Post(server.URL+"/api/notifications", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer func() { _ = postResp.Body.Close() }()

	var created dto.CreateNotificationResponse
	require.NoError(t, json.NewDecoder(postResp.Body).Decode(&created))
	require.True(t, created.Delivered)

	for _, conn := range []*websocket.Conn{first, second} {
		envelope := readEnvelope(t, conn)
		require.Equal(t, ws.EventNotification, envelope.Event)
	}
}

func TestOfflineCreateStillPersisted(t *testing.T) {
	server, _ := newTestServer(t)

	body := `{"receiverId":"ghost","type":"order","appId":"app1"}`
	postResp, err := http.Post(server.URL+"/api/notifications", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer func() { _ = postResp.Body.Close() }()
	require.Equal(t, http.StatusCreated, postResp.StatusCode)

	var created dto.CreateNotificationResponse
	require.NoError(t, json.NewDecoder(postResp.Body).Decode(&created))
	require.False(t, created.Delivered)

	listResp, err := http.Get(server.URL + "/api/notifications/ghost?appId=app1")
	require.NoError(t, err)
	defer func() { _ = listResp.Body.Close() }()

	var listed dto.ListNotificationsResponse
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&listed))
	require.EqualValues(t, 1, listed.Total)
	require.False(t, listed.IsOnline)
}
