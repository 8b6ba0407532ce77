package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"notify_hub/internal/http/dto"
)

func createNotification(t *testing.T, serverURL, body string) dto.CreateNotificationResponse {
	t.Helper()
	resp, err := http.Post(serverURL+"/api/notifications", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created dto.CreateNotificationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	return created
}

func listNotifications(t *testing.T, serverURL, query string) dto.ListNotificationsResponse {
	t.Helper()
	resp, err := http.Get(serverURL + "/api/notifications/" + query)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed dto.ListNotificationsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	return listed
}

func TestTenantIsolationOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)

	createNotification(t, server.URL, `{"receiverId":"u1","type":"order","appId":"app1"}`)
	createNotification(t, server.URL, `{"receiverId":"u1","type":"order","appId":"app2"}`)
	createNotification(t, server.URL, `{"receiverId":"u1","type":"order"}`)

	listed := listNotifications(t, server.URL, "u1?appId=app1")
	require.EqualValues(t, 1, listed.Total)
	require.Len(t, listed.Notifications, 1)
	require.Equal(t, "app1", *listed.Notifications[0].AppID)
}

func TestListMissingAppIDRejected(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/notifications/u1")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMarkAllReadScope(t *testing.T) {
	server, _ := newTestServer(t)

	createNotification(t, server.URL, `{"receiverId":"u1","type":"order","appId":"app1"}`)
	createNotification(t, server.URL, `{"receiverId":"u1","type":"chat","appId":"app1"}`)
	createNotification(t, server.URL, `{"receiverId":"u1","type":"order","appId":"app2"}`)

	req, err := http.NewRequest(http.MethodPatch, server.URL+"/api/notifications/u1/read-all?appId=app1&type=order", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var marked dto.MarkAllReadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&marked))
	require.EqualValues(t, 1, marked.ModifiedCount)

	listed := listNotifications(t, server.URL, "u1?appId=app1")
	require.EqualValues(t, 1, listed.UnreadCount)
	otherTenant := listNotifications(t, server.URL, "u1?appId=app2")
	require.EqualValues(t, 1, otherTenant.UnreadCount)

	// Re-running the same bulk update flips nothing.
	req, err = http.NewRequest(http.MethodPatch, server.URL+"/api/notifications/u1/read-all?appId=app1&type=order", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&marked))
	require.EqualValues(t, 0, marked.ModifiedCount)
}

func TestMarkReadUnknownID(t *testing.T) {
	server, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPatch, server.URL+"/api/notifications/unknown/read", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPaginationNewestFirst(t *testing.T) {
	server, _ := newTestServer(t)

	var ids []string
	for range 3 {
		created := createNotification(t, server.URL, `{"receiverId":"u1","type":"order","appId":"app1"}`)
		ids = append(ids, created.Notification.ID)
	}

	listed := listNotifications(t, server.URL, "u1?appId=app1&limit=2")
	require.Len(t, listed.Notifications, 2)
	require.Equal(t, ids[2], listed.Notifications[0].ID)
	require.Equal(t, ids[1], listed.Notifications[1].ID)

	listed = listNotifications(t, server.URL, "u1?appId=app1&limit=2&skip=2")
	require.Len(t, listed.Notifications, 1)
	require.Equal(t, ids[0], listed.Notifications[0].ID)
}
