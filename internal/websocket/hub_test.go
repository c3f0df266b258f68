package websocket

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbin-backend/internal/middleware"
)

const testSecret = "ws-secret"

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	server := httptest.NewServer(HandleWebSocket(hub, testSecret))
	t.Cleanup(func() {
		server.Close()
		hub.Stop()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var event Event
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub, server := startHub(t)
	public := dial(t, server, "")

	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(NewEvent(EventBinUpdate, map[string]int{"level": 42}))
	event := readEvent(t, public)
	assert.Equal(t, EventBinUpdate, event.Type)
}

func TestBroadcastToRoleFilters(t *testing.T) {
	hub, server := startHub(t)

	token, err := middleware.IssueToken(testSecret, middleware.UserClaims{UserID: "a1", Role: "admin"}, time.Now())
	require.NoError(t, err)

	admin := dial(t, server, "?token="+token)
	public := dial(t, server, "")

	require.Eventually(t, func() bool { return hub.GetClientCount() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, map[string]int{"admin": 1, "public": 1}, hub.CountByRole())

	hub.BroadcastToRole("admin", NewEvent(EventBinAlert, "DHW001"))
	hub.Broadcast(NewEvent(EventBinUpdate, "DHW001"))

	assert.Equal(t, EventBinAlert, readEvent(t, admin).Type)
	assert.Equal(t, EventBinUpdate, readEvent(t, admin).Type)
	// the public client never sees the admin alert
	assert.Equal(t, EventBinUpdate, readEvent(t, public).Type)
}

func TestInvalidTokenRejected(t *testing.T) {
	_, server := startHub(t)
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?token=nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub, server := startHub(t)
	conn := dial(t, server, "")
	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.GetClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestPingPong(t *testing.T) {
	_, server := startHub(t)
	conn := dial(t, server, "")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	assert.Equal(t, "pong", readEvent(t, conn).Type)
}
