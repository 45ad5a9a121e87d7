package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhub/studyhub-backend/internal/ws"
	"github.com/studyhub/studyhub-backend/pkg/jwt"
)

func newWSFixture(t *testing.T) (*httptest.Server, *ws.Hub, *jwt.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	mgr := jwt.NewManager("test-secret-key-for-testing-only-32b!", 15, 1440)

	r := gin.New()
	r.GET("/ws/chat", NewWSHandler(hub, mgr, "").Connect)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub, mgr
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat" + query
}

func TestConnect_MissingTokenRefused(t *testing.T) {
	srv, hub, _ := newWSFixture(t)

	//nolint:bodyclose // Dial returns a closed response on handshake failure
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, hub.HasClients("user-1"))
}

func TestConnect_InvalidTokenRefused(t *testing.T) {
	srv, hub, _ := newWSFixture(t)

	//nolint:bodyclose
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token=not.a.token"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, hub.HasClients("user-1"))
}

func TestConnect_ExpiredTokenRefused(t *testing.T) {
	srv, hub, _ := newWSFixture(t)

	expired := jwt.NewManager("test-secret-key-for-testing-only-32b!", -1, -1)
	token, err := expired.GenerateToken("user-1", "", "")
	require.NoError(t, err)

	//nolint:bodyclose
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token="+token), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, hub.HasClients("user-1"))
}

func TestConnect_ValidTokenBindsUser(t *testing.T) {
	srv, hub, mgr := newWSFixture(t)

	token, err := mgr.GenerateToken("user-1", "Alice", "student")
	require.NoError(t, err)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token="+token), nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	assert.Eventually(t, func() bool { return hub.HasClients("user-1") },
		time.Second, 5*time.Millisecond)
}

func TestConnect_PushReachesBoundConnection(t *testing.T) {
	srv, hub, mgr := newWSFixture(t)

	token, err := mgr.GenerateToken("user-1", "", "")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token="+token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.HasClients("user-1") },
		time.Second, 5*time.Millisecond)

	hub.SendToUser("user-1", &ws.Event{Type: ws.EventNewMessage, Payload: map[string]string{"id": "m1"}})

	conn.SetReadDeadline(time.Now().Add(time.Second)) //nolint:errcheck
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), ws.EventNewMessage)
	assert.Contains(t, string(data), `"id":"m1"`)
}

func TestConnect_AuthHeaderAccepted(t *testing.T) {
	srv, hub, mgr := newWSFixture(t)

	token, err := mgr.GenerateToken("user-2", "", "")
	require.NoError(t, err)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), header)
	require.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool { return hub.HasClients("user-2") },
		time.Second, 5*time.Millisecond)
}
