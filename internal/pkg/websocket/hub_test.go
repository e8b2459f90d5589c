package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedServer(t *testing.T, userID int64) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		if userID > 0 {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}, NewHandler(hub, zerolog.Nop()).HandleConnection)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestSendToUserReachesConnectedClient(t *testing.T) {
	hub, url := newFeedServer(t, 7)
	conn := dial(t, url)

	require.Eventually(t, func() bool { return hub.ClientCount(7) == 1 }, time.Second, 10*time.Millisecond)

	hub.SendToUser(8, Message{Type: "snapshot.approved"})
	hub.SendToUser(7, Message{Type: "snapshot.approved", Data: map[string]int{"snapshotId": 3}})

	msg := readMessage(t, conn)
	assert.Equal(t, "snapshot.approved", msg.Type)
	assert.Equal(t, map[string]interface{}{"snapshotId": float64(3)}, msg.Data)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestPingGetsPong(t *testing.T) {
	hub, url := newFeedServer(t, 7)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount(7) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	assert.Equal(t, TypePong, readMessage(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"subscribe"}`)))
	assert.Equal(t, TypeError, readMessage(t, conn).Type)
}

func TestClosedConnectionIsUnregistered(t *testing.T) {
	hub, url := newFeedServer(t, 7)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount(7) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount(7) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandlerRequiresCaller(t *testing.T) {
	_, url := newFeedServer(t, 0)
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestMessageHandler(t *testing.T) {
	h := NewMessageHandler(zerolog.Nop())
	assert.Nil(t, h.Handle(1, nil))

	var out Message
	require.NoError(t, json.Unmarshal(h.Handle(1, []byte("not json")), &out))
	assert.Equal(t, TypeError, out.Type)
}
