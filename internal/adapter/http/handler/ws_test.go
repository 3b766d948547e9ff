package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/pkg/logger"
	ws "github.com/zhandos-t/ridelink/pkg/wsHub"
)

// dialWS serves the upgrade endpoint and returns a connected client socket.
func dialWS(t *testing.T, hub *ws.Hub) *websocket.Conn {
	t.Helper()

	h := NewWS(hub, "test", logger.New("test", logger.LevelError))
	srv := httptest.NewServer(http.HandlerFunc(h.Handle))
	t.Cleanup(srv.Close)

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func subscribeMsg(id uuid.UUID, userType string) models.SubscribeMessage {
	return models.SubscribeMessage{
		Type:     models.SubscribeMessageType,
		UserID:   id.String(),
		UserType: userType,
	}
}

func waitRegistered(t *testing.T, hub *ws.Hub, id uuid.UUID) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, ok := hub.Lookup(id)
		return ok
	}, time.Second, 10*time.Millisecond, "subscriber %s never registered", id)
}

func TestWSEndpoint_SubscribeRegisters(t *testing.T) {
	hub := ws.NewHub(logger.New("test", logger.LevelError))
	conn := dialWS(t, hub)

	id := uuid.New()
	require.NoError(t, conn.WriteJSON(subscribeMsg(id, "passenger")))

	waitRegistered(t, hub, id)
	assert.Equal(t, 1, hub.Len())
}

func TestWSEndpoint_BadMessagesKeepConnectionOpen(t *testing.T) {
	hub := ws.NewHub(logger.New("test", logger.LevelError))
	conn := dialWS(t, hub)

	// None of these is a valid subscribe; the read loop must skip each one
	// without registering anything and without dropping the socket.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	require.NoError(t, conn.WriteJSON(subscribeMsg(uuid.New(), "pilot")))
	require.NoError(t, conn.WriteJSON(models.SubscribeMessage{Type: "ping", UserID: uuid.NewString(), UserType: "driver"}))
	require.NoError(t, conn.WriteJSON(models.SubscribeMessage{Type: models.SubscribeMessageType, UserID: "not-a-uuid", UserType: "driver"}))

	// Messages are handled in order on one socket, so once this subscribe
	// lands the rejects above have already been processed.
	id := uuid.New()
	require.NoError(t, conn.WriteJSON(subscribeMsg(id, "driver")))

	waitRegistered(t, hub, id)
	assert.Equal(t, 1, hub.Len(), "rejected messages must not register subscribers")
}

func TestWSEndpoint_CloseUnregisters(t *testing.T) {
	hub := ws.NewHub(logger.New("test", logger.LevelError))
	conn := dialWS(t, hub)

	id := uuid.New()
	require.NoError(t, conn.WriteJSON(subscribeMsg(id, "passenger")))
	waitRegistered(t, hub, id)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return hub.Len() == 0
	}, time.Second, 10*time.Millisecond, "closed socket must leave the registry")
}
