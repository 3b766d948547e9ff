package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zhandos-t/ridelink/internal/domain/models"
	"github.com/zhandos-t/ridelink/internal/domain/types"
	"github.com/zhandos-t/ridelink/pkg/logger"
	"github.com/zhandos-t/ridelink/pkg/metrics"
	ws "github.com/zhandos-t/ridelink/pkg/wsHub"
)

// WS upgrades HTTP connections and feeds subscribe messages into the hub.
//
// A freshly upgraded socket is anonymous: it receives nothing until a valid
// `{"type":"subscribe","userId":...,"userType":...}` message arrives. A later
// subscribe on the same socket re-registers it under the new id.
type WS struct {
	hub         *ws.Hub
	upgrader    websocket.Upgrader
	serviceName string
	l           logger.Logger
}

func NewWS(hub *ws.Hub, serviceName string, l logger.Logger) *WS {
	return &WS{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from arbitrary origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		serviceName: serviceName,
		l:           l,
	}
}

// Handle godoc
// @Summary      WebSocket subscribe endpoint
// @Description  Upgrades to WebSocket; send {"type":"subscribe","userId":"<uuid>","userType":"passenger|driver"} to receive ride events
// @Tags         WebSocket
// @Router       /ws [get]
func (h *WS) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ws_connect")

	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.l.Warn(ctx, "websocket upgrade failed", "err", err.Error())
		return
	}

	metrics.WebSocketConnectionsGauge.WithLabelValues(h.serviceName).Inc()
	defer metrics.WebSocketConnectionsGauge.WithLabelValues(h.serviceName).Dec()

	defer func() {
		// Covers both subscribed sockets (removes the hub entry) and
		// anonymous ones (no-op plus the explicit Close below).
		h.hub.Unsubscribe(sock)
		_ = sock.Close()
	}()

	h.readLoop(ctx, sock)
}

// readLoop consumes inbound messages until the socket dies. Anything that is
// not a valid subscribe is logged and skipped; the connection stays open.
func (h *WS) readLoop(ctx context.Context, sock *websocket.Conn) {
	for {
		_, data, err := sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.l.Debug(ctx, "websocket closed unexpectedly", "err", err.Error())
			}
			return
		}

		var msg models.SubscribeMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.l.Warn(ctx, "malformed websocket message", "err", err.Error())
			continue
		}

		if msg.Type != models.SubscribeMessageType {
			h.l.Warn(ctx, "unknown websocket message type", "type", msg.Type)
			continue
		}

		id, err := uuid.Parse(msg.UserID)
		if err != nil {
			h.l.Warn(ctx, "subscribe with invalid userId", "user_id", msg.UserID)
			continue
		}
		if !types.ValidUserRole(msg.UserType) {
			h.l.Warn(ctx, "subscribe with invalid userType", "user_type", msg.UserType)
			continue
		}

		if err := h.hub.Subscribe(ws.NewConn(id, msg.UserType, sock)); err != nil {
			h.l.Error(ctx, "failed to register subscriber", err, "user_id", msg.UserID)
			continue
		}

		h.l.Info(logger.WithUserID(ctx, msg.UserID), "subscriber registered",
			"user_type", msg.UserType,
		)
	}
}
