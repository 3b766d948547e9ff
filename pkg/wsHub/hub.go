// Package ws holds the live registry of subscriber WebSocket connections.
//
// The hub owns every Conn: entries are created on a subscribe message and
// destroyed on socket closure. At most one live connection exists per
// subscriber id; a later subscribe replaces (and closes) the earlier one.
package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/zhandos-t/ridelink/pkg/logger"
)

var (
	ErrNilConn      = errors.New("connection is nil")
	ErrConnNotFound = errors.New("connection not found")
)

type Hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*Conn
	log     logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*Conn),
		log:     log,
	}
}

// Subscribe registers the connection under its subscriber id. An existing
// connection for the same id is closed and replaced (last write wins).
func (h *Hub) Subscribe(c *Conn) error {
	if c == nil {
		return ErrNilConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := logger.WithAction(context.Background(), "ws_subscribe")

	if existing, ok := h.clients[c.id]; ok && existing != c {
		h.log.Warn(ctx, "replacing existing connection", "subscriber_id", c.id)
		if err := existing.Close(); err != nil {
			h.log.Warn(ctx, "failed to close replaced connection",
				"subscriber_id", c.id,
				"err", err.Error(),
			)
		}
	}

	h.clients[c.id] = c
	return nil
}

// Unsubscribe removes the entry holding the given socket, closing it.
// Silently a no-op when the socket is not registered (it may already have
// been replaced by a newer subscribe). Called on socket closure.
func (h *Hub) Unsubscribe(sock Socket) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		if c.Same(sock) {
			delete(h.clients, id)
			_ = c.Close()
			return
		}
	}
}

// Delete removes and closes the connection registered under id.
func (h *Hub) Delete(id uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[id]
	if !ok {
		return ErrConnNotFound
	}

	if err := c.Close(); err != nil {
		h.log.Warn(logger.WithAction(context.Background(), "ws_delete"),
			"failed to close connection",
			"subscriber_id", id,
			"err", err.Error(),
		)
	}

	delete(h.clients, id)
	return nil
}

// Lookup returns the live connection for id, if any.
func (h *Hub) Lookup(id uuid.UUID) (*Conn, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[id]
	return c, ok
}

// Snapshot returns a copy of the current connections for fan-out iteration.
// Registrations and removals made afterwards are not observed.
func (h *Hub) Snapshot() []*Conn {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := make([]*Conn, 0, len(h.clients))
	for _, c := range h.clients {
		conns = append(conns, c)
	}
	return conns
}

// Len returns the number of registered connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close closes every registered connection. Called at shutdown.
func (h *Hub) Close() {
	for _, c := range h.Snapshot() {
		_ = h.Delete(c.id)
	}

	h.log.Info(logger.WithAction(context.Background(), "hub_close"),
		"all websocket connections closed")
}
