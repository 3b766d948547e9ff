package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrConnClosed = errors.New("connection is closed")

// writeWait bounds how long a single push may block on a slow client.
const writeWait = 5 * time.Second

// Socket is the minimal surface of *websocket.Conn the hub needs. Tests
// substitute fakes.
type Socket interface {
	WriteJSON(v any) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Conn is one registered subscriber connection: a send-capable handle bound
// to a subscriber id and role.
type Conn struct {
	id   uuid.UUID
	role string
	sock Socket

	mu     sync.Mutex
	closed bool
}

func NewConn(id uuid.UUID, role string, sock Socket) *Conn {
	return &Conn{
		id:   id,
		role: role,
		sock: sock,
	}
}

func (c *Conn) ID() uuid.UUID {
	return c.id
}

func (c *Conn) Role() string {
	return c.role
}

// Send pushes one JSON message. The write is serialized per connection and
// bounded by writeWait so a stuck client cannot block a broadcast for long.
func (c *Conn) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnClosed
	}

	_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
	return c.sock.WriteJSON(v)
}

// Close marks the connection closed and closes the underlying socket.
// Safe to call more than once.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.sock.Close()
}

// Open reports whether the connection can still be written to.
func (c *Conn) Open() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// Same reports whether other wraps the same underlying socket. Used by the
// hub to find the registry entry for a closing socket.
func (c *Conn) Same(sock Socket) bool {
	return c.sock == sock
}
