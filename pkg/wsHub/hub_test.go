package ws

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/zhandos-t/ridelink/pkg/logger"
)

type fakeSocket struct {
	sent   []any
	closed bool
	err    error
}

func (f *fakeSocket) WriteJSON(v any) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, v)
	return nil
}

func (f *fakeSocket) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeSocket) Close() error {
	f.closed = true
	return nil
}

func newTestHub() *Hub {
	return NewHub(logger.New("test", logger.LevelError))
}

func TestSubscribe_LastWriteWins(t *testing.T) {
	hub := newTestHub()
	id := uuid.New()

	first := &fakeSocket{}
	second := &fakeSocket{}

	if err := hub.Subscribe(NewConn(id, "passenger", first)); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := hub.Subscribe(NewConn(id, "passenger", second)); err != nil {
		t.Fatalf("re-subscribe: %v", err)
	}

	c, ok := hub.Lookup(id)
	if !ok {
		t.Fatal("expected a registered connection")
	}
	if !c.Same(second) {
		t.Fatal("lookup should return the most recently subscribed connection")
	}
	if !first.closed {
		t.Fatal("replaced connection must be closed")
	}
	if hub.Len() != 1 {
		t.Fatalf("want 1 registered connection, got %d", hub.Len())
	}
}

func TestSubscribe_NilConn(t *testing.T) {
	hub := newTestHub()
	if err := hub.Subscribe(nil); !errors.Is(err, ErrNilConn) {
		t.Fatalf("want ErrNilConn, got %v", err)
	}
}

func TestUnsubscribe_RemovesBySocket(t *testing.T) {
	hub := newTestHub()
	id := uuid.New()
	sock := &fakeSocket{}

	if err := hub.Subscribe(NewConn(id, "driver", sock)); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	hub.Unsubscribe(sock)

	if _, ok := hub.Lookup(id); ok {
		t.Fatal("lookup after unsubscribe must be absent")
	}
	if !sock.closed {
		t.Fatal("unsubscribed socket must be closed")
	}
}

func TestUnsubscribe_UnknownSocketIsNoop(t *testing.T) {
	hub := newTestHub()
	if err := hub.Subscribe(NewConn(uuid.New(), "driver", &fakeSocket{})); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	hub.Unsubscribe(&fakeSocket{})

	if hub.Len() != 1 {
		t.Fatalf("unknown socket must not affect the registry, len=%d", hub.Len())
	}
}

func TestUnsubscribe_StaleSocketKeepsReplacement(t *testing.T) {
	hub := newTestHub()
	id := uuid.New()

	stale := &fakeSocket{}
	fresh := &fakeSocket{}

	_ = hub.Subscribe(NewConn(id, "passenger", stale))
	_ = hub.Subscribe(NewConn(id, "passenger", fresh))

	// The close handler of the replaced socket fires after the overwrite.
	hub.Unsubscribe(stale)

	c, ok := hub.Lookup(id)
	if !ok || !c.Same(fresh) {
		t.Fatal("closing a replaced socket must not remove the replacement")
	}
}

func TestSnapshot_Copy(t *testing.T) {
	hub := newTestHub()
	for range 3 {
		_ = hub.Subscribe(NewConn(uuid.New(), "passenger", &fakeSocket{}))
	}

	snap := hub.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("want 3 connections in snapshot, got %d", len(snap))
	}

	// Mutating the registry must not affect an already-taken snapshot.
	hub.Close()
	if len(snap) != 3 {
		t.Fatalf("snapshot changed after Close, len=%d", len(snap))
	}
	if hub.Len() != 0 {
		t.Fatalf("want empty hub after Close, len=%d", hub.Len())
	}
}

func TestConn_SendAfterClose(t *testing.T) {
	sock := &fakeSocket{}
	c := NewConn(uuid.New(), "driver", sock)

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close must be a no-op, got %v", err)
	}

	if err := c.Send("msg"); !errors.Is(err, ErrConnClosed) {
		t.Fatalf("want ErrConnClosed, got %v", err)
	}
	if len(sock.sent) != 0 {
		t.Fatal("no message should reach a closed socket")
	}
}
