package dispatch

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/propace/pace/internal/model/wire"
)

// ErrSessionClosed reports a send attempted after the session transitioned to
// its terminal closed state.
var ErrSessionClosed = errors.New("session closed")

// Conn is the subset of the websocket connection a session needs. Satisfied
// by *websocket.Conn.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Session is one connected client and its outbound channel. Lifecycle is
// Connecting -> Open -> Closed; Closed is terminal, the identifier is never
// reused.
type Session struct {
	ID string

	mu     sync.Mutex
	conn   Conn
	closed bool
}

// NewSession wraps an open connection in a session with a fresh identifier.
func NewSession(conn Conn) *Session {
	return &Session{ID: uuid.NewString(), conn: conn}
}

// Send writes one frame to the client. Writes are serialized; the websocket
// allows only one concurrent writer.
func (s *Session) Send(frame wire.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	return s.conn.WriteJSON(frame)
}

// Close transitions the session to its terminal state and closes the
// underlying connection. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
