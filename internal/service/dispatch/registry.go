package dispatch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/propace/pace/internal/model/wire"
)

var (
	// ErrDuplicateSession reports an Add with an identifier already present.
	ErrDuplicateSession = errors.New("session already registered")
	// ErrSessionNotFound reports a SendTo for an absent identifier.
	ErrSessionNotFound = errors.New("session not found")
)

// Registry is the set of currently connected sessions. It is the only shared
// mutable state in the server; one coarse lock guards all membership
// operations.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Add registers a session. Identifiers are unique for the lifetime of the
// connection, so a duplicate indicates a handshake bug.
func (r *Registry) Add(session *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSession, session.ID)
	}
	r.sessions[session.ID] = session
	return nil
}

// Remove deletes a session if present. Removing an absent identifier is a
// no-op so disconnect paths stay idempotent.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports the current number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Broadcast sends one frame to every session registered at the moment of the
// call. A failed delivery to one session never aborts the rest; all failures
// are joined into the returned error.
func (r *Registry) Broadcast(frame wire.Frame) error {
	r.mu.RLock()
	targets := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		targets = append(targets, session)
	}
	r.mu.RUnlock()

	var errs []error
	for _, session := range targets {
		if err := session.Send(frame); err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", session.ID, err))
		}
	}
	return errors.Join(errs...)
}

// SendTo delivers one frame to a single session.
func (r *Registry) SendTo(id string, frame wire.Frame) error {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session.Send(frame)
}
