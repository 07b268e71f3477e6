// Package memory provides the default in-process SessionStore.
package memory

import (
	"context"
	"sync"

	"github.com/shipyard-mcp/shipyard/pkg/domain"
)

// Store implements ports.SessionStore with a mutex-guarded map.
//
// Sessions live for the process lifetime unless explicitly closed; there is
// no eviction. The map is shared by every in-flight request, and does not
// synchronize across instances: multi-instance deployments need the redis
// store for session affinity.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]domain.Session),
	}
}

// Put stores a copy of the session.
func (s *Store) Put(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

// Get retrieves the session by identifier.
func (s *Store) Get(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

// Delete removes the session. Absent sessions are ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// List returns the identifiers of all open sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}
