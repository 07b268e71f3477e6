package ports

import (
	"context"

	"github.com/shipyard-mcp/shipyard/pkg/domain"
)

// SessionStore defines the interface for persisting session records.
// The default implementation is in-process; a Redis-backed one exists for
// deployments where session affinity must survive multiple instances.
type SessionStore interface {
	// Put persists the session, overwriting any existing record with the
	// same identifier.
	Put(ctx context.Context, session *domain.Session) error

	// Get retrieves a session by identifier.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete removes the session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the identifiers of all open sessions.
	List(ctx context.Context) ([]string, error)
}
