package domain

import "time"

// Session correlates a sequence of requests from one logical client
// connection. It carries no transport state beyond its identity; the
// identifier, once issued, is never reassigned within a process lifetime.
type Session struct {
	// ID is the opaque session token surfaced in the Mcp-Session-Id header.
	ID string `json:"id"`

	CreatedAt time.Time `json:"created_at"`
}

// NewSession creates a session with the given identifier.
func NewSession(id string, createdAt time.Time) *Session {
	return &Session{ID: id, CreatedAt: createdAt}
}
