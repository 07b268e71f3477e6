package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shipyard-mcp/shipyard/internal/logging"
	"github.com/shipyard-mcp/shipyard/pkg/domain"
	"github.com/shipyard-mcp/shipyard/pkg/ports"
)

// Manager orchestrates session resolution and teardown against a
// SessionStore. The store is injected at construction time so lifetime and
// multi-instance sharing are explicit rather than hidden in global state.
type Manager struct {
	store  ports.SessionStore
	logger *slog.Logger

	now   func() time.Time
	newID func() string
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithIDGenerator overrides identifier minting. Used in tests to make
// identifiers deterministic.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new Session Manager backed by the given store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		logger: logging.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resolve maps a caller-supplied identifier to an open session.
//
// An empty identifier mints a fresh one (isNew true). A known identifier is
// reused unchanged. An unknown non-empty identifier is adopted as-is: the
// session transitions from absent to open under the caller's token, which
// keeps reconnects working after a process restart wiped the store.
func (m *Manager) Resolve(ctx context.Context, supplied string) (*domain.Session, bool, error) {
	if supplied == "" {
		s := domain.NewSession(m.newID(), m.now())
		if err := m.store.Put(ctx, s); err != nil {
			return nil, false, fmt.Errorf("failed to open session: %w", err)
		}
		m.logger.Debug("session minted", "session_id", s.ID)
		return s, true, nil
	}

	s, err := m.store.Get(ctx, supplied)
	if err == nil {
		return s, false, nil
	}
	if err != domain.ErrSessionNotFound {
		return nil, false, fmt.Errorf("failed to check session existence: %w", err)
	}

	s = domain.NewSession(supplied, m.now())
	if err := m.store.Put(ctx, s); err != nil {
		return nil, false, fmt.Errorf("failed to adopt session: %w", err)
	}
	m.logger.Debug("session adopted", "session_id", s.ID)
	return s, false, nil
}

// Close tears the session down. Closing an unknown or already-closed
// session succeeds: teardown is an acknowledgement, not a lookup.
func (m *Manager) Close(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	m.logger.Debug("session closed", "session_id", id)
	return nil
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}
