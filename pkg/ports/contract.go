package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipyard-mcp/shipyard/pkg/domain"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Put and Get", func(t *testing.T) {
		created := time.Now().UTC().Truncate(time.Second)
		err := store.Put(ctx, domain.NewSession(sessionID, created))
		require.NoError(t, err, "Put should not return error")

		loaded, err := store.Get(ctx, sessionID)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, sessionID, loaded.ID)
		assert.WithinDuration(t, created, loaded.CreatedAt, time.Second)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Put(ctx, domain.NewSession(sessionID, time.Now()))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Get(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Get after Delete should return ErrSessionNotFound")
	})

	t.Run("Delete Is Idempotent", func(t *testing.T) {
		err := store.Delete(ctx, "never-existed-"+sessionID)
		assert.NoError(t, err, "deleting an absent session should succeed")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Put(ctx, domain.NewSession(id1, time.Now()))
		_ = store.Put(ctx, domain.NewSession(id2, time.Now()))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
