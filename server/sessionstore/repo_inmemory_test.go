package sessionstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/freshcart/auth-service/server/sessionstore"
)

func testSession(now time.Time) sessionstore.Session {
	return sessionstore.Session{
		AccountID: "account-1",
		Role:      "standard",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestInMemoryRepo(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("upsert then get", func(t *testing.T) {
		repo := sessionstore.NewInMemoryRepo()
		require.NoError(t, repo.Upsert("sid-1", testSession(now)))

		session, err := repo.Get("sid-1")
		require.NoError(t, err)
		require.Equal(t, "account-1", session.AccountID)
	})

	t.Run("empty session id is rejected", func(t *testing.T) {
		repo := sessionstore.NewInMemoryRepo()
		require.Error(t, repo.Upsert("", testSession(now)))
		_, err := repo.Get("")
		require.ErrorIs(t, err, sessionstore.ErrNotFound)
	})

	t.Run("unknown session is not found", func(t *testing.T) {
		repo := sessionstore.NewInMemoryRepo()
		_, err := repo.Get("never-issued")
		require.ErrorIs(t, err, sessionstore.ErrNotFound)
	})

	t.Run("refresh slides the expiry", func(t *testing.T) {
		repo := sessionstore.NewInMemoryRepo()
		require.NoError(t, repo.Upsert("sid-1", testSession(now)))

		later := now.Add(24 * time.Hour)
		require.NoError(t, repo.Refresh("sid-1", later))

		session, err := repo.Get("sid-1")
		require.NoError(t, err)
		require.Equal(t, later, session.ExpiresAt)
	})

	t.Run("refresh of a missing session is a no-op", func(t *testing.T) {
		repo := sessionstore.NewInMemoryRepo()
		require.NoError(t, repo.Refresh("never-issued", now))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		repo := sessionstore.NewInMemoryRepo()
		require.NoError(t, repo.Upsert("sid-1", testSession(now)))
		require.NoError(t, repo.Delete("sid-1"))
		require.NoError(t, repo.Delete("sid-1"))

		_, err := repo.Get("sid-1")
		require.ErrorIs(t, err, sessionstore.ErrNotFound)
	})
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	session := testSession(now)

	require.False(t, session.Expired(now))
	require.False(t, session.Expired(session.ExpiresAt))
	require.True(t, session.Expired(session.ExpiresAt.Add(time.Second)))
}
