package token_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/freshcart/auth-service/token"
)

func TestInMemoryRegistry(t *testing.T) {
	t.Run("added token is revoked until expiry", func(t *testing.T) {
		clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		registry := token.NewInMemoryRegistry(
			token.WithRegistryNowFunc(func() time.Time { return clock }),
		)

		require.NoError(t, registry.Add("tok-1", clock.Add(time.Hour)))
		require.True(t, registry.IsRevoked("tok-1"))
		require.False(t, registry.IsRevoked("tok-2"))
	})

	t.Run("expired entry is dropped on lookup", func(t *testing.T) {
		clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		registry := token.NewInMemoryRegistry(
			token.WithRegistryNowFunc(func() time.Time { return clock }),
		)

		require.NoError(t, registry.Add("tok-1", clock.Add(time.Minute)))
		require.Equal(t, 1, registry.Len())

		clock = clock.Add(2 * time.Minute)
		require.False(t, registry.IsRevoked("tok-1"))
		require.Equal(t, 0, registry.Len())
	})

	t.Run("double add is a no-op", func(t *testing.T) {
		clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		registry := token.NewInMemoryRegistry(
			token.WithRegistryNowFunc(func() time.Time { return clock }),
		)

		exp := clock.Add(time.Hour)
		require.NoError(t, registry.Add("tok-1", exp))
		require.NoError(t, registry.Add("tok-1", exp))
		require.Equal(t, 1, registry.Len())
		require.True(t, registry.IsRevoked("tok-1"))
	})

	t.Run("cleanup removes only expired entries", func(t *testing.T) {
		clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		registry := token.NewInMemoryRegistry(
			token.WithRegistryNowFunc(func() time.Time { return clock }),
		)

		for i := 0; i < 10; i++ {
			require.NoError(t, registry.Add(fmt.Sprintf("short-%d", i), clock.Add(time.Minute)))
		}
		require.NoError(t, registry.Add("long", clock.Add(time.Hour)))
		require.Equal(t, 11, registry.Len())

		clock = clock.Add(5 * time.Minute)
		registry.Cleanup()
		require.Equal(t, 1, registry.Len())
		require.True(t, registry.IsRevoked("long"))
	})
}

func TestStartSweeper(t *testing.T) {
	t.Run("sweeps expired entries until cancelled", func(t *testing.T) {
		registry := token.NewInMemoryRegistry()
		require.NoError(t, registry.Add("tok-1", time.Now().Add(10*time.Millisecond)))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		token.StartSweeper(ctx, registry, 5*time.Millisecond)

		require.Eventually(t, func() bool {
			return registry.Len() == 0
		}, time.Second, 5*time.Millisecond)
	})
}

func TestRevoke(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := token.NewIssuer(testSecret,
		token.WithLifetime(time.Hour),
		token.WithNowFunc(func() time.Time { return clock }),
	)

	t.Run("live token lands in the registry until its expiry", func(t *testing.T) {
		registry := token.NewInMemoryRegistry(
			token.WithRegistryNowFunc(func() time.Time { return clock }),
		)
		signed, err := issuer.Issue(testSubjectID, "standard")
		require.NoError(t, err)

		require.NoError(t, token.Revoke(registry, signed, clock))
		require.True(t, registry.IsRevoked(signed))
		require.Equal(t, 1, registry.Len())
	})

	t.Run("already expired token is skipped", func(t *testing.T) {
		registry := token.NewInMemoryRegistry()
		signed, err := issuer.Issue(testSubjectID, "standard")
		require.NoError(t, err)

		require.NoError(t, token.Revoke(registry, signed, clock.Add(2*time.Hour)))
		require.Equal(t, 0, registry.Len())
	})

	t.Run("garbage token is skipped", func(t *testing.T) {
		registry := token.NewInMemoryRegistry()
		require.NoError(t, token.Revoke(registry, "not-a-token", clock))
		require.Equal(t, 0, registry.Len())
	})
}

func TestBoltRegistry(t *testing.T) {
	newBolt := func(t *testing.T) *token.BoltRegistry {
		t.Helper()
		registry, err := token.NewBoltRegistry(t.TempDir() + "/revoked.db")
		require.NoError(t, err)
		t.Cleanup(func() { _ = registry.Close() })
		return registry
	}

	t.Run("added token is revoked", func(t *testing.T) {
		registry := newBolt(t)
		require.NoError(t, registry.Add("tok-1", time.Now().Add(time.Hour)))
		require.True(t, registry.IsRevoked("tok-1"))
		require.False(t, registry.IsRevoked("tok-2"))
		require.Equal(t, 1, registry.Len())
	})

	t.Run("expired entry is dropped on lookup", func(t *testing.T) {
		registry := newBolt(t)
		require.NoError(t, registry.Add("tok-1", time.Now().Add(-time.Minute)))
		require.False(t, registry.IsRevoked("tok-1"))
		require.Equal(t, 0, registry.Len())
	})

	t.Run("cleanup removes only expired entries", func(t *testing.T) {
		registry := newBolt(t)
		require.NoError(t, registry.Add("stale", time.Now().Add(-time.Minute)))
		require.NoError(t, registry.Add("live", time.Now().Add(time.Hour)))

		registry.Cleanup()
		require.Equal(t, 1, registry.Len())
		require.True(t, registry.IsRevoked("live"))
	})
}
