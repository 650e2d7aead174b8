package token

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Registry tracks explicitly invalidated tokens until their natural
// expiry. The contract is identical whether the backing store is a
// process-local map or an external TTL-capable key-value store; a
// multi-instance deployment swaps the implementation, not the callers.
type Registry interface {
	// Add blacklists a token until exp. Re-adding an already blacklisted
	// token is a silent no-op.
	Add(token string, exp time.Time) error
	// IsRevoked reports whether the token is currently blacklisted. An
	// entry past its own expiry is removed as a side effect and reported
	// as not revoked.
	IsRevoked(token string) bool
	// Cleanup removes every entry whose expiry has passed.
	Cleanup()
	// Len returns the number of live entries.
	Len() int
}

// InMemoryRegistry is the single-node implementation: a mutex-guarded
// table of token -> expiry. Memory stays bounded through lazy deletion on
// lookup plus the periodic sweep.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	nowFunc func() time.Time
}

type RegistryOption func(*InMemoryRegistry)

func WithRegistryNowFunc(now func() time.Time) RegistryOption {
	return func(r *InMemoryRegistry) {
		r.nowFunc = now
	}
}

func NewInMemoryRegistry(options ...RegistryOption) *InMemoryRegistry {
	r := &InMemoryRegistry{
		revoked: make(map[string]time.Time),
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *InMemoryRegistry) Add(token string, exp time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.revoked[token]; exists {
		return nil
	}
	r.revoked[token] = exp
	return nil
}

func (r *InMemoryRegistry) IsRevoked(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, exists := r.revoked[token]
	if !exists {
		return false
	}
	if r.nowFunc().After(exp) {
		delete(r.revoked, token)
		return false
	}
	return true
}

func (r *InMemoryRegistry) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.nowFunc()
	for token, exp := range r.revoked {
		if now.After(exp) {
			delete(r.revoked, token)
		}
	}
}

func (r *InMemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.revoked)
}

// StartSweeper runs registry.Cleanup on a fixed interval until the
// context is cancelled. The sweep is a bounded linear scan, so a tick
// never holds the registry lock for long.
func StartSweeper(ctx context.Context, registry Registry, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				registry.Cleanup()
			}
		}
	}()
}

// Revoke blacklists a presented bearer token for the remainder of its own
// lifetime. The token is decoded without signature verification just to
// read the exp claim; a token with no exp, or one already past it, has
// nothing left to revoke and is skipped.
func Revoke(registry Registry, rawToken string, now time.Time) error {
	parsed, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if err != nil {
		return nil
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if !exp.Time.After(now) {
		return nil
	}

	return registry.Add(rawToken, exp.Time)
}
