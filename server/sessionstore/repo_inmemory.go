package sessionstore

import (
	"errors"
	"sync"
	"time"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of Repo.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]Session),
	}
}

func (r *InMemoryRepo) Upsert(sessionID string, session Session) error {
	if sessionID == "" {
		return errors.New("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sessionID] = session
	return nil
}

func (r *InMemoryRepo) Get(sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

func (r *InMemoryRepo) Refresh(sessionID string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	session.ExpiresAt = expiresAt
	r.sessions[sessionID] = session
	return nil
}

func (r *InMemoryRepo) Delete(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}
