package sessionstore

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Session is the server-side record behind a session cookie. It binds one
// account, expires on idleness and is hard-capped regardless of activity.
type Session struct {
	AccountID string
	Role      string

	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type Repo interface {
	Upsert(sessionID string, session Session) error
	Get(sessionID string) (Session, error)
	// Refresh slides the expiry forward; missing sessions are ignored.
	Refresh(sessionID string, expiresAt time.Time) error
	Delete(sessionID string) error
}
