package accounts

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of Repo. It is
// the default store in development and the backing store for tests.
type InMemoryRepo struct {
	mu        sync.RWMutex
	accounts  map[string]*Account
	emailIDs  map[string]string // lowercase email -> account id
	googleIDs map[string]string // google subject id -> account id
	nowFunc   func() time.Time
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		accounts:  make(map[string]*Account),
		emailIDs:  make(map[string]string),
		googleIDs: make(map[string]string),
		nowFunc:   time.Now,
	}
}

func (r *InMemoryRepo) GetByID(_ context.Context, id string) (*Account, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyAccount(account), nil
}

func (r *InMemoryRepo) GetByEmail(_ context.Context, email string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.emailIDs[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return copyAccount(r.accounts[id]), nil
}

func (r *InMemoryRepo) GetByGoogleID(_ context.Context, googleID string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.googleIDs[googleID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyAccount(r.accounts[id]), nil
}

func (r *InMemoryRepo) Create(_ context.Context, account *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(account.Email)
	if _, exists := r.emailIDs[email]; exists {
		return ErrDuplicateEmail
	}

	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.Role == "" {
		account.Role = RoleStandard
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = r.nowFunc()
	}
	account.Email = email

	r.accounts[account.ID] = copyAccount(account)
	r.emailIDs[email] = account.ID
	if account.GoogleID != "" {
		r.googleIDs[account.GoogleID] = account.ID
	}
	return nil
}

func (r *InMemoryRepo) UpsertByGoogleID(_ context.Context, profile GoogleProfile) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Existing account for this subject: refresh the provider token if
	// Google sent a new one, leave everything else alone.
	if id, ok := r.googleIDs[profile.GoogleID]; ok {
		account := r.accounts[id]
		if profile.RefreshToken != "" && profile.RefreshToken != account.RefreshToken {
			account.RefreshToken = profile.RefreshToken
		}
		return copyAccount(account), nil
	}

	// The email may already belong to an account without a Google id
	// (password signup). Creating would leave two accounts sharing one
	// email, which the SQL store's unique index rejects.
	if _, ok := r.emailIDs[strings.ToLower(profile.Email)]; ok {
		return nil, ErrDuplicateEmail
	}

	account := &Account{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(profile.Email),
		DisplayName:  profile.DisplayName,
		GoogleID:     profile.GoogleID,
		RefreshToken: profile.RefreshToken,
		Role:         RoleStandard,
		CreatedAt:    r.nowFunc(),
	}

	r.accounts[account.ID] = account
	r.emailIDs[account.Email] = account.ID
	r.googleIDs[account.GoogleID] = account.ID
	return copyAccount(account), nil
}

func (r *InMemoryRepo) SetRefreshToken(_ context.Context, id, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	account.RefreshToken = refreshToken
	return nil
}

func (r *InMemoryRepo) SetLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	account.LastLogin = r.nowFunc()
	return nil
}

// copyAccount prevents callers from mutating stored records.
func copyAccount(a *Account) *Account {
	c := *a
	return &c
}
