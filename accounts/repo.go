package accounts

import (
	"context"
	"errors"
)

// Closed set of error kinds returned by every Repo implementation. The
// HTTP layer maps these to status codes with a total switch; it never
// inspects driver-specific error fields.
var (
	ErrNotFound       = errors.New("account not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrInvalidID      = errors.New("invalid account id")
)

// GoogleProfile is the slice of an OAuth profile the store needs to
// create or refresh an account.
type GoogleProfile struct {
	GoogleID     string
	Email        string
	DisplayName  string
	RefreshToken string
}

type Repo interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByGoogleID(ctx context.Context, googleID string) (*Account, error)
	Create(ctx context.Context, account *Account) error

	// UpsertByGoogleID atomically creates an account for a new Google
	// subject or updates the stored refresh token of an existing one.
	// Concurrent calls for the same subject must yield exactly one account.
	UpsertByGoogleID(ctx context.Context, profile GoogleProfile) (*Account, error)

	SetRefreshToken(ctx context.Context, id, refreshToken string) error
	SetLastLogin(ctx context.Context, id string) error
}
