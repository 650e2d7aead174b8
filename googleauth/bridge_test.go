package googleauth_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/freshcart/auth-service/googleauth"
)

var testEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

func newTestBridge(t *testing.T, options ...googleauth.Option) *googleauth.Bridge {
	t.Helper()
	options = append([]googleauth.Option{googleauth.WithEndpoint(testEndpoint)}, options...)
	bridge, err := googleauth.New(context.Background(),
		"client-id", "client-secret", "http://localhost:8080/auth/google/callback",
		options...,
	)
	require.NoError(t, err)
	return bridge
}

func TestBridge_AuthCodeURL(t *testing.T) {
	bridge := newTestBridge(t)
	u, err := url.Parse(bridge.AuthCodeURL("state-value"))
	require.NoError(t, err)

	require.Equal(t, "accounts.google.com", u.Host)
	q := u.Query()
	require.Equal(t, "state-value", q.Get("state"))
	require.Equal(t, "client-id", q.Get("client_id"))
	require.Equal(t, "offline", q.Get("access_type"))
	require.Equal(t, "consent", q.Get("prompt"))
	require.Contains(t, q.Get("scope"), "email")
}

func TestBridge_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the resolved profile with the refresh token", func(t *testing.T) {
		bridge := newTestBridge(t,
			googleauth.WithExchange(func(ctx context.Context, code string) (*oauth2.Token, error) {
				require.Equal(t, "good-code", code)
				return &oauth2.Token{AccessToken: "at", RefreshToken: "rt-1"}, nil
			}),
			googleauth.WithProfileResolver(func(ctx context.Context, tok *oauth2.Token) (googleauth.Profile, error) {
				return googleauth.Profile{Subject: "sub-1", Email: "jane@example.com", Name: "Jane Doe"}, nil
			}),
		)

		profile, err := bridge.Complete(ctx, "good-code")
		require.NoError(t, err)
		require.Equal(t, "sub-1", profile.Subject)
		require.Equal(t, "jane@example.com", profile.Email)
		require.Equal(t, "Jane Doe", profile.Name)
		require.Equal(t, "rt-1", profile.RefreshToken)
	})

	t.Run("exchange failure surfaces", func(t *testing.T) {
		bridge := newTestBridge(t,
			googleauth.WithExchange(func(ctx context.Context, code string) (*oauth2.Token, error) {
				return nil, errors.New("provider is down")
			}),
		)

		_, err := bridge.Complete(ctx, "any-code")
		require.Error(t, err)
		require.Contains(t, err.Error(), "provider is down")
	})

	t.Run("profile without email fails with the sentinel", func(t *testing.T) {
		bridge := newTestBridge(t,
			googleauth.WithExchange(func(ctx context.Context, code string) (*oauth2.Token, error) {
				return &oauth2.Token{AccessToken: "at"}, nil
			}),
			googleauth.WithProfileResolver(func(ctx context.Context, tok *oauth2.Token) (googleauth.Profile, error) {
				return googleauth.Profile{Subject: "sub-1"}, nil
			}),
		)

		_, err := bridge.Complete(ctx, "any-code")
		require.ErrorIs(t, err, googleauth.ErrMissingEmail)
	})
}
