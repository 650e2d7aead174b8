package googleauth_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freshcart/auth-service/googleauth"
)

const frontendURL = "http://localhost:3000"

func TestValidateRedirectTarget(t *testing.T) {
	t.Run("empty falls back to the frontend origin", func(t *testing.T) {
		target, err := googleauth.ValidateRedirectTarget("", frontendURL)
		require.NoError(t, err)
		require.Equal(t, frontendURL, target)
	})

	t.Run("frontend path is allowed", func(t *testing.T) {
		target, err := googleauth.ValidateRedirectTarget(frontendURL+"/orders", frontendURL)
		require.NoError(t, err)
		require.Equal(t, frontendURL+"/orders", target)
	})

	t.Run("percent-encoded frontend path is decoded", func(t *testing.T) {
		target, err := googleauth.ValidateRedirectTarget(url.QueryEscape(frontendURL+"/orders"), frontendURL)
		require.NoError(t, err)
		require.Equal(t, frontendURL+"/orders", target)
	})

	t.Run("foreign origin is rejected", func(t *testing.T) {
		_, err := googleauth.ValidateRedirectTarget("https://evil.example.com", frontendURL)
		require.ErrorIs(t, err, googleauth.ErrInvalidRedirectTarget)
	})

	t.Run("bad percent encoding is rejected", func(t *testing.T) {
		_, err := googleauth.ValidateRedirectTarget("%zz", frontendURL)
		require.ErrorIs(t, err, googleauth.ErrInvalidRedirectTarget)
	})
}

func TestSuccessRedirectURL(t *testing.T) {
	t.Run("carries token and identity as query parameters", func(t *testing.T) {
		redirect := googleauth.SuccessRedirectURL(frontendURL+"/welcome", "tok-abc", "id-1", "jane@example.com", "Jane Doe")

		u, err := url.Parse(redirect)
		require.NoError(t, err)
		require.Equal(t, "/welcome", u.Path)

		q := u.Query()
		require.Equal(t, "tok-abc", q.Get("token"))
		require.Equal(t, "id-1", q.Get("id"))
		require.Equal(t, "jane@example.com", q.Get("email"))
		require.Equal(t, "Jane Doe", q.Get("displayName"))
	})
}

func TestSignInErrorURL(t *testing.T) {
	require.Equal(t,
		frontendURL+"/signin?error=server_error",
		googleauth.SignInErrorURL(frontendURL, googleauth.ErrCodeServerError),
	)
	require.Equal(t,
		frontendURL+"/signin?error=google_id_missing",
		googleauth.SignInErrorURL(frontendURL+"/", googleauth.ErrCodeGoogleIDMissing),
	)
}
