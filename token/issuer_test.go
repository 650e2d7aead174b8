package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/freshcart/auth-service/token"
)

const (
	testSecret    = "test-signing-secret"
	testSubjectID = "account-123"
)

func TestIssuer_IssueAndVerify(t *testing.T) {
	t.Run("roundtrip preserves subject and role", func(t *testing.T) {
		issuer := token.NewIssuer(testSecret)
		signed, err := issuer.Issue(testSubjectID, "admin")
		require.NoError(t, err)

		claims, err := issuer.Verify(signed)
		require.NoError(t, err)
		require.Equal(t, testSubjectID, claims.SubjectID)
		require.Equal(t, "admin", claims.Role)
	})

	t.Run("issuer and audience claims roundtrip", func(t *testing.T) {
		issuer := token.NewIssuer(testSecret,
			token.WithIssuer("http://localhost:8080"),
			token.WithAudience("http://localhost:3000"),
		)
		signed, err := issuer.Issue(testSubjectID, "standard")
		require.NoError(t, err)

		_, err = issuer.Verify(signed)
		require.NoError(t, err)
	})

	t.Run("two tokens for the same subject differ", func(t *testing.T) {
		issuer := token.NewIssuer(testSecret)
		first, err := issuer.Issue(testSubjectID, "standard")
		require.NoError(t, err)
		second, err := issuer.Issue(testSubjectID, "standard")
		require.NoError(t, err)
		require.NotEqual(t, first, second)
	})
}

func TestIssuer_Verify_Expiry(t *testing.T) {
	t.Run("expired token fails with the expiry error", func(t *testing.T) {
		clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		issuer := token.NewIssuer(testSecret,
			token.WithLifetime(time.Hour),
			token.WithNowFunc(func() time.Time { return clock }),
		)
		signed, err := issuer.Issue(testSubjectID, "standard")
		require.NoError(t, err)

		clock = clock.Add(2 * time.Hour)
		_, err = issuer.Verify(signed)
		require.ErrorIs(t, err, token.ErrExpiredToken)
	})

	t.Run("token just inside its lifetime still verifies", func(t *testing.T) {
		clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		issuer := token.NewIssuer(testSecret,
			token.WithLifetime(time.Hour),
			token.WithNowFunc(func() time.Time { return clock }),
		)
		signed, err := issuer.Issue(testSubjectID, "standard")
		require.NoError(t, err)

		clock = clock.Add(59 * time.Minute)
		_, err = issuer.Verify(signed)
		require.NoError(t, err)
	})
}

func TestIssuer_Verify_Malformed(t *testing.T) {
	issuer := token.NewIssuer(testSecret)

	t.Run("garbage input", func(t *testing.T) {
		_, err := issuer.Verify("not.a.token")
		require.ErrorIs(t, err, token.ErrMalformedToken)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := issuer.Verify("")
		require.ErrorIs(t, err, token.ErrMalformedToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := token.NewIssuer("a-different-secret")
		signed, err := other.Issue(testSubjectID, "standard")
		require.NoError(t, err)

		_, err = issuer.Verify(signed)
		require.ErrorIs(t, err, token.ErrMalformedToken)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		strict := token.NewIssuer(testSecret, token.WithIssuer("http://localhost:8080"))
		signed, err := issuer.Issue(testSubjectID, "standard")
		require.NoError(t, err)

		_, err = strict.Verify(signed)
		require.ErrorIs(t, err, token.ErrMalformedToken)
	})

	t.Run("audience mismatch", func(t *testing.T) {
		strict := token.NewIssuer(testSecret, token.WithAudience("http://localhost:3000"))
		signed, err := issuer.Issue(testSubjectID, "standard")
		require.NoError(t, err)

		_, err = strict.Verify(signed)
		require.ErrorIs(t, err, token.ErrMalformedToken)
	})

	t.Run("expiry beats other defects in reporting", func(t *testing.T) {
		// An expired token is reported as expired, not as generically
		// invalid, so clients can distinguish re-login from tampering.
		clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		past := token.NewIssuer(testSecret,
			token.WithLifetime(time.Minute),
			token.WithNowFunc(func() time.Time { return clock.Add(-time.Hour) }),
		)
		signed, err := past.Issue(testSubjectID, "standard")
		require.NoError(t, err)

		now := token.NewIssuer(testSecret, token.WithNowFunc(func() time.Time { return clock }))
		_, err = now.Verify(signed)
		require.ErrorIs(t, err, token.ErrExpiredToken)
	})
}
