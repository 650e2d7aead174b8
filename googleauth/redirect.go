package googleauth

import (
	"net/url"
	"strings"
)

// ErrorCode distinguishes callback failures on the sign-in redirect. The
// OAuth flow is a browser redirect chain, so failures land the user on a
// renderable page with one of these codes, never on a JSON error body.
type ErrorCode string

const (
	ErrCodeGoogleIDMissing    ErrorCode = "google_id_missing"
	ErrCodeInvalidRedirectURI ErrorCode = "invalid_redirect_uri"
	ErrCodeUserCreationFailed ErrorCode = "user_creation_failed"
	ErrCodeServerError        ErrorCode = "server_error"
)

// ValidateRedirectTarget checks a client-proposed redirect target against
// the allow-list: after percent-decoding it must start with the
// configured frontend origin exactly. An empty proposal falls back to the
// frontend origin itself.
func ValidateRedirectTarget(raw, frontendURL string) (string, error) {
	if raw == "" {
		return frontendURL, nil
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return "", ErrInvalidRedirectTarget
	}
	if !strings.HasPrefix(decoded, frontendURL) {
		return "", ErrInvalidRedirectTarget
	}
	return decoded, nil
}

// SuccessRedirectURL appends the minted token and identity to the
// validated target as percent-encoded query parameters.
func SuccessRedirectURL(target, token, id, email, displayName string) string {
	u, err := url.Parse(target)
	if err != nil {
		// Target was validated earlier; an unparsable one means the
		// frontend origin itself is broken. Fall back to raw appending.
		return target + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	q.Set("id", id)
	q.Set("email", email)
	q.Set("displayName", displayName)
	u.RawQuery = q.Encode()
	return u.String()
}

// SignInErrorURL points at the frontend sign-in page with a
// distinguishing error code.
func SignInErrorURL(frontendURL string, code ErrorCode) string {
	return strings.TrimRight(frontendURL, "/") + "/signin?error=" + url.QueryEscape(string(code))
}
