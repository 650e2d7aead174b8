package server

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
)

const (
	// sessionCookieName carries the server-side session reference.
	sessionCookieName = "session_id"
	// tokenCookieName is the optional bearer cookie some clients set;
	// the gate never reads it but logout clears it.
	tokenCookieName = "token"
)

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		// The platform CSPRNG is unavailable; session ids must not be
		// guessable, so there is nothing sensible to fall back to.
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// cookieSameSite is Strict in production, Lax otherwise so local
// cross-port development keeps working.
func (s *Server) cookieSameSite() http.SameSite {
	if s.config.IsProduction() {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}

func (s *Server) SetSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.IsProduction() || getScheme(r) == "https",
		SameSite: s.cookieSameSite(),
		MaxAge:   int(s.config.GetSessionMaxAge().Seconds()),
	})
}

func (s *Server) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.IsProduction() || getScheme(r) == "https",
		SameSite: s.cookieSameSite(),
		MaxAge:   -1,
	})
}
