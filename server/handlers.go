package server

import (
	"net/http"
	"time"

	"github.com/freshcart/auth-service/token"
)

// LogoutHandler ends the current authentication. Behind RequireAuth, so
// an unauthenticated caller never reaches it. A session caller has the
// session record destroyed; a bearer caller has the presented token
// blacklisted until its natural expiry. Both cookies are cleared either
// way, and repeating the call stays a 200.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if identity.SessionID != "" {
			if err := s.sessions.Delete(identity.SessionID); err != nil {
				s.writeServerError(w, err)
				return
			}
		}

		if identity.BearerToken != "" {
			if err := token.Revoke(s.registry, identity.BearerToken, time.Now()); err != nil {
				s.writeServerError(w, err)
				return
			}
		}

		s.clearCookie(w, r, sessionCookieName)
		s.clearCookie(w, r, tokenCookieName)

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Logged out",
		})
	}
}

// DashboardHandler is a profile-style protected resource: any
// authenticated caller sees their own account.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		account, err := s.accounts.GetByID(r.Context(), identity.AccountID)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"account": account,
		})
	}
}

// AdminHandler is the role-gated example resource.
func (s *Server) AdminHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "admin area",
			"id":      identity.AccountID,
		})
	}
}

func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	}
}
