package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/freshcart/auth-service/accounts"
	"github.com/freshcart/auth-service/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyIdentity stores the resolved caller identity.
const ContextKeyIdentity ContextKey = "identity"

// Identity is the caller resolved by the gate, threaded to handlers
// through the request context rather than by mutating shared request
// state.
type Identity struct {
	AccountID string
	Role      accounts.RoleType

	// Exactly one of these is set, recording which path authenticated
	// the request.
	SessionID   string
	BearerToken string
}

func withIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, identity)
}

// IdentityFromContext returns the identity established by the gate.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(ContextKeyIdentity).(Identity)
	return identity, ok
}

// RequireSession is middleware for routes that only accept an
// established server-side session.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			identity, ok := s.resolveSession(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next(w, r.WithContext(withIdentity(r.Context(), identity)))
		}
	}
}

// RequireBearer is middleware for routes that only accept an
// Authorization: Bearer token.
func (s *Server) RequireBearer() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			identity, ok := s.resolveBearer(w, r)
			if !ok {
				return // resolveBearer has written the response
			}
			next(w, r.WithContext(withIdentity(r.Context(), identity)))
		}
	}
}

// RequireAuth accepts either verification path: session first, bearer as
// the fallback.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if identity, ok := s.resolveSession(r); ok {
				next(w, r.WithContext(withIdentity(r.Context(), identity)))
				return
			}
			identity, ok := s.resolveBearer(w, r)
			if !ok {
				return
			}
			next(w, r.WithContext(withIdentity(r.Context(), identity)))
		}
	}
}

// RequireAdmin gates on the administrator role. Chained after an identity
// middleware; a known caller without the role is Forbidden, not
// Unauthenticated.
func (s *Server) RequireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if identity.Role != accounts.RoleAdmin {
				writeJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next(w, r)
		}
	}
}

// resolveSession checks the session cookie against the server-side store.
// A live session is idle-refreshed up to the absolute cap.
func (s *Server) resolveSession(r *http.Request) (Identity, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return Identity{}, false
	}

	session, err := s.sessions.Get(cookie.Value)
	if err != nil {
		return Identity{}, false
	}

	now := time.Now()
	if session.Expired(now) {
		_ = s.sessions.Delete(cookie.Value)
		return Identity{}, false
	}

	refreshed := now.Add(s.config.GetSessionMaxAge())
	if limit := session.CreatedAt.Add(s.config.GetSessionAbsoluteCap()); refreshed.After(limit) {
		refreshed = limit
	}
	_ = s.sessions.Refresh(cookie.Value, refreshed)

	return Identity{
		AccountID: session.AccountID,
		Role:      accounts.RoleType(session.Role),
		SessionID: cookie.Value,
	}, true
}

// resolveBearer verifies the Authorization header token: signature and
// expiry via the issuer, then the revocation registry, then the
// credential store (a token for a deleted account is invalid). It writes
// the 401 response itself so the expired case keeps its distinguishing
// message.
func (s *Server) resolveBearer(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	raw, ok := bearerToken(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return Identity{}, false
	}

	claims, err := s.issuer.Verify(raw)
	if err == nil && s.registry.IsRevoked(raw) {
		err = token.ErrRevokedToken
	}
	if err != nil {
		if errors.Is(err, token.ErrExpiredToken) {
			writeJSONError(w, http.StatusUnauthorized, "Token has expired")
		} else {
			writeJSONError(w, http.StatusUnauthorized, "Invalid token")
		}
		return Identity{}, false
	}

	account, err := s.accounts.GetByID(r.Context(), claims.SubjectID)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "Invalid token")
		return Identity{}, false
	}

	return Identity{
		AccountID:   account.ID,
		Role:        account.Role,
		BearerToken: raw,
	}, true
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
