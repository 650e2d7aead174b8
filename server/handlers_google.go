package server

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/freshcart/auth-service/accounts"
	"github.com/freshcart/auth-service/googleauth"
	"github.com/freshcart/auth-service/server/sessionstore"
)

// GoogleLoginHandler is the redirect-out step. The optional redirect_uri
// query value is validated against the frontend origin before being
// carried through the provider's state parameter. This is the one OAuth
// failure that may answer with a body instead of a redirect: the user is
// still on our origin.
func (s *Server) GoogleLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := googleauth.ValidateRedirectTarget(
			r.URL.Query().Get("redirect_uri"),
			s.config.GetFrontendURL(),
		)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid redirect target")
			return
		}

		state := url.QueryEscape(target)
		http.Redirect(w, r, s.bridge.AuthCodeURL(state), http.StatusSeeOther)
	}
}

// GoogleCallbackHandler is the callback step: code exchange, profile
// resolution, account upsert, token mint, redirect. The user is
// mid-redirect, so every failure lands on the sign-in page with an error
// code - never a JSON body.
func (s *Server) GoogleCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		frontend := s.config.GetFrontendURL()

		fail := func(code googleauth.ErrorCode, err error) {
			if err != nil {
				s.logger.Error().Err(err).Str("error_code", string(code)).Msg("google callback failed")
			}
			http.Redirect(w, r, googleauth.SignInErrorURL(frontend, code), http.StatusSeeOther)
		}

		if errParam := r.URL.Query().Get("error"); errParam != "" {
			fail(googleauth.ErrCodeServerError, errors.New("provider error: "+errParam))
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			fail(googleauth.ErrCodeServerError, errors.New("missing authorization code"))
			return
		}

		// Re-validate the echoed state; a tampered redirect target must
		// not become an open redirect.
		state, err := url.QueryUnescape(r.URL.Query().Get("state"))
		if err != nil {
			fail(googleauth.ErrCodeInvalidRedirectURI, err)
			return
		}
		target, err := googleauth.ValidateRedirectTarget(state, frontend)
		if err != nil {
			fail(googleauth.ErrCodeInvalidRedirectURI, err)
			return
		}

		profile, err := s.bridge.Complete(r.Context(), code)
		if err != nil {
			if errors.Is(err, googleauth.ErrMissingEmail) {
				fail(googleauth.ErrCodeGoogleIDMissing, err)
			} else {
				fail(googleauth.ErrCodeServerError, err)
			}
			return
		}

		account, err := s.accounts.UpsertByGoogleID(r.Context(), accounts.GoogleProfile{
			GoogleID:     profile.Subject,
			Email:        profile.Email,
			DisplayName:  profile.Name,
			RefreshToken: profile.RefreshToken,
		})
		if err != nil {
			fail(googleauth.ErrCodeUserCreationFailed, err)
			return
		}

		if err := s.accounts.SetLastLogin(r.Context(), account.ID); err != nil {
			s.logger.Warn().Err(err).Str("account_id", account.ID).Msg("failed to record login time")
		}

		bearer, err := s.issuer.Issue(account.ID, string(account.Role))
		if err != nil {
			fail(googleauth.ErrCodeServerError, err)
			return
		}

		// Establish a server-side session alongside the bearer token so
		// either verification path works for this login.
		now := time.Now()
		sessionID := generateRandomString(32)
		err = s.sessions.Upsert(sessionID, sessionstore.Session{
			AccountID: account.ID,
			Role:      string(account.Role),
			CreatedAt: now,
			ExpiresAt: now.Add(s.config.GetSessionMaxAge()),
		})
		if err != nil {
			fail(googleauth.ErrCodeServerError, err)
			return
		}
		s.SetSessionCookie(w, r, sessionID)

		redirect := googleauth.SuccessRedirectURL(target, bearer, account.ID, account.Email, account.DisplayName)
		http.Redirect(w, r, redirect, http.StatusSeeOther)
	}
}
