package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/freshcart/auth-service/accounts"
)

// writeJSON writes any payload with the JSON content type.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeJSONError is the one error body shape every non-redirect endpoint
// uses.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

// writeStoreError maps the credential store's closed error kinds to HTTP
// statuses. The mapping is total: anything outside the known kinds is an
// internal error.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounts.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, accounts.ErrInvalidID):
		writeJSONError(w, http.StatusBadRequest, "invalid account id")
	case errors.Is(err, accounts.ErrDuplicateEmail):
		writeJSONError(w, http.StatusConflict, "email already registered")
	default:
		s.writeServerError(w, err)
	}
}

// writeServerError reports a 500. The underlying message is only exposed
// in development; production callers get a sanitized body.
func (s *Server) writeServerError(w http.ResponseWriter, err error) {
	if err != nil {
		s.logger.Error().Err(err).Msg("internal error")
	}
	message := "internal server error"
	if s.env == "DEV" && err != nil {
		message = err.Error()
	}
	writeJSONError(w, http.StatusInternalServerError, message)
}
