package api

import (
	"net/http"

	"filevault/internal/logger"
)

// handleConnect exchanges Basic credentials for an opaque session token.
// This is the only endpoint that reads the Authorization header; every
// other protected endpoint takes the token via X-Token.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := s.gate.UserFromBasic(ctx, r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		logger.Error("Failed to issue session token: %v", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleDisconnect revokes the presented token. The token must still
// resolve; revoking with a stale or bogus token is an auth failure, not
// a silent no-op.
func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := r.Header.Get("X-Token")

	if _, err := s.gate.UserIDFromToken(ctx, token); err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := s.sessions.Revoke(ctx, token); err != nil {
		logger.Error("Failed to revoke session token: %v", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
