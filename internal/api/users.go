package api

import (
	"encoding/json"
	"net/http"

	"filevault/internal/logger"
	"filevault/pkg/auth"
	"filevault/pkg/metadata"
)

// handleCreateUser registers a new account.
//
// The stored credential is the SHA-1 digest of the password; the
// plaintext is never persisted. A missing or malformed body reports the
// same way as absent fields.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	// Decode errors leave the fields empty and fall through to the
	// field checks below.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Missing email")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing password")
		return
	}

	user, err := s.metadata.CreateUser(r.Context(), req.Email, auth.Digest(req.Password))
	if err != nil {
		if metadata.IsAlreadyExists(err) {
			writeError(w, http.StatusBadRequest, "Already exist")
			return
		}
		logger.Error("Failed to create user: %v", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// handleMe returns the account behind the X-Token header.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.gate.UserIDFromToken(ctx, r.Header.Get("X-Token"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.metadata.GetUserByID(ctx, userID)
	if err != nil {
		// A live token for a deleted user resolves but has no account.
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
