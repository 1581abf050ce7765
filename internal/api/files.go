package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"filevault/internal/logger"
	"filevault/pkg/files"
)

// handleUpload creates a file, image, or folder document for the
// authenticated user. Authentication is checked before the body is
// inspected, so a bad token on a malformed request still reports 401.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.gate.UserIDFromToken(ctx, r.Header.Get("X-Token"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req files.UploadRequest
	// Decode errors leave the fields empty; the pipeline's own shape
	// validation reports them field by field.
	_ = json.NewDecoder(r.Body).Decode(&req)

	doc, err := s.files.Upload(ctx, userID, &req)
	if err != nil {
		var pipelineErr *files.Error
		if errors.As(err, &pipelineErr) {
			status := http.StatusBadRequest
			if pipelineErr.Code == files.CodeStorageDir {
				status = http.StatusInternalServerError
			}
			writeError(w, status, pipelineErr.Message)
			return
		}
		logger.Error("Upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}
