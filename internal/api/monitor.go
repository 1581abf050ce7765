package api

import (
	"net/http"
)

// handleStatus reports whether the session and metadata stores hold live
// connections. Always 200; the booleans carry the health information.
// Reads only local handle state, so repeated polling is side-effect free.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"redis": s.sessions.Alive(),
		"db":    s.metadata.Alive(),
	})
}

// handleStats reports collection totals straight from the metadata store.
// No caching; every request is a fresh count.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := s.metadata.CountUsers(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	files, err := s.metadata.CountFiles(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{
		"users": users,
		"files": files,
	})
}
