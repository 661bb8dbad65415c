package server

import (
	"net/http"
	"runtime"
	"time"
)

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	API       string `json:"api"`
	Sessions  int    `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	n, err := s.store.CountSessions(r.Context())
	if err != nil {
		s.logger.Error("health: session store unavailable", "error", err)
		respondError(w, reqID, http.StatusServiceUnavailable, "session store unavailable")
		return
	}

	respondOK(w, reqID, healthResponse{
		Status:    "healthy",
		Version:   Version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		API:       s.config.APIURL,
		Sessions:  n,
	})
}
