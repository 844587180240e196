package api

import (
	"net/http"
	"time"

	"github.com/tatianab/impact-games/internal/models"
)

// Version information, set at build time via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Message:   "Decision simulation API is running",
		Version:   Version,
		GitCommit: GitCommit,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Scenarios: len(s.catalog.Entries(models.GameFutureDecisions)),
	})
}
