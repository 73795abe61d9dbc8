package bridge

import (
	"encoding/json"
	"net/http"
	"strings"

	"markdeck/internal/logging"
)

type logsResponse struct {
	Entries []logging.LogEntry `json:"entries"`
	Evicted uint64             `json:"evicted"`
}

// handleLogs serves the in-memory log ring. ?level= sets the minimum level.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	minLevel := logging.LevelDebug
	if raw := strings.TrimSpace(r.URL.Query().Get("level")); raw != "" {
		parsed, ok := logging.ParseLevel(raw)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "invalid level: use debug, info, warning or error",
			})
			return
		}
		minLevel = parsed
	}

	entries := s.options.Logs.Since(minLevel)
	if entries == nil {
		entries = []logging.LogEntry{}
	}
	writeJSON(w, http.StatusOK, logsResponse{
		Entries: entries,
		Evicted: s.options.Logs.Evicted(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
