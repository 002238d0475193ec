// internal/handlers/analysis_handlers.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HandleAnalyzeCrop forwards a base64 crop image to the analysis service.
// Error responses here use the {"error": ...} shape the analysis page
// expects, unlike the rest of the API.
func (s *Server) HandleAnalyzeCrop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	if s.Analyzer == nil {
		s.Metrics.IncrementErrors()
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Analysis service not configured"})
		return
	}

	var req struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
		s.Metrics.IncrementErrors()
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "No image provided"})
		return
	}

	diagnosis, err := s.Analyzer.AnalyzeCrop(r.Context(), req.Image)
	if err != nil {
		slog.Error("crop analysis failed", "error", err)
		s.Metrics.IncrementErrors()
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Analysis failed, please try again"})
		return
	}

	respondJSON(w, http.StatusOK, diagnosis)
}
