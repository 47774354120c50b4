package handlers

import "net/http"

// HealthHandler reports liveness and the size of the loaded reference data
type HealthHandler struct {
	Countries     int
	LegalSuffixes int
	Version       string
}

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version,omitempty"`
	Countries     int    `json:"countries"`
	LegalSuffixes int    `json:"legal_suffixes"`
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Version:       h.Version,
		Countries:     h.Countries,
		LegalSuffixes: h.LegalSuffixes,
	})
}
