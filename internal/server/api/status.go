package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/app"
)

// Controller is the part of the poll loop the status endpoint drives.
type Controller interface {
	IsEnabled() bool
	SetEnabled(enabled bool)
	Stats() app.Stats
	EvaluateControl() string
}

// StatusHandler serves /api/status.
type StatusHandler struct {
	ctl Controller
}

// NewStatusHandler creates a StatusHandler for ctl.
func NewStatusHandler(ctl Controller) *StatusHandler {
	return &StatusHandler{ctl: ctl}
}

type statusResponse struct {
	Enabled         bool      `json:"enabled"`
	EvaluateControl string    `json:"evaluate_control"`
	Stats           app.Stats `json:"stats"`
}

type setStatusRequest struct {
	Enabled *bool `json:"enabled"`
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		var req setStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "enabled is required")
			return
		}
		h.ctl.SetEnabled(*req.Enabled)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Enabled:         h.ctl.IsEnabled(),
		EvaluateControl: h.ctl.EvaluateControl(),
		Stats:           h.ctl.Stats(),
	})
}
