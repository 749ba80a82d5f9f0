package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ayusman/mudra/internal/app"
)

type stubController struct {
	enabled bool
	stats   app.Stats
}

func (c *stubController) IsEnabled() bool         { return c.enabled }
func (c *stubController) SetEnabled(enabled bool) { c.enabled = enabled }
func (c *stubController) Stats() app.Stats        { return c.stats }
func (c *stubController) EvaluateControl() string { return "evaluate" }

func TestStatusHandler(t *testing.T) {
	ctl := &stubController{stats: app.Stats{Ticks: 7, Intents: map[string]uint64{"move": 3}}}
	h := NewStatusHandler(ctl)

	rec := do(t, h, http.MethodGet, "/api/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}

	var got statusResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Enabled || got.Stats.Ticks != 7 || got.Stats.Intents["move"] != 3 || got.EvaluateControl != "evaluate" {
		t.Errorf("unexpected status %+v", got)
	}

	rec = do(t, h, http.MethodPost, "/api/status", `{"enabled":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST status = %d", rec.Code)
	}
	if !ctl.enabled {
		t.Error("POST should enable the controller")
	}
}

func TestStatusHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"invalid json", http.MethodPost, `nope`, http.StatusBadRequest},
		{"missing enabled", http.MethodPost, `{}`, http.StatusBadRequest},
		{"wrong method", http.MethodDelete, "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, NewStatusHandler(&stubController{}), tt.method, "/api/status", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
