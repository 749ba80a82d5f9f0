package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/store"
)

type fakeController struct {
	enabled bool
}

func (c *fakeController) IsEnabled() bool         { return c.enabled }
func (c *fakeController) SetEnabled(enabled bool) { c.enabled = enabled }
func (c *fakeController) Stats() app.Stats        { return app.Stats{Ticks: 1} }
func (c *fakeController) EvaluateControl() string { return "evaluate" }

func TestAPI_BindingWorkflow(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	reloads := 0
	srv := New(Config{
		Store:             s,
		Controller:        &fakeController{},
		OnBindingsChanged: func() error { reloads++; return nil },
		Log:               zerolog.Nop(),
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	body := `{"control":"evaluate","plugin_name":"keyboard","action_name":"keystroke","params":{"key":"="}}`
	resp, err := client.Post(ts.URL+"/api/bindings", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST /api/bindings error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	b, err := s.Bindings().GetByControl("evaluate")
	if err != nil {
		t.Fatalf("binding not stored: %v", err)
	}
	if b.PluginName != "keyboard" {
		t.Errorf("stored plugin = %q", b.PluginName)
	}
	if reloads != 1 {
		t.Errorf("reloads = %d, want 1", reloads)
	}

	resp, err = client.Post(ts.URL+"/api/status", "application/json", bytes.NewBufferString(`{"enabled":true}`))
	if err != nil {
		t.Fatalf("POST /api/status error = %v", err)
	}
	var status struct {
		Enabled bool `json:"enabled"`
	}
	json.NewDecoder(resp.Body).Decode(&status)
	resp.Body.Close()
	if !status.Enabled {
		t.Error("status should report enabled after POST")
	}
}
