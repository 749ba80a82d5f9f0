package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// PluginLookup resolves plugins by name.
type PluginLookup interface {
	Get(name string) (*plugin.Plugin, error)
}

// BindingHandler serves /api/bindings.
type BindingHandler struct {
	store    *store.Store
	plugins  PluginLookup
	onChange func() error
	log      zerolog.Logger
}

// NewBindingHandler creates a BindingHandler. plugins may be nil to skip
// plugin validation; onChange, when set, runs after every successful write.
func NewBindingHandler(s *store.Store, plugins PluginLookup, onChange func() error, log zerolog.Logger) *BindingHandler {
	return &BindingHandler{store: s, plugins: plugins, onChange: onChange, log: log}
}

func (h *BindingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// /api/bindings or /api/bindings/{id}
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/bindings"), "/")

	if id == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type bindingRequest struct {
	Control    string          `json:"control"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Params     json.RawMessage `json:"params"`
	Enabled    *bool           `json:"enabled"`
}

type bindingResponse struct {
	ID         string          `json:"id"`
	Control    string          `json:"control"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Params     json.RawMessage `json:"params"`
	Enabled    bool            `json:"enabled"`
	CreatedAt  string          `json:"created_at"`
}

type listBindingsResponse struct {
	Bindings []bindingResponse `json:"bindings"`
}

func toBindingResponse(b *store.Binding) bindingResponse {
	params := b.Params
	if len(params) == 0 {
		params = json.RawMessage("{}")
	}
	return bindingResponse{
		ID:         b.ID,
		Control:    b.Control,
		PluginName: b.PluginName,
		ActionName: b.ActionName,
		Params:     params,
		Enabled:    b.Enabled,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}

func (h *BindingHandler) list(w http.ResponseWriter) {
	bindings, err := h.store.Bindings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bindings")
		return
	}

	resp := listBindingsResponse{Bindings: make([]bindingResponse, 0, len(bindings))}
	for _, b := range bindings {
		resp.Bindings = append(resp.Bindings, toBindingResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BindingHandler) get(w http.ResponseWriter, id string) {
	b, err := h.store.Bindings().GetByID(id)
	if err != nil {
		h.storeError(w, err, "Failed to get binding")
		return
	}
	writeJSON(w, http.StatusOK, toBindingResponse(b))
}

func (h *BindingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req bindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch {
	case req.Control == "":
		writeError(w, http.StatusBadRequest, "control is required")
		return
	case req.PluginName == "":
		writeError(w, http.StatusBadRequest, "plugin_name is required")
		return
	case req.ActionName == "":
		writeError(w, http.StatusBadRequest, "action_name is required")
		return
	}

	b := &store.Binding{
		Control:    req.Control,
		PluginName: req.PluginName,
		ActionName: req.ActionName,
		Params:     req.Params,
		Enabled:    req.Enabled == nil || *req.Enabled,
	}
	if msg := h.checkPlugin(b); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.Bindings().Create(b); err != nil {
		h.storeError(w, err, "Failed to create binding")
		return
	}

	h.changed()
	writeJSON(w, http.StatusCreated, toBindingResponse(b))
}

func (h *BindingHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	b, err := h.store.Bindings().GetByID(id)
	if err != nil {
		h.storeError(w, err, "Failed to get binding")
		return
	}

	var req bindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Control != "" {
		b.Control = req.Control
	}
	if req.PluginName != "" {
		b.PluginName = req.PluginName
	}
	if req.ActionName != "" {
		b.ActionName = req.ActionName
	}
	if req.Params != nil {
		b.Params = req.Params
	}
	if req.Enabled != nil {
		b.Enabled = *req.Enabled
	}
	if msg := h.checkPlugin(b); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.Bindings().Update(b); err != nil {
		h.storeError(w, err, "Failed to update binding")
		return
	}

	h.changed()
	writeJSON(w, http.StatusOK, toBindingResponse(b))
}

func (h *BindingHandler) delete(w http.ResponseWriter, id string) {
	if err := h.store.Bindings().Delete(id); err != nil {
		h.storeError(w, err, "Failed to delete binding")
		return
	}

	h.changed()
	w.WriteHeader(http.StatusNoContent)
}

// checkPlugin returns a client error message when b names an unknown plugin
// or an action its manifest does not list.
func (h *BindingHandler) checkPlugin(b *store.Binding) string {
	if len(b.Params) > 0 && !json.Valid(b.Params) {
		return "params must be valid JSON"
	}
	if h.plugins == nil {
		return ""
	}
	p, err := h.plugins.Get(b.PluginName)
	if err != nil {
		return "Plugin not found"
	}
	if len(p.Manifest.Actions) > 0 && !p.Manifest.Supports(b.ActionName) {
		return "Plugin does not support action " + b.ActionName
	}
	return ""
}

func (h *BindingHandler) storeError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Binding not found")
	case errors.Is(err, store.ErrDuplicateControl):
		writeError(w, http.StatusConflict, "Control already bound")
	default:
		h.log.Error().Err(err).Msg(msg)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func (h *BindingHandler) changed() {
	if h.onChange == nil {
		return
	}
	if err := h.onChange(); err != nil {
		h.log.Error().Err(err).Msg("rebinding controls failed")
	}
}
