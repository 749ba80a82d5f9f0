package api

import (
	"net/http"

	"github.com/ayusman/mudra/internal/plugin"
)

// PluginLister lists discovered plugins.
type PluginLister interface {
	List() []*plugin.Plugin
}

// PluginsHandler serves GET /api/plugins.
type PluginsHandler struct {
	plugins PluginLister
}

func NewPluginsHandler(p PluginLister) *PluginsHandler {
	return &PluginsHandler{plugins: p}
}

type pluginResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

func (h *PluginsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	list := h.plugins.List()
	resp := make([]pluginResponse, 0, len(list))
	for _, p := range list {
		actions := p.Manifest.Actions
		if actions == nil {
			actions = []string{}
		}
		resp = append(resp, pluginResponse{
			Name:        p.Manifest.Name,
			Version:     p.Manifest.Version,
			Description: p.Manifest.Description,
			Actions:     actions,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"plugins": resp})
}
