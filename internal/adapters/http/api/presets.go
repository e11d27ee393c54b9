package api

import (
	"net/http"

	"github.com/okian/heartcheck/internal/domain/form"
)

// presetEntry is one demonstration record.
type presetEntry struct {
	Name   string      `json:"name"`
	Record form.Record `json:"record"`
}

// PresetsHandler lists the demonstration presets.
type PresetsHandler struct {
	presets []presetEntry
}

// NewPresetsHandler creates a new presets handler.
func NewPresetsHandler() *PresetsHandler {
	names := form.PresetNames()
	out := make([]presetEntry, 0, len(names))
	for _, name := range names {
		rec, err := form.Preset(name)
		if err != nil {
			continue
		}
		out = append(out, presetEntry{Name: name, Record: rec})
	}
	return &PresetsHandler{presets: out}
}

// HandlePresets handles GET /api/presets requests.
func (h *PresetsHandler) HandlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.presets)
}
