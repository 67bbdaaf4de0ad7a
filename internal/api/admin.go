package api

import (
	"net/http"

	"github.com/quarkline/jetweight/internal/pipeline"
	"github.com/quarkline/jetweight/internal/store"
)

type AdminHandler struct {
	store    store.Store
	pipeline *pipeline.Pipeline
}

func NewAdminHandler(s store.Store, p *pipeline.Pipeline) *AdminHandler {
	return &AdminHandler{store: s, pipeline: p}
}

// Stats merges the persisted totals with the in-memory totals since
// process start.
// GET /api/v1/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{}

	if h.pipeline != nil {
		resp["session"] = h.pipeline.Snapshot()
	}
	if h.store != nil {
		stored, err := h.store.GetStats(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		resp["stored"] = stored
	}

	writeJSON(w, http.StatusOK, resp)
}
