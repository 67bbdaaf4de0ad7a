package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quarkline/jetweight/internal/calib"
	"github.com/quarkline/jetweight/internal/engine"
	"github.com/quarkline/jetweight/internal/event"
	"github.com/quarkline/jetweight/internal/pipeline"
	"github.com/quarkline/jetweight/internal/store"
)

type WeightsHandler struct {
	store    store.Store
	engine   *engine.Engine
	lepton   *engine.LeptonCorrections
	pipeline *pipeline.Pipeline
}

func NewWeightsHandler(s store.Store, eng *engine.Engine, lep *engine.LeptonCorrections, p *pipeline.Pipeline) *WeightsHandler {
	return &WeightsHandler{store: s, engine: eng, lepton: lep, pipeline: p}
}

type JetInput struct {
	Pt     float64 `json:"pt"`
	Flavor string  `json:"flavor"`
	Tagged bool    `json:"tagged"`
}

type ComputeRequest struct {
	EventID   string     `json:"event_id,omitempty"`
	RunNumber int        `json:"run_number,omitempty"`
	Source    string     `json:"source,omitempty"`
	MuonEta   float64    `json:"muon_eta,omitempty"`
	Jets      []JetInput `json:"jets"`
	Persist   bool       `json:"persist,omitempty"`
}

type ComputeResponse struct {
	EventID      string             `json:"event_id"`
	BtagWeight   float64            `json:"btag_weight"`
	LeptonWeight float64            `json:"lepton_weight"`
	TotalWeight  float64            `json:"total_weight"`
	HeavyShift   string             `json:"heavy_shift"`
	LightShift   string             `json:"light_shift"`
	Factors      []engine.JetFactor `json:"factors"`
}

// Compute weights a posted jet collection.
// POST /api/v1/weights
func (h *WeightsHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ev := event.Event{
		RunNumber: req.RunNumber,
		Source:    req.Source,
		MuonEta:   req.MuonEta,
	}
	if req.EventID != "" {
		id, err := uuid.Parse(req.EventID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event_id"})
			return
		}
		ev.ID = id
	} else {
		ev.ID = uuid.New()
	}
	for _, j := range req.Jets {
		flavor, err := calib.ParseFlavor(j.Flavor)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		ev.Jets = append(ev.Jets, event.Jet{Pt: j.Pt, Flavor: flavor, Tagged: j.Tagged})
	}
	if err := ev.Validate(); err != nil {
		writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
		return
	}

	if req.Persist && h.pipeline != nil {
		rec, err := h.pipeline.ProcessEvent(r.Context(), ev)
		if err != nil {
			writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
			return
		}
		factors, _, _ := h.engine.Factors(ev.Jets)
		writeJSON(w, http.StatusOK, ComputeResponse{
			EventID:      rec.EventID.String(),
			BtagWeight:   rec.BtagWeight,
			LeptonWeight: rec.LeptonWeight,
			TotalWeight:  rec.TotalWeight,
			HeavyShift:   rec.HeavyShift,
			LightShift:   rec.LightShift,
			Factors:      factors,
		})
		return
	}

	factors, btagWeight, err := h.engine.Factors(ev.Jets)
	if err != nil {
		writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
		return
	}
	leptonWeight := 1.0
	if h.lepton != nil && h.lepton.Enabled() {
		leptonWeight = h.lepton.Weight(ev.MuonEta)
	}

	writeJSON(w, http.StatusOK, ComputeResponse{
		EventID:      ev.ID.String(),
		BtagWeight:   btagWeight,
		LeptonWeight: leptonWeight,
		TotalWeight:  btagWeight * leptonWeight,
		HeavyShift:   string(h.engine.HeavyShift()),
		LightShift:   string(h.engine.LightShift()),
		Factors:      factors,
	})
}

// Get returns the persisted record for an event.
// GET /api/v1/weights/{event_id}
func (h *WeightsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "event_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event_id"})
		return
	}

	rec, err := h.store.GetRecord(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "record not found"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, calib.ErrDomain):
		return http.StatusUnprocessableEntity
	case errors.Is(err, calib.ErrConfiguration):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
