package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quarkline/jetweight/internal/calib"
	"github.com/quarkline/jetweight/internal/engine"
)

type CurvesHandler struct {
	engine *engine.Engine
}

func NewCurvesHandler(eng *engine.Engine) *CurvesHandler {
	return &CurvesHandler{engine: eng}
}

type CurvePoint struct {
	Pt         float64 `json:"pt"`
	Scale      float64 `json:"scale"`
	ScalePlus  float64 `json:"scale_plus"`
	ScaleMinus float64 `json:"scale_minus"`
	Efficiency float64 `json:"efficiency"`
}

// Sample evaluates a flavor's calibration pair over a pt range, for
// inspection and plotting.
// GET /api/v1/curves/{flavor}?pt_min=20&pt_max=670&points=50
func (h *CurvesHandler) Sample(w http.ResponseWriter, r *http.Request) {
	flavor, err := calib.ParseFlavor(chi.URLParam(r, "flavor"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ptMin := queryFloat(r, "pt_min", 20)
	ptMax := queryFloat(r, "pt_max", 670)
	points := queryInt(r, "points", 50)
	if ptMin < 0 || ptMax <= ptMin || points < 2 || points > 1000 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sampling range"})
		return
	}

	pair, err := h.engine.LookupPair(flavor)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	step := (ptMax - ptMin) / float64(points-1)
	samples := make([]CurvePoint, 0, points)
	for i := 0; i < points; i++ {
		pt := ptMin + float64(i)*step
		samples = append(samples, CurvePoint{
			Pt:         pt,
			Scale:      pair.Scale.Value(pt),
			ScalePlus:  pair.Scale.ValuePlus(pt),
			ScaleMinus: pair.Scale.ValueMinus(pt),
			Efficiency: pair.Eff.Value(pt),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"flavor":  flavor,
		"samples": samples,
	})
}

func queryFloat(r *http.Request, key string, def float64) float64 {
	if v := r.URL.Query().Get(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
