package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quarkline/jetweight/internal/engine"
	"github.com/quarkline/jetweight/internal/pipeline"
	"github.com/quarkline/jetweight/internal/store"
)

func NewRouter(s store.Store, eng *engine.Engine, lep *engine.LeptonCorrections, p *pipeline.Pipeline, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(240))

	weights := NewWeightsHandler(s, eng, lep, p)
	curves := NewCurvesHandler(eng)
	admin := NewAdminHandler(s, p)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/weights", weights.Compute)
		r.Get("/weights/{event_id}", weights.Get)

		r.Get("/curves/{flavor}", curves.Sample)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
