package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"tabprep/internal/cleanse"
	"tabprep/internal/config"
	"tabprep/internal/infrastructure"
	"tabprep/internal/pipeline"
)

// RouterDeps carries the dependencies the router wires into handlers.
type RouterDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Providers *infrastructure.OTelProviders
	Tracer    *pipeline.Tracer
	Version   string
}

// NewRouter builds the HTTP router with the cleanse, health, and metrics
// endpoints.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if deps.Config.Server.RateLimit.Enabled {
		r.Use(RateLimit(deps.Config.Server.RateLimit.RPS, deps.Config.Server.RateLimit.Burst))
	}

	cleanseHandler := NewCleanseHandler(
		deps.Logger,
		cleanse.Options{Workers: deps.Config.Pipeline.Workers},
		deps.Tracer,
		deps.Config.Server.MaxBodyBytes,
	)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{
			"status":  "ok",
			"version": deps.Version,
		})
	})

	if deps.Providers != nil && deps.Providers.PrometheusHTTP != nil {
		r.Handle("/metrics", deps.Providers.PrometheusHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/cleanse", cleanseHandler.Cleanse)
	})

	return r
}
