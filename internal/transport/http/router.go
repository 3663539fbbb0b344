package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rlunar/ionize/internal/metrics"
)

// NewRouter mounts the page handler and the operational endpoints.
func NewRouter(pages *PageHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz)
	r.Handle("/metrics", metrics.Handler())

	r.Get("/*", pages.ServePage)
	r.Post("/*", pages.ServePage)

	return r
}
