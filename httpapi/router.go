// Package httpapi is the HTTP adapter: it maps the seven route handlers
// from spec §6 onto a runtime.Agent, using chi as the reference router
// (the teacher's examples/coding-agent module wires a router the same
// way, via a small handlers struct closing over its runtime composition).
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tegglabs/agentrt/runtime"
)

// NewRouter mounts the seven Agent Runtime Core routes, rooted at
// /api/v1, on a fresh chi router.
func NewRouter(agentRT *runtime.Agent) http.Handler {
	h := &apiHandlers{agent: agentRT}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/threads", h.createThread)
		r.Get("/threads/{id}", h.getThread)

		r.Post("/runs", h.asyncRun)
		r.Post("/runs/stream", h.streamRun)
		r.Post("/runs/wait", h.syncRun)
		r.Get("/runs/{id}", h.getRun)
		r.Post("/runs/{id}/cancel", h.cancelRun)
	})

	return r
}

type apiHandlers struct {
	agent *runtime.Agent
}
