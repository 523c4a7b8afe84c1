package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nhle/workstatus/internal/actions"
	"github.com/nhle/workstatus/internal/logging"
)

// NewRouter wires the status routes and middleware. Every request gets
// its own deadline of requestTimeout; zero disables it.
func NewRouter(
	q actions.Querier,
	registry *actions.Registry,
	logger *logging.Logger,
	requestTimeout time.Duration,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware(logger))
	r.Use(RecoveryMiddleware(logger))
	if requestTimeout > 0 {
		r.Use(TimeoutMiddleware(requestTimeout))
	}

	h := &handlers{q: q, registry: registry}

	r.Get("/health", HealthHandler)

	r.Get("/actions", h.listActions)
	r.Post("/actions/{name}", h.runAction)

	r.Get("/issues/{key}", h.issue)
	r.Get("/projects/{key}/sprint", h.sprint)
	r.Get("/repos/{owner}/{repo}/pulls/{number}", h.pullRequest)
	r.Get("/search", h.search)

	return r
}
