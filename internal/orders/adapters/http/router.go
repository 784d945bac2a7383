package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig carries the pieces needed to assemble the API router.
type RouterConfig struct {
	Handler   *Handler
	Metrics   *Metrics
	AuthUser  string
	AuthPass  string
	ReadyFunc func(r *http.Request) error
}

// NewRouter assembles the full API surface: order routes behind Basic Auth,
// plus unauthenticated health probes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(WithMetrics(cfg.Metrics))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if cfg.ReadyFunc != nil {
			if err := cfg.ReadyFunc(req); err != nil {
				writeError(w, http.StatusServiceUnavailable, "not_ready", err.Error())
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	r.Route("/order", func(r chi.Router) {
		if cfg.AuthUser != "" {
			r.Use(middleware.BasicAuth("order-service", map[string]string{cfg.AuthUser: cfg.AuthPass}))
		}
		r.Mount("/", cfg.Handler.Routes())
	})

	return r
}
