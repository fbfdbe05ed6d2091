package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kapil218/fullstack-devops/internal/todo/service"
	"github.com/Kapil218/fullstack-devops/pkg/health"
	"github.com/Kapil218/fullstack-devops/pkg/middleware"
	"github.com/Kapil218/fullstack-devops/pkg/token"
)

// RouterConfig carries the dependencies for the todo HTTP router.
type RouterConfig struct {
	Service       *service.TodoService
	Verifier      *token.Verifier
	HealthHandler *health.Handler
	Logger        *slog.Logger
	CORS          middleware.CORSConfig
	PprofCIDRs    []string
}

// NewRouter creates a chi router with all todo service routes registered.
// The gateway strips the /api/todo prefix, so routes mount at the root.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Tracing("todo"))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("todo"))

	// Health and operational endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)

	todoHandler := NewTodoHandler(cfg.Service, cfg.Logger)

	// Every todo route requires a verified access token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.Verifier, cfg.Logger))

		r.Get("/todos", todoHandler.List)
		r.Post("/todos", todoHandler.Create)
		r.Get("/todos/{id}", todoHandler.Get)
		r.Patch("/todos/{id}", todoHandler.Update)
		r.Delete("/todos/{id}", todoHandler.Delete)
	})

	return r
}
