package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kapil218/fullstack-devops/internal/identity/service"
	"github.com/Kapil218/fullstack-devops/pkg/health"
	"github.com/Kapil218/fullstack-devops/pkg/middleware"
	"github.com/Kapil218/fullstack-devops/pkg/session"
	"github.com/Kapil218/fullstack-devops/pkg/token"
)

// RouterConfig carries the dependencies for the identity HTTP router.
type RouterConfig struct {
	Service       *service.AuthService
	Verifier      *token.Verifier
	Cookies       *session.CookieWriter
	HealthHandler *health.Handler
	Logger        *slog.Logger
	CORS          middleware.CORSConfig
	PprofCIDRs    []string
}

// NewRouter creates a chi router with all identity service routes registered.
// The gateway strips the /api/auth prefix, so routes mount at the root.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Tracing("identity"))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("identity"))

	// Health and operational endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)

	authHandler := NewAuthHandler(cfg.Service, cfg.Cookies, cfg.Logger)

	// Public endpoints
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Post("/refresh-token", authHandler.Refresh)
	r.Post("/logout", authHandler.Logout)

	// Verified endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.Verifier, cfg.Logger))

		r.Get("/profile", authHandler.Profile)
		r.Post("/change-password", authHandler.ChangePassword)
	})

	return r
}
