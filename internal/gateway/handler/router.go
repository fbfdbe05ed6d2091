// Package handler builds the gateway's HTTP router: operational endpoints
// plus path-prefix dispatch to the backend services. The gateway does not
// inspect tokens; verification happens inside the services it fronts.
package handler

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kapil218/fullstack-devops/internal/gateway/config"
	gwmiddleware "github.com/Kapil218/fullstack-devops/internal/gateway/middleware"
	"github.com/Kapil218/fullstack-devops/internal/gateway/proxy"
	"github.com/Kapil218/fullstack-devops/pkg/health"
	pkgmiddleware "github.com/Kapil218/fullstack-devops/pkg/middleware"
)

// NewRouter creates a chi router with global middleware, operational
// endpoints, and proxy dispatch: /api/auth/* to the identity service,
// /api/todo/* to the todo service, everything else to the frontend.
func NewRouter(cfg *config.Config, sp *proxy.ServiceProxy, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack (applied in order).
	r.Use(pkgmiddleware.CORS(pkgmiddleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		Environment:      cfg.Environment,
	}))
	r.Use(gwmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	r.Use(pkgmiddleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(pkgmiddleware.Tracing("gateway"))
	r.Use(pkgmiddleware.RequestLogging(logger))
	r.Use(pkgmiddleware.RequestLogger(logger))
	r.Use(pkgmiddleware.PrometheusMetrics("gateway"))

	// Health check endpoints.
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())

	// Metrics endpoint with IP allowlist protection.
	metricsHandler := metricsIPAllowlist(cfg.MetricsAllowedCIDRs, logger)(promhttp.Handler())
	r.Get("/metrics", metricsHandler.ServeHTTP)

	// Pprof debug endpoints with IP allowlist.
	pkgmiddleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	// Backend dispatch. The proxies strip their prefix, so the services
	// mount their routes at the root.
	r.Handle("/api/auth", sp.Handler("identity"))
	r.Handle("/api/auth/*", sp.Handler("identity"))
	r.Handle("/api/todo", sp.Handler("todo"))
	r.Handle("/api/todo/*", sp.Handler("todo"))

	// Everything else is the frontend.
	frontend := sp.Handler("frontend")
	r.NotFound(frontend.ServeHTTP)

	return r
}

// metricsIPAllowlist returns middleware that restricts access to requests
// from IPs within the configured CIDR ranges.
func metricsIPAllowlist(cidrs []string, logger *slog.Logger) func(http.Handler) http.Handler {
	var nets []*net.IPNet
	for _, cidr := range cidrs {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			logger.Warn("invalid metrics CIDR, skipping", slog.String("cidr", cidr), slog.String("error", err.Error()))
			continue
		}
		nets = append(nets, ipNet)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			ip := net.ParseIP(host)

			allowed := false
			if ip != nil {
				for _, n := range nets {
					if n.Contains(ip) {
						allowed = true
						break
					}
				}
			}

			if !allowed {
				logger.Warn("metrics access denied", slog.String("ip", host))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{
						"code":    "FORBIDDEN",
						"message": "metrics endpoint is restricted",
					},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
