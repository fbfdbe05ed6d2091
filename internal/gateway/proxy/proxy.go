// Package proxy implements the gateway's reverse proxies to the backend
// services. Dispatch is by path prefix; the prefix is stripped before the
// request reaches the upstream, so each service mounts its routes at the root.
package proxy

import (
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
)

// ServiceProxy manages reverse proxies to the backend services.
type ServiceProxy struct {
	routes map[string]*httputil.ReverseProxy
	logger *slog.Logger
}

// Upstream describes one backend behind the gateway. StripPrefix, when
// non-empty, is removed from the request path before forwarding.
type Upstream struct {
	Name        string
	URL         string
	StripPrefix string
}

// NewServiceProxy creates a ServiceProxy for the given upstreams.
func NewServiceProxy(upstreams []Upstream, logger *slog.Logger) (*ServiceProxy, error) {
	sp := &ServiceProxy{
		routes: make(map[string]*httputil.ReverseProxy),
		logger: logger,
	}

	for _, up := range upstreams {
		target, err := url.Parse(up.URL)
		if err != nil {
			return nil, err
		}

		rp := &httputil.ReverseProxy{
			Rewrite:      rewriteFunc(target, up.StripPrefix),
			ErrorHandler: sp.errorHandler(up.Name),
		}
		sp.routes[up.Name] = rp

		logger.Info("registered upstream",
			slog.String("upstream", up.Name),
			slog.String("target", up.URL),
			slog.String("strip_prefix", up.StripPrefix),
		)
	}

	return sp, nil
}

// rewriteFunc builds the request rewrite for one upstream. It strips the
// routing prefix, points the request at the target, and preserves what the
// backend needs to see the original client: the public Host header, the
// client IP (X-Forwarded-For, X-Real-IP), and the original scheme
// (X-Forwarded-Proto). Cookies scoped to the public origin stay valid
// because Host is passed through untouched.
func rewriteFunc(target *url.URL, stripPrefix string) func(*httputil.ProxyRequest) {
	return func(pr *httputil.ProxyRequest) {
		pr.SetURL(target)

		if stripPrefix != "" {
			path := strings.TrimPrefix(pr.In.URL.Path, stripPrefix)
			if path == "" {
				path = "/"
			}
			pr.Out.URL.Path = path
			pr.Out.URL.RawPath = ""
		}

		// SetXForwarded fills X-Forwarded-For, X-Forwarded-Host and
		// X-Forwarded-Proto from the inbound request.
		pr.SetXForwarded()
		if host, _, err := net.SplitHostPort(pr.In.RemoteAddr); err == nil {
			pr.Out.Header.Set("X-Real-IP", host)
		}

		// Preserve the public Host header for the upstream.
		pr.Out.Host = pr.In.Host
	}
}

// Handler returns an http.Handler that proxies requests to the named upstream.
func (sp *ServiceProxy) Handler(name string) http.Handler {
	rp, ok := sp.routes[name]
	if !ok {
		sp.logger.Error("no proxy registered for upstream", slog.String("upstream", name))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"code":"SERVICE_UNAVAILABLE","message":"upstream not configured"}}`, http.StatusBadGateway)
		})
	}
	return rp
}

// errorHandler logs proxy failures and answers with a JSON 502.
func (sp *ServiceProxy) errorHandler(name string) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		sp.logger.Error("proxy error",
			slog.String("upstream", name),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_GATEWAY","message":"upstream service unavailable"}}`))
	}
}
