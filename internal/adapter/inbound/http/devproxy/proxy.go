// Package devproxy forwards same-origin /api/text, /api/image and /api/ai
// calls to the real upstreams so a browser client can run without CORS
// support on the providers.
package devproxy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mediaforge/server/internal/infra/config"
	apperrors "github.com/mediaforge/server/internal/utils/errors"
)

// Route maps a local path prefix to an upstream.
type Route struct {
	Prefix string
	Target *url.URL
	// StripPrefix removes Prefix before forwarding.
	StripPrefix bool
}

// Routes returns the proxy routes for the configured upstreams. Text and
// image prefixes are stripped; the video prefix is forwarded as is.
func Routes(cfg config.UpstreamConfig) ([]Route, error) {
	specs := []struct {
		prefix string
		base   string
		strip  bool
	}{
		{"/api/text", cfg.TextBaseURL, true},
		{"/api/image", cfg.ImageBaseURL, true},
		{"/api/ai", cfg.VideoBaseURL, false},
	}

	routes := make([]Route, 0, len(specs))
	for _, s := range specs {
		target, err := url.Parse(s.base)
		if err != nil {
			return nil, fmt.Errorf("parse proxy target for %s: %w", s.prefix, err)
		}
		routes = append(routes, Route{Prefix: s.prefix, Target: target, StripPrefix: s.strip})
	}
	return routes, nil
}

// Proxy is a set of reverse proxies keyed by path prefix.
type Proxy struct {
	routes  []Route
	proxies map[string]*httputil.ReverseProxy
	logger  *zap.Logger
}

// New creates a proxy for the given routes.
func New(routes []Route, transport http.RoundTripper, logger *zap.Logger) *Proxy {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Proxy{
		routes:  routes,
		proxies: make(map[string]*httputil.ReverseProxy, len(routes)),
		logger:  logger,
	}
	for _, rt := range routes {
		p.proxies[rt.Prefix] = p.newReverseProxy(rt, transport)
	}
	return p
}

func (p *Proxy) newReverseProxy(rt Route, transport http.RoundTripper) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			if rt.StripPrefix {
				pr.Out.URL.Path = stripPrefix(pr.Out.URL.Path, rt.Prefix)
				if pr.Out.URL.RawPath != "" {
					pr.Out.URL.RawPath = stripPrefix(pr.Out.URL.RawPath, rt.Prefix)
				}
			}
			// SetURL clears Out.Host so the upstream sees its own host.
			pr.SetURL(rt.Target)
			pr.SetXForwarded()
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			p.logger.Warn("proxy request failed",
				zap.String("prefix", rt.Prefix),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			appErr := apperrors.BadGateway("proxy request failed").WithError(err)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(appErr.StatusCode)
			_ = json.NewEncoder(w).Encode(appErr.ToResponse())
		},
	}
}

// ServeHTTP forwards the request to the route matching its path.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, rt := range p.routes {
		if matchPrefix(r.URL.Path, rt.Prefix) {
			p.proxies[rt.Prefix].ServeHTTP(w, r)
			return
		}
	}
	http.NotFound(w, r)
}

// RegisterRoutes mounts every route prefix on the router.
func (p *Proxy) RegisterRoutes(r gin.IRoutes) {
	h := gin.WrapH(p)
	for _, rt := range p.routes {
		r.Any(rt.Prefix+"/*path", h)
	}
}

func matchPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func stripPrefix(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return rest
}
