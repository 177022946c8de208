package httpclient

import (
	"net"
	"net/http"

	"github.com/mediaforge/server/internal/infra/config"
)

// New creates a new HTTP client with the given configuration.
// Redirects are followed; upstream image URLs commonly redirect to a CDN.
func New(cfg config.HTTPClientConfig) *http.Client {
	return &http.Client{
		Transport: NewTransport(cfg),
		Timeout:   cfg.ResponseTimeout,
	}
}

// NewTransport creates a pooled transport. It is shared by the upstream
// client and the development proxy.
func NewTransport(cfg config.HTTPClientConfig) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: cfg.KeepAlive,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
		ForceAttemptHTTP2:   true,
	}
}
