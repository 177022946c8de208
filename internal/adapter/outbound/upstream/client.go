// Package upstream executes outbound generation requests against the
// third-party services.
package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/mediaforge/server/internal/domain/generation"
	"github.com/mediaforge/server/internal/infra/config"
	"github.com/mediaforge/server/internal/utils/requestctx"
)

const (
	defaultMaxBodyBytes = 1 << 20
	healthWriteTimeout  = 2 * time.Second
)

// errUpstreamFailed marks outcomes the breaker counts as failures.
var errUpstreamFailed = errors.New("upstream failed")

// Metrics records upstream call metrics.
type Metrics interface {
	RecordUpstreamCall(capability string, status int, reason string)
	SetUpstreamHealth(capability string, healthy bool)
	SetBreakerState(capability, state string)
}

// Client executes outbound requests. Each capability has its own circuit
// breaker; a call rejected by an open breaker is reported as a transport
// failure without touching the network.
type Client struct {
	http     *http.Client
	breakers map[generation.Capability]*gobreaker.CircuitBreaker[*generation.Outcome]
	health   generation.HealthCache
	metrics  Metrics
	maxBody  int64
	logger   *zap.Logger
}

// NewClient creates a new upstream client. health and metrics may be nil.
func NewClient(
	httpClient *http.Client,
	breakerCfg config.BreakerConfig,
	maxBodyBytes int64,
	health generation.HealthCache,
	metrics Metrics,
	logger *zap.Logger,
) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		http:     httpClient,
		breakers: make(map[generation.Capability]*gobreaker.CircuitBreaker[*generation.Outcome]),
		health:   health,
		metrics:  metrics,
		maxBody:  maxBodyBytes,
		logger:   logger.Named("upstream"),
	}

	if breakerCfg.Enabled {
		for _, capability := range generation.Capabilities() {
			c.breakers[capability] = c.newBreaker(capability, breakerCfg)
		}
	}
	return c
}

func (c *Client) newBreaker(capability generation.Capability, cfg config.BreakerConfig) *gobreaker.CircuitBreaker[*generation.Outcome] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        capability.String(),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			c.onStateChange(capability, from, to)
		},
	}
	return gobreaker.NewCircuitBreaker[*generation.Outcome](settings)
}

func (c *Client) onStateChange(capability generation.Capability, from, to gobreaker.State) {
	healthy := to != gobreaker.StateOpen

	c.logger.Warn("circuit breaker state changed",
		zap.String("capability", capability.String()),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)

	if c.metrics != nil {
		c.metrics.SetBreakerState(capability.String(), to.String())
		c.metrics.SetUpstreamHealth(capability.String(), healthy)
	}
	if c.health != nil {
		ctx, cancel := context.WithTimeout(context.Background(), healthWriteTimeout)
		defer cancel()
		if err := c.health.SetHealth(ctx, capability, healthy); err != nil {
			c.logger.Warn("record upstream health", zap.String("capability", capability.String()), zap.Error(err))
		}
	}
}

// Do executes req. It never returns nil.
func (c *Client) Do(ctx context.Context, req *generation.OutboundRequest) *generation.Outcome {
	breaker, ok := c.breakers[req.Capability]
	if !ok {
		out := c.call(ctx, req)
		c.record(req.Capability, out, "")
		return out
	}

	out, err := breaker.Execute(func() (*generation.Outcome, error) {
		o := c.call(ctx, req)
		if countsAsFailure(ctx, o) {
			return o, errUpstreamFailed
		}
		return o, nil
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		out = &generation.Outcome{
			Err: fmt.Errorf("%s upstream temporarily unavailable: %w", req.Capability, err),
			URL: req.URL,
		}
		c.record(req.Capability, out, "breaker_open")
	default:
		c.record(req.Capability, out, "")
	}
	return out
}

// BreakerState returns the breaker state of an upstream, or empty when
// breaking is disabled.
func (c *Client) BreakerState(capability generation.Capability) string {
	breaker, ok := c.breakers[capability]
	if !ok {
		return ""
	}
	return breaker.State().String()
}

func (c *Client) call(ctx context.Context, req *generation.OutboundRequest) *generation.Outcome {
	out := &generation.Outcome{URL: req.URL}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		out.Err = fmt.Errorf("create request: %w", err)
		return out
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if id := requestctx.RequestID(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		out.Err = err
		return out
	}
	defer resp.Body.Close()

	out.StatusCode = resp.StatusCode

	if req.DiscardBody {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBody))
		return out
	}

	// One byte past the limit tells an oversized body from one that fits.
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		out.Err = fmt.Errorf("read response: %w", err)
		return out
	}
	if int64(len(data)) > c.maxBody {
		out.Err = fmt.Errorf("%w: exceeds %d bytes", generation.ErrResponseTooLarge, c.maxBody)
		return out
	}
	out.Body = data
	return out
}

func (c *Client) record(capability generation.Capability, out *generation.Outcome, reason string) {
	if c.metrics == nil {
		return
	}
	if reason == "" && out.Err != nil {
		reason = "transport_error"
		if errors.Is(out.Err, generation.ErrResponseTooLarge) {
			reason = "response_too_large"
		}
	}
	status := out.StatusCode
	if out.Err != nil {
		status = 0
	}
	c.metrics.RecordUpstreamCall(capability.String(), status, reason)
}

// countsAsFailure reports whether the outcome indicates an unhealthy
// upstream. Client-side 4xx answers, oversized bodies and calls the caller
// cancelled do not.
func countsAsFailure(ctx context.Context, o *generation.Outcome) bool {
	if errors.Is(o.Err, generation.ErrResponseTooLarge) {
		return o.StatusCode >= 500
	}
	if o.Err != nil {
		return ctx.Err() == nil
	}
	return o.StatusCode >= 500
}

var (
	_ generation.Upstream        = (*Client)(nil)
	_ generation.BreakerReporter = (*Client)(nil)
)
