package app

import (
	"context"
	"net/http"

	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	// Domains
	"github.com/mediaforge/server/internal/domain/generation"

	// Inbound adapters
	"github.com/mediaforge/server/internal/adapter/inbound/http/devproxy"
	generationhttp "github.com/mediaforge/server/internal/adapter/inbound/http/generation"

	// Ports
	"github.com/mediaforge/server/internal/port/inbound"

	// Outbound adapters
	"github.com/mediaforge/server/internal/adapter/outbound/memory"
	redisadapter "github.com/mediaforge/server/internal/adapter/outbound/redis"
	"github.com/mediaforge/server/internal/adapter/outbound/upstream"

	// Infrastructure
	"github.com/mediaforge/server/internal/infra/cache"
	"github.com/mediaforge/server/internal/infra/config"
	"github.com/mediaforge/server/internal/infra/httpclient"

	// Utils
	"github.com/mediaforge/server/internal/utils/logger"
	"github.com/mediaforge/server/internal/utils/metrics"
)

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideZapLogger,
	ProvideRedisClient,
	ProvideHTTPClient,
	ProvideMetrics,
	ProvideHealthCache,
)

// ProvideZapLogger creates a zap logger instance.
func ProvideZapLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	log, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, nil, err
	}
	return log, func() { _ = log.Sync() }, nil
}

// ProvideRedisClient creates a Redis client. Redis is optional: a missing
// address or a failed connection yields nil and the in-memory health cache
// is used instead.
func ProvideRedisClient(cfg *config.Config, zapLog *zap.Logger) (goredis.UniversalClient, func()) {
	if cfg.Redis.Address == "" {
		return nil, func() {}
	}
	client, err := cache.NewRedisClient(context.Background(), &cfg.Redis)
	if err != nil {
		zapLog.Warn("Redis connection failed, continuing without cache", zap.Error(err))
		return nil, func() {}
	}
	return client, func() {
		if err := client.Close(); err != nil {
			zapLog.Warn("close redis", zap.Error(err))
		}
	}
}

// ProvideHTTPClient creates a shared HTTP client with connection pooling.
func ProvideHTTPClient(cfg *config.Config) *http.Client {
	return httpclient.New(cfg.HTTPClient)
}

// ProvideMetrics creates a metrics instance.
func ProvideMetrics(cfg *config.Config) *metrics.Metrics {
	return metrics.New(cfg.Metrics.Namespace)
}

// ProvideHealthCache selects the upstream health store.
func ProvideHealthCache(cfg *config.Config, redis goredis.UniversalClient) generation.HealthCache {
	if redis == nil {
		return memory.NewHealthCache()
	}
	return redisadapter.NewUpstreamHealthCache(redis, cfg.Redis.KeyPrefix, cfg.Redis.HealthTTL)
}

// ===== Generation Domain Providers =====

// GenerationSet provides generation domain dependencies.
var GenerationSet = wire.NewSet(
	ProvideUpstreamClient,
	wire.Bind(new(generation.Upstream), new(*upstream.Client)),
	ProvideBuilder,
	ProvideGenerationDomain,
	wire.Bind(new(inbound.GenerationDomain), new(*generation.Domain)),
)

// ProvideUpstreamClient creates the breaker-guarded upstream client.
func ProvideUpstreamClient(
	cfg *config.Config,
	httpClient *http.Client,
	health generation.HealthCache,
	m *metrics.Metrics,
	zapLog *zap.Logger,
) *upstream.Client {
	return upstream.NewClient(httpClient, cfg.Breaker, cfg.HTTPClient.MaxBodyBytes, health, m, zapLog)
}

// ProvideBuilder creates the request builder.
func ProvideBuilder(cfg *config.Config) *generation.Builder {
	u := cfg.Upstream
	return generation.NewBuilder(
		generation.Endpoints{
			TextBaseURL:  u.TextBaseURL,
			ImageBaseURL: u.ImageBaseURL,
			VideoBaseURL: u.VideoBaseURL,
		},
		generation.BuilderOptions{
			VideoEncoding: generation.BodyEncoding(u.VideoEncoding),
			Images: generation.ImagePolicy{
				Models:        u.ImageModels,
				DefaultModel:  u.DefaultImageModel,
				DefaultWidth:  u.DefaultWidth,
				DefaultHeight: u.DefaultHeight,
				MaxDimension:  u.MaxDimension,
			},
			UserAgent: u.UserAgent,
		},
	)
}

// ProvideGenerationDomain creates the generation domain.
func ProvideGenerationDomain(
	cfg *config.Config,
	builder *generation.Builder,
	up generation.Upstream,
	health generation.HealthCache,
	m *metrics.Metrics,
	zapLog *zap.Logger,
) *generation.Domain {
	return generation.NewDomain(
		builder,
		up,
		health,
		m,
		&generation.Config{VerifyImage: cfg.Upstream.VerifyImage},
		zapLog.Named("generation"),
	)
}

// ===== HTTP Handler Providers =====

// HandlerSet provides all HTTP handlers.
var HandlerSet = wire.NewSet(
	generationhttp.NewHandler,
	ProvideDevProxy,
)

// ProvideDevProxy creates the same-origin development proxy, or nil when
// it is disabled.
func ProvideDevProxy(cfg *config.Config, zapLog *zap.Logger) (*devproxy.Proxy, error) {
	if !cfg.Proxy.Enabled {
		return nil, nil
	}
	routes, err := devproxy.Routes(cfg.Upstream)
	if err != nil {
		return nil, err
	}
	return devproxy.New(routes, httpclient.NewTransport(cfg.HTTPClient), zapLog.Named("devproxy")), nil
}

// ===== Master Set =====

// AppSet is the master provider set that includes all dependencies.
var AppSet = wire.NewSet(
	InfraSet,
	GenerationSet,
	HandlerSet,
)
