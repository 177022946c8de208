//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	// Inbound adapters
	"github.com/mediaforge/server/internal/adapter/inbound/http/devproxy"
	generationhttp "github.com/mediaforge/server/internal/adapter/inbound/http/generation"

	// Ports
	"github.com/mediaforge/server/internal/port/inbound"

	// Infrastructure
	"github.com/mediaforge/server/internal/infra/config"

	// Utils
	"github.com/mediaforge/server/internal/utils/metrics"
)

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config    *config.Config
	Redis     goredis.UniversalClient
	ZapLogger *zap.Logger
	Metrics   *metrics.Metrics

	// Domains
	GenerationDomain inbound.GenerationDomain

	// HTTP Handlers
	GenerationHandler *generationhttp.Handler
	DevProxy          *devproxy.Proxy
}

// InitializeDependencies creates all dependencies using Wire.
func InitializeDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	wire.Build(
		AppSet,
		wire.Struct(new(Dependencies), "*"),
	)
	return nil, nil, nil
}
