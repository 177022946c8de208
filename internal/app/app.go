package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/mediaforge/server/cmd/server/docs" // swagger docs
	"github.com/mediaforge/server/internal/infra/config"
	"github.com/mediaforge/server/internal/utils/middleware"
)

// App represents the application.
type App struct {
	config  *config.Config
	deps    *Dependencies
	router  *gin.Engine
	logger  *zap.Logger
	cleanup func()
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	deps, cleanup, err := InitializeDependencies(cfg)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, deps, cleanup), nil
}

func newApp(cfg *config.Config, deps *Dependencies, cleanup func()) *App {
	if cleanup == nil {
		cleanup = func() {}
	}
	a := &App{
		config:  cfg,
		deps:    deps,
		logger:  deps.ZapLogger,
		cleanup: cleanup,
	}
	a.router = a.setupRouter()
	a.registerRoutes()
	return a
}

// Router returns the HTTP handler.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Stop releases application resources.
func (a *App) Stop() {
	a.logger.Info("Stopping application")
	a.cleanup()
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	r := gin.New()

	// Apply global middleware
	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins:     a.config.CORS.AllowOrigins,
		AllowCredentials: a.config.CORS.AllowCredentials,
		MaxAge:           a.config.CORS.MaxAge,
	}))
	if a.config.Metrics.Enabled {
		r.Use(middleware.Metrics(a.deps.Metrics))
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger documentation endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	if a.config.Metrics.Enabled {
		r.GET(a.config.Metrics.Path, gin.WrapH(a.deps.Metrics.Handler()))
	}

	return r
}

// registerRoutes registers all HTTP routes.
func (a *App) registerRoutes() {
	v1 := a.router.Group("/api/v1")
	a.deps.GenerationHandler.RegisterRoutes(v1)
	a.deps.GenerationHandler.RegisterHealthRoutes(a.router)

	if a.deps.DevProxy != nil {
		a.deps.DevProxy.RegisterRoutes(a.router)
		a.logger.Info("Development proxy enabled",
			zap.String("text", a.config.Upstream.TextBaseURL),
			zap.String("image", a.config.Upstream.ImageBaseURL),
			zap.String("video", a.config.Upstream.VideoBaseURL),
		)
	}
}
