package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys.
// MEDIAFORGE_UPSTREAM_VIDEO_BASE_URL overrides upstream.video_base_url.
const EnvPrefix = "MEDIAFORGE"

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	HTTPClient HTTPClientConfig `mapstructure:"http_client"`
	Upstream   UpstreamConfig   `mapstructure:"upstream"`
	Breaker    BreakerConfig    `mapstructure:"breaker"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Proxy      ProxyConfig      `mapstructure:"proxy"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// HTTPClientConfig holds HTTP client configuration for connection pooling.
type HTTPClientConfig struct {
	// Connection pool settings
	MaxIdleConns        int           `mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	MaxConnsPerHost     int           `mapstructure:"max_conns_per_host"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout"`

	// Timeout settings. A zero ResponseTimeout leaves calls bounded only by
	// the caller's context.
	DialTimeout         time.Duration `mapstructure:"dial_timeout"`
	TLSHandshakeTimeout time.Duration `mapstructure:"tls_handshake_timeout"`
	ResponseTimeout     time.Duration `mapstructure:"response_timeout"`

	// Keep-alive settings
	KeepAlive time.Duration `mapstructure:"keep_alive"`

	// MaxBodyBytes caps how much of an upstream response is read.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

// UpstreamConfig holds the generation upstreams and request policy.
type UpstreamConfig struct {
	TextBaseURL  string `mapstructure:"text_base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
	VideoBaseURL string `mapstructure:"video_base_url"`

	// VideoEncoding is "form" or "json".
	VideoEncoding string `mapstructure:"video_encoding"`
	// VerifyImage fetches generated image URLs before reporting success.
	VerifyImage bool   `mapstructure:"verify_image"`
	UserAgent   string `mapstructure:"user_agent"`

	DefaultImageModel string   `mapstructure:"default_image_model"`
	ImageModels       []string `mapstructure:"image_models"`
	DefaultWidth      int      `mapstructure:"default_width"`
	DefaultHeight     int      `mapstructure:"default_height"`
	MaxDimension      int      `mapstructure:"max_dimension"`
}

// BreakerConfig holds circuit breaker configuration, applied per upstream.
type BreakerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32 `mapstructure:"failure_threshold"`
	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32        `mapstructure:"max_requests"`
	Interval    time.Duration `mapstructure:"interval"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

// RedisConfig holds Redis configuration. An empty address disables Redis.
type RedisConfig struct {
	Address   string        `mapstructure:"address"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	HealthTTL time.Duration `mapstructure:"health_ttl"`
}

// ProxyConfig controls the same-origin development proxy.
type ProxyConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowOrigins     []string      `mapstructure:"allow_origins"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

// MetricsConfig holds Prometheus configuration.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// LoadDotEnv loads optional .env files into the process environment.
// Variables already set are not overridden.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env", ".env.local"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/mediaforge")

	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
	}

	return load(v)
}

// LoadFile loads configuration from the given file and environment.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found, use defaults and env
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Lists are comma separated when they come from the environment.
	if s := os.Getenv(EnvPrefix + "_UPSTREAM_IMAGE_MODELS"); s != "" {
		cfg.Upstream.ImageModels = parseCommaSeparatedList(s)
	}
	if s := os.Getenv(EnvPrefix + "_CORS_ALLOW_ORIGINS"); s != "" {
		cfg.CORS.AllowOrigins = parseCommaSeparatedList(s)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	for name, raw := range map[string]string{
		"upstream.text_base_url":  c.Upstream.TextBaseURL,
		"upstream.image_base_url": c.Upstream.ImageBaseURL,
		"upstream.video_base_url": c.Upstream.VideoBaseURL,
	} {
		if err := validateBaseURL(raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	switch c.Upstream.VideoEncoding {
	case "form", "json":
	default:
		errs = append(errs, fmt.Errorf("upstream.video_encoding: must be form or json, got %q", c.Upstream.VideoEncoding))
	}

	if len(c.Upstream.ImageModels) > 0 && !slices.Contains(c.Upstream.ImageModels, c.Upstream.DefaultImageModel) {
		errs = append(errs, fmt.Errorf("upstream.default_image_model: %q is not in upstream.image_models", c.Upstream.DefaultImageModel))
	}
	if c.Upstream.DefaultWidth <= 0 || c.Upstream.DefaultHeight <= 0 {
		errs = append(errs, errors.New("upstream.default_width and default_height must be positive"))
	}
	if c.Upstream.MaxDimension > 0 && (c.Upstream.DefaultWidth > c.Upstream.MaxDimension || c.Upstream.DefaultHeight > c.Upstream.MaxDimension) {
		errs = append(errs, errors.New("upstream default dimensions exceed upstream.max_dimension"))
	}

	if c.Breaker.Enabled && c.Breaker.FailureThreshold == 0 {
		errs = append(errs, errors.New("breaker.failure_threshold must be positive"))
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode: must be debug, release or test, got %q", c.Server.Mode))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return errors.New("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is required")
	}
	return nil
}

// parseCommaSeparatedList parses a comma-separated string into a slice of trimmed, non-empty strings.
func parseCommaSeparatedList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 150*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// HTTP client defaults
	v.SetDefault("http_client.max_idle_conns", 100)
	v.SetDefault("http_client.max_idle_conns_per_host", 20)
	v.SetDefault("http_client.max_conns_per_host", 50)
	v.SetDefault("http_client.idle_conn_timeout", 90*time.Second)
	v.SetDefault("http_client.dial_timeout", 30*time.Second)
	v.SetDefault("http_client.tls_handshake_timeout", 10*time.Second)
	v.SetDefault("http_client.response_timeout", 0)
	v.SetDefault("http_client.keep_alive", 30*time.Second)
	v.SetDefault("http_client.max_body_bytes", 1<<20)

	// Upstream defaults
	v.SetDefault("upstream.text_base_url", "https://text.pollinations.ai")
	v.SetDefault("upstream.image_base_url", "https://image.pollinations.ai")
	v.SetDefault("upstream.video_base_url", "https://omegatech-api.dixonomega.tech")
	v.SetDefault("upstream.video_encoding", "form")
	v.SetDefault("upstream.verify_image", true)
	v.SetDefault("upstream.user_agent", "mediaforge-server/1.0")
	v.SetDefault("upstream.default_image_model", "flux-schnell")
	v.SetDefault("upstream.image_models", []string{"flux-schnell", "flux-dev", "flux-pro"})
	v.SetDefault("upstream.default_width", 1024)
	v.SetDefault("upstream.default_height", 1024)
	v.SetDefault("upstream.max_dimension", 2048)

	// Breaker defaults
	v.SetDefault("breaker.enabled", true)
	v.SetDefault("breaker.failure_threshold", 5)
	v.SetDefault("breaker.max_requests", 1)
	v.SetDefault("breaker.interval", 60*time.Second)
	v.SetDefault("breaker.open_timeout", 30*time.Second)

	// Redis defaults
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "mediaforge:")
	v.SetDefault("redis.health_ttl", 10*time.Minute)

	// Proxy defaults
	v.SetDefault("proxy.enabled", false)

	// CORS defaults
	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 12*time.Hour)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "mediaforge")
	v.SetDefault("metrics.path", "/metrics")
}
