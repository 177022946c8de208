package generation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mediaforge/server/internal/utils/requestctx"
)

// Config holds generation domain configuration.
type Config struct {
	// VerifyImage fetches the constructed image URL and classifies the
	// response before reporting success.
	VerifyImage bool
}

// DefaultConfig returns default domain configuration.
func DefaultConfig() *Config {
	return &Config{VerifyImage: true}
}

// UpstreamStatus is a health snapshot of one upstream.
type UpstreamStatus struct {
	Capability Capability `json:"capability"`
	Healthy    bool       `json:"healthy"`
	Breaker    string     `json:"breaker,omitempty"`
}

// ImageModels lists the allow-listed image models.
type ImageModels struct {
	Models  []string `json:"models"`
	Default string   `json:"default"`
}

// Domain runs generations: build, call upstream, normalize.
type Domain struct {
	builder  *Builder
	upstream Upstream
	health   HealthCache
	metrics  MetricsRecorder
	config   *Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewDomain creates a new generation domain.
func NewDomain(
	builder *Builder,
	upstream Upstream,
	health HealthCache,
	metrics MetricsRecorder,
	config *Config,
	logger *zap.Logger,
) *Domain {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Domain{
		builder:  builder,
		upstream: upstream,
		health:   health,
		metrics:  metrics,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// EnhanceText rewrites a prompt through the text upstream.
func (d *Domain) EnhanceText(ctx context.Context, prompt string) *Result {
	return d.Generate(ctx, NewTextRequest(prompt))
}

// GenerateImage returns the URL of a generated image.
func (d *Domain) GenerateImage(ctx context.Context, prompt string, opts ImageOptions) *Result {
	return d.Generate(ctx, NewImageRequest(prompt, opts))
}

// GenerateVideo returns the URL of a generated video.
func (d *Domain) GenerateVideo(ctx context.Context, prompt string, opts VideoOptions) *Result {
	return d.Generate(ctx, NewVideoRequest(prompt, opts))
}

// Generate runs a single generation. It never returns nil and never panics on
// upstream misbehaviour; every failure is reported in the Result.
func (d *Domain) Generate(ctx context.Context, req *Request) *Result {
	var c Capability
	if req != nil {
		c = req.Capability
	}

	state := StartAction(c, d.now())

	var res *Result
	out, err := d.builder.Build(req)
	if err != nil {
		res = Invalid(c, err)
	} else {
		res = d.execute(ctx, out)
	}

	d.observe(ctx, state.finish(res, d.now()))
	return res
}

func (d *Domain) execute(ctx context.Context, out *OutboundRequest) *Result {
	if out.Capability == CapabilityImageGenerate && !d.config.VerifyImage {
		return Success(out.Capability, out.URL)
	}
	return Normalize(out.Capability, d.upstream.Do(ctx, out))
}

func (d *Domain) observe(ctx context.Context, state ActionState) {
	res := state.Result()
	if d.metrics != nil {
		d.metrics.RecordGeneration(state.Capability().String(), res.Outcome(), state.Elapsed())
	}

	fields := []zap.Field{
		zap.String("capability", state.Capability().String()),
		zap.String("outcome", res.Outcome()),
		zap.Duration("latency", state.Elapsed()),
	}
	if id := requestctx.RequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if ip := requestctx.ClientIP(ctx); ip != "" {
		fields = append(fields, zap.String("client_ip", ip))
	}

	f := res.Failure()
	switch {
	case f == nil:
		d.logger.Info("generation succeeded", fields...)
	case f.Kind == FailureInvalidRequest:
		d.logger.Debug("generation rejected", append(fields, zap.String("reason", f.Message))...)
	default:
		if f.StatusCode != 0 {
			fields = append(fields, zap.Int("upstream_status", f.StatusCode))
		}
		d.logger.Warn("generation failed", append(fields, zap.String("reason", f.Message))...)
	}
}

// UpstreamStatus returns a health snapshot of every upstream.
func (d *Domain) UpstreamStatus(ctx context.Context) []UpstreamStatus {
	reporter, _ := d.upstream.(BreakerReporter)

	out := make([]UpstreamStatus, 0, len(Capabilities()))
	for _, c := range Capabilities() {
		st := UpstreamStatus{Capability: c, Healthy: true}
		if d.health != nil {
			healthy, err := d.health.GetHealth(ctx, c)
			if err != nil {
				d.logger.Warn("read upstream health", zap.String("capability", c.String()), zap.Error(err))
			} else {
				st.Healthy = healthy
			}
		}
		if reporter != nil {
			st.Breaker = reporter.BreakerState(c)
		}
		out = append(out, st)
	}
	return out
}

// ImageModels returns the allow-listed image models.
func (d *Domain) ImageModels() ImageModels {
	policy := d.builder.ImagePolicy()
	models := make([]string, len(policy.Models))
	copy(models, policy.Models)
	return ImageModels{Models: models, Default: policy.DefaultModel}
}
