package generation

import (
	"context"
	"time"
)

// Upstream executes outbound requests. Implementations never return a nil
// Outcome; transport failures are reported through Outcome.Err.
type Upstream interface {
	Do(ctx context.Context, req *OutboundRequest) *Outcome
}

// BreakerReporter is implemented by upstreams that guard calls with a
// circuit breaker.
type BreakerReporter interface {
	BreakerState(c Capability) string
}

// HealthCache stores the last known health of each upstream.
type HealthCache interface {
	// GetHealth returns the cached health. Unknown upstreams are healthy.
	GetHealth(ctx context.Context, c Capability) (bool, error)

	// SetHealth records the health of an upstream.
	SetHealth(ctx context.Context, c Capability, healthy bool) error
}

// MetricsRecorder records generation outcomes.
type MetricsRecorder interface {
	RecordGeneration(capability, outcome string, duration time.Duration)
}
