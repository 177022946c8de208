package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("instances do not share a registry", func(t *testing.T) {
		a := New("test")
		b := New("test")
		assert.NotSame(t, a.Registry(), b.Registry())

		a.RecordGeneration("text_enhance", "success", time.Second)
		assert.Equal(t, 1.0, testutil.ToFloat64(a.GenerationsTotal.WithLabelValues("text_enhance", "success")))
		assert.Equal(t, 0.0, testutil.ToFloat64(b.GenerationsTotal.WithLabelValues("text_enhance", "success")))
	})

	t.Run("default namespace", func(t *testing.T) {
		m := New("")
		m.RecordGeneration("video_generate", "success", time.Second)

		count, err := testutil.GatherAndCount(m.Registry(), "mediaforge_generation_requests_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	m := New("test")

	m.RecordHTTPRequest("POST", "/api/v1/videos", 200, 100*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/videos", 201, 50*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/videos", 502, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/videos", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/videos", "5xx")))
}

func TestMetrics_RecordGeneration(t *testing.T) {
	m := New("test")

	m.RecordGeneration("video_generate", "success", 2*time.Second)
	m.RecordGeneration("video_generate", "upstream_application_error", time.Second)
	m.RecordGeneration("video_generate", "success", 3*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("video_generate", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("video_generate", "upstream_application_error")))
}

func TestMetrics_RecordUpstreamCall(t *testing.T) {
	m := New("test")

	m.RecordUpstreamCall("image_generate", 200, "")
	m.RecordUpstreamCall("image_generate", 0, "transport_error")
	m.RecordUpstreamCall("image_generate", 0, "")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("image_generate", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("image_generate", "transport_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("image_generate", "unknown")))
}

func TestMetrics_UpstreamGauges(t *testing.T) {
	m := New("test")

	m.SetUpstreamHealth("video_generate", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamHealth.WithLabelValues("video_generate")))
	m.SetUpstreamHealth("video_generate", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.UpstreamHealth.WithLabelValues("video_generate")))

	m.SetBreakerState("video_generate", "open")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BreakerState.WithLabelValues("video_generate")))
	m.SetBreakerState("video_generate", "half-open")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BreakerState.WithLabelValues("video_generate")))
	m.SetBreakerState("video_generate", "closed")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.BreakerState.WithLabelValues("video_generate")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New("test")
	m.RecordGeneration("text_enhance", "success", time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `test_generation_requests_total{capability="text_enhance",outcome="success"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestStatusCodeToString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{200, "2xx"},
		{204, "2xx"},
		{301, "3xx"},
		{404, "4xx"},
		{503, "5xx"},
		{0, "status_0"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusCodeToString(tt.code))
		})
	}
}
