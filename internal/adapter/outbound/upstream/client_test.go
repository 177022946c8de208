package upstream

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediaforge/server/internal/adapter/outbound/memory"
	"github.com/mediaforge/server/internal/domain/generation"
	"github.com/mediaforge/server/internal/infra/config"
	"github.com/mediaforge/server/internal/utils/metrics"
	"github.com/mediaforge/server/internal/utils/requestctx"
)

func breakerConfig(threshold uint32) config.BreakerConfig {
	return config.BreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		MaxRequests:      1,
		Interval:         time.Minute,
		OpenTimeout:      time.Minute,
	}
}

func videoRequest(target string) *generation.OutboundRequest {
	h := make(http.Header)
	h.Set("Content-Type", "application/x-www-form-urlencoded")
	h.Set("User-Agent", "mediaforge-test")
	return &generation.OutboundRequest{
		Capability: generation.CapabilityVideoGenerate,
		Method:     http.MethodPost,
		URL:        target + "/api/ai/Txt2video",
		Header:     h,
		Body:       []byte("prompt=a+cat&type=text&isPremium=false"),
	}
}

func TestClient_Do(t *testing.T) {
	var gotBody, gotUA, gotRequestID, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		gotUA = r.UserAgent()
		gotRequestID = r.Header.Get("X-Request-ID")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"videoUrl":"https://cdn/v.mp4"}`))
	}))
	defer srv.Close()

	m := metrics.New("test")
	client := NewClient(srv.Client(), breakerConfig(3), 0, nil, m, nil)

	ctx := requestctx.WithRequestID(context.Background(), "req-42")
	out := client.Do(ctx, videoRequest(srv.URL))

	require.NoError(t, out.Err)
	assert.Equal(t, http.StatusOK, out.StatusCode)
	assert.JSONEq(t, `{"videoUrl":"https://cdn/v.mp4"}`, string(out.Body))
	assert.Equal(t, srv.URL+"/api/ai/Txt2video", out.URL)

	assert.Equal(t, "prompt=a+cat&type=text&isPremium=false", gotBody)
	assert.Equal(t, "mediaforge-test", gotUA)
	assert.Equal(t, "req-42", gotRequestID)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("video_generate", "2xx")))
	assert.Equal(t, "closed", client.BreakerState(generation.CapabilityVideoGenerate))
}

func TestClient_DiscardBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), config.BreakerConfig{}, 0, nil, nil, nil)
	out := client.Do(context.Background(), &generation.OutboundRequest{
		Capability:  generation.CapabilityImageGenerate,
		Method:      http.MethodGet,
		URL:         srv.URL + "/prompt/cat?seed=1",
		DiscardBody: true,
	})

	require.NoError(t, out.Err)
	assert.Equal(t, http.StatusOK, out.StatusCode)
	assert.Nil(t, out.Body)
	assert.Equal(t, srv.URL+"/prompt/cat?seed=1", out.URL)
}

func TestClient_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := 10
		if strings.HasSuffix(r.URL.Path, "/big") {
			n = 11
		}
		_, _ = w.Write([]byte(strings.Repeat("a", n)))
	}))
	defer srv.Close()

	textRequest := func(path string) *generation.OutboundRequest {
		return &generation.OutboundRequest{
			Capability: generation.CapabilityTextEnhance,
			Method:     http.MethodGet,
			URL:        srv.URL + path,
		}
	}

	t.Run("body at the limit", func(t *testing.T) {
		client := NewClient(srv.Client(), config.BreakerConfig{}, 10, nil, nil, nil)
		out := client.Do(context.Background(), textRequest("/cat"))

		require.NoError(t, out.Err)
		assert.Len(t, out.Body, 10)
	})

	t.Run("body over the limit", func(t *testing.T) {
		m := metrics.New("test")
		client := NewClient(srv.Client(), breakerConfig(1), 10, nil, m, nil)

		for i := 0; i < 3; i++ {
			out := client.Do(context.Background(), textRequest("/big"))
			require.ErrorIs(t, out.Err, generation.ErrResponseTooLarge)
			assert.Equal(t, http.StatusOK, out.StatusCode)
			assert.Empty(t, out.Body)

			res := generation.Normalize(generation.CapabilityTextEnhance, out)
			require.False(t, res.IsSuccess())
			assert.Equal(t, generation.FailureMalformedResponse, res.Failure().Kind)
			assert.False(t, res.Failure().Retryable())
		}

		assert.Equal(t, "closed", client.BreakerState(generation.CapabilityTextEnhance), "oversized bodies must not trip the breaker")
		assert.Equal(t, 3.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("text_enhance", "response_too_large")))
	})
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := srv.URL
	srv.Close()

	m := metrics.New("test")
	client := NewClient(http.DefaultClient, breakerConfig(5), 0, nil, m, nil)
	out := client.Do(context.Background(), videoRequest(target))

	require.Error(t, out.Err)
	assert.Zero(t, out.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("video_generate", "transport_error")))

	res := generation.Normalize(generation.CapabilityVideoGenerate, out)
	assert.Equal(t, generation.FailureTransport, res.Failure().Kind)
}

func TestClient_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	health := memory.NewHealthCache()
	m := metrics.New("test")
	client := NewClient(srv.Client(), breakerConfig(2), 0, health, m, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		out := client.Do(ctx, videoRequest(srv.URL))
		require.NoError(t, out.Err)
		assert.Equal(t, http.StatusServiceUnavailable, out.StatusCode)
	}

	assert.Equal(t, gobreaker.StateOpen.String(), client.BreakerState(generation.CapabilityVideoGenerate))
	healthy, err := health.GetHealth(ctx, generation.CapabilityVideoGenerate)
	require.NoError(t, err)
	assert.False(t, healthy)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.UpstreamHealth.WithLabelValues("video_generate")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BreakerState.WithLabelValues("video_generate")))

	out := client.Do(ctx, videoRequest(srv.URL))
	require.ErrorIs(t, out.Err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), calls.Load(), "open breaker must not reach the network")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("video_generate", "breaker_open")))

	res := generation.Normalize(generation.CapabilityVideoGenerate, out)
	assert.Equal(t, generation.FailureTransport, res.Failure().Kind)

	// Other capabilities are unaffected.
	assert.Equal(t, "closed", client.BreakerState(generation.CapabilityTextEnhance))
}

func TestClient_ClientErrorsDoNotTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"bad prompt"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), breakerConfig(1), 0, nil, nil, nil)
	for i := 0; i < 3; i++ {
		out := client.Do(context.Background(), videoRequest(srv.URL))
		require.NoError(t, out.Err)
		assert.Equal(t, http.StatusBadRequest, out.StatusCode)
	}
	assert.Equal(t, "closed", client.BreakerState(generation.CapabilityVideoGenerate))
}

func TestClient_CancelledContextDoesNotTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), breakerConfig(1), 0, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := client.Do(ctx, videoRequest(srv.URL))
	require.ErrorIs(t, out.Err, context.Canceled)
	assert.Equal(t, "closed", client.BreakerState(generation.CapabilityVideoGenerate))
}

func TestClient_BreakerDisabled(t *testing.T) {
	client := NewClient(nil, config.BreakerConfig{Enabled: false}, 0, nil, nil, nil)
	assert.Empty(t, client.BreakerState(generation.CapabilityVideoGenerate))
}

func TestClient_InvalidRequest(t *testing.T) {
	client := NewClient(nil, config.BreakerConfig{}, 0, nil, nil, nil)
	out := client.Do(context.Background(), &generation.OutboundRequest{
		Capability: generation.CapabilityTextEnhance,
		Method:     "BAD METHOD",
		URL:        "http://example.com",
	})
	assert.Error(t, out.Err)
}
