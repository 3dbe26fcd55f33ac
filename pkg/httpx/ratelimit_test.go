package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseRateLimitFromEnv(t *testing.T) {
	defaults := RateLimitConfig{
		RequestsPerWindow: 300,
		Window:            time.Minute,
		Burst:             50,
	}

	t.Run("no overrides", func(t *testing.T) {
		cfg := ParseRateLimitFromEnv("TEST", defaults)
		require.Equal(t, defaults, cfg)
	})

	t.Run("full override", func(t *testing.T) {
		t.Setenv("RATELIMIT_TEST_REQUESTS", "10")
		t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "5")
		t.Setenv("RATELIMIT_TEST_BURST", "2")

		cfg := ParseRateLimitFromEnv("TEST", defaults)
		require.Equal(t, 10, cfg.RequestsPerWindow)
		require.Equal(t, 5*time.Second, cfg.Window)
		require.Equal(t, 2, cfg.Burst)
	})

	t.Run("invalid values keep defaults", func(t *testing.T) {
		t.Setenv("RATELIMIT_TEST_REQUESTS", "not-a-number")
		t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "-3")

		cfg := ParseRateLimitFromEnv("TEST", defaults)
		require.Equal(t, defaults, cfg)
	})
}

func TestThrottledTransportForwardsRequests(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := &http.Client{
		Transport: NewThrottledTransport(RateLimitConfig{
			RequestsPerWindow: 100,
			Window:            time.Second,
			Burst:             10,
		}, nil),
	}

	for i := 0; i < 5; i++ {
		resp, err := client.Get(srv.URL)
		require.NoError(t, err)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp.Body.Close()
	}
}

func TestThrottledTransportRespectsContext(t *testing.T) {
	t.Parallel()

	// Burst of one, glacial refill: the second request has to wait and the
	// cancelled context should cut that wait short.
	transport := NewThrottledTransport(RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Hour,
		Burst:             1,
	}, nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := &http.Client{Transport: transport}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.Error(t, err)
}
