// Package httpx provides client-side HTTP plumbing shared by the SDK.
package httpx

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig defines the outbound throttle parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// ClientLimit is the default throttle for outbound API calls. It is
// generous; its purpose is to keep a misbehaving loop (or a queue drain
// after refresh) from hammering the backend, not to meter normal use.
// Override with: RATELIMIT_CLIENT_REQUESTS, RATELIMIT_CLIENT_WINDOW_SEC,
// RATELIMIT_CLIENT_BURST.
var ClientLimit = RateLimitConfig{
	RequestsPerWindow: 300,
	Window:            time.Minute,
	Burst:             50,
}

func init() {
	ClientLimit = ParseRateLimitFromEnv("CLIENT", ClientLimit)
}

// ParseRateLimitFromEnv reads rate limit configuration from environment variables.
// Environment variables follow the pattern: RATELIMIT_{prefix}_{field}
// For example: RATELIMIT_CLIENT_REQUESTS, RATELIMIT_CLIENT_WINDOW_SEC,
// RATELIMIT_CLIENT_BURST.
func ParseRateLimitFromEnv(prefix string, defaultConfig RateLimitConfig) RateLimitConfig {
	config := defaultConfig

	if val := os.Getenv("RATELIMIT_" + prefix + "_REQUESTS"); val != "" {
		if requests, err := strconv.Atoi(val); err == nil && requests > 0 {
			config.RequestsPerWindow = requests
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_WINDOW_SEC"); val != "" {
		if windowSec, err := strconv.Atoi(val); err == nil && windowSec > 0 {
			config.Window = time.Duration(windowSec) * time.Second
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_BURST"); val != "" {
		if burst, err := strconv.Atoi(val); err == nil && burst > 0 {
			config.Burst = burst
		}
	}

	return config
}

// ThrottledTransport is an http.RoundTripper that waits on a token bucket
// before forwarding each request. Waiting respects the request context, so
// a cancelled caller never blocks on the limiter.
type ThrottledTransport struct {
	limiter *rate.Limiter
	base    http.RoundTripper
}

// NewThrottledTransport wraps base (http.DefaultTransport when nil) with the
// given rate limit.
func NewThrottledTransport(cfg RateLimitConfig, base http.RoundTripper) *ThrottledTransport {
	if base == nil {
		base = http.DefaultTransport
	}

	limit := rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds())
	return &ThrottledTransport{
		limiter: rate.NewLimiter(limit, cfg.Burst),
		base:    base,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *ThrottledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
