package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for rate-limit observations.
var (
	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helpscout_rate_limited_total",
		Help: "Total 429 responses observed",
	})

	retryAfterSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "helpscout_retry_after_seconds",
		Help: "Retry-After value of the most recently observed 429 response",
	})
)

// Observer records 429 Retry-After windows. With a Redis client the state is
// shared across processes; without one it stays process-local.
type Observer struct {
	redis  *redis.Client
	logger zerolog.Logger

	mu    sync.Mutex
	local State
}

// NewObserver creates an observer. redisClient may be nil.
func NewObserver(redisClient *redis.Client, logger zerolog.Logger) *Observer {
	return &Observer{
		redis:  redisClient,
		logger: logger,
	}
}

// Observe records one response outcome. Anything other than a 429 is
// ignored; on 429 the Retry-After window is parsed and stored. Storage
// failures are logged, never surfaced: observation must not fail a request
// that already completed.
func (o *Observer) Observe(ctx context.Context, statusCode int, headers http.Header) {
	if statusCode != http.StatusTooManyRequests {
		return
	}

	now := time.Now()
	window := parseRetryAfter(headers.Get("Retry-After"), now)

	state := State{
		BlockedUntil: now.Add(window),
		LastObserved: now,
	}

	o.mu.Lock()
	o.local = state
	o.mu.Unlock()

	rateLimitedTotal.Inc()
	retryAfterSeconds.Set(window.Seconds())

	o.logger.Warn().
		Dur("retry_after", window).
		Time("blocked_until", state.BlockedUntil).
		Msg("Rate limit response observed")

	if o.redis == nil {
		return
	}

	pipe := o.redis.Pipeline()
	pipe.Set(ctx, RedisKeyBlockedUntil, state.BlockedUntil.Unix(), 0)
	pipe.Set(ctx, RedisKeyLastObserved, state.LastObserved.Unix(), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		o.logger.Warn().Err(err).Msg("Failed to store rate limit observation in redis")
	}
}

// Snapshot returns the current observation. With Redis configured the shared
// state wins; otherwise the process-local state is returned. A fleet that
// has never seen a 429 gets a zero State.
func (o *Observer) Snapshot(ctx context.Context) (*State, error) {
	if o.redis == nil {
		o.mu.Lock()
		defer o.mu.Unlock()
		state := o.local
		return &state, nil
	}

	blockedUntil, err := o.redis.Get(ctx, RedisKeyBlockedUntil).Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get blocked until: %w", err)
	}

	lastObserved, err := o.redis.Get(ctx, RedisKeyLastObserved).Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get last observed: %w", err)
	}

	if err == redis.Nil {
		return &State{}, nil
	}

	return &State{
		BlockedUntil: time.Unix(blockedUntil, 0),
		LastObserved: time.Unix(lastObserved, 0),
	}, nil
}

// parseRetryAfter handles both forms of the Retry-After header: delay
// seconds and an HTTP date. An unparsable or missing value yields 0.
func parseRetryAfter(value string, now time.Time) time.Duration {
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if at.Before(now) {
			return 0
		}
		return at.Sub(now)
	}

	return 0
}
