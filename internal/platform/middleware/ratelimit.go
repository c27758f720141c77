package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig sets the sustained rate and the burst each client
// can spend before requests are rejected with 429.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{RequestsPerSecond: 100, BurstSize: 200}
}

// bucket is a token bucket refilled lazily on each take.
type bucket struct {
	mu     sync.Mutex
	tokens float64
	seen   time.Time
}

// take refills from the elapsed time and spends one token. When the
// bucket is empty it returns the whole seconds to wait before a token
// becomes available.
func (b *bucket) take(rate, burst float64, now time.Time) (bool, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens += now.Sub(b.seen).Seconds() * rate
	if b.tokens > burst {
		b.tokens = burst
	}
	b.seen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if rate <= 0 {
		return false, 1
	}
	return false, int((1-b.tokens)/rate) + 1
}

// limiter keeps one bucket per client key and evicts buckets that
// have been idle long enough to be full again.
type limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	cfg     RateLimitConfig
	sweep   time.Time
}

const bucketIdleEviction = 10 * time.Minute

func newLimiter(cfg RateLimitConfig) *limiter {
	return &limiter{buckets: make(map[string]*bucket), cfg: cfg, sweep: time.Now()}
}

func (l *limiter) bucket(key string, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.sweep) > bucketIdleEviction {
		for k, b := range l.buckets {
			b.mu.Lock()
			idle := now.Sub(b.seen) > bucketIdleEviction
			b.mu.Unlock()
			if idle {
				delete(l.buckets, k)
			}
		}
		l.sweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(l.cfg.BurstSize), seen: now}
		l.buckets[key] = b
	}
	return b
}

// RateLimit rejects clients that exceed the configured rate. Requests
// are keyed by client IP, prefixed with the caller's tenant when a
// token identified one, so tenants behind a shared proxy do not starve
// each other.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	l := newLimiter(cfg)
	limit := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', 0, 64)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if tenantID, ok := c.Get("jwt_tenant_id").(string); ok && tenantID != "" {
				key = tenantID + ":" + key
			}

			now := time.Now()
			ok, retryAfter := l.bucket(key, now).take(cfg.RequestsPerSecond, float64(cfg.BurstSize), now)
			c.Response().Header().Set("X-RateLimit-Limit", limit)
			if !ok {
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
