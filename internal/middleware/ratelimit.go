package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/convive/convive/internal/httputil"
)

// RateLimitConfig controls one token-bucket rate limiter.
type RateLimitConfig struct {
	Capacity     int           // burst size, bucket starts full
	RefillRate   int           // tokens added per refill period
	RefillPeriod time.Duration // how often tokens are added
}

// APIRateLimitConfig is the general per-client limit for /api/v1 routes.
func APIRateLimitConfig(requests, intervalSeconds int) RateLimitConfig {
	if requests <= 0 {
		requests = 100
	}
	if intervalSeconds <= 0 {
		intervalSeconds = 60
	}
	return RateLimitConfig{
		Capacity:     requests,
		RefillRate:   requests,
		RefillPeriod: time.Duration(intervalSeconds) * time.Second,
	}
}

// AuthRateLimitConfig is the stricter limit for code-request and login routes.
func AuthRateLimitConfig(requests, intervalSeconds int) RateLimitConfig {
	if requests <= 0 {
		requests = 5
	}
	if intervalSeconds <= 0 {
		intervalSeconds = 60
	}
	return RateLimitConfig{
		Capacity:     requests,
		RefillRate:   requests,
		RefillPeriod: time.Duration(intervalSeconds) * time.Second,
	}
}

// tokenBucket is one client's bucket.
type tokenBucket struct {
	mu         sync.Mutex
	tokens     int
	lastRefill time.Time
}

func (tb *tokenBucket) allow(cfg RateLimitConfig, now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	periods := int(now.Sub(tb.lastRefill) / cfg.RefillPeriod)
	if periods > 0 {
		tb.tokens += periods * cfg.RefillRate
		if tb.tokens > cfg.Capacity {
			tb.tokens = cfg.Capacity
		}
		tb.lastRefill = tb.lastRefill.Add(time.Duration(periods) * cfg.RefillPeriod)
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimiter keys token buckets by client IP.
type RateLimiter struct {
	mu      sync.Mutex
	cfg     RateLimitConfig
	buckets map[string]*tokenBucket
}

// NewRateLimiter creates one limiter with per-client buckets.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{cfg: cfg, buckets: make(map[string]*tokenBucket)}
}

// Allow reports whether a request from key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	bucket, ok := rl.buckets[key]
	if !ok {
		bucket = &tokenBucket{tokens: rl.cfg.Capacity, lastRefill: now}
		rl.buckets[key] = bucket
	}
	if len(rl.buckets) > 4096 {
		rl.cleanupStaleLocked(now)
	}
	rl.mu.Unlock()

	return bucket.allow(rl.cfg, now)
}

// cleanupStaleLocked drops buckets idle for several refill periods.
// Caller holds rl.mu.
func (rl *RateLimiter) cleanupStaleLocked(now time.Time) {
	cutoff := now.Add(-4 * rl.cfg.RefillPeriod)
	for key, bucket := range rl.buckets {
		bucket.mu.Lock()
		stale := bucket.lastRefill.Before(cutoff)
		bucket.mu.Unlock()
		if stale {
			delete(rl.buckets, key)
		}
	}
}

// Middleware returns a chi middleware rejecting over-limit requests with 429.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(clientKey(r)) {
				httputil.ErrorWithCode(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey extracts the client IP, relying on chi's RealIP middleware having
// already rewritten RemoteAddr from X-Forwarded-For.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
