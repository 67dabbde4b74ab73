package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"cognicard/internal/httputil"
	"cognicard/internal/metrics"
)

// RateLimiter hands out one token bucket per caller.
// Callers are keyed by user id when authenticated, otherwise by client IP.
type RateLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	lastCleanup time.Time

	limit   rate.Limit
	burst   int
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewRateLimiter creates a limiter allowing perSecond requests with the given burst per caller
func NewRateLimiter(perSecond float64, burst int, m *metrics.Metrics, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		limiters:    make(map[string]*rate.Limiter),
		lastCleanup: time.Now(),
		limit:       rate.Limit(perSecond),
		burst:       burst,
		metrics:     m,
		logger:      logger,
	}
}

// Middleware rejects callers over their budget with 429. Must run after AuthMiddleware.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := httputil.GetUserID(r)
		if key == "" {
			key = "ip:" + clientIP(r)
		}

		if !rl.limiter(key).Allow() {
			rl.metrics.RecordRateLimited()
			rl.logger.Warn("rate limit exceeded", "caller", key, "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			httputil.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Idle buckets refill to full anyway, so dropping them all hourly is harmless
	if time.Since(rl.lastCleanup) > time.Hour {
		rl.limiters = make(map[string]*rate.Limiter)
		rl.lastCleanup = time.Now()
	}

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

// clientIP extracts the client address, honoring proxy headers
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}
