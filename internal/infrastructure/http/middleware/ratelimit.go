package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/questkitchen/backend/internal/infrastructure/config"
	"github.com/questkitchen/backend/pkg/errors"
)

// clientLimiter tracks the token bucket for one client
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client token bucket, keyed by client IP. It is
// attached to the credential endpoints to slow down brute-force attempts,
// not to the whole API.
type RateLimiter struct {
	cfg     *config.Config
	logger  *zap.Logger
	clients map[string]*clientLimiter
	mu      sync.Mutex
}

// NewRateLimiter creates a rate limiter from config
func NewRateLimiter(cfg *config.Config, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[string]*clientLimiter),
	}
}

// Limit is the Chi-compatible middleware enforcing the per-client budget
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.cfg.RateLimit.Enable {
			next.ServeHTTP(w, r)
			return
		}

		client := clientIP(r)
		if !rl.allow(client) {
			rl.logger.Warn("Rate limit exceeded",
				zap.String("client", client),
				zap.String("path", r.URL.Path),
			)

			appErr := errors.NewTooManyRequestsError()
			w.Header().Set("Retry-After", "60")
			writeDetail(w, appErr.StatusCode(), appErr.Message)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow reserves a token for the client, creating its bucket on first sight
// and evicting buckets idle for longer than the configured client TTL.
func (rl *RateLimiter) allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	ttl := rl.cfg.RateLimit.ClientTTL
	for key, entry := range rl.clients {
		if now.Sub(entry.lastSeen) > ttl {
			delete(rl.clients, key)
		}
	}

	entry, ok := rl.clients[client]
	if !ok {
		entry = &clientLimiter{
			limiter: rate.NewLimiter(
				rate.Limit(rl.cfg.RateLimit.RequestsPerMin)/60,
				rl.cfg.RateLimit.BurstSize,
			),
		}
		rl.clients[client] = entry
	}
	entry.lastSeen = now

	return entry.limiter.Allow()
}

// clientIP extracts the client address, preferring proxy headers when the
// request was forwarded.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, ok := strings.Cut(forwarded, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwarded)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
