package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/taskly-api/internal/api/shared"
	"github.com/phrazzld/taskly-api/internal/platform/logger"
	"github.com/redis/go-redis/v9"
)

// Rate limit groups.
const (
	GroupAuth = "auth"
	GroupAPI  = "api"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimiter counts requests per client and group in fixed windows stored
// in Redis. When Redis is unreachable requests are allowed through.
type RateLimiter struct {
	client redis.Cmdable
	window time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewRateLimiter creates a limiter with one-minute windows.
func NewRateLimiter(client redis.Cmdable, log *slog.Logger) *RateLimiter {
	if log == nil {
		log = slog.Default()
	}
	return &RateLimiter{
		client: client,
		window: time.Minute,
		logger: log.With(slog.String("component", "rate_limiter")),
		now:    time.Now,
	}
}

// Limit returns middleware allowing at most limit requests per window for
// each client IP in group.
func (l *RateLimiter) Limit(group string, limit int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := l.now()
			windowStart := now.Truncate(l.window)
			reset := windowStart.Add(l.window)

			count, err := l.incr(r.Context(), l.key(group, clientIP(r), windowStart))
			if err != nil {
				logger.FromContextOrDefault(r.Context(), l.logger).Warn("rate limiter unavailable, allowing request",
					slog.String("group", group),
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			remaining := max(int64(limit)-count, 0)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if count > int64(limit) {
				retryAfter := int(reset.Sub(now).Seconds() + 0.5)
				w.Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "rate_limited",
					"Too many requests, please try again later", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *RateLimiter) key(group, client string, windowStart time.Time) string {
	return fmt.Sprintf("%s%s:%s:%d", rateLimitKeyPrefix, group, client, windowStart.Unix())
}

// incr bumps the window counter and sets its expiry in one round trip.
func (l *RateLimiter) incr(ctx context.Context, key string) (int64, error) {
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// clientIP returns the host part of RemoteAddr, which RealIP has already
// rewritten from forwarding headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
