package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rookgm/storefront/internal/auth"
	"github.com/rookgm/storefront/internal/logger"
	"go.uber.org/zap"
)

// Limiter decides whether caller identified by key may proceed
type Limiter interface {
	Allow(key string) (bool, time.Duration)
}

// callerKey identifies caller by user id when authenticated, else by remote address
func callerKey(r *http.Request) string {
	if payload, ok := auth.PayloadFromContext(r.Context()); ok {
		return "user:" + strconv.FormatUint(payload.UserID, 10)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

// RateLimit rejects callers that exceed limit with 429 and Retry-After
func RateLimit(l Limiter) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := callerKey(r)

			allowed, retryAfter := l.Allow(key)
			if !allowed {
				logger.Log.Warn("rate limit exceeded", zap.String("caller", key), zap.String("path", r.URL.Path))
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
