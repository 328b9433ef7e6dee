package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/api/apperr"
)

// LoginRateLimit allows max attempts per client IP per fixed window.
func LoginRateLimit(rdb redis.Cmdable, max int, window time.Duration, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if ip == "" || rdb == nil || max <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			key := "rl:login:" + ip

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				log.Warn("login limiter unavailable, allowing request", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, window).Err()
			}
			if n > int64(max) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				apperr.WriteStatus(w, r, http.StatusTooManyRequests, "Too Many Requests", "too many login attempts")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
