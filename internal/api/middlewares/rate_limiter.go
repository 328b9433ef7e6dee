package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/api/apperr"
)

type KeyFunc func(r *http.Request) string

// PerIPKey keys buckets by client address; authenticated callers are keyed by user id.
func PerIPKey(prefix string) KeyFunc {
	return func(r *http.Request) string {
		if id, ok := IdentityFrom(r.Context()); ok {
			return prefix + ":user:" + strconv.FormatInt(id.UserID, 10)
		}
		ip := clientIP(r)
		if ip == "" {
			ip = "unknown"
		}
		return prefix + ":ip:" + ip
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return strings.TrimSpace(xrip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

// tokenBucket refills at ARGV[1] tokens/s up to ARGV[2] and returns
// {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
local key  = KEYS[1]
local rate = tonumber(ARGV[1])
local cap  = tonumber(ARGV[2])

local t = redis.call('TIME')
local now_ms = (tonumber(t[1]) * 1000) + math.floor(tonumber(t[2]) / 1000)

local data = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(data[1])
local ts     = tonumber(data[2])
if tokens == nil then
  tokens = cap
  ts = now_ms
end

local delta_ms = now_ms - ts
if delta_ms > 0 then
  tokens = math.min(cap, tokens + (delta_ms / 1000.0) * rate)
end

local allowed = 0
local retry_after_ms = 0
if tokens >= 1.0 then
  tokens = tokens - 1.0
  allowed = 1
else
  retry_after_ms = math.ceil((1.0 - tokens) * 1000.0 / rate)
end

redis.call('HSET', key, 'tokens', tokens, 'ts', now_ms)
redis.call('PEXPIRE', key, math.ceil((cap / rate) * 1000.0))

return {allowed, math.floor(tokens), retry_after_ms}
`)

// RedisTokenBucket is a shared-state limiter; it fails open when Redis is unavailable.
type RedisTokenBucket struct {
	rdb   redis.Scripter
	keyFn KeyFunc
	rate  float64
	burst int
	log   *zap.Logger
}

func NewRedisTokenBucket(rdb redis.Scripter, ratePerSecond float64, burst int, keyFn KeyFunc, log *zap.Logger) *RedisTokenBucket {
	return &RedisTokenBucket{rdb: rdb, keyFn: keyFn, rate: ratePerSecond, burst: burst, log: log}
}

func (tb *RedisTokenBucket) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tb.rdb == nil || tb.rate <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		key := tb.keyFn(r)
		res, err := tokenBucket.Run(r.Context(), tb.rdb, []string{key},
			strconv.FormatFloat(tb.rate, 'f', -1, 64),
			strconv.Itoa(tb.burst),
		).Int64Slice()
		if err != nil || len(res) != 3 {
			tb.log.Warn("rate limiter unavailable, allowing request", zap.String("key", key), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(tb.burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))

		if res[0] != 1 {
			sec := max((res[2]+999)/1000, 1)
			w.Header().Set("Retry-After", strconv.FormatInt(sec, 10))
			tb.log.Info("rate limited", zap.String("key", key), zap.Int64("retry_after_s", sec))
			apperr.WriteStatus(w, r, http.StatusTooManyRequests, "Too Many Requests", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}
