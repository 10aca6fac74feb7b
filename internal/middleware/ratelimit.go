package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/staywise/booking-api/internal/config"
	"github.com/staywise/booking-api/internal/observability/metrics"
)

var limiterScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		local until_next = interval_ms - (now_ms - last_refill)
		if until_next < 0 then until_next = 0 end
		retry_after_ms = until_next
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// decision is the outcome of taking one token from a bucket.
type decision struct {
	allowed   bool
	remaining int64
	retryMs   int64
}

// localBucket is the in-process twin of the Lua script's bucket state.
type localBucket struct {
	mu         sync.Mutex
	tokens     int64
	lastRefill time.Time
}

func (b *localBucket) take(cfg config.RateLimitConfig, now time.Time) decision {
	b.mu.Lock()
	defer b.mu.Unlock()

	if elapsed := now.Sub(b.lastRefill); elapsed >= cfg.RefillInterval {
		intervals := int64(elapsed / cfg.RefillInterval)
		b.tokens = min(int64(cfg.Capacity), b.tokens+intervals*int64(cfg.RefillTokens))
		b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * cfg.RefillInterval)
	}
	if b.tokens > 0 {
		b.tokens--
		return decision{allowed: true, remaining: b.tokens}
	}
	wait := cfg.RefillInterval - now.Sub(b.lastRefill)
	if wait < 0 {
		wait = 0
	}
	return decision{remaining: 0, retryMs: wait.Milliseconds()}
}

// NewTokenBucket limits requests per key (see buildRateKey).  Buckets live
// in Redis when rdb is non-nil so limits hold across instances; otherwise
// they are kept in a bounded process-local cache.  A Redis failure lets
// the request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, logger *slog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled {
		return passThrough
	}

	backend := "redis"
	take := func(c echo.Context, key string, now time.Time) (decision, bool) {
		return takeRedis(c, rdb, cfg, key, now, logger)
	}
	if rdb == nil {
		backend = "local"
		buckets := ccache.New(ccache.Configure[*localBucket]().MaxSize(cfg.LocalMaxKeys))
		take = func(_ echo.Context, key string, now time.Time) (decision, bool) {
			item, err := buckets.Fetch(key, cfg.TTL, func() (*localBucket, error) {
				return &localBucket{tokens: int64(cfg.Capacity), lastRefill: now}, nil
			})
			if err != nil {
				return decision{}, false
			}
			item.Extend(cfg.TTL)
			return item.Value().take(cfg, now), true
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			d, ok := take(c, key, time.Now())
			if !ok {
				return next(c)
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))

			if !d.allowed {
				secs := int(math.Ceil(float64(d.retryMs) / 1000.0))
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				metrics.ObserveRateLimited(backend)
				if cfg.Debug {
					logger.Info("rate limited", "key", key, "retry_ms", d.retryMs, "backend", backend)
				}
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"message":     "Too many requests, please try again later",
					"retry_after": secs,
				})
			}
			if cfg.Debug {
				c.Response().Header().Set("X-RateLimit-Key", key)
			}
			return next(c)
		}
	}
}

func takeRedis(c echo.Context, rdb *redis.Client, cfg config.RateLimitConfig, key string, now time.Time, logger *slog.Logger) (decision, bool) {
	args := []interface{}{
		now.UnixMilli(),
		cfg.Capacity,
		cfg.RefillTokens,
		cfg.RefillInterval.Milliseconds(),
		int64(cfg.TTL / time.Second),
	}
	vals, err := limiterScript.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
	if err != nil {
		logger.Warn("rate limit script failed", "key", key, "error", err)
		return decision{}, false
	}
	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 3 {
		logger.Warn("unexpected rate limit script result", "key", key, "result", fmt.Sprintf("%#v", vals))
		return decision{}, false
	}
	return decision{
		allowed:   asInt64(arr[0]) == 1,
		remaining: asInt64(arr[1]),
		retryMs:   asInt64(arr[2]),
	}, true
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := rateSubject(c)
	route := c.Request().Method + " " + c.Path()

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", uid)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	case "user_route":
		parts = append(parts, "user", uid, "route", route)
	default:
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}
	return strings.Join(parts, ":")
}
