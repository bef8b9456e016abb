package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

type Limiter interface {
	Consume(ctx context.Context, scope, subject string, limit int, window time.Duration) (count int, retryAfterSeconds int, err error)
}

// RedisLimiter conta tentativas numa janela fixa, compartilhada entre instâncias.
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisLimiter(client redis.UniversalClient, prefix string) *RedisLimiter {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "coursehub:rate_limit"
	}
	return &RedisLimiter{client: client, prefix: prefix}
}

func (r *RedisLimiter) Consume(ctx context.Context, scope, subject string, limit int, window time.Duration) (int, int, error) {
	if r == nil || r.client == nil || limit <= 0 || window <= 0 {
		return 0, 0, nil
	}
	scope = strings.TrimSpace(scope)
	subject = strings.TrimSpace(subject)
	if scope == "" || subject == "" {
		return 0, 0, nil
	}

	windowMs := window.Milliseconds()
	if windowMs < 1000 {
		windowMs = 1000
	}

	key := fmt.Sprintf("%s:%s:%s", r.prefix, scope, subject)
	raw, err := rateLimitScript.Run(ctx, r.client, []string{key}, windowMs).Result()
	if err != nil {
		return 0, 0, err
	}

	values, ok := raw.([]interface{})
	if !ok || len(values) != 2 {
		return 0, 0, fmt.Errorf("unexpected redis limiter response shape: %T", raw)
	}
	count, ok := values[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected redis limiter count type: %T", values[0])
	}
	ttlMs, ok := values[1].(int64)
	if !ok {
		return int(count), 0, fmt.Errorf("unexpected redis limiter ttl type: %T", values[1])
	}
	if ttlMs < 0 {
		ttlMs = windowMs
	}

	retryAfter := int(math.Ceil(float64(ttlMs) / 1000.0))
	if retryAfter < 1 {
		retryAfter = 1
	}
	return int(count), retryAfter, nil
}

// RateLimit limita tentativas por IP. Limiter nil desliga o limite; erro no
// Redis deixa passar (fail open) para não derrubar o login.
func RateLimit(limiter Limiter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return RateLimitWith(limiter, scope, limit, window, func(c *gin.Context) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "muitas tentativas, tente novamente mais tarde"})
	})
}

// RateLimitWith deixa a resposta do bloqueio para reject (ex.: página HTML com flash).
// Retry-After já vem setado e a cadeia é abortada depois de reject.
func RateLimitWith(limiter Limiter, scope string, limit int, window time.Duration, reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		count, retryAfter, err := limiter.Consume(c.Request.Context(), scope, c.ClientIP(), limit, window)
		if err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("rate limiter indisponível")
			c.Next()
			return
		}
		if count > limit {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			reject(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
