package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type countingLimiter struct {
	counts map[string]int
	err    error
}

func (l *countingLimiter) Consume(_ context.Context, scope, subject string, _ int, _ time.Duration) (int, int, error) {
	if l.err != nil {
		return 0, 0, l.err
	}
	l.counts[scope+subject]++
	return l.counts[scope+subject], 30, nil
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.Any("/login", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func do(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	limiter := &countingLimiter{counts: map[string]int{}}
	r := newEngine(RateLimit(limiter, "login", 2, time.Minute))

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/login", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/login", nil).Code)

	w := do(r, http.MethodPost, "/login", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))

	// GET (renderizar o formulário) não conta
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/login", nil).Code)
}

func TestRateLimitWith_CustomReject(t *testing.T) {
	limiter := &countingLimiter{counts: map[string]int{}}
	r := newEngine(RateLimitWith(limiter, "login", 1, time.Minute, func(c *gin.Context) {
		c.String(http.StatusTooManyRequests, "slow down")
	}))

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/login", nil).Code)

	w := do(r, http.MethodPost, "/login", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "slow down", w.Body.String())
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
}

func TestRateLimit_FailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	r := newEngine(RateLimit(NewRedisLimiter(client, ""), "login", 1, time.Minute))
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/login", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/login", nil).Code)

	r = newEngine(RateLimit(nil, "login", 1, time.Minute))
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/login", nil).Code)
}

func TestRedisLimiter_NoopWhenUnconfigured(t *testing.T) {
	var l *RedisLimiter
	n, retry, err := l.Consume(context.Background(), "login", "1.2.3.4", 5, time.Minute)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, retry)
}

func TestCORS(t *testing.T) {
	r := newEngine(CORSMiddleware())
	w := do(r, http.MethodOptions, "/login", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	r = newEngine(CORSMiddleware("https://app.example.com"))
	w = do(r, http.MethodGet, "/login", map[string]string{"Origin": "https://app.example.com"})
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	w = do(r, http.MethodGet, "/login", map[string]string{"Origin": "https://evil.example.com"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetrics(t *testing.T) {
	r := newEngine(Metrics())
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/login", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/nope", nil).Code)
}
