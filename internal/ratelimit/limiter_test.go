package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/monitoring"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFallbackLimiter(t *testing.T, cfg Config) (*RateLimiter, *monitoring.Metrics) {
	t.Helper()
	metrics := monitoring.NewMetrics()
	limiter := NewRateLimiter(&RedisClient{enabled: false}, cfg, metrics)
	t.Cleanup(limiter.Close)
	return limiter, metrics
}

func counterValue(t *testing.T, metrics *monitoring.Metrics, name string) float64 {
	t.Helper()
	families, err := metrics.Registry().Gather()
	require.NoError(t, err)

	total := 0.0
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestRateLimiterFallbackMode(t *testing.T) {
	limiter, _ := newFallbackLimiter(t, DefaultConfig())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := limiter.Allow(ctx, "test:cycle", PerMinute(5))
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 5, result.Limit)
	}

	result, err := limiter.Allow(ctx, "test:cycle", PerMinute(5))
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
	assert.Equal(t, 0, result.Remaining)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	limiter, _ := newFallbackLimiter(t, DefaultConfig())
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "a", PerMinute(1))
	require.NoError(t, err)
	blocked, _ := limiter.Allow(ctx, "a", PerMinute(1))
	assert.False(t, blocked.Allowed)

	other, _ := limiter.Allow(ctx, "b", PerMinute(1))
	assert.True(t, other.Allowed)
}

func TestRateLimiterZeroLimitDisables(t *testing.T) {
	limiter, _ := newFallbackLimiter(t, DefaultConfig())

	for i := 0; i < 20; i++ {
		result, err := limiter.Allow(context.Background(), "k", PerMinute(0))
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}
}

func TestEvictIdleBuckets(t *testing.T) {
	limiter, _ := newFallbackLimiter(t, Config{IdleTTL: time.Minute})

	_, _ = limiter.Allow(context.Background(), "k", PerMinute(3))
	assert.Equal(t, 0, limiter.evictIdle(time.Now()))
	assert.Equal(t, 1, limiter.evictIdle(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, limiter.GetStats()["fallback_limiters"])
}

func TestIPRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter, metrics := newFallbackLimiter(t, Config{IPLimitPerMin: 2})

	router := gin.New()
	router.Use(limiter.IPRateLimitMiddleware())
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/health", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		last = w
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), "rate_limit")
	assert.Equal(t, 1.0, counterValue(t, metrics, "rate_limit_blocks_total"))
}

func TestEndpointRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter, _ := newFallbackLimiter(t, DefaultConfig())

	router := gin.New()
	router.POST("/api/reports/precompute", limiter.EndpointRateLimitMiddleware("precompute", 1), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest("POST", "/api/reports/precompute", nil))
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Endpoint-Limit"))

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest("POST", "/api/reports/precompute", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRedisClientDisabled(t *testing.T) {
	client, err := NewRedisClient(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.False(t, client.IsEnabled())
	assert.Equal(t, map[string]interface{}{"enabled": false}, client.GetPoolStats())
	assert.Error(t, client.HealthCheck(context.Background()))
}

func TestRedisClientUnreachableFallsBack(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, err := NewRedisClient(ctx, "127.0.0.1:1", "", 0)
	require.Error(t, err)
	assert.False(t, client.IsEnabled())

	limiter := NewRateLimiter(client, Config{IPLimitPerMin: 1}, nil)
	defer limiter.Close()

	stats := limiter.GetStats()
	assert.Equal(t, false, stats["redis_enabled"])
	assert.NotContains(t, stats, "redis_pool")
}
