package main

import (
	"net/http"
	"time"

	_ "github.com/ZanzyTHEbar/engagement-pulse/docs"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/analysis"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/cache"
	apperrors "github.com/ZanzyTHEbar/engagement-pulse/internal/errors"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/middleware"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/monitoring"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/ratelimit"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/report"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/resilience"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/security"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// poolStatser reports connection pool usage
type poolStatser interface {
	GetPoolStats() map[string]interface{}
}

// serverDeps is everything the router needs. limiter, cache, compression and
// database are optional.
type serverDeps struct {
	service                *report.Service
	riskModel              analysis.RiskModel
	degradation            *resilience.DegradationManager
	metrics                *monitoring.Metrics
	logger                 *monitoring.Logger
	limiter                *ratelimit.RateLimiter
	precomputeLimit        int
	cache                  *cache.Cache
	compression            *middleware.CompressionMiddleware
	database               poolStatser
	corsOrigins            []string
	security               security.Config
	participationThreshold float64
}

func setupRouter(deps serverDeps) *gin.Engine {
	r := gin.New()

	r.Use(apperrors.RecoveryHandler())
	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(deps.metrics, deps.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(deps.logger))
	r.Use(security.HeadersMiddleware(deps.security.EnableHSTS, "/swagger"))
	if c := corsConfig(deps.corsOrigins); c != nil {
		r.Use(cors.New(*c))
	}
	r.Use(apperrors.ErrorHandler())

	h := &handlers{deps: deps}

	r.GET("/metrics", gin.WrapH(deps.metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	if deps.compression != nil {
		api.Use(deps.compression.Handler())
	}
	api.Use(security.ValidateContentType())
	api.Use(security.LimitBody(deps.security.MaxBodyBytes))
	api.Use(security.RequestTimeout(deps.security.RequestTimeout))
	if deps.limiter != nil {
		api.Use(deps.limiter.IPRateLimitMiddleware())
	}

	// responses of these depend only on the request body
	pure := []gin.HandlerFunc{}
	if deps.cache != nil {
		pure = append(pure, deps.cache.Middleware(deps.metrics))
	}

	precompute := []gin.HandlerFunc{}
	if deps.limiter != nil && deps.precomputeLimit > 0 {
		precompute = append(precompute, deps.limiter.EndpointRateLimitMiddleware("precompute", deps.precomputeLimit))
	}

	api.GET("/health", h.health)
	api.POST("/reports/precompute", chain(precompute, h.precompute)...)
	api.GET("/reports", h.listReports)
	api.GET("/reports/:cycleId", h.getReport)
	api.GET("/trends", h.engagementTrend)
	api.POST("/trends/aggregate", chain(pure, h.aggregateTrend)...)
	api.GET("/drivers", h.storedDrivers)
	api.POST("/drivers/analyze", chain(pure, h.analyzeDrivers)...)
	api.POST("/risk", chain(pure, h.risk)...)
	api.POST("/participation", chain(pure, h.participation)...)

	stats := api.Group("/stats")
	stats.GET("/cache", h.cacheStats)
	stats.GET("/ratelimit", h.rateLimitStats)
	stats.GET("/pools/database", h.databasePoolStats)
	stats.GET("/pools/compression", h.compressionStats)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return r
}

func chain(mw []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, handler)
}

func corsConfig(origins []string) *cors.Config {
	if len(origins) == 0 {
		return nil
	}

	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", monitoring.RequestIDHeader},
		ExposeHeaders:    []string{monitoring.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return &c
		}
	}
	c.AllowOrigins = origins
	return &c
}
