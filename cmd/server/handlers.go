package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/analysis"
	apperrors "github.com/ZanzyTHEbar/engagement-pulse/internal/errors"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/report"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/resilience"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/types"
	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type handlers struct {
	deps serverDeps
}

// bind decodes the JSON body or records a validation error
func bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(apperrors.NewValidationError("invalid JSON body", err.Error()))
		return false
	}
	return true
}

func invalid(c *gin.Context, problems map[string]string) bool {
	if len(problems) == 0 {
		return false
	}
	_ = c.Error(apperrors.NewValidationErrorWithMap(problems))
	return true
}

// health godoc
//
//	@Summary	Service health
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	types.HealthResponse
//	@Failure	503	{object}	types.HealthResponse
//	@Router		/api/health [get]
func (h *handlers) health(c *gin.Context) {
	resp := types.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  map[string]interface{}{},
		Metrics:   h.deps.metrics.GetStats(),
	}

	status := http.StatusOK
	if h.deps.degradation != nil {
		for name, svc := range h.deps.degradation.GetAllServiceHealth() {
			resp.Services[name] = svc
			if svc.Level == resilience.LevelNormal {
				continue
			}
			if resp.Status == "ok" {
				resp.Status = "degraded"
			}
			// reports still work with fallback insights; storage does not
			if name == "database" && svc.Level == resilience.LevelEmergency {
				resp.Status = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}
	}

	c.JSON(status, resp)
}

// precompute godoc
//
//	@Summary	Generate and store the report for a feedback cycle
//	@Tags		reports
//	@Accept		json
//	@Produce	json
//	@Param		request	body		types.PrecomputeRequest	true	"cycle responses"
//	@Success	200		{object}	map[string]interface{}
//	@Failure	400		{object}	map[string]interface{}
//	@Failure	502		{object}	map[string]interface{}
//	@Router		/api/reports/precompute [post]
func (h *handlers) precompute(c *gin.Context) {
	var req types.PrecomputeRequest
	if !bind(c, &req) || invalid(c, req.Validate()) {
		return
	}

	in := report.InputFromRequest(req, h.deps.security.MaxTextLength)

	r, err := h.deps.service.Precompute(c.Request.Context(), in)
	if err != nil {
		appErr := apperrors.ToAppError(err)
		appErr.RequestID = c.GetString("request_id")
		apperrors.LogError(c, appErr)

		body := appErr.Response()
		body["error"] = "Failed to generate report"
		c.JSON(appErr.HTTPStatus, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "report": r})
}

// getReport godoc
//
//	@Summary	Fetch the stored report for a cycle
//	@Tags		reports
//	@Produce	json
//	@Param		cycleId	path		string	true	"cycle id"
//	@Success	200		{object}	report.CycleReport
//	@Failure	404		{object}	map[string]interface{}
//	@Router		/api/reports/{cycleId} [get]
func (h *handlers) getReport(c *gin.Context) {
	r, err := h.deps.service.Get(c.Request.Context(), c.Param("cycleId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// listReports godoc
//
//	@Summary	List stored report summaries, newest first
//	@Tags		reports
//	@Produce	json
//	@Param		limit	query		int	false	"max summaries"	default(50)
//	@Success	200		{object}	map[string]interface{}
//	@Router		/api/reports [get]
func (h *handlers) listReports(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil || l <= 0 || l > maxHistoryLimit {
			invalid(c, map[string]string{"limit": "must be between 1 and " + strconv.Itoa(maxHistoryLimit)})
			return
		}
		limit = l
	}

	summaries, err := h.deps.service.History(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": summaries})
}

// engagementTrend godoc
//
//	@Summary	Engagement index over stored reports, bucketed by month or quarter
//	@Tags		trends
//	@Produce	json
//	@Param		interval	query		string	false	"month or quarter"	default(month)
//	@Success	200			{object}	report.TrendResponse
//	@Failure	400			{object}	map[string]interface{}
//	@Router		/api/trends [get]
func (h *handlers) engagementTrend(c *gin.Context) {
	interval, err := analysis.ParseInterval(c.DefaultQuery("interval", string(analysis.IntervalMonth)))
	if err != nil {
		invalid(c, map[string]string{"interval": err.Error()})
		return
	}

	buckets, err := h.deps.service.EngagementTrend(c.Request.Context(), interval)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, report.TrendResponse{Interval: string(interval), Buckets: buckets})
}

// aggregateTrend godoc
//
//	@Summary	Bucket arbitrary dated scores by month or quarter
//	@Tags		trends
//	@Accept		json
//	@Produce	json
//	@Param		request	body		types.TrendAggregateRequest	true	"dated scores"
//	@Success	200		{object}	report.TrendResponse
//	@Failure	400		{object}	map[string]interface{}
//	@Router		/api/trends/aggregate [post]
func (h *handlers) aggregateTrend(c *gin.Context) {
	var req types.TrendAggregateRequest
	if !bind(c, &req) {
		return
	}

	points, interval, problems := req.ScorePoints()
	if invalid(c, problems) {
		return
	}

	buckets := report.SortedBuckets(analysis.AggregateTimeSeries(points, interval))
	c.JSON(http.StatusOK, report.TrendResponse{Interval: string(interval), Buckets: buckets})
}

// storedDrivers godoc
//
//	@Summary	Rank themes by impact across stored reports
//	@Tags		drivers
//	@Produce	json
//	@Success	200	{object}	types.DriverResponse
//	@Router		/api/drivers [get]
func (h *handlers) storedDrivers(c *gin.Context) {
	drivers, err := h.deps.service.StoredDrivers(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.DriverResponse{Drivers: nonNil(drivers)})
}

// analyzeDrivers godoc
//
//	@Summary	Rank supplied theme series by impact on engagement
//	@Tags		drivers
//	@Accept		json
//	@Produce	json
//	@Param		request	body		types.DriverRequest	true	"theme series"
//	@Success	200		{object}	types.DriverResponse
//	@Failure	400		{object}	map[string]interface{}
//	@Router		/api/drivers/analyze [post]
func (h *handlers) analyzeDrivers(c *gin.Context) {
	var req types.DriverRequest
	if !bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, types.DriverResponse{Drivers: nonNil(analysis.AnalyzeDrivers(req.Themes))})
}

// risk godoc
//
//	@Summary	Attrition risk percentage
//	@Tags		risk
//	@Accept		json
//	@Produce	json
//	@Param		request	body		types.RiskRequest	true	"risk features"
//	@Success	200		{object}	types.RiskResponse
//	@Failure	400		{object}	map[string]interface{}
//	@Router		/api/risk [post]
func (h *handlers) risk(c *gin.Context) {
	var req types.RiskRequest
	if !bind(c, &req) || invalid(c, req.Validate()) {
		return
	}

	features := analysis.RiskFeatures{
		EngagementScore: req.EngagementScore,
		TenureMonths:    report.DefaultTenureMonths,
		ManagerRating:   report.DefaultManagerRating,
	}
	if req.TenureMonths != nil {
		features.TenureMonths = *req.TenureMonths
	}
	if req.ManagerRating != nil {
		features.ManagerRating = *req.ManagerRating
	}

	c.JSON(http.StatusOK, types.RiskResponse{RiskScore: analysis.AttritionRisk(h.deps.riskModel, features)})
}

// participation godoc
//
//	@Summary	Response rate and at-risk flag
//	@Tags		participation
//	@Accept		json
//	@Produce	json
//	@Param		request	body		types.ParticipationRequest	true	"counts"
//	@Success	200		{object}	analysis.Participation
//	@Failure	400		{object}	map[string]interface{}
//	@Router		/api/participation [post]
func (h *handlers) participation(c *gin.Context) {
	var req types.ParticipationRequest
	if !bind(c, &req) || invalid(c, req.Validate()) {
		return
	}

	threshold := h.deps.participationThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if threshold <= 0 {
		threshold = analysis.DefaultParticipationThreshold
	}

	c.JSON(http.StatusOK, analysis.SummarizeParticipation(req.Completed, req.Invited, threshold))
}

func nonNil(drivers []analysis.DriverImpact) []analysis.DriverImpact {
	if drivers == nil {
		return []analysis.DriverImpact{}
	}
	return drivers
}

var disabledStats = gin.H{"enabled": false}

// cacheStats godoc
//
//	@Summary	Response cache statistics
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/api/stats/cache [get]
func (h *handlers) cacheStats(c *gin.Context) {
	if h.deps.cache == nil {
		c.JSON(http.StatusOK, disabledStats)
		return
	}
	c.JSON(http.StatusOK, h.deps.cache.Stats())
}

// rateLimitStats godoc
//
//	@Summary	Rate limiter statistics, including the redis pool when connected
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/api/stats/ratelimit [get]
func (h *handlers) rateLimitStats(c *gin.Context) {
	if h.deps.limiter == nil {
		c.JSON(http.StatusOK, disabledStats)
		return
	}
	c.JSON(http.StatusOK, h.deps.limiter.GetStats())
}

// databasePoolStats godoc
//
//	@Summary	Database connection pool statistics
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/api/stats/pools/database [get]
func (h *handlers) databasePoolStats(c *gin.Context) {
	if h.deps.database == nil {
		c.JSON(http.StatusOK, gin.H{"pool": "database", "stats": disabledStats})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pool": "database", "stats": h.deps.database.GetPoolStats()})
}

// compressionStats godoc
//
//	@Summary	Response compression statistics
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/api/stats/pools/compression [get]
func (h *handlers) compressionStats(c *gin.Context) {
	if h.deps.compression == nil {
		c.JSON(http.StatusOK, gin.H{"pool": "compression", "stats": disabledStats})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pool": "compression", "stats": h.deps.compression.Stats().GetStats()})
}
