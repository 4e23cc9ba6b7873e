package report

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/analysis"
	apperrors "github.com/ZanzyTHEbar/engagement-pulse/internal/errors"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/monitoring"
)

// ErrNotFound is returned by a Store when no report exists for a cycle
var ErrNotFound = errors.New("report not found")

// Store persists generated reports
type Store interface {
	SaveReport(ctx context.Context, r CycleReport) error
	GetReport(ctx context.Context, cycleID string) (CycleReport, error)
	ListReports(ctx context.Context, limit int) ([]Summary, error)
}

// ThemeHistory is implemented by stores that can replay per-theme history
type ThemeHistory interface {
	ThemeSeries(ctx context.Context) ([]analysis.ThemeSeries, error)
}

// Publisher announces generated reports to downstream consumers
type Publisher interface {
	PublishReport(ctx context.Context, r CycleReport) error
}

// Summary is the slice of a stored report used for history and trends
type Summary struct {
	ReportID        string    `json:"reportId"`
	CycleID         string    `json:"cycleId"`
	EngagementIndex float64   `json:"engagementIndex"`
	RiskScore       float64   `json:"riskScore"`
	GeneratedAt     time.Time `json:"generatedAt"`
}

// Service generates, stores and publishes reports
type Service struct {
	orchestrator *Orchestrator
	store        Store
	publisher    Publisher
	logger       *monitoring.Logger
	metrics      *monitoring.Metrics
}

// NewService wires the report pipeline; store, publisher, logger and metrics may be nil
func NewService(orchestrator *Orchestrator, store Store, publisher Publisher, logger *monitoring.Logger, metrics *monitoring.Metrics) *Service {
	return &Service{
		orchestrator: orchestrator,
		store:        store,
		publisher:    publisher,
		logger:       logger,
		metrics:      metrics,
	}
}

// Precompute generates a report, stores it and publishes it. A publish failure
// is logged and does not fail the call.
func (s *Service) Precompute(ctx context.Context, in Input) (CycleReport, error) {
	start := time.Now()

	r, err := s.orchestrator.Generate(ctx, in)
	if err != nil {
		return CycleReport{}, err
	}

	if s.store != nil {
		if err := s.store.SaveReport(ctx, r); err != nil {
			return CycleReport{}, apperrors.NewInternalError("failed to store report", err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishReport(ctx, r); err != nil && s.logger != nil {
			s.logger.Warn("Failed to publish report event", "cycle_id", r.CycleID, "error", err)
		}
	}

	duration := time.Since(start)
	source := string(r.NLPInsights.DataQuality.Source)
	s.metrics.ReportGenerated(source, duration)
	if s.logger != nil {
		s.logger.ReportLogger(r.CycleID, r.EngagementIndex, r.RiskScore, source, duration)
	}

	return r, nil
}

// Get returns the stored report for a cycle
func (s *Service) Get(ctx context.Context, cycleID string) (CycleReport, error) {
	if s.store == nil {
		return CycleReport{}, apperrors.NewNotFoundError("report", cycleID)
	}

	r, err := s.store.GetReport(ctx, cycleID)
	if errors.Is(err, ErrNotFound) {
		return CycleReport{}, apperrors.NewNotFoundError("report", cycleID)
	}
	if err != nil {
		return CycleReport{}, apperrors.NewInternalError("failed to load report", err)
	}
	return r, nil
}

// History returns stored summaries, newest first
func (s *Service) History(ctx context.Context, limit int) ([]Summary, error) {
	if s.store == nil {
		return []Summary{}, nil
	}

	summaries, err := s.store.ListReports(ctx, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reports", err)
	}
	return summaries, nil
}

// TrendBucket is one aggregated period of the engagement index
type TrendBucket struct {
	Period string  `json:"period"`
	Score  float64 `json:"score"`
}

// TrendResponse lists buckets in ascending period order
type TrendResponse struct {
	Interval string        `json:"interval"`
	Buckets  []TrendBucket `json:"buckets"`
}

// EngagementTrend buckets the stored engagement index history by interval
func (s *Service) EngagementTrend(ctx context.Context, interval analysis.Interval) ([]TrendBucket, error) {
	summaries, err := s.History(ctx, 0)
	if err != nil {
		return nil, err
	}

	points := make([]analysis.ScorePoint, 0, len(summaries))
	for _, sum := range summaries {
		points = append(points, analysis.ScorePoint{Date: sum.GeneratedAt, Score: sum.EngagementIndex})
	}

	return SortedBuckets(analysis.AggregateTimeSeries(points, interval)), nil
}

// StoredDrivers ranks themes by their impact across all stored reports. Stores
// without theme history yield an empty ranking.
func (s *Service) StoredDrivers(ctx context.Context) ([]analysis.DriverImpact, error) {
	history, ok := s.store.(ThemeHistory)
	if !ok {
		return []analysis.DriverImpact{}, nil
	}

	series, err := history.ThemeSeries(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load theme history", err)
	}
	return analysis.AnalyzeDrivers(series), nil
}

// SortedBuckets orders aggregated periods ascending; keys sort chronologically
func SortedBuckets(aggregated map[string]float64) []TrendBucket {
	buckets := make([]TrendBucket, 0, len(aggregated))
	for period, score := range aggregated {
		buckets = append(buckets, TrendBucket{Period: period, Score: score})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Period < buckets[j].Period })
	return buckets
}
