// Package report assembles cycle reports from raw survey responses.
package report

import (
	"context"
	"time"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/analysis"
	apperrors "github.com/ZanzyTHEbar/engagement-pulse/internal/errors"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/monitoring"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/nlp"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/types"
	"github.com/google/uuid"
)

// DefaultNLPTimeout bounds the collaborator call
const DefaultNLPTimeout = 20 * time.Second

// CycleReport is the immutable result of one Generate call
type CycleReport struct {
	ReportID            string             `json:"reportId"`
	CycleID             string             `json:"cycleId"`
	EngagementIndex     float64            `json:"engagementIndex"`
	ThemeScores         map[string]float64 `json:"themeScores"`
	Trend               float64            `json:"trend"`
	ParticipationRate   float64            `json:"participationRate"`
	ParticipationAtRisk bool               `json:"participationAtRisk"`
	RiskScore           float64            `json:"riskScore"`
	NLPInsights         nlp.Result         `json:"nlpInsights"`
	GeneratedAt         time.Time          `json:"generatedAt"`
}

// Input is everything one report is computed from
type Input struct {
	CycleID       string
	Responses     []types.ResponseRecord
	PreviousScore float64
	InvitedCount  int
	TenureMonths  *float64
	ManagerRating *float64
}

// Config tunes report generation
type Config struct {
	NLPTimeout time.Duration
	// StrictNLP aborts the report when a configured collaborator fails instead
	// of substituting the fallback payload
	StrictNLP              bool
	ParticipationThreshold float64
	Scale                  analysis.Scale
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		NLPTimeout:             DefaultNLPTimeout,
		ParticipationThreshold: analysis.DefaultParticipationThreshold,
		Scale:                  analysis.DefaultScale,
	}
}

// Orchestrator composes the scoring services and the NLP collaborator
type Orchestrator struct {
	analyzer  nlp.Analyzer
	riskModel analysis.RiskModel
	config    Config
	now       func() time.Time
	newID     func() string
	logger    *monitoring.Logger
}

// Option customizes an Orchestrator
type Option func(*Orchestrator)

// WithClock injects the time source used for GeneratedAt
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithIDGenerator injects the report ID source
func WithIDGenerator(newID func() string) Option {
	return func(o *Orchestrator) { o.newID = newID }
}

// WithLogger sets the logger for degraded collaborator results
func WithLogger(l *monitoring.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// NewOrchestrator creates an orchestrator. A nil analyzer always yields the
// fallback payload; a nil risk model uses analysis.DefaultRiskModel.
func NewOrchestrator(analyzer nlp.Analyzer, riskModel analysis.RiskModel, config Config, opts ...Option) *Orchestrator {
	if analyzer == nil {
		analyzer = nlp.StaticAnalyzer{}
	}
	if riskModel == nil {
		riskModel = analysis.DefaultRiskModel
	}
	if config.NLPTimeout <= 0 {
		config.NLPTimeout = DefaultNLPTimeout
	}
	if config.Scale == (analysis.Scale{}) {
		config.Scale = analysis.DefaultScale
	}
	if config.ParticipationThreshold <= 0 {
		config.ParticipationThreshold = analysis.DefaultParticipationThreshold
	}

	o := &Orchestrator{
		analyzer:  analyzer,
		riskModel: riskModel,
		config:    config,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate computes a cycle report. The numeric steps never fail; the only
// error is a collaborator failure in strict mode.
func (o *Orchestrator) Generate(ctx context.Context, in Input) (CycleReport, error) {
	scores := QuestionScores(in.Responses)
	engagement := analysis.EngagementIndex(scores, o.config.Scale)
	themes := analysis.ThemeScores(scores, o.config.Scale)

	trend := analysis.Trend(engagement, in.PreviousScore)

	participation := analysis.SummarizeParticipation(RespondentCount(in.Responses), in.InvitedCount, o.config.ParticipationThreshold)

	insights, err := o.analyze(ctx, in.CycleID, FreeTexts(in.Responses))
	if err != nil {
		return CycleReport{}, err
	}

	features := analysis.RiskFeatures{
		EngagementScore: engagement,
		TenureMonths:    valueOr(in.TenureMonths, DefaultTenureMonths),
		ManagerRating:   valueOr(in.ManagerRating, DefaultManagerRating),
	}
	risk := analysis.AttritionRisk(o.riskModel, features)

	return CycleReport{
		ReportID:            o.newID(),
		CycleID:             in.CycleID,
		EngagementIndex:     engagement,
		ThemeScores:         themes,
		Trend:               trend,
		ParticipationRate:   participation.Rate,
		ParticipationAtRisk: participation.AtRisk,
		RiskScore:           risk,
		NLPInsights:         insights,
		GeneratedAt:         o.now(),
	}, nil
}

func (o *Orchestrator) analyze(ctx context.Context, cycleID string, texts []string) (nlp.Result, error) {
	nlpCtx, cancel := context.WithTimeout(ctx, o.config.NLPTimeout)
	defer cancel()

	result, err := o.analyzer.Analyze(nlpCtx, texts)
	if err == nil {
		return result, nil
	}

	reason := nlp.ReasonFor(err)
	if o.config.StrictNLP {
		return nlp.Result{}, CollaboratorError(reason, err)
	}

	if o.logger != nil {
		o.logger.Warn("NLP collaborator failed, using fallback insights",
			"cycle_id", cycleID,
			"reason", string(reason),
			"error", err)
	}
	return nlp.FallbackResult(reason), nil
}

// CollaboratorError converts a collaborator failure into an API error
func CollaboratorError(reason nlp.Reason, cause error) *apperrors.AppError {
	if reason == nlp.ReasonTimeout {
		return apperrors.NewTimeoutError("Text analysis timed out", cause)
	}
	return apperrors.NewExternalAPIError(nlp.ServiceName, cause)
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
