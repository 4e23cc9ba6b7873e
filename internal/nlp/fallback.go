package nlp

import (
	"context"
	"errors"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/resilience"
)

const fallbackSummary = "Mock summary due to missing API key or empty input."

// FallbackResult returns the fixed neutral payload annotated with reason
func FallbackResult(reason Reason) Result {
	return Result{
		SentimentScore: 0.5,
		SentimentDistribution: SentimentDistribution{
			Positive: 60,
			Neutral:  30,
			Negative: 10,
		},
		Keywords:               []string{"teamwork", "communication"},
		Topics:                 []string{"Culture", "Management"},
		IsToxic:                false,
		ExecutiveSummary:       fallbackSummary,
		ManagerRecommendations: []string{"Schedule 1-on-1s", "Review compensation"},
		DataQuality: DataQuality{
			Source: SourceFallback,
			Reason: reason,
		},
	}
}

// ReasonFor classifies a collaborator failure
func ReasonFor(err error) Reason {
	var cbErr *resilience.CircuitBreakerError
	switch {
	case err == nil:
		return ReasonNone
	case errors.As(err, &cbErr):
		return ReasonCircuitOpen
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	default:
		return ReasonCollaboratorError
	}
}

// StaticAnalyzer always returns the fallback payload. Used when no collaborator
// is configured and by the offline CLI.
type StaticAnalyzer struct{}

func (StaticAnalyzer) Analyze(ctx context.Context, texts []string) (Result, error) {
	if len(texts) == 0 {
		return FallbackResult(ReasonEmptyInput), nil
	}
	return FallbackResult(ReasonUnconfigured), nil
}
