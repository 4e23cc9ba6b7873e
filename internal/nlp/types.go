// Package nlp talks to the free-text analysis collaborator. The collaborator is
// opaque: it turns a batch of comments into sentiment, keywords, topics and a
// summary. Callers always get a Result; DataQuality tells them whether it came
// from the collaborator or from the fixed fallback payload.
package nlp

import (
	"context"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/stats"
)

// Source says where a Result came from
type Source string

const (
	SourceCollaborator Source = "collaborator"
	SourceFallback     Source = "fallback"
)

// Reason explains why a fallback payload was used
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonUnconfigured      Reason = "unconfigured"
	ReasonEmptyInput        Reason = "empty_input"
	ReasonCollaboratorError Reason = "collaborator_error"
	ReasonTimeout           Reason = "timeout"
	ReasonCircuitOpen       Reason = "circuit_open"
)

// SentimentDistribution holds percentages that sum to 100
type SentimentDistribution struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// DataQuality annotates a Result with its provenance
type DataQuality struct {
	Source Source `json:"source"`
	Reason Reason `json:"reason,omitempty"`
}

// Result is the collaborator's analysis of a batch of free-text answers
type Result struct {
	SentimentScore         float64               `json:"sentimentScore"`
	SentimentDistribution  SentimentDistribution `json:"sentimentDistribution"`
	Keywords               []string              `json:"keywords"`
	Topics                 []string              `json:"topics"`
	IsToxic                bool                  `json:"isToxic"`
	ExecutiveSummary       string                `json:"executiveSummary"`
	ManagerRecommendations []string              `json:"managerRecommendations"`
	DataQuality            DataQuality           `json:"dataQuality"`
}

// Degraded reports whether the result is a fallback payload
func (r Result) Degraded() bool {
	return r.DataQuality.Source == SourceFallback
}

// normalize keeps collaborator output inside the documented ranges
func (r Result) normalize() Result {
	r.SentimentScore = stats.Clamp(r.SentimentScore, -1, 1)

	d := r.SentimentDistribution
	d.Positive = stats.Clamp(d.Positive, 0, 100)
	d.Neutral = stats.Clamp(d.Neutral, 0, 100)
	d.Negative = stats.Clamp(d.Negative, 0, 100)
	if total := d.Positive + d.Neutral + d.Negative; total > 0 {
		d.Positive = d.Positive / total * 100
		d.Neutral = d.Neutral / total * 100
		d.Negative = d.Negative / total * 100
	}
	r.SentimentDistribution = d

	if r.Keywords == nil {
		r.Keywords = []string{}
	}
	if r.Topics == nil {
		r.Topics = []string{}
	}
	if r.ManagerRecommendations == nil {
		r.ManagerRecommendations = []string{}
	}
	return r
}

// Analyzer analyzes free-text answers. Implementations return the fallback
// payload with a nil error when unconfigured or given no texts; any other
// failure is returned as an error.
type Analyzer interface {
	Analyze(ctx context.Context, texts []string) (Result, error)
}
