package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/report"
)

// ReportRow is one row of the reports table
type ReportRow struct {
	ID                  string    `db:"id"`
	CycleID             string    `db:"cycle_id"`
	EngagementIndex     float64   `db:"engagement_index"`
	Trend               float64   `db:"trend"`
	ParticipationRate   float64   `db:"participation_rate"`
	ParticipationAtRisk bool      `db:"participation_at_risk"`
	RiskScore           float64   `db:"risk_score"`
	NLPSource           string    `db:"nlp_source"`
	Payload             string    `db:"payload"`
	GeneratedAt         time.Time `db:"generated_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// NewReportRow flattens a report for storage; the full report travels in Payload
func NewReportRow(r report.CycleReport) (ReportRow, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return ReportRow{}, fmt.Errorf("failed to encode report: %w", err)
	}

	return ReportRow{
		ID:                  r.ReportID,
		CycleID:             r.CycleID,
		EngagementIndex:     r.EngagementIndex,
		Trend:               r.Trend,
		ParticipationRate:   r.ParticipationRate,
		ParticipationAtRisk: r.ParticipationAtRisk,
		RiskScore:           r.RiskScore,
		NLPSource:           string(r.NLPInsights.DataQuality.Source),
		Payload:             string(payload),
		GeneratedAt:         r.GeneratedAt.UTC(),
		UpdatedAt:           time.Now().UTC(),
	}, nil
}

// decodeReport restores a report from its stored payload
func decodeReport(payload string) (report.CycleReport, error) {
	var r report.CycleReport
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return report.CycleReport{}, fmt.Errorf("failed to decode report payload: %w", err)
	}
	return r, nil
}
