package analysis

// DefaultParticipationThreshold is the response rate (percent) below which a
// cycle is flagged as low participation.
const DefaultParticipationThreshold = 60.0

// Participation summarizes how many invited respondents answered.
type Participation struct {
	Completed int     `json:"completed"`
	Invited   int     `json:"invited"`
	Rate      float64 `json:"rate"`
	AtRisk    bool    `json:"atRisk"`
}

// ResponseRate returns completed/invited as a percentage, or 0 when nobody was invited.
func ResponseRate(completed, invited int) float64 {
	if invited <= 0 {
		return 0
	}
	return float64(completed) / float64(invited) * 100
}

// IsParticipationRisk reports whether the response rate is below threshold.
func IsParticipationRisk(completed, invited int, threshold float64) bool {
	return ResponseRate(completed, invited) < threshold
}

// SummarizeParticipation bundles rate and risk flag for one cycle.
func SummarizeParticipation(completed, invited int, threshold float64) Participation {
	return Participation{
		Completed: completed,
		Invited:   invited,
		Rate:      ResponseRate(completed, invited),
		AtRisk:    IsParticipationRisk(completed, invited, threshold),
	}
}
