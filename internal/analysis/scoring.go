package analysis

import "github.com/ZanzyTHEbar/engagement-pulse/internal/stats"

// QuestionScore is one numeric answer with its weight and theme tag.
type QuestionScore struct {
	Score   float64 `json:"score"`
	Weight  float64 `json:"weight"`
	ThemeID string  `json:"themeId"`
}

// Scale is the declared answer range of a cycle, e.g. 1–5.
type Scale struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultScale is the five point Likert scale used by pulse surveys.
var DefaultScale = Scale{Min: 1, Max: 5}

// WeightedScore returns the weighted average of the scores.
func WeightedScore(scores []QuestionScore) float64 {
	values := make([]float64, len(scores))
	weights := make([]float64, len(scores))
	for i, s := range scores {
		values[i] = s.Score
		weights[i] = s.Weight
	}
	return stats.WeightedAverage(values, weights)
}

// EngagementIndex normalizes the weighted score from the scale onto 0–100.
// No scores yields 0, the scale minimum.
func EngagementIndex(scores []QuestionScore, scale Scale) float64 {
	if len(scores) == 0 {
		return 0
	}
	return stats.Normalize(WeightedScore(scores), scale.Min, scale.Max)
}

// ThemeScores computes an engagement index per theme, each restricted to that
// theme's own question scores.
func ThemeScores(scores []QuestionScore, scale Scale) map[string]float64 {
	groups := make(map[string][]QuestionScore)
	for _, s := range scores {
		groups[s.ThemeID] = append(groups[s.ThemeID], s)
	}

	result := make(map[string]float64, len(groups))
	for themeID, group := range groups {
		result[themeID] = EngagementIndex(group, scale)
	}
	return result
}
