package analysis

import (
	"sort"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/stats"
)

// ThemeSeries pairs a theme's scores with the overall engagement scores
// observed at the same points (time- or cohort-aligned).
type ThemeSeries struct {
	ThemeID          string    `json:"themeId"`
	ThemeName        string    `json:"themeName"`
	ThemeScores      []float64 `json:"themeScores"`
	EngagementScores []float64 `json:"engagementScores"`
}

// DriverImpact describes how strongly a theme moves overall engagement.
type DriverImpact struct {
	ThemeID     string  `json:"themeId"`
	ThemeName   string  `json:"themeName"`
	Correlation float64 `json:"correlation"`
	Impact      float64 `json:"impact"`      // slope of engagement on theme score
	Performance float64 `json:"performance"` // mean theme score
}

// AnalyzeDrivers ranks themes by impact, highest first. Equal impacts keep
// their input order.
func AnalyzeDrivers(series []ThemeSeries) []DriverImpact {
	impacts := make([]DriverImpact, 0, len(series))
	for _, s := range series {
		impacts = append(impacts, DriverImpact{
			ThemeID:     s.ThemeID,
			ThemeName:   s.ThemeName,
			Correlation: stats.PearsonCorrelation(s.ThemeScores, s.EngagementScores),
			Impact:      stats.LinearRegression(s.ThemeScores, s.EngagementScores).Slope,
			Performance: stats.Mean(s.ThemeScores),
		})
	}

	sort.SliceStable(impacts, func(i, j int) bool {
		return impacts[i].Impact > impacts[j].Impact
	})
	return impacts
}
