package analysis

import "github.com/ZanzyTHEbar/engagement-pulse/internal/stats"

// RiskFeatures are the inputs of the attrition model.
type RiskFeatures struct {
	EngagementScore float64 `json:"engagementScore"` // 0-100
	TenureMonths    float64 `json:"tenureMonths"`
	ManagerRating   float64 `json:"managerRating"` // 1-5
}

// RiskModel maps features to a probability in (0, 1).
type RiskModel interface {
	Probability(f RiskFeatures) float64
}

// LogisticRiskModel is a fixed-coefficient logistic model:
// P(leave) = sigmoid(Bias + w1*engagement + w2*tenure + w3*managerRating).
type LogisticRiskModel struct {
	Bias                float64 `json:"bias"`
	EngagementWeight    float64 `json:"engagement_weight"`
	TenureWeight        float64 `json:"tenure_weight"`
	ManagerRatingWeight float64 `json:"manager_rating_weight"`
}

// DefaultRiskModel holds placeholder coefficients; they are not fitted to data.
var DefaultRiskModel = LogisticRiskModel{
	Bias:                2.5,
	EngagementWeight:    -0.05,
	TenureWeight:        -0.02,
	ManagerRatingWeight: -0.04,
}

// Probability implements RiskModel.
func (m LogisticRiskModel) Probability(f RiskFeatures) float64 {
	features := []float64{f.EngagementScore, f.TenureMonths, f.ManagerRating}
	weights := []float64{m.EngagementWeight, m.TenureWeight, m.ManagerRatingWeight}
	return stats.LogisticProbability(features, weights, m.Bias)
}

// AttritionRisk returns the model probability as a percentage.
func AttritionRisk(model RiskModel, f RiskFeatures) float64 {
	if model == nil {
		model = DefaultRiskModel
	}
	return 100 * model.Probability(f)
}
