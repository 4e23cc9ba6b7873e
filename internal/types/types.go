package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/analysis"
)

// ResponseRecord is one respondent's answer to one question
type ResponseRecord struct {
	UserID       string   `json:"userId"`
	ThemeID      string   `json:"themeId"`
	NumericValue *float64 `json:"numericValue,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
	TextValue    string   `json:"textValue,omitempty"`
}

// UnmarshalJSON accepts both camelCase and the legacy snake_case field names
func (r *ResponseRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		UserID            string   `json:"userId"`
		UserIDSnake       string   `json:"user_id"`
		ThemeID           string   `json:"themeId"`
		ThemeIDSnake      string   `json:"theme_id"`
		NumericValue      *float64 `json:"numericValue"`
		NumericValueSnake *float64 `json:"numeric_value"`
		Weight            *float64 `json:"weight"`
		TextValue         string   `json:"textValue"`
		TextValueSnake    string   `json:"text_value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = ResponseRecord{
		UserID:       firstNonEmpty(raw.UserID, raw.UserIDSnake),
		ThemeID:      firstNonEmpty(raw.ThemeID, raw.ThemeIDSnake),
		NumericValue: raw.NumericValue,
		Weight:       raw.Weight,
		TextValue:    firstNonEmpty(raw.TextValue, raw.TextValueSnake),
	}
	if r.NumericValue == nil {
		r.NumericValue = raw.NumericValueSnake
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// PrecomputeRequest is the body of POST /api/reports/precompute
type PrecomputeRequest struct {
	CycleID       string           `json:"cycleId" example:"2024-Q1"`
	Responses     []ResponseRecord `json:"responses"`
	PreviousScore *float64         `json:"previousScore,omitempty"`
	InvitedCount  *int             `json:"invitedCount,omitempty"`
	TenureMonths  *float64         `json:"tenureMonths,omitempty"`
	ManagerRating *float64         `json:"managerRating,omitempty"`
}

// Validate returns one message per invalid field
func (r PrecomputeRequest) Validate() map[string]string {
	problems := make(map[string]string)
	if strings.TrimSpace(r.CycleID) == "" {
		problems["cycleId"] = "is required"
	}
	if r.InvitedCount != nil && *r.InvitedCount < 0 {
		problems["invitedCount"] = "must not be negative"
	}
	if r.TenureMonths != nil && *r.TenureMonths < 0 {
		problems["tenureMonths"] = "must not be negative"
	}
	if r.ManagerRating != nil && (*r.ManagerRating < 1 || *r.ManagerRating > 5) {
		problems["managerRating"] = "must be between 1 and 5"
	}
	for i, resp := range r.Responses {
		if resp.Weight != nil && *resp.Weight < 0 {
			problems[fmt.Sprintf("responses[%d].weight", i)] = "must not be negative"
		}
		if v := resp.NumericValue; v != nil && (*v < analysis.DefaultScale.Min || *v > analysis.DefaultScale.Max) {
			problems[fmt.Sprintf("responses[%d].numericValue", i)] = fmt.Sprintf("must be between %g and %g",
				analysis.DefaultScale.Min, analysis.DefaultScale.Max)
		}
	}
	return problems
}

// TrendPoint is a dated score as sent by clients
type TrendPoint struct {
	Date  string  `json:"date" example:"2024-03-31"`
	Score float64 `json:"score" example:"72.5"`
}

// TrendAggregateRequest is the body of POST /api/trends/aggregate
type TrendAggregateRequest struct {
	Interval string       `json:"interval" example:"quarter"`
	Points   []TrendPoint `json:"points"`
}

// ScorePoints parses the request into analysis points and its interval
func (r TrendAggregateRequest) ScorePoints() ([]analysis.ScorePoint, analysis.Interval, map[string]string) {
	problems := make(map[string]string)

	interval, err := analysis.ParseInterval(r.Interval)
	if err != nil {
		problems["interval"] = err.Error()
	}

	points := make([]analysis.ScorePoint, 0, len(r.Points))
	for i, p := range r.Points {
		date, err := analysis.ParseDate(p.Date)
		if err != nil {
			problems[fmt.Sprintf("points[%d].date", i)] = err.Error()
			continue
		}
		points = append(points, analysis.ScorePoint{Date: date, Score: p.Score})
	}

	return points, interval, problems
}

// DriverRequest is the body of POST /api/drivers/analyze
type DriverRequest struct {
	Themes []analysis.ThemeSeries `json:"themes"`
}

// DriverResponse wraps ranked driver impacts
type DriverResponse struct {
	Drivers []analysis.DriverImpact `json:"drivers"`
}

// RiskRequest is the body of POST /api/risk
type RiskRequest struct {
	EngagementScore float64  `json:"engagementScore" example:"75"`
	TenureMonths    *float64 `json:"tenureMonths,omitempty" example:"24"`
	ManagerRating   *float64 `json:"managerRating,omitempty" example:"3.5"`
}

// Validate returns one message per invalid field
func (r RiskRequest) Validate() map[string]string {
	problems := make(map[string]string)
	if r.EngagementScore < 0 || r.EngagementScore > 100 {
		problems["engagementScore"] = "must be between 0 and 100"
	}
	if r.TenureMonths != nil && *r.TenureMonths < 0 {
		problems["tenureMonths"] = "must not be negative"
	}
	if r.ManagerRating != nil && (*r.ManagerRating < 1 || *r.ManagerRating > 5) {
		problems["managerRating"] = "must be between 1 and 5"
	}
	return problems
}

// RiskResponse carries an attrition risk percentage
type RiskResponse struct {
	RiskScore float64 `json:"riskScore" example:"18.2"`
}

// ParticipationRequest is the body of POST /api/participation
type ParticipationRequest struct {
	Completed int      `json:"completed" example:"45"`
	Invited   int      `json:"invited" example:"60"`
	Threshold *float64 `json:"threshold,omitempty" example:"60"`
}

// Validate returns one message per invalid field
func (r ParticipationRequest) Validate() map[string]string {
	problems := make(map[string]string)
	if r.Completed < 0 {
		problems["completed"] = "must not be negative"
	}
	if r.Invited < 0 {
		problems["invited"] = "must not be negative"
	}
	return problems
}

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status    string                 `json:"status" example:"ok"`
	Timestamp string                 `json:"timestamp"`
	Services  map[string]interface{} `json:"services,omitempty"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}
