package report

import (
	"strings"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/analysis"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/security"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/types"
)

const (
	// DefaultWeight applies to responses that carry no weight
	DefaultWeight = 1.0
	// DefaultTenureMonths is assumed when the caller does not know the cohort tenure
	DefaultTenureMonths = 24.0
	// DefaultManagerRating is assumed when no manager rating is supplied
	DefaultManagerRating = 3.5
	// DefaultInvitedCount is used when a request omits invitedCount
	DefaultInvitedCount = 100
)

// InputFromRequest applies request defaults and sanitizes free text to at most
// maxTextLen runes. The request is not modified.
func InputFromRequest(req types.PrecomputeRequest, maxTextLen int) Input {
	in := Input{
		CycleID:       req.CycleID,
		Responses:     make([]types.ResponseRecord, len(req.Responses)),
		InvitedCount:  DefaultInvitedCount,
		TenureMonths:  req.TenureMonths,
		ManagerRating: req.ManagerRating,
	}
	if req.PreviousScore != nil {
		in.PreviousScore = *req.PreviousScore
	}
	if req.InvitedCount != nil {
		in.InvitedCount = *req.InvitedCount
	}
	for i, resp := range req.Responses {
		resp.TextValue = security.SanitizeText(resp.TextValue, maxTextLen)
		in.Responses[i] = resp
	}
	return in
}

// QuestionScores keeps responses with a numeric answer, defaulting missing weights
func QuestionScores(responses []types.ResponseRecord) []analysis.QuestionScore {
	scores := make([]analysis.QuestionScore, 0, len(responses))
	for _, r := range responses {
		if r.NumericValue == nil {
			continue
		}
		weight := DefaultWeight
		if r.Weight != nil {
			weight = *r.Weight
		}
		scores = append(scores, analysis.QuestionScore{
			Score:   *r.NumericValue,
			Weight:  weight,
			ThemeID: r.ThemeID,
		})
	}
	return scores
}

// RespondentCount counts distinct non-empty respondent IDs
func RespondentCount(responses []types.ResponseRecord) int {
	seen := make(map[string]struct{}, len(responses))
	for _, r := range responses {
		if r.UserID == "" {
			continue
		}
		seen[r.UserID] = struct{}{}
	}
	return len(seen)
}

// FreeTexts collects the non-blank free-text answers in input order
func FreeTexts(responses []types.ResponseRecord) []string {
	texts := make([]string, 0)
	for _, r := range responses {
		if strings.TrimSpace(r.TextValue) == "" {
			continue
		}
		texts = append(texts, r.TextValue)
	}
	return texts
}
