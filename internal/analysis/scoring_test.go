package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uniformScores(score float64, n int) []QuestionScore {
	scores := make([]QuestionScore, n)
	for i := range scores {
		scores[i] = QuestionScore{Score: score, Weight: 1, ThemeID: "culture"}
	}
	return scores
}

func TestEngagementIndex(t *testing.T) {
	tests := []struct {
		name     string
		scores   []QuestionScore
		expected float64
	}{
		{
			name:     "all fives saturate the index",
			scores:   uniformScores(5, 5),
			expected: 100,
		},
		{
			name:     "all ones bottom out",
			scores:   uniformScores(1, 5),
			expected: 0,
		},
		{
			name:     "empty input is the scale baseline",
			scores:   nil,
			expected: 0,
		},
		{
			name:     "midpoint",
			scores:   uniformScores(3, 2),
			expected: 50,
		},
		{
			name: "zero total weight falls back to zero weighted score",
			scores: []QuestionScore{
				{Score: 4, Weight: 0, ThemeID: "a"},
			},
			expected: -25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, EngagementIndex(tt.scores, DefaultScale), 1e-9)
		})
	}
}

func TestEngagementIndexCustomScale(t *testing.T) {
	scores := []QuestionScore{{Score: 7, Weight: 1}, {Score: 9, Weight: 1}}
	assert.InDelta(t, 80.0, EngagementIndex(scores, Scale{Min: 0, Max: 10}), 1e-9)
}

func TestWeightedScore(t *testing.T) {
	scores := []QuestionScore{
		{Score: 4, Weight: 1, ThemeID: "A"},
		{Score: 2, Weight: 1, ThemeID: "B"},
		{Score: 5, Weight: 2, ThemeID: "A"},
	}
	assert.InDelta(t, 4.0, WeightedScore(scores), 1e-9)
}

func TestThemeScores(t *testing.T) {
	scores := []QuestionScore{
		{Score: 4, Weight: 1, ThemeID: "A"},
		{Score: 2, Weight: 1, ThemeID: "B"},
		{Score: 5, Weight: 2, ThemeID: "A"},
	}

	themes := ThemeScores(scores, DefaultScale)

	assert.Len(t, themes, 2)
	// A: (4*1 + 5*2)/3 = 4.667 -> (4.667-1)/4*100
	assert.InDelta(t, 91.6667, themes["A"], 1e-3)
	assert.InDelta(t, 25.0, themes["B"], 1e-9)
	assert.InDelta(t, 75.0, EngagementIndex(scores, DefaultScale), 1e-9)
}

func TestThemeScoresEmpty(t *testing.T) {
	assert.Empty(t, ThemeScores(nil, DefaultScale))
}
