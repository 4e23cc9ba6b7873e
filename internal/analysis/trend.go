package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/stats"
)

// Interval is a calendar bucket size for historical aggregation.
type Interval string

const (
	IntervalMonth   Interval = "month"
	IntervalQuarter Interval = "quarter"
)

// ScorePoint is a dated engagement score.
type ScorePoint struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

// dateLayouts are the accepted encodings of a ScorePoint date.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Trend returns the percentage change of the current index vs the previous one.
func Trend(currentScore, previousScore float64) float64 {
	return stats.PercentageDelta(currentScore, previousScore)
}

// ParseInterval accepts "month" or "quarter", case-insensitively.
func ParseInterval(s string) (Interval, error) {
	switch Interval(strings.ToLower(strings.TrimSpace(s))) {
	case IntervalMonth:
		return IntervalMonth, nil
	case IntervalQuarter:
		return IntervalQuarter, nil
	}
	return "", fmt.Errorf("unknown interval %q (want month or quarter)", s)
}

// ParseDate parses an RFC 3339 timestamp or a plain YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// BucketKey returns the bucket a date falls in: YYYY-MM for months and
// YYYY-Qn for quarters. Unknown intervals give "".
func BucketKey(t time.Time, interval Interval) string {
	switch interval {
	case IntervalMonth:
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
	case IntervalQuarter:
		quarter := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("%04d-Q%d", t.Year(), quarter)
	}
	return ""
}

// AggregateTimeSeries groups points into calendar buckets and returns the
// mean score per bucket key.
func AggregateTimeSeries(points []ScorePoint, interval Interval) map[string]float64 {
	buckets := make(map[string][]float64)
	for _, p := range points {
		key := BucketKey(p.Date, interval)
		if key == "" {
			continue
		}
		buckets[key] = append(buckets[key], p.Score)
	}

	result := make(map[string]float64, len(buckets))
	for key, scores := range buckets {
		result[key] = stats.Mean(scores)
	}
	return result
}
