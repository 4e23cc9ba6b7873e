package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestTrend(t *testing.T) {
	assert.InDelta(t, 10.0, Trend(110, 100), 1e-9)
	assert.Equal(t, 100.0, Trend(50, 0))
	assert.Equal(t, 0.0, Trend(0, 0))
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		input    string
		expected Interval
		hasError bool
	}{
		{"month", IntervalMonth, false},
		{"Quarter", IntervalQuarter, false},
		{" month ", IntervalMonth, false},
		{"week", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseInterval(tt.input)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	d := date(t, "2024-03-15")
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.March, d.Month())

	d = date(t, "2024-11-02T10:30:00Z")
	assert.Equal(t, time.November, d.Month())

	_, err := ParseDate("15/03/2024")
	assert.Error(t, err)
}

func TestBucketKey(t *testing.T) {
	tests := []struct {
		date     string
		interval Interval
		expected string
	}{
		{"2024-01-31", IntervalMonth, "2024-01"},
		{"2024-12-01", IntervalMonth, "2024-12"},
		{"2024-01-31", IntervalQuarter, "2024-Q1"},
		{"2024-03-31", IntervalQuarter, "2024-Q1"},
		{"2024-04-01", IntervalQuarter, "2024-Q2"},
		{"2024-09-30", IntervalQuarter, "2024-Q3"},
		{"2024-12-31", IntervalQuarter, "2024-Q4"},
		{"2024-12-31", Interval("week"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.date+"/"+string(tt.interval), func(t *testing.T) {
			assert.Equal(t, tt.expected, BucketKey(date(t, tt.date), tt.interval))
		})
	}
}

func TestAggregateTimeSeries(t *testing.T) {
	points := []ScorePoint{
		{Date: date(t, "2024-01-05"), Score: 60},
		{Date: date(t, "2024-01-20"), Score: 80},
		{Date: date(t, "2024-02-10"), Score: 50},
		{Date: date(t, "2024-05-10"), Score: 90},
	}

	t.Run("monthly buckets", func(t *testing.T) {
		got := AggregateTimeSeries(points, IntervalMonth)
		assert.Len(t, got, 3)
		assert.InDelta(t, 70.0, got["2024-01"], 1e-9)
		assert.InDelta(t, 50.0, got["2024-02"], 1e-9)
		assert.InDelta(t, 90.0, got["2024-05"], 1e-9)
	})

	t.Run("quarterly buckets", func(t *testing.T) {
		got := AggregateTimeSeries(points, IntervalQuarter)
		assert.Len(t, got, 2)
		assert.InDelta(t, 190.0/3, got["2024-Q1"], 1e-9)
		assert.InDelta(t, 90.0, got["2024-Q2"], 1e-9)
	})

	t.Run("unknown interval yields no buckets", func(t *testing.T) {
		assert.Empty(t, AggregateTimeSeries(points, Interval("year")))
	})

	t.Run("no points", func(t *testing.T) {
		assert.Empty(t, AggregateTimeSeries(nil, IntervalMonth))
	})
}
