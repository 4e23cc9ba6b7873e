package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = resilience.RetryConfig{
	MaxAttempts:   3,
	InitialDelay:  time.Millisecond,
	MaxDelay:      2 * time.Millisecond,
	BackoffFactor: 2,
}

func completionHandler(t *testing.T, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) && assert.Len(t, req.Messages, 1) {
			assert.Equal(t, DefaultModel, req.Model)
			assert.Equal(t, "json_object", req.ResponseFormat.Type)
			assert.Contains(t, req.Messages[0].Content, "Great team")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
	}
}

func TestFallbackResult(t *testing.T) {
	r := FallbackResult(ReasonUnconfigured)

	assert.Equal(t, 0.5, r.SentimentScore)
	assert.Equal(t, SentimentDistribution{Positive: 60, Neutral: 30, Negative: 10}, r.SentimentDistribution)
	assert.Equal(t, []string{"teamwork", "communication"}, r.Keywords)
	assert.Equal(t, []string{"Culture", "Management"}, r.Topics)
	assert.False(t, r.IsToxic)
	assert.Equal(t, "Mock summary due to missing API key or empty input.", r.ExecutiveSummary)
	assert.Equal(t, []string{"Schedule 1-on-1s", "Review compensation"}, r.ManagerRecommendations)
	assert.True(t, r.Degraded())
	assert.Equal(t, ReasonUnconfigured, r.DataQuality.Reason)
}

func TestAnalyzeUnconfigured(t *testing.T) {
	c := NewClient(Config{})

	r, err := c.Analyze(context.Background(), []string{"Great team"})
	require.NoError(t, err)
	assert.Equal(t, FallbackResult(ReasonUnconfigured), r)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	r, err := c.Analyze(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, ReasonEmptyInput, r.DataQuality.Reason)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestAnalyzeSuccess(t *testing.T) {
	content := `{"sentimentScore":0.4,"sentimentDistribution":{"positive":55,"neutral":35,"negative":10},` +
		`"keywords":["growth"],"topics":["Career"],"isToxic":false,"executiveSummary":"Mostly positive.",` +
		`"managerRecommendations":["Share roadmap"]}`
	server := httptest.NewServer(completionHandler(t, content))
	defer server.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: server.URL + "/", Retry: fastRetry})

	r, err := c.Analyze(context.Background(), []string{"Great team", "Need more growth"})
	require.NoError(t, err)
	assert.Equal(t, 0.4, r.SentimentScore)
	assert.Equal(t, []string{"growth"}, r.Keywords)
	assert.Equal(t, "Mostly positive.", r.ExecutiveSummary)
	assert.Equal(t, DataQuality{Source: SourceCollaborator}, r.DataQuality)
	assert.False(t, r.Degraded())
}

func TestAnalyzeNormalizesCollaboratorOutput(t *testing.T) {
	content := `{"sentimentScore":3,"sentimentDistribution":{"positive":2,"neutral":1,"negative":1}}`
	server := httptest.NewServer(completionHandler(t, content))
	defer server.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Retry: fastRetry})

	r, err := c.Analyze(context.Background(), []string{"Great team"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, r.SentimentScore)
	assert.InDelta(t, 50.0, r.SentimentDistribution.Positive, 1e-9)
	assert.InDelta(t, 100.0, r.SentimentDistribution.Positive+r.SentimentDistribution.Neutral+r.SentimentDistribution.Negative, 1e-9)
	assert.NotNil(t, r.Keywords)
	assert.NotNil(t, r.ManagerRecommendations)
}

func TestAnalyzeRetriesTransientFailures(t *testing.T) {
	var calls int32
	ok := completionHandler(t, `{"sentimentScore":0.1}`)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		ok(w, r)
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Retry: fastRetry})

	r, err := c.Analyze(context.Background(), []string{"Great team"})
	require.NoError(t, err)
	assert.Equal(t, 0.1, r.SentimentScore)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestAnalyzeReturnsErrorAndOpensBreaker(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Retry:   fastRetry,
		Breaker: resilience.CircuitBreakerConfig{FailureThreshold: 1, RecoveryTimeout: time.Minute},
	})

	_, err := c.Analyze(context.Background(), []string{"Great team"})
	require.Error(t, err)
	assert.Equal(t, ReasonCollaboratorError, ReasonFor(err))

	var httpErr *resilience.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx is not retried")

	_, err = c.Analyze(context.Background(), []string{"Great team"})
	assert.Equal(t, ReasonCircuitOpen, ReasonFor(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAnalyzeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Retry: fastRetry})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Analyze(ctx, []string{"Great team"})
	require.Error(t, err)
	assert.Equal(t, ReasonTimeout, ReasonFor(err))
}

func TestAnalyzeRecordsDegradation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	dm := resilience.NewDegradationManager(resilience.DefaultDegradationConfig())
	c := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Retry: fastRetry}, WithDegradation(dm))

	_, err := c.Analyze(context.Background(), []string{"Great team"})
	require.Error(t, err)

	health, ok := dm.GetServiceHealth(ServiceName)
	require.True(t, ok)
	assert.Equal(t, int64(1), health.ErrorCount)
}

func TestStaticAnalyzer(t *testing.T) {
	r, err := StaticAnalyzer{}.Analyze(context.Background(), []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, ReasonUnconfigured, r.DataQuality.Reason)

	r, _ = StaticAnalyzer{}.Analyze(context.Background(), nil)
	assert.Equal(t, ReasonEmptyInput, r.DataQuality.Reason)
}

func TestReasonFor(t *testing.T) {
	assert.Equal(t, ReasonNone, ReasonFor(nil))
	assert.Equal(t, ReasonTimeout, ReasonFor(context.DeadlineExceeded))
	assert.Equal(t, ReasonCircuitOpen, ReasonFor(resilience.NewCircuitBreakerError(ServiceName, resilience.StateOpen)))
	assert.Equal(t, ReasonCollaboratorError, ReasonFor(errors.New("boom")))
}
