package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/monitoring"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/nlp"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/report"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func sampleReport() report.CycleReport {
	return report.CycleReport{
		ReportID:          "r-1",
		CycleID:           "2025-Q3",
		EngagementIndex:   75,
		RiskScore:         12.5,
		ParticipationRate: 60,
		NLPInsights:       nlp.FallbackResult(nlp.ReasonUnconfigured),
		GeneratedAt:       time.Date(2025, 9, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublishReport(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(w, "engagement.reports", monitoring.NewMetrics())

	require.NoError(t, p.PublishReport(context.Background(), sampleReport()))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "2025-Q3", string(msg.Key))

	var event ReportGenerated
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, ReportGeneratedType, event.Type)
	assert.Equal(t, "r-1", event.ReportID)
	assert.Equal(t, 75.0, event.EngagementIndex)
	assert.Equal(t, string(nlp.SourceFallback), event.NLPSource)
}

func TestPublishReportError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newPublisher(w, "engagement.reports", nil)

	err := p.PublishReport(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engagement.reports")
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, newPublisher(w, "t", nil).Close())
	assert.True(t, w.closed)
}
