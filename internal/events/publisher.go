// Package events announces generated reports on a Kafka topic so dashboards
// and alerting can react without polling the API.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/monitoring"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/report"
	"github.com/segmentio/kafka-go"
)

// ReportGeneratedType is the event type written for every stored report
const ReportGeneratedType = "report.generated"

// ReportGenerated is the message body
type ReportGenerated struct {
	Type                string    `json:"type"`
	ReportID            string    `json:"reportId"`
	CycleID             string    `json:"cycleId"`
	EngagementIndex     float64   `json:"engagementIndex"`
	RiskScore           float64   `json:"riskScore"`
	ParticipationRate   float64   `json:"participationRate"`
	ParticipationAtRisk bool      `json:"participationAtRisk"`
	NLPSource           string    `json:"nlpSource"`
	GeneratedAt         time.Time `json:"generatedAt"`
}

// NewReportGenerated projects a report onto its event
func NewReportGenerated(r report.CycleReport) ReportGenerated {
	return ReportGenerated{
		Type:                ReportGeneratedType,
		ReportID:            r.ReportID,
		CycleID:             r.CycleID,
		EngagementIndex:     r.EngagementIndex,
		RiskScore:           r.RiskScore,
		ParticipationRate:   r.ParticipationRate,
		ParticipationAtRisk: r.ParticipationAtRisk,
		NLPSource:           string(r.NLPInsights.DataQuality.Source),
		GeneratedAt:         r.GeneratedAt,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes report events keyed by cycle id
type KafkaPublisher struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
	metrics *monitoring.Metrics
}

// NewKafkaPublisher builds a synchronous writer for topic
func NewKafkaPublisher(brokers []string, topic string, metrics *monitoring.Metrics) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		WriteTimeout: 5 * time.Second,
	}
	return newPublisher(w, topic, metrics)
}

func newPublisher(w messageWriter, topic string, metrics *monitoring.Metrics) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, timeout: 5 * time.Second, metrics: metrics}
}

// PublishReport implements report.Publisher
func (p *KafkaPublisher) PublishReport(ctx context.Context, r report.CycleReport) error {
	payload, err := json.Marshal(NewReportGenerated(r))
	if err != nil {
		p.metrics.EventPublished("error")
		return fmt.Errorf("encode report event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(r.CycleID),
		Value: payload,
		Time:  r.GeneratedAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(ReportGeneratedType)},
			{Key: "content-type", Value: []byte("application/json")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.EventPublished("error")
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}

	p.metrics.EventPublished("ok")
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
