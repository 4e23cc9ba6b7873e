package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/monitoring"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/resilience"
)

const (
	DefaultBaseURL = "https://api.openai.com"
	DefaultModel   = "gpt-4-turbo"

	// ServiceName identifies the collaborator in logs, metrics and health
	ServiceName = "nlp"

	maxErrorBody = 4 << 10
)

// Config configures the collaborator client
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// RequestTimeout bounds one HTTP attempt; the caller's context bounds the whole call
	RequestTimeout time.Duration
	Retry          resilience.RetryConfig
	Breaker        resilience.CircuitBreakerConfig
}

// Client calls an OpenAI-compatible chat completions endpoint
type Client struct {
	config      Config
	httpClient  *http.Client
	breaker     *resilience.CircuitBreaker
	logger      *monitoring.Logger
	metrics     *monitoring.Metrics
	degradation *resilience.DegradationManager
}

// Option customizes a Client
type Option func(*Client)

// WithLogger sets the logger used for collaborator calls
func WithLogger(l *monitoring.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics records call outcomes and breaker transitions
func WithMetrics(m *monitoring.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithDegradation reports call outcomes to the health tracker
func WithDegradation(dm *resilience.DegradationManager) Option {
	return func(c *Client) { c.degradation = dm }
}

// NewClient creates a collaborator client. An empty APIKey yields a client that
// always returns the fallback payload.
func NewClient(config Config, opts ...Option) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 15 * time.Second
	}
	if config.Retry.MaxAttempts == 0 {
		config.Retry = resilience.CollaboratorRetryPolicy.Config
	}

	c := &Client{config: config}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = &http.Client{
		Timeout: config.RequestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
	}

	breakerConfig := config.Breaker
	userHook := breakerConfig.OnStateChange
	breakerConfig.OnStateChange = func(name string, from, to resilience.CircuitBreakerState) {
		c.metrics.SetBreakerState(name, int(to))
		if c.logger != nil {
			c.logger.Warn("Circuit breaker state changed", "target", name, "from", from.String(), "to", to.String())
		}
		if userHook != nil {
			userHook(name, from, to)
		}
	}
	c.breaker = resilience.NewCircuitBreaker(ServiceName, breakerConfig)

	if c.degradation != nil {
		c.degradation.RegisterService(ServiceName, nil)
	}

	return c
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c.config.APIKey != ""
}

// Breaker exposes the circuit breaker guarding the collaborator
func (c *Client) Breaker() *resilience.CircuitBreaker {
	return c.breaker
}

// Analyze sends texts to the collaborator. Unconfigured clients and empty input
// get the fallback payload; transport failures are retried behind the circuit
// breaker and then returned.
func (c *Client) Analyze(ctx context.Context, texts []string) (Result, error) {
	if !c.Configured() {
		c.metrics.NLPCall("fallback", 0)
		return FallbackResult(ReasonUnconfigured), nil
	}
	if len(texts) == 0 {
		c.metrics.NLPCall("fallback", 0)
		return FallbackResult(ReasonEmptyInput), nil
	}

	start := time.Now()
	var result Result

	err := c.breaker.Call(func() error {
		return resilience.RetryWithConfig(ctx, c.config.Retry, func() error {
			r, err := c.complete(ctx, texts)
			if err != nil {
				return err
			}
			result = r
			return nil
		})
	})

	duration := time.Since(start)
	c.record(err, duration)

	if err != nil {
		return Result{}, fmt.Errorf("nlp analysis failed: %w", err)
	}

	result = result.normalize()
	result.DataQuality = DataQuality{Source: SourceCollaborator}
	return result, nil
}

func (c *Client) record(err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.NLPCall(outcome, duration)

	if c.logger != nil {
		c.logger.CollaboratorLogger(ServiceName, err == nil, duration)
	}

	if c.degradation != nil {
		if err != nil {
			c.degradation.RecordError(ServiceName, err)
		} else {
			c.degradation.RecordSuccess(ServiceName)
		}
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, texts []string) (Result, error) {
	payload := chatRequest{
		Model:          c.config.Model,
		Messages:       []chatMessage{{Role: "user", Content: buildPrompt(texts)}},
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Result{}, resilience.NewHTTPError(resp.StatusCode, resp.Status, strings.TrimSpace(string(msg)))
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return Result{}, fmt.Errorf("failed to decode completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return Result{}, errors.New("no choices in completion response")
	}

	content := completion.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		content = "{}"
	}

	var result Result
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return Result{}, fmt.Errorf("failed to decode analysis payload: %w", err)
	}
	return result, nil
}

func buildPrompt(texts []string) string {
	var b strings.Builder
	b.WriteString("Analyze the following employee feedback responses. Return a JSON object with:\n")
	b.WriteString("- sentimentScore (number between -1 and 1)\n")
	b.WriteString("- sentimentDistribution (object with positive, neutral, negative percentages summing to 100)\n")
	b.WriteString("- keywords (array of strings)\n")
	b.WriteString("- topics (array of strings)\n")
	b.WriteString("- isToxic (boolean)\n")
	b.WriteString("- executiveSummary (string)\n")
	b.WriteString("- managerRecommendations (array of strings)\n\n")
	b.WriteString("Responses:\n")
	b.WriteString(strings.Join(texts, "\n"))
	return b.String()
}
