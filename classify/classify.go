// Package classify calls the fraud model service and validates its answer.
// The model is a remote black box; this package owns the request shape, the
// response contract, and nothing about how the verdict uses the prediction.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Label is the model's binary judgment.
type Label string

// Labels the model is allowed to return.
const (
	LabelFake Label = "Fake"
	LabelReal Label = "Real"
)

// Prediction is a validated model answer. Confidence is the probability the
// model assigns to its own label, in [0, 1].
type Prediction struct {
	Label      Label
	Confidence float64
}

// Classifier scores a feature vector.
type Classifier interface {
	Classify(ctx context.Context, features []float64) (Prediction, error)
}

// HTTPClient calls a model served over HTTP.
type HTTPClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string
	apiKey     string
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithAPIKey sets the bearer token sent with each request.
func WithAPIKey(key string) Option {
	return func(c *HTTPClient) { c.apiKey = key }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *HTTPClient) { c.logger = logger }
}

// NewHTTPClient creates a model client for the given endpoint.
func NewHTTPClient(endpoint string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     slog.Default(),
		endpoint:   endpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify posts the feature vector and validates the response. Any
// malformed answer is an error; the caller never sees an out-of-range
// probability or an unknown label.
func (c *HTTPClient) Classify(ctx context.Context, features []float64) (Prediction, error) {
	payload, err := json.Marshal(map[string]any{"features": features})
	if err != nil {
		return Prediction{}, fmt.Errorf("request encoding failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Prediction{}, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug("calling model service", "endpoint", c.endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("model request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // error ignored intentionally

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Prediction{}, fmt.Errorf("model response read failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Prediction{}, fmt.Errorf("model service returned HTTP %d", resp.StatusCode)
	}

	var answer struct {
		Label       string   `json:"label"`
		Probability *float64 `json:"probability"`
	}
	if err := json.Unmarshal(body, &answer); err != nil {
		return Prediction{}, fmt.Errorf("model response decoding failed: %w", err)
	}

	label := Label(answer.Label)
	if label != LabelFake && label != LabelReal {
		return Prediction{}, fmt.Errorf("model returned unknown label %q", answer.Label)
	}
	if answer.Probability == nil {
		return Prediction{}, fmt.Errorf("model response omitted probability")
	}
	if *answer.Probability < 0 || *answer.Probability > 1 {
		return Prediction{}, fmt.Errorf("model probability %v out of range [0, 1]", *answer.Probability)
	}

	return Prediction{Label: label, Confidence: *answer.Probability}, nil
}
