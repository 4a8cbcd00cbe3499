// Package replicate is a minimal client for a Replicate-style hosted model:
// create a prediction job, then poll its status until it settles. Polling is
// bounded and context-aware so an abandoned request cannot leak a loop.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"solo_adventure/internal/config"
	"solo_adventure/pkg/logger"
)

var (
	// ErrNotConfigured indicates no API token is present.
	ErrNotConfigured = errors.New("replicate: API token not configured")
	// ErrPollExhausted indicates the job did not settle within the attempt budget.
	ErrPollExhausted = errors.New("replicate: prediction did not settle in time")
)

const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

// backoff grows the poll delay up to this multiple of the base interval.
const maxBackoffFactor = 5

type PredictionInput struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type createRequest struct {
	Version string          `json:"version"`
	Input   PredictionInput `json:"input"`
}

type Prediction struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Output []string `json:"output"`
	Error  string   `json:"error"`
}

type Client struct {
	baseURL     string
	token       string
	version     string
	maxTokens   int
	temperature float64
	topP        float64

	pollInterval time.Duration
	maxAttempts  int

	httpClient *http.Client
	log        logger.Logger
}

func NewClient(cfg config.ReplicateConfig, log logger.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		token:        cfg.APIToken,
		version:      cfg.ModelVersion,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		topP:         cfg.TopP,
		pollInterval: cfg.PollInterval,
		maxAttempts:  cfg.MaxPollAttempts,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		log:          log,
	}
}

// Configured reports whether an API token is present.
func (c *Client) Configured() bool {
	return c.token != ""
}

// Generate submits a prompt and blocks until the prediction settles, the
// attempt budget runs out, or ctx is cancelled. On success it returns the
// output fragments concatenated into the final narrative.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	pred, err := c.create(ctx, prompt)
	if err != nil {
		return "", err
	}

	pred, err = c.waitForSettle(ctx, pred)
	if err != nil {
		return "", err
	}

	switch pred.Status {
	case StatusSucceeded:
		return strings.Join(pred.Output, ""), nil
	case StatusFailed, StatusCanceled:
		return "", fmt.Errorf("replicate: prediction %s: %s", pred.Status, pred.Error)
	default:
		return "", fmt.Errorf("replicate: unexpected status %q", pred.Status)
	}
}

func (c *Client) create(ctx context.Context, prompt string) (*Prediction, error) {
	payload := createRequest{
		Version: c.version,
		Input: PredictionInput{
			Prompt:      prompt,
			MaxTokens:   c.maxTokens,
			Temperature: c.temperature,
			TopP:        c.topP,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("replicate: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.token)

	return c.do(req)
}

func (c *Client) get(ctx context.Context, id string) (*Prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/predictions/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.token)

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Prediction, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("replicate: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("replicate: unexpected HTTP status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	pred := &Prediction{}
	if err := json.Unmarshal(raw, pred); err != nil {
		return nil, fmt.Errorf("replicate: decode response: %w", err)
	}
	return pred, nil
}

// waitForSettle polls the prediction until it leaves the starting/processing
// states. The delay between checks grows exponentially, capped at
// maxBackoffFactor times the base interval.
func (c *Client) waitForSettle(ctx context.Context, pred *Prediction) (*Prediction, error) {
	delay := c.pollInterval
	maxDelay := c.pollInterval * maxBackoffFactor

	for attempt := 0; pred.Status == StatusStarting || pred.Status == StatusProcessing; attempt++ {
		if attempt >= c.maxAttempts {
			c.log.Warn("Prediction poll budget exhausted", "prediction_id", pred.ID, "attempts", attempt)
			return nil, ErrPollExhausted
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		next, err := c.get(ctx, pred.ID)
		if err != nil {
			return nil, err
		}
		pred = next

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}

	return pred, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
