// Package client talks to the decision service with a per-request timeout
// and retry with exponential backoff.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/tatianab/impact-games/internal/api"
	"github.com/tatianab/impact-games/internal/models"
	"github.com/tatianab/impact-games/internal/simulate"
)

const errTypeHTTP = "http_error"

// Client is a decision service client.
type Client struct {
	baseURL string
	http    *http.Client
	retries uint64
	backoff time.Duration
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithBackoff sets the base delay between retries.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// New returns a client for the service at baseURL. Each attempt is bounded
// by timeout; failed attempts are retried up to retries times.
func New(baseURL string, timeout time.Duration, retries int, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		retries: uint64(max(0, retries)),
		backoff: 200 * time.Millisecond,
		logger:  log.New(os.Stderr, "[CLIENT] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health reports the service status.
func (c *Client) Health(ctx context.Context) (api.HealthResponse, error) {
	var out api.HealthResponse
	err := c.do(ctx, http.MethodGet, "/api/health", nil, &out)
	return out, err
}

// Scenarios lists the Future Decisions scenarios.
func (c *Client) Scenarios(ctx context.Context) ([]models.Entry, error) {
	var out []models.Entry
	err := c.do(ctx, http.MethodGet, "/api/scenarios", nil, &out)
	return out, err
}

// Scenario fetches one scenario.
func (c *Client) Scenario(ctx context.Context, id string) (models.Entry, error) {
	var out models.Entry
	err := c.do(ctx, http.MethodGet, "/api/scenarios/"+id, nil, &out)
	return out, err
}

// ApplyDecision folds one decision remotely.
func (c *Client) ApplyDecision(ctx context.Context, state simulate.State, d simulate.Decision) (simulate.State, error) {
	var out api.DecisionResponse
	err := c.do(ctx, http.MethodPost, "/api/simulate/decision", api.DecisionRequest{CurrentState: state, Decision: d}, &out)
	return out.UpdatedState, err
}

// FoldRound applies decisions one at a time, in order.
func (c *Client) FoldRound(ctx context.Context, state simulate.State, decisions []simulate.Decision) (simulate.State, error) {
	for _, d := range decisions {
		next, err := c.ApplyDecision(ctx, state, d)
		if err != nil {
			return state, err
		}
		state = next
	}
	return state, nil
}

// Summary requests the strategy card for a finished scenario.
func (c *Client) Summary(ctx context.Context, state simulate.State) (api.SummaryResponse, error) {
	var out api.SummaryResponse
	err := c.do(ctx, http.MethodPost, "/api/simulate/summary", api.SummaryRequest{GameState: state}, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	b := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := c.once(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		var apiErr api.APIError
		if errors.As(err, &apiErr) && apiErr.Type != api.ErrTypeInternal {
			return err
		}
		c.logger.Printf("request_failed method=%s path=%s attempt=%d error=%q", method, path, attempt, err)
		return retry.RetryableError(err)
	})
}

func (c *Client) once(ctx context.Context, method, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr api.APIError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Type == "" {
			apiErr = api.APIError{Type: errTypeHTTP, Message: resp.Status}
			if resp.StatusCode >= 500 {
				apiErr.Type = api.ErrTypeInternal
			}
		}
		return apiErr
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
