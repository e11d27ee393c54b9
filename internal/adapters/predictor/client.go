// Package predictor calls the remote prediction endpoint over HTTP.
package predictor

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

	"github.com/google/uuid"

	"github.com/okian/heartcheck/internal/domain/form"
	"github.com/okian/heartcheck/internal/domain/prediction"
	"github.com/okian/heartcheck/pkg/logger"
	"github.com/okian/heartcheck/pkg/metrics"
)

// Sentinel kinds for endpoint failures.
var (
	ErrTransport = errors.New("prediction request failed")
	ErrStatus    = errors.New("prediction endpoint returned an error status")
	ErrDecode    = errors.New("prediction response is not valid JSON")
)

// RequestIDHeader carries the per-call correlation id.
const RequestIDHeader = "X-Request-ID"

// Bodies longer than this are cut when quoted in an error.
const maxErrorBody = 512

// StatusError describes a non-2xx answer. It matches ErrStatus.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: %d %s", ErrStatus, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Client posts feature vectors to one endpoint. Each call is a single
// attempt; nothing is retried.
type Client struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
	logger     logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithTimeout bounds every call. Zero leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d >= 0 {
			cl.timeout = d
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// New returns a client for the endpoint at url.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Named("predictor")
	}
	return c
}

// URL returns the endpoint address.
func (c *Client) URL() string { return c.url }

// Predict sends features and returns the decoded response.
func (c *Client) Predict(ctx context.Context, features form.Features) (prediction.Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(prediction.Request{InputData: features.Slice()})
	if err != nil {
		return prediction.Response{}, fmt.Errorf("%w: encode: %w", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return prediction.Response{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	metrics.RecordPredictionLatency(float64(elapsed.Milliseconds()))
	if err != nil {
		metrics.RecordPredictionError("transport")
		c.logger.Warn(ctx, "prediction request failed",
			logger.String("request_id", requestID), logger.Duration("elapsed", elapsed), logger.Error(err))
		return prediction.Response{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordPredictionError("transport")
		return prediction.Response{}, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordPredictionError("status")
		c.logger.Warn(ctx, "prediction endpoint rejected request",
			logger.String("request_id", requestID), logger.Int("status", resp.StatusCode))
		return prediction.Response{}, &StatusError{Code: resp.StatusCode, Body: errorText(body)}
	}

	var out prediction.Response
	if err := json.Unmarshal(body, &out); err != nil {
		metrics.RecordPredictionError("decode")
		return prediction.Response{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	metrics.RecordPrediction(string(out.Outcome()))
	c.logger.Debug(ctx, "prediction received",
		logger.String("request_id", requestID),
		logger.String("outcome", string(out.Outcome())),
		logger.Duration("elapsed", elapsed),
	)
	return out, nil
}

// errorText prefers the backend's {"error": "..."} message over the raw body.
func errorText(body []byte) string {
	var parsed prediction.Response
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody] + "..."
	}
	return text
}
