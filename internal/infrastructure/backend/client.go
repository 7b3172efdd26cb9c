package backend

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/cognitive-shield/sentinel/internal/core/domain/verdict"
	"github.com/cognitive-shield/sentinel/internal/core/ports"
	"github.com/cognitive-shield/sentinel/internal/utils"
)

const (
	verifyPath      = "/verify"
	verifyImagePath = "/image/verify"

	// DefaultMaxTextChars caps the text body sent for analysis.
	DefaultMaxTextChars = 4000
)

var backendRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sentinel_backend_requests_total",
		Help: "Analysis backend requests by endpoint and outcome",
	},
	[]string{"endpoint", "outcome"},
)

func init() {
	prometheus.MustRegister(backendRequests)
}

// Config holds backend client settings.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	MaxTextChars int
}

// Client calls the analysis backend. One attempt per call, no retries.
type Client struct {
	baseURL      string
	maxTextChars int
	http         *http.Client
	logger       *logrus.Logger
}

var _ ports.BackendClient = (*Client)(nil)

func NewClient(cfg Config, logger *logrus.Logger) *Client {
	maxChars := cfg.MaxTextChars
	if maxChars <= 0 {
		maxChars = DefaultMaxTextChars
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		maxTextChars: maxChars,
		http:         &http.Client{Timeout: cfg.Timeout},
		logger:       logger,
	}
}

type textRequest struct {
	Text string `json:"text"`
}

type imageRequest struct {
	URL string `json:"url"`
}

// VerifyText submits text (capped at the configured length) to the verify endpoint.
// Malformed responses yield {status:"error", error:"Invalid JSON"}. An error is
// returned only when no usable response arrived.
func (c *Client) VerifyText(ctx context.Context, text string) (*verdict.Verdict, error) {
	body := textRequest{Text: utils.Truncate(text, c.maxTextChars)}
	v, err := c.post(ctx, verifyPath, body)
	switch {
	case errors.Is(err, errInvalidJSON):
		return verdict.NewError(verdict.ErrInvalidJSON), nil
	case err != nil:
		return nil, err
	}
	return v, nil
}

// VerifyImage submits an image URL to the image verification endpoint.
// Malformed responses yield {status:"error", reason:"Invalid JSON from backend"}.
func (c *Client) VerifyImage(ctx context.Context, imageURL string) (*verdict.Verdict, error) {
	v, err := c.post(ctx, verifyImagePath, imageRequest{URL: imageURL})
	switch {
	case errors.Is(err, errInvalidJSON):
		return verdict.NewErrorWithReason(verdict.ReasonInvalidJSON), nil
	case err != nil:
		return nil, err
	}
	return v, nil
}

var errInvalidJSON = errors.New("invalid JSON from backend")

func (c *Client) post(ctx context.Context, path string, payload any) (*verdict.Verdict, error) {
	endpoint := c.baseURL + path
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, c.fail(path, "encode", fmt.Errorf("failed to encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, c.fail(path, "request", fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(path, "network", fmt.Errorf("backend request failed: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(path, "network", fmt.Errorf("failed to read backend response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(path, "status", fmt.Errorf("backend returned %d", resp.StatusCode))
	}

	var v verdict.Verdict
	if err := json.Unmarshal(raw, &v); err != nil {
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{"endpoint": path, "status_code": resp.StatusCode}).WithError(err).Warn("backend returned invalid JSON")
		}
		backendRequests.WithLabelValues(path, "invalid_json").Inc()
		return nil, errInvalidJSON
	}

	backendRequests.WithLabelValues(path, "ok").Inc()
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"endpoint": path, "status": v.Status}).Debug("backend verdict received")
	}
	return &v, nil
}

func (c *Client) fail(path, outcome string, err error) error {
	backendRequests.WithLabelValues(path, outcome).Inc()
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"endpoint": path, "outcome": outcome}).WithError(err).Error("backend call failed")
	}
	return err
}
