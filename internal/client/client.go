package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/forgo/vidgram/internal/model"
)

// Header names
const (
	HeaderRequestID      = "X-Request-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// maxErrorBody bounds how much of an error response is read
const maxErrorBody = 1 << 20

// Authorizer supplies the bearer token at the moment a request is made
type Authorizer interface {
	BearerToken() (string, error)
}

// Config holds configuration for the API client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64 // requests per second; 0 disables limiting
	RateBurst  int
	UserAgent  string
	HTTPClient *http.Client
	Metrics    *Metrics
	Logger     *slog.Logger
}

// Client talks to the vidgram REST backend
type Client struct {
	baseURL   string
	http      *http.Client
	limiter   *rate.Limiter
	metrics   *Metrics
	logger    *slog.Logger
	userAgent string
}

// New creates an API client
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "vidgram-client"
	}

	return &Client{
		baseURL:   strings.TrimRight(u.String(), "/"),
		http:      httpClient,
		limiter:   limiter,
		metrics:   cfg.Metrics,
		logger:    logger,
		userAgent: userAgent,
	}, nil
}

// request describes one call to the backend
type request struct {
	method string
	// route is the path template, used as the metrics label
	route       string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	auth        Authorizer
	idempotent  bool
}

// jsonBody encodes v for a request body
func jsonBody(v interface{}) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return bytes.NewReader(data), nil
}

// do executes req and decodes a 2xx JSON response into out (if non-nil)
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	// The token is read now, not when the caller was constructed
	var token string
	if req.auth != nil {
		t, err := req.auth.BearerToken()
		if err != nil {
			closeBody(req.body)
			return err
		}
		token = t
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			closeBody(req.body)
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, req.body)
	if err != nil {
		closeBody(req.body)
		return fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.New().String()
	httpReq.Header.Set(HeaderRequestID, requestID)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if req.idempotent {
		httpReq.Header.Set(HeaderIdempotencyKey, uuid.New().String())
	}

	route := req.route
	if route == "" {
		route = req.path
	}

	c.metrics.started()
	start := time.Now()
	resp, err := c.http.Do(httpReq)
	elapsed := time.Since(start)
	c.metrics.finished()

	if err != nil {
		c.metrics.observe(req.method, route, 0, elapsed)
		c.logger.Debug("request failed",
			slog.String("method", req.method),
			slog.String("path", req.path),
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	c.metrics.observe(req.method, route, resp.StatusCode, elapsed)
	c.logger.Debug("request completed",
		slog.String("method", req.method),
		slog.String("path", req.path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", elapsed),
		slog.String("request_id", requestID),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp, requestID)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response, requestID string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var msg model.MessageResponse
	var message string
	if err := json.Unmarshal(body, &msg); err == nil {
		message = msg.Message
	} else {
		message = strings.TrimSpace(string(body))
	}

	apiErr := model.NewAPIError(resp.StatusCode, message)
	apiErr.RequestID = requestID
	return apiErr
}

// closeBody releases a streaming body that will never be sent
func closeBody(body io.Reader) {
	if c, ok := body.(io.Closer); ok {
		_ = c.Close()
	}
}

// pageQuery builds the page/limit query used by every collection endpoint
func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("limit", fmt.Sprint(limit))
	return q
}

// escapeID makes an id safe to use as a path segment
func escapeID(id string) string {
	return url.PathEscape(id)
}
