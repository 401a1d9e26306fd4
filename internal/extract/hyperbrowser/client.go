// Package hyperbrowser implements extract.Extractor against the hosted
// Hyperbrowser extract API: a job is started with the target URLs, prompt
// and schema, then polled until it reaches a terminal status.
package hyperbrowser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"seokeys/internal/extract"
	"seokeys/internal/retry"
)

// Defaults for the hosted API.
const (
	DefaultBaseURL        = "https://app.hyperbrowser.ai"
	DefaultPollInterval   = 2 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRetries     = 3
)

var _ extract.Extractor = (*Client)(nil)

// APIError is a non-2xx response from the API.
type APIError struct {
	Code int
	Body string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("hyperbrowser: HTTP %d: %s", e.Code, body)
}

// StatusCode returns the HTTP status of the failed call.
func (e *APIError) StatusCode() int {
	return e.Code
}

// Client talks to the hosted extract API.
type Client struct {
	http           *fasthttp.Client
	apiKey         string
	baseURL        string
	pollInterval   time.Duration
	requestTimeout time.Duration
	timeout        time.Duration
	retry          *retry.Backoff
	log            zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, e.g. for a proxy or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithPollInterval sets the delay between job status requests.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithTimeout bounds a whole Extract call. Zero leaves it to ctx.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRetry sets how often a failed API call is retried.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(c *Client) {
		c.retry = retry.New(maxRetries, delay)
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New returns a Client authenticated with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:         apiKey,
		baseURL:        DefaultBaseURL,
		pollInterval:   DefaultPollInterval,
		requestTimeout: DefaultRequestTimeout,
		retry:          retry.New(DefaultMaxRetries, 500*time.Millisecond),
		log:            zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = &fasthttp.Client{
		Name:                "seokeys/1.0",
		MaxConnsPerHost:     64,
		ReadTimeout:         c.requestTimeout,
		WriteTimeout:        c.requestTimeout,
		MaxIdleConnDuration: 90 * time.Second,
	}
	return c
}

// Name identifies this backend.
func (c *Client) Name() string {
	return "hyperbrowser"
}

type startResponse struct {
	JobID string `json:"jobId"`
}

// Extract starts a job and polls it to completion.
func (c *Client) Extract(ctx context.Context, req extract.Request) (*extract.Result, error) {
	if len(req.URLs) == 0 {
		return nil, fmt.Errorf("hyperbrowser: at least one url required")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	// A start whose response was lost may still have created a job, so
	// only explicit refusals are retried.
	var jobID string
	err := c.retry.ExecuteIf(ctx, func() error {
		var err error
		jobID, err = c.start(ctx, req)
		return err
	}, retry.Rejected)
	if err != nil {
		return nil, fmt.Errorf("hyperbrowser: start job: %w", err)
	}

	log := c.log.With().Str("job_id", jobID).Logger()
	log.Debug().Strs("urls", req.URLs).Msg("extract job started")

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var res *extract.Result
		err := c.retry.Execute(ctx, func() error {
			var err error
			res, err = c.job(ctx, jobID)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("hyperbrowser: poll job %s: %w", jobID, err)
		}
		if res.Status.Terminal() {
			log.Debug().Str("status", string(res.Status)).Msg("extract job finished")
			return res, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("hyperbrowser: job %s: %w", jobID, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) start(ctx context.Context, req extract.Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	respBody, err := c.do(ctx, fasthttp.MethodPost, c.baseURL+"/api/extract", body)
	if err != nil {
		return "", err
	}

	var sr startResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return "", fmt.Errorf("decode start response: %w", err)
	}
	if sr.JobID == "" {
		return "", fmt.Errorf("start response has no job id")
	}
	return sr.JobID, nil
}

func (c *Client) job(ctx context.Context, jobID string) (*extract.Result, error) {
	respBody, err := c.do(ctx, fasthttp.MethodGet, c.baseURL+"/api/extract/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, err
	}

	var res extract.Result
	if err := json.Unmarshal(respBody, &res); err != nil {
		return nil, fmt.Errorf("decode job response: %w", err)
	}
	if res.JobID == "" {
		res.JobID = jobID
	}
	return &res, nil
}

// do performs one request and returns a copy of the response body.
func (c *Client) do(ctx context.Context, method, uri string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	timeout := c.requestTimeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, context.DeadlineExceeded
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return nil, &APIError{Code: code, Body: string(resp.Body())}
	}

	return append([]byte(nil), resp.Body()...), nil
}
