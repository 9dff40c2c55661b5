package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"knewkarma/pkg/config"
	errs "knewkarma/pkg/errors"
	"knewkarma/pkg/logger"
	"knewkarma/pkg/ratelimit"
	"knewkarma/pkg/retry"
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Limiter   ratelimit.Limiter
	// Retry is the caller policy for rate-limited and transient failures.
	// nil means a single attempt per call.
	Retry      *retry.Config
	HTTPClient *http.Client
	Logger     logger.Logger
}

// Client issues GET requests against the public JSON API. It is safe for
// concurrent use and is meant to be shared for the lifetime of a process.
type Client struct {
	http    *resty.Client
	baseURL string
	retry   *retry.Config
	limiter ratelimit.Limiter
	logger  logger.Logger
}

// NewClient creates a new API client
func NewClient(opts Options) *Client {
	log := logger.OrNop(opts.Logger)

	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultConfig().Reddit.UserAgent
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}

	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			return limiter.Wait(r.Context())
		})

	if opts.Retry != nil && opts.Retry.Logger == nil {
		cp := *opts.Retry
		cp.Logger = log
		opts.Retry = &cp
	}

	return &Client{
		http:    rc,
		baseURL: opts.BaseURL,
		retry:   opts.Retry,
		limiter: limiter,
		logger:  log,
	}
}

// NewClientFromConfig builds a Client with the configured pacing and retry
// policy
func NewClientFromConfig(cfg *config.Config, log logger.Logger) *Client {
	opts := Options{
		BaseURL:   cfg.Reddit.BaseURL,
		UserAgent: cfg.Reddit.UserAgent,
		Timeout:   cfg.Reddit.Timeout,
		Limiter:   ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize),
		Logger:    log,
	}
	if cfg.Retry.Enabled {
		opts.Retry = &retry.Config{
			MaxAttempts: cfg.Retry.MaxAttempts,
			Backoff: &retry.ExponentialBackoff{
				BaseDelay:    cfg.Retry.BaseDelay,
				MaxDelay:     cfg.Retry.MaxDelay,
				Multiplier:   cfg.Retry.Multiplier,
				JitterFactor: 0.1,
			},
			MaxDelay: cfg.Retry.MaxDelay,
		}
	}
	return NewClient(opts)
}

// BaseURL returns the API root this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetRaw performs a GET request and returns the undecoded JSON body
func (c *Client) GetRaw(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	if c.retry == nil {
		return c.get(ctx, path, query)
	}

	cfg := *c.retry
	userOnRetry := cfg.OnRetry
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		retriesTotal.WithLabelValues(string(errs.TypeOf(err))).Inc()
		if userOnRetry != nil {
			userOnRetry(attempt, err, delay)
		}
	}
	return retry.DoWithResult(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.get(ctx, path, query)
	}, &cfg)
}

// GetJSON performs a GET request and decodes the JSON response into target
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, target interface{}) error {
	body, err := c.GetRaw(ctx, path, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		c.logger.ErrorWithFields("failed to decode JSON response", map[string]interface{}{
			"path":         path,
			"error":        err.Error(),
			"body_preview": preview(body),
		})
		return &errs.Error{
			Type:    errs.ErrorTypeMalformed,
			Message: fmt.Sprintf("unexpected response shape: %v", err),
			Code:    http.StatusOK,
			Err:     err,
		}
	}
	return nil
}

// get performs exactly one request
func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	endpoint := endpointLabel(path)
	start := time.Now()

	c.logger.DebugWithFields("sending request", map[string]interface{}{
		"path":  path,
		"query": query.Encode(),
	})

	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	resp, err := req.Get(path)
	duration := time.Since(start)
	requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())

	if err != nil {
		requestsTotal.WithLabelValues(endpoint, "error").Inc()
		c.logger.WarnWithFields("request failed", map[string]interface{}{
			"path":     path,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeTransport,
			Message: fmt.Sprintf("request failed: %v", err),
			Err:     err,
		}
	}

	status := resp.StatusCode()
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()

	c.logger.DebugWithFields("request completed", map[string]interface{}{
		"path":     path,
		"status":   status,
		"duration": duration,
		"bytes":    len(resp.Body()),
	})

	if err := c.checkResponseStatus(path, resp); err != nil {
		return nil, err
	}

	body := resp.Body()
	if !json.Valid(body) {
		c.logger.ErrorWithFields("response is not valid JSON", map[string]interface{}{
			"path":         path,
			"status":       status,
			"body_preview": preview(body),
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeMalformed,
			Message: "response body is not valid JSON",
			Code:    status,
		}
	}
	return json.RawMessage(body), nil
}

// checkResponseStatus maps non-2xx responses onto the error taxonomy
func (c *Client) checkResponseStatus(path string, resp *resty.Response) error {
	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		return nil
	}

	fields := map[string]interface{}{
		"path":   path,
		"status": status,
	}

	switch status {
	case http.StatusNotFound:
		c.logger.DebugWithFields("resource not found", fields)
		return errs.FromStatus(status, "resource not found")
	case http.StatusTooManyRequests:
		wait := retryAfter(resp.Header())
		fields["retry_after"] = wait
		c.logger.WarnWithFields("rate limit exceeded", fields)
		e := errs.FromStatus(status, "rate limit exceeded")
		e.RetryAfter = wait
		return e
	default:
		if status >= 500 {
			c.logger.WarnWithFields("server error", fields)
		} else {
			c.logger.WarnWithFields("unexpected status code", fields)
		}
		return errs.FromStatus(status, fmt.Sprintf("unexpected status code: %d", status))
	}
}

// retryAfter reads the server-suggested wait from Retry-After or the
// x-ratelimit-reset header, both expressed in seconds.
func retryAfter(h http.Header) time.Duration {
	for _, name := range []string{"Retry-After", "X-Ratelimit-Reset"} {
		v := strings.TrimSpace(h.Get(name))
		if v == "" {
			continue
		}
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return 0
}

// endpointLabel replaces user supplied path segments so metric labels stay
// bounded.
func endpointLabel(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i := 0; i < len(parts); i++ {
		switch parts[i] {
		case "user", "r":
			if i+1 < len(parts) {
				if strings.HasSuffix(parts[i+1], ".json") {
					parts[i+1] = ":name.json"
				} else {
					parts[i+1] = ":name"
				}
				i++
			}
		case "comments":
			if i > 0 && i+1 < len(parts) {
				parts[i+1] = ":id.json"
				i++
			}
		case "wiki":
			if i+1 < len(parts) && parts[i+1] != "pages.json" {
				parts[i+1] = ":page.json"
				i++
			}
		}
	}
	return "/" + strings.Join(parts, "/")
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
