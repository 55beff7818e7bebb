package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/amaumene/mediagate/internal/metrics"
	"github.com/cenkalti/backoff/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	defaultTimeout       = 15 * time.Second
	defaultRetryInterval = 300 * time.Millisecond
	defaultMaxRetries    = 2
	defaultMaxBodySize   = 8 * 1024 * 1024 // 8MB
	cacheSweepInterval   = 10 * time.Minute
)

// Params are query parameters. Keys with empty values are omitted.
type Params map[string]string

// CachePolicy tells the client whether a successful response may be reused
type CachePolicy struct {
	TTL time.Duration
}

// NoCache always hits the network
var NoCache = CachePolicy{}

// CacheFor reuses a successful response for ttl
func CacheFor(ttl time.Duration) CachePolicy {
	return CachePolicy{TTL: ttl}
}

// Options configures a Client
type Options struct {
	Name          string // Catalog label used in logs, spans and metrics
	BaseURL       string
	HTTPClient    *http.Client
	Headers       map[string]string // Sent with every request
	MaxRetries    *uint64           // Retries after the first attempt (default 2)
	RetryInterval time.Duration     // Initial backoff interval (default 300ms)
	MaxBodySize   int64             // Largest accepted response body (default 8MB)
	Logger        *logrus.Logger
	Metrics       *metrics.Metrics
	Tracer        trace.Tracer
}

// Client issues JSON GET requests against one upstream catalog
type Client struct {
	name          string
	baseURL       string
	httpClient    *http.Client
	headers       map[string]string
	cache         *gocache.Cache
	maxRetries    uint64
	retryInterval time.Duration
	maxBodySize   int64
	logger        *logrus.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
}

// NewClient creates a new fetch client for one upstream
func NewClient(opts Options) *Client {
	c := &Client{
		name:          opts.Name,
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		httpClient:    opts.HTTPClient,
		headers:       opts.Headers,
		cache:         gocache.New(gocache.NoExpiration, cacheSweepInterval),
		maxRetries:    defaultMaxRetries,
		retryInterval: opts.RetryInterval,
		maxBodySize:   opts.MaxBodySize,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		tracer:        opts.Tracer,
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if opts.MaxRetries != nil {
		c.maxRetries = *opts.MaxRetries
	}
	if c.retryInterval <= 0 {
		c.retryInterval = defaultRetryInterval
	}
	if c.maxBodySize <= 0 {
		c.maxBodySize = defaultMaxBodySize
	}
	if c.logger == nil {
		c.logger = logrus.StandardLogger()
	}
	if c.tracer == nil {
		c.tracer = noop.NewTracerProvider().Tracer("")
	}

	return c
}

// Name returns the catalog label
func (c *Client) Name() string {
	return c.name
}

// Get fetches baseURL+path with params and decodes the JSON body into out
func (c *Client) Get(ctx context.Context, path string, params Params, policy CachePolicy, out any) error {
	fullURL, err := c.buildURL(path, params)
	if err != nil {
		return &TransportError{Path: path, Err: err}
	}

	if policy.TTL > 0 {
		if cached, ok := c.cache.Get(fullURL); ok {
			c.metrics.CacheHit(c.name)
			c.logger.WithFields(logrus.Fields{
				"catalog": c.name,
				"path":    path,
			}).Debug("Serving catalog response from cache")
			return decode(path, cached.([]byte), out)
		}
	}

	ctx, span := c.tracer.Start(ctx, c.name+" GET "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("catalog", c.name),
			attribute.String("http.method", http.MethodGet),
			attribute.String("url.path", path),
		))
	defer span.End()

	body, err := c.fetchWithRetry(ctx, path, fullURL)
	if err == nil {
		err = checkEnvelope(path, body)
	}
	if err == nil {
		err = decode(path, body, out)
	}
	if err != nil {
		c.logFailure(path, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(KindOf(err)))
		return err
	}

	if policy.TTL > 0 {
		c.cache.Set(fullURL, body, policy.TTL)
	}
	return nil
}

func (c *Client) buildURL(path string, params Params) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	q := u.Query()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := params[k]; v != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// fetchWithRetry retries transport errors and 429/5xx responses with exponential backoff
func (c *Client) fetchWithRetry(ctx context.Context, path, fullURL string) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval

	var body []byte
	attempt := 0
	op := func() error {
		attempt++
		b, err := c.do(ctx, path, fullURL)
		if err == nil {
			body = b
			return nil
		}
		if ctx.Err() != nil || !retryable(err) {
			return backoff.Permanent(err)
		}
		c.logger.WithFields(logrus.Fields{
			"catalog": c.name,
			"path":    path,
			"attempt": attempt,
		}).WithError(err).Debug("Catalog request failed, retrying")
		return err
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx))
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, path, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}

	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	c.logger.WithFields(logrus.Fields{
		"catalog": c.name,
		"path":    path,
	}).Debug("Making catalog request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(c.name, string(KindTransport), time.Since(start))
		return nil, &TransportError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		c.metrics.ObserveRequest(c.name, string(KindTransport), time.Since(start))
		return nil, &TransportError{Path: path, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	switch {
	case int64(len(body)) > c.maxBodySize:
		err = &ResponseTooLargeError{Path: path, Limit: c.maxBodySize}
	case resp.StatusCode == http.StatusNotFound:
		err = &NotFoundError{Path: path}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		err = &UpstreamHTTPError{Path: path, StatusCode: resp.StatusCode, Body: string(body)}
	}

	outcome := "ok"
	if err != nil {
		outcome = string(KindOf(err))
	}
	c.metrics.ObserveRequest(c.name, outcome, time.Since(start))

	if err != nil {
		return nil, err
	}
	return body, nil
}

// logFailure stays at Debug; the Degrader reports the failure once callers
// collapse it
func (c *Client) logFailure(path string, err error) {
	c.logger.WithFields(logrus.Fields{
		"catalog": c.name,
		"path":    path,
		"kind":    KindOf(err),
	}).WithError(err).Debug("Catalog request failed")
}

func retryable(err error) bool {
	switch e := err.(type) {
	case *TransportError:
		return true
	case *UpstreamHTTPError:
		return e.Retryable()
	default:
		return false
	}
}

// envelope captures the error members upstreams embed in 200 responses
type envelope struct {
	Error         json.RawMessage `json:"error"`
	Success       *bool           `json:"success"`
	StatusMessage string          `json:"status_message"`
	StatusCode    int             `json:"status_code"`
}

func checkEnvelope(path string, body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil // decode reports malformed bodies
	}

	if len(env.Error) > 0 && string(env.Error) != "null" && string(env.Error) != "false" {
		var message string
		if err := json.Unmarshal(env.Error, &message); err == nil {
			return &UpstreamAPIError{Path: path, Message: message}
		}

		var detail struct {
			Type    string `json:"type"`
			Message string `json:"message"`
			Code    int    `json:"code"`
		}
		if err := json.Unmarshal(env.Error, &detail); err == nil {
			msg := detail.Message
			if detail.Type != "" {
				msg = detail.Type + ": " + msg
			}
			return &UpstreamAPIError{Path: path, Message: msg, Code: detail.Code}
		}
		return &UpstreamAPIError{Path: path, Message: string(env.Error)}
	}

	if env.Success != nil && !*env.Success {
		return &UpstreamAPIError{Path: path, Message: env.StatusMessage, Code: env.StatusCode}
	}

	return nil
}

func decode(path string, body []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &UpstreamAPIError{Path: path, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return nil
}
