package fetch

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a catalog failure
type Kind string

const (
	KindTransport Kind = "transport"
	KindHTTP      Kind = "http_error"
	KindAPI       Kind = "api_error"
	KindNotFound  Kind = "not_found"
	KindTooLarge  Kind = "too_large"
	KindUnknown   Kind = "unknown"
)

// TransportError means the upstream could not be reached (network, timeout, cancellation)
type TransportError struct {
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamHTTPError means the upstream answered with a non-2xx status
type UpstreamHTTPError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Path, e.StatusCode, truncate(e.Body, 256))
}

// Retryable reports whether the status is worth another attempt
func (e *UpstreamHTTPError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// UpstreamAPIError means the upstream answered 2xx but the payload carries an
// error envelope, or could not be decoded at all
type UpstreamAPIError struct {
	Path    string
	Message string
	Code    int
}

func (e *UpstreamAPIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s returned error %d: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s returned error: %s", e.Path, e.Message)
}

// ResponseTooLargeError means the body exceeded the client's size limit.
// Oversized bodies are never decoded.
type ResponseTooLargeError struct {
	Path  string
	Limit int64
}

func (e *ResponseTooLargeError) Error() string {
	return fmt.Sprintf("%s response too large: exceeds %d bytes", e.Path, e.Limit)
}

// NotFoundError is the expected "no such record" condition
type NotFoundError struct {
	Path     string
	Resource string
}

func (e *NotFoundError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s not found (%s)", e.Resource, e.Path)
	}
	return fmt.Sprintf("%s not found", e.Path)
}

// KindOf classifies err, looking through wrapped errors
func KindOf(err error) Kind {
	var (
		notFound  *NotFoundError
		httpErr   *UpstreamHTTPError
		apiErr    *UpstreamAPIError
		transport *TransportError
		tooLarge  *ResponseTooLargeError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &notFound):
		return KindNotFound
	case errors.As(err, &tooLarge):
		return KindTooLarge
	case errors.As(err, &httpErr):
		return KindHTTP
	case errors.As(err, &apiErr):
		return KindAPI
	case errors.As(err, &transport),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return KindTransport
	default:
		return KindUnknown
	}
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
