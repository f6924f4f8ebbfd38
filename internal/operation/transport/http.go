// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// maxErrorBody caps how much of an error response is kept on the error.
const maxErrorBody = 4096

// requestIDHeaders are checked in order for a vendor request id.
var requestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID", "X-Amzn-RequestId"}

// HTTPTransportConfig configures the HTTP transport.
type HTTPTransportConfig struct {
	// Timeout bounds each attempt (default: 30s)
	Timeout time.Duration

	// TLSInsecure disables certificate validation. Development only.
	TLSInsecure bool

	// UserAgent is sent when the request does not set one.
	UserAgent string

	// AllowedHosts restricts destinations to matching host globs.
	AllowedHosts []string

	// Retry is the retry policy. Nil performs a single attempt.
	Retry *RetryConfig

	// TracerProvider and MeterProvider instrument each HTTP attempt with a
	// client span and request metrics. Nil leaves the client uninstrumented.
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Validate checks if the configuration is valid.
func (c *HTTPTransportConfig) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", c.Timeout)
	}
	if err := ValidatePatterns(c.AllowedHosts); err != nil {
		return err
	}
	if c.Retry != nil {
		if err := c.Retry.Validate(); err != nil {
			return fmt.Errorf("invalid retry configuration: %w", err)
		}
	}
	return nil
}

// HTTPTransport sends requests with net/http.
type HTTPTransport struct {
	config      *HTTPTransportConfig
	client      *http.Client
	rateLimiter RateLimiter
}

// NewHTTPTransport creates a transport. A nil config uses defaults.
func NewHTTPTransport(config *HTTPTransportConfig) (*HTTPTransport, error) {
	if config == nil {
		config = &HTTPTransportConfig{}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	var base http.RoundTripper = &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.TLSInsecure,
		},
	}
	if config.TracerProvider != nil || config.MeterProvider != nil {
		base = instrument(base, config)
	}

	client := &http.Client{Timeout: timeout, Transport: base}
	return &HTTPTransport{config: config, client: client}, nil
}

// Option adjusts an HTTPTransportConfig.
type Option func(*HTTPTransportConfig)

// WithTelemetry instruments the client with the given providers.
func WithTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) Option {
	return func(c *HTTPTransportConfig) {
		c.TracerProvider = tp
		c.MeterProvider = mp
	}
}

func instrument(base http.RoundTripper, config *HTTPTransportConfig) http.RoundTripper {
	opts := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method
		}),
	}
	if config.TracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(config.TracerProvider))
	}
	if config.MeterProvider != nil {
		opts = append(opts, otelhttp.WithMeterProvider(config.MeterProvider))
	}
	return otelhttp.NewTransport(base, opts...)
}

// Name returns "http".
func (t *HTTPTransport) Name() string {
	return "http"
}

// SetRateLimiter configures rate limiting for this transport.
func (t *HTTPTransport) SetRateLimiter(limiter RateLimiter) {
	t.rateLimiter = limiter
}

// Execute sends the request under the configured retry policy.
func (t *HTTPTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := t.validateRequest(req); err != nil {
		return nil, &TransportError{
			Type:    ErrorTypeInvalidReq,
			Message: fmt.Sprintf("invalid request: %s", err.Error()),
			Cause:   err,
		}
	}

	return Retry(ctx, t.config.Retry, func(ctx context.Context) (*Response, error) {
		return t.executeOnce(ctx, req)
	})
}

func (t *HTTPTransport) executeOnce(ctx context.Context, req *Request) (*Response, error) {
	if t.rateLimiter != nil {
		if err := t.rateLimiter.Wait(ctx); err != nil {
			return nil, &TransportError{
				Type:    ErrorTypeCancelled,
				Message: "rate limit wait cancelled",
				Cause:   err,
			}
		}
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, &TransportError{
			Type:    ErrorTypeInvalidReq,
			Message: fmt.Sprintf("failed to build HTTP request: %s", err.Error()),
			Cause:   err,
		}
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if t.config.UserAgent != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", t.config.UserAgent)
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, classifyHTTPError(ctx, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{
			Type:      ErrorTypeConnection,
			Message:   fmt.Sprintf("failed to read response body: %s", err.Error()),
			Retryable: true,
			Cause:     err,
		}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
		Metadata:   make(map[string]interface{}),
	}
	requestID := ""
	for _, h := range requestIDHeaders {
		if v := httpResp.Header.Get(h); v != "" {
			requestID = v
			resp.Metadata[MetadataRequestID] = v
			break
		}
	}

	if httpResp.StatusCode >= 400 {
		if retryAfter := httpResp.Header.Get("Retry-After"); retryAfter != "" {
			resp.Metadata[MetadataRetryAfter] = retryAfter
		}
		return nil, statusError(httpResp.StatusCode, requestID, respBody, resp.Metadata)
	}

	return resp, nil
}

func (t *HTTPTransport) validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	case "":
		return fmt.Errorf("method is required")
	default:
		return fmt.Errorf("invalid HTTP method: %q", req.Method)
	}
	if req.URL == "" {
		return fmt.Errorf("URL is required")
	}
	return ValidateHost(req.URL, t.config.AllowedHosts)
}

// classifyHTTPError maps a client error without a response.
func classifyHTTPError(ctx context.Context, err error) *TransportError {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return &TransportError{
			Type:    ErrorTypeCancelled,
			Message: "request cancelled",
			Cause:   err,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransportError{
			Type:      ErrorTypeTimeout,
			Message:   "request timeout",
			Retryable: true,
			Cause:     err,
		}
	}

	return &TransportError{
		Type:      ErrorTypeConnection,
		Message:   "connection error",
		Retryable: true,
		Cause:     err,
	}
}

// statusError builds the error for a 4xx/5xx response. Small bodies are
// included in the message since the API explains failures there.
func statusError(statusCode int, requestID string, body []byte, metadata map[string]interface{}) *TransportError {
	errorType, retryable := classifyStatus(statusCode)

	message := fmt.Sprintf("HTTP %d", statusCode)
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" && len(trimmed) < 500 {
		message = fmt.Sprintf("HTTP %d: %s", statusCode, trimmed)
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	return &TransportError{
		Type:       errorType,
		StatusCode: statusCode,
		Message:    message,
		RequestID:  requestID,
		Retryable:  retryable,
		Body:       body,
		Metadata:   metadata,
	}
}
