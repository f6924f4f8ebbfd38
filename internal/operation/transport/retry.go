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
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// RetryConfig configures transport-level retries. The zero policy used when
// no config is supplied performs a single attempt.
type RetryConfig struct {
	// MaxAttempts counts the first attempt. 1 disables retries.
	MaxAttempts int `yaml:"max_attempts" validate:"gte=1,lte=10"`

	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
	BackoffFactor  float64       `yaml:"backoff_factor"`

	// RetryableStatus lists HTTP status codes worth another attempt.
	RetryableStatus []int `yaml:"retryable_status"`
}

// SingleAttempt returns the policy used when retries are not configured.
func SingleAttempt() *RetryConfig {
	return &RetryConfig{MaxAttempts: 1, BackoffFactor: 1}
}

// DefaultRetryConfig returns the policy applied when retries are enabled
// without further tuning.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:     3,
		InitialBackoff:  500 * time.Millisecond,
		MaxBackoff:      10 * time.Second,
		BackoffFactor:   2.0,
		RetryableStatus: []int{408, 429, 500, 502, 503, 504},
	}
}

// Validate checks the retry policy.
func (c *RetryConfig) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.InitialBackoff < 0 {
		return fmt.Errorf("initial_backoff must be non-negative, got %v", c.InitialBackoff)
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff (%v) must be >= initial_backoff (%v)", c.MaxBackoff, c.InitialBackoff)
	}
	if c.BackoffFactor < 1.0 {
		return fmt.Errorf("backoff_factor must be >= 1.0, got %f", c.BackoffFactor)
	}
	return nil
}

// retryableStatus reports whether statusCode is in the retry list.
func (c *RetryConfig) retryableStatus(statusCode int) bool {
	for _, code := range c.RetryableStatus {
		if code == statusCode {
			return true
		}
	}
	return false
}

// AttemptFunc performs one attempt.
type AttemptFunc func(ctx context.Context) (*Response, error)

// Retry runs fn under the policy. Only *TransportError values marked
// Retryable are retried; a Retry-After hint on 429/503 stretches the delay.
func Retry(ctx context.Context, config *RetryConfig, fn AttemptFunc) (*Response, error) {
	if config == nil {
		config = SingleAttempt()
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		resp, err := fn(ctx)
		if err == nil {
			if resp.Metadata == nil {
				resp.Metadata = make(map[string]interface{})
			}
			resp.Metadata[MetadataRetryCount] = attempt - 1
			return resp, nil
		}
		lastErr = err

		retry, retryAfter := shouldRetry(err, config)
		if attempt >= config.MaxAttempts || !retry {
			return nil, err
		}

		delay := backoff(config, attempt, retryAfter)
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, &TransportError{
				Type:    ErrorTypeCancelled,
				Message: "request cancelled during retry backoff",
				Cause:   ctx.Err(),
			}
		}
	}

	return nil, lastErr
}

func shouldRetry(err error, config *RetryConfig) (bool, time.Duration) {
	te, ok := AsTransportError(err)
	if !ok || !te.Retryable {
		return false, 0
	}

	if te.StatusCode > 0 {
		if !config.retryableStatus(te.StatusCode) {
			return false, 0
		}
		if te.StatusCode == http.StatusTooManyRequests || te.StatusCode == http.StatusServiceUnavailable {
			return true, parseRetryAfter(te.Metadata)
		}
	}

	return true, 0
}

// backoff computes min(initial * factor^(attempt-1), max) plus up to 100ms
// of jitter, raised to the Retry-After hint when one is present.
func backoff(config *RetryConfig, attempt int, retryAfter time.Duration) time.Duration {
	base := float64(config.InitialBackoff) * math.Pow(config.BackoffFactor, float64(attempt-1))
	if base > float64(config.MaxBackoff) {
		base = float64(config.MaxBackoff)
	}
	delay := time.Duration(base)

	if retryAfter > delay {
		delay = retryAfter
		if delay > config.MaxBackoff {
			delay = config.MaxBackoff
		}
	}

	return delay + time.Duration(rand.Int63n(101))*time.Millisecond
}

// parseRetryAfter reads a Retry-After value in seconds or HTTP-date form.
func parseRetryAfter(metadata map[string]interface{}) time.Duration {
	raw, ok := metadata[MetadataRetryAfter].(string)
	if !ok || raw == "" {
		return 0
	}

	if seconds, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}

	at, err := http.ParseTime(raw)
	if err != nil {
		return 0
	}
	if d := time.Until(at); d > 0 {
		return d
	}
	return 0
}
