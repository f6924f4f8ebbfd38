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
	"errors"
	"fmt"
	"net/http"
)

// ErrorType categorizes transport errors for retry and reporting.
type ErrorType string

const (
	// ErrorTypeConnection indicates network connectivity issues (DNS, refused, reset)
	ErrorTypeConnection ErrorType = "connection"

	// ErrorTypeTimeout indicates the request or its deadline timed out
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeAuth indicates the API rejected the credentials (401, 403)
	ErrorTypeAuth ErrorType = "auth"

	// ErrorTypeNotFound indicates the addressed entity does not exist (404)
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeRateLimit indicates rate limiting (429)
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeServer indicates server errors (5xx)
	ErrorTypeServer ErrorType = "server"

	// ErrorTypeClient indicates other non-retryable 4xx errors
	ErrorTypeClient ErrorType = "client"

	// ErrorTypeInvalidReq indicates the request failed local validation
	ErrorTypeInvalidReq ErrorType = "invalid_request"

	// ErrorTypeCancelled indicates the context was cancelled
	ErrorTypeCancelled ErrorType = "cancelled"
)

// TransportError is the structured failure returned by every Transport.
type TransportError struct {
	Type ErrorType

	// StatusCode is zero for failures without an HTTP response.
	StatusCode int

	// Message is safe to log and display; it never contains credentials.
	Message string

	// RequestID is the vendor request id, if the response carried one.
	RequestID string

	Retryable bool

	// Cause may contain sensitive data. Use Message for display.
	Cause error

	// Body is the raw error response, truncated.
	Body []byte

	Metadata map[string]interface{}
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether another attempt may succeed.
func (e *TransportError) IsRetryable() bool {
	return e.Retryable
}

// IsStatusCode reports whether the error carries the given HTTP status.
func (e *TransportError) IsStatusCode(code int) bool {
	return e.StatusCode == code
}

// IsType reports whether the error is of the given type.
func (e *TransportError) IsType(t ErrorType) bool {
	return e.Type == t
}

// AsTransportError extracts a *TransportError from err.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// classifyStatus maps an HTTP status code to an error type and retryability.
func classifyStatus(statusCode int) (ErrorType, bool) {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return ErrorTypeAuth, false
	case statusCode == http.StatusNotFound:
		return ErrorTypeNotFound, false
	case statusCode == http.StatusTooManyRequests:
		return ErrorTypeRateLimit, true
	case statusCode == http.StatusRequestTimeout:
		return ErrorTypeTimeout, true
	case statusCode >= 500:
		return ErrorTypeServer, true
	default:
		return ErrorTypeClient, false
	}
}
