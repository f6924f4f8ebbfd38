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

package operation

import (
	"errors"
	"fmt"

	"github.com/tombee/connectsecure/internal/operation/transport"
)

// ErrorType classifies request-construction and dispatch errors.
type ErrorType string

const (
	// ErrorTypeUnknownOperation indicates the (resource, operation) pair is not
	// in the registry. This is a configuration bug on the host side.
	ErrorTypeUnknownOperation ErrorType = "unknown_operation"

	// ErrorTypeMissingParameter indicates an endpoint placeholder could not be
	// resolved from any parameter source.
	ErrorTypeMissingParameter ErrorType = "missing_parameter"

	// ErrorTypeInvalidJSONBody indicates the raw JSON request body failed to parse.
	ErrorTypeInvalidJSONBody ErrorType = "invalid_json_body"

	// ErrorTypeInvalidParameter indicates a value outside the declared choices
	// of an options parameter.
	ErrorTypeInvalidParameter ErrorType = "invalid_parameter"

	// ErrorTypePathInjection indicates a path traversal attempt was blocked.
	ErrorTypePathInjection ErrorType = "path_injection"

	// ErrorTypeInvalidHeader indicates a header value with CR, LF or NUL bytes.
	ErrorTypeInvalidHeader ErrorType = "invalid_header"

	// ErrorTypeInvalidCredentials indicates the credential identity is unusable.
	ErrorTypeInvalidCredentials ErrorType = "invalid_credentials"

	// ErrorTypeTransport indicates a network or HTTP-layer failure.
	ErrorTypeTransport ErrorType = "transport_failure"
)

// Error represents an operation error with classification.
type Error struct {
	// Type classifies the error
	Type ErrorType

	// Message is the human-readable error description
	Message string

	// Resource and Operation identify the selection that failed (if known)
	Resource  string
	Operation string

	// Parameter names the offending parameter or placeholder (if applicable)
	Parameter string

	// StatusCode is the HTTP status code (transport failures only)
	StatusCode int

	// RequestID from the vendor API
	RequestID string

	// SuggestText provides guidance on how to resolve the error.
	SuggestText string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message

	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s [HTTP %d]", msg, e.StatusCode)
	}

	if e.RequestID != "" {
		msg = fmt.Sprintf("%s (request-id: %s)", msg, e.RequestID)
	}

	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}

	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Suggestion returns actionable guidance for resolving the error.
func (e *Error) Suggestion() string {
	return e.SuggestText
}

// IsUserError reports whether the error is caused by per-item user input
// rather than configuration or the network.
func (e *Error) IsUserError() bool {
	switch e.Type {
	case ErrorTypeMissingParameter, ErrorTypeInvalidJSONBody, ErrorTypeInvalidParameter, ErrorTypePathInjection, ErrorTypeInvalidHeader:
		return true
	default:
		return false
	}
}

// TypeOf returns the ErrorType of err if it is (or wraps) an *Error.
func TypeOf(err error) (ErrorType, bool) {
	var opErr *Error
	if errors.As(err, &opErr) {
		return opErr.Type, true
	}
	return "", false
}

// IsUnknownOperation reports whether err is an unknown operation error.
func IsUnknownOperation(err error) bool {
	t, ok := TypeOf(err)
	return ok && t == ErrorTypeUnknownOperation
}

// IsMissingParameter reports whether err is a missing parameter error.
func IsMissingParameter(err error) bool {
	t, ok := TypeOf(err)
	return ok && t == ErrorTypeMissingParameter
}

// IsInvalidJSONBody reports whether err is an invalid JSON body error.
func IsInvalidJSONBody(err error) bool {
	t, ok := TypeOf(err)
	return ok && t == ErrorTypeInvalidJSONBody
}

// NewUnknownResourceError creates an error for a resource missing from the registry.
func NewUnknownResourceError(resource string) *Error {
	return &Error{
		Type:        ErrorTypeUnknownOperation,
		Message:     fmt.Sprintf("unknown resource %q", resource),
		Resource:    resource,
		SuggestText: "Run 'connectsecure resources' to list available resources",
	}
}

// NewUnknownOperationError creates an error for an operation missing from a resource.
func NewUnknownOperationError(resource, operation string) *Error {
	return &Error{
		Type:        ErrorTypeUnknownOperation,
		Message:     fmt.Sprintf("unknown operation %q for resource %q", operation, resource),
		Resource:    resource,
		Operation:   operation,
		SuggestText: fmt.Sprintf("Run 'connectsecure resources --resource %s' to list its operations", resource),
	}
}

// NewMissingParameterError creates an error for an unresolved placeholder.
func NewMissingParameterError(resource, operation, name string) *Error {
	return &Error{
		Type:        ErrorTypeMissingParameter,
		Message:     fmt.Sprintf("parameter %s is required for this operation but was not provided", name),
		Resource:    resource,
		Operation:   operation,
		Parameter:   name,
		SuggestText: "Supply the value in the operation parameters, the resource ID field, or the query parameters",
	}
}

// NewInvalidJSONBodyError creates an error for a malformed raw JSON body.
func NewInvalidJSONBodyError(resource, operation string, cause error) *Error {
	return &Error{
		Type:        ErrorTypeInvalidJSONBody,
		Message:     "invalid JSON in request body",
		Resource:    resource,
		Operation:   operation,
		Parameter:   JSONRequestBodyField,
		SuggestText: "Check the JSON Request Body field for syntax errors",
		Cause:       cause,
	}
}

// NewInvalidParameterError creates an error for a value outside declared options.
func NewInvalidParameterError(resource, operation, name string, value any, choices []string) *Error {
	return &Error{
		Type:        ErrorTypeInvalidParameter,
		Message:     fmt.Sprintf("parameter %s has invalid value %q", name, fmt.Sprint(value)),
		Resource:    resource,
		Operation:   operation,
		Parameter:   name,
		SuggestText: fmt.Sprintf("Use one of: %v", choices),
	}
}

// NewPathInjectionError creates an error for path traversal attempts.
// The message does not echo the value.
func NewPathInjectionError(resource, operation, name string) *Error {
	return &Error{
		Type:        ErrorTypePathInjection,
		Message:     fmt.Sprintf("path parameter %q contains invalid characters", name),
		Resource:    resource,
		Operation:   operation,
		Parameter:   name,
		SuggestText: "Remove path traversal sequences (../, %2e%2e) from path parameters",
	}
}

// NewTransportFailureError wraps a dispatch failure. Status code and request
// id are copied from a *transport.TransportError when present.
func NewTransportFailureError(resource, operation string, cause error) *Error {
	e := &Error{
		Type:      ErrorTypeTransport,
		Message:   "request failed",
		Resource:  resource,
		Operation: operation,
		Cause:     cause,
	}
	te, ok := transport.AsTransportError(cause)
	if !ok {
		return e
	}
	e.StatusCode = te.StatusCode
	e.RequestID = te.RequestID
	switch te.Type {
	case transport.ErrorTypeAuth:
		e.SuggestText = "Check the credential's client ID, client secret and tenant"
	case transport.ErrorTypeNotFound:
		e.SuggestText = "Check the identifier supplied for this resource"
	case transport.ErrorTypeRateLimit:
		e.SuggestText = "Lower transport.requests_per_second or enable transport.retry"
	case transport.ErrorTypeTimeout:
		e.SuggestText = "Increase transport.timeout"
	case transport.ErrorTypeConnection:
		e.SuggestText = "Check the base URL and network connectivity"
	}
	return e
}

// NewCredentialError wraps a failure to obtain an access token.
func NewCredentialError(cause error) *Error {
	return &Error{
		Type:        ErrorTypeInvalidCredentials,
		Message:     "failed to obtain access token",
		SuggestText: "Check the credential configuration and the access token URL",
		Cause:       cause,
	}
}
