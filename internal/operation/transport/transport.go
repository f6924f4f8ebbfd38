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

// Package transport dispatches built Connect Secure requests over HTTP.
//
// The core request builder never performs I/O. A Transport owns the network
// call, rate limiting and any retry policy, and reports failures as
// *TransportError.
package transport

import (
	"context"
)

// Transport executes one outbound request.
type Transport interface {
	// Execute sends the request. The context controls cancellation.
	// Failures are returned as *TransportError.
	Execute(ctx context.Context, req *Request) (*Response, error)

	// Name returns the transport identifier.
	Name() string

	// SetRateLimiter installs a limiter consulted before every attempt.
	SetRateLimiter(limiter RateLimiter)
}

// Request is a fully resolved HTTP request.
type Request struct {
	// Method is the HTTP method. Required.
	Method string

	// URL is the absolute request URL including the query string. Required.
	URL string

	// Headers are sent verbatim.
	Headers map[string]string

	// Body is the encoded JSON body, nil for reads.
	Body []byte
}

// Response is the raw vendor response.
type Response struct {
	StatusCode int
	Headers    map[string][]string
	Body       []byte

	// Metadata carries request ids and retry counts for logging.
	Metadata map[string]interface{}
}

// Metadata keys
const (
	MetadataRequestID  = "request_id"
	MetadataRetryCount = "retry_count"
	MetadataRetryAfter = "retry_after"
)

// RateLimiter blocks until a request may proceed.
type RateLimiter interface {
	Wait(ctx context.Context) error
}
