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
	"bytes"
	"encoding/json"
	"net/url"

	"github.com/tombee/connectsecure/internal/operation/transport"
)

// redacted replaces the bearer token in printed requests.
const redacted = "[REDACTED]"

// Request is the outbound HTTP call for one item. It is built fresh per item.
type Request struct {
	Method  Method            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`

	// Query is set for read methods only.
	Query url.Values `json:"query,omitempty"`

	// Body is nil for read methods.
	Body any `json:"body,omitempty"`
}

// FullURL returns the URL with the encoded query string appended.
func (r *Request) FullURL() string {
	if len(r.Query) == 0 {
		return r.URL
	}
	return r.URL + "?" + r.Query.Encode()
}

// EncodeBody serializes the body as JSON. A nil body encodes to nil.
func (r *Request) EncodeBody() ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.Body); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// SetToken replaces the bearer token in the Authorization header.
func (r *Request) SetToken(token string) error {
	value := "Bearer " + token
	if err := sanitizeHeaderValue("Authorization", value); err != nil {
		return err
	}
	if r.Headers == nil {
		r.Headers = make(map[string]string, 1)
	}
	r.Headers["Authorization"] = value
	return nil
}

// Redacted returns a copy safe to print or log.
func (r *Request) Redacted() *Request {
	out := *r
	out.Headers = make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		out.Headers[k] = v
	}
	if _, ok := out.Headers["Authorization"]; ok {
		out.Headers["Authorization"] = "Bearer " + redacted
	}
	return &out
}

// Transport converts the descriptor into a transport request.
func (r *Request) Transport() (*transport.Request, error) {
	body, err := r.EncodeBody()
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeInvalidJSONBody,
			Message: "failed to encode request body",
			Cause:   err,
		}
	}

	headers := make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		headers[k] = v
	}

	return &transport.Request{
		Method:  string(r.Method),
		URL:     r.FullURL(),
		Headers: headers,
		Body:    body,
	}, nil
}
