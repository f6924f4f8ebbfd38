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
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// JSONRequestBodyField is the generic body key holding a raw JSON document.
const JSONRequestBodyField = "jsonRequestBody"

// Identity carries the tenant-scoped caller identity from the credential.
type Identity struct {
	Tenant  string
	UserID  string
	BaseURL string
}

// BuildInput is everything Build needs for one item.
type BuildInput struct {
	Resource  string
	Operation string

	// Parameters is the operation-specific parameter bag.
	Parameters map[string]any

	// Query is the generic query parameter bag.
	Query map[string]any

	// Body is the generic body parameter bag. It may hold a raw JSON
	// document under JSONRequestBodyField.
	Body map[string]any

	// ResourceID is the resource-scoped identifier (companyId, agentId, ...).
	ResourceID string

	Identity Identity
	Token    string
}

// Builder turns a BuildInput into a Request using a registry.
type Builder struct {
	registry *Registry
}

// NewBuilder creates a builder over the given registry. A nil registry
// selects the built-in catalog.
func NewBuilder(registry *Registry) *Builder {
	if registry == nil {
		registry = Default()
	}
	return &Builder{registry: registry}
}

// Registry returns the registry the builder reads from.
func (b *Builder) Registry() *Registry {
	return b.registry
}

// Build resolves the input against the built-in catalog.
func Build(in BuildInput) (*Request, error) {
	return NewBuilder(nil).Build(in)
}

// Build constructs the request descriptor for one item. It performs no I/O
// and never mutates the maps in the input.
func (b *Builder) Build(in BuildInput) (*Request, error) {
	res, err := b.registry.FindResource(in.Resource)
	if err != nil {
		return nil, err
	}
	op, err := b.registry.FindOperation(in.Resource, in.Operation)
	if err != nil {
		return nil, err
	}

	if err := validateOptions(res.ID, op, in.Parameters); err != nil {
		return nil, err
	}

	path, err := resolvePath(res, op, in)
	if err != nil {
		return nil, err
	}

	if in.Identity.BaseURL == "" {
		return nil, &Error{
			Type:        ErrorTypeInvalidCredentials,
			Message:     "credential has no base URL",
			Resource:    res.ID,
			Operation:   op.ID,
			SuggestText: "Set baseUrl on the Connect Secure credential",
		}
	}

	req := &Request{
		Method: op.Method,
		URL:    strings.TrimRight(in.Identity.BaseURL, "/") + path,
	}

	req.Headers, err = buildHeaders(in.Identity, in.Token)
	if err != nil {
		return nil, err
	}

	if op.Method.IsRead() && len(in.Query) > 0 {
		req.Query = buildQuery(in.Query)
	}

	switch op.Method {
	case MethodDelete:
		req.Body = map[string]any{}
	case MethodPost, MethodPut, MethodPatch:
		body, err := buildBody(res, op, in)
		if err != nil {
			return nil, err
		}
		req.Body = body
	}

	return req, nil
}

// resolvePath substitutes every endpoint placeholder. Sources are consulted
// in order: operation bag, resource-scoped id (placeholder "id" only),
// generic query bag.
func resolvePath(res Resource, op Operation, in BuildInput) (string, error) {
	path := op.Endpoint
	for _, name := range op.Placeholders() {
		value, ok := lookupPlaceholder(res, name, in)
		if !ok {
			return "", NewMissingParameterError(res.ID, op.ID, name)
		}
		if !validatePathValue(value) {
			return "", NewPathInjectionError(res.ID, op.ID, name)
		}
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
	}
	return path, nil
}

func lookupPlaceholder(res Resource, name string, in BuildInput) (string, bool) {
	if v, ok := in.Parameters[name]; ok && !isEmpty(v) {
		return stringify(v), true
	}
	if name == "id" && res.IDField != "" && in.ResourceID != "" {
		return in.ResourceID, true
	}
	if v, ok := in.Query[name]; ok && !isEmpty(v) {
		return stringify(v), true
	}
	return "", false
}

func buildHeaders(id Identity, token string) (map[string]string, error) {
	headers := map[string]string{
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"X-Tenant":      id.Tenant,
		"X-USER-ID":     id.UserID,
		"Authorization": "Bearer " + token,
	}
	for name, value := range headers {
		if err := sanitizeHeaderValue(name, value); err != nil {
			return nil, err
		}
	}
	return headers, nil
}

// buildQuery stringifies the generic query bag. Nil values are dropped and
// slices become repeated keys.
func buildQuery(bag map[string]any) url.Values {
	q := make(url.Values, len(bag))
	for _, k := range sortedKeys(bag) {
		switch v := bag[k].(type) {
		case nil:
		case []any:
			for _, e := range v {
				q.Add(k, stringify(e))
			}
		case []string:
			for _, e := range v {
				q.Add(k, e)
			}
		default:
			q.Set(k, stringify(v))
		}
	}
	if len(q) == 0 {
		return nil
	}
	return q
}

func buildBody(res Resource, op Operation, in BuildInput) (any, error) {
	var body any

	switch {
	case len(in.Parameters) > 0:
		body = map[string]any{"data": copyMap(in.Parameters)}
	case hasRawJSON(in.Body):
		raw, err := decodeRawJSON(in.Body[JSONRequestBodyField])
		if err != nil {
			return nil, NewInvalidJSONBodyError(res.ID, op.ID, err)
		}
		body = raw
		if body == nil {
			body = map[string]any{"data": map[string]any{}}
		}
	default:
		data := copyMap(in.Body)
		delete(data, JSONRequestBodyField)
		body = map[string]any{"data": data}
	}

	if res.InjectID && in.ResourceID != "" {
		if envelope, ok := body.(map[string]any); ok {
			if data, ok := envelope["data"].(map[string]any); ok {
				data["id"] = in.ResourceID
			}
		}
	}

	return body, nil
}

func hasRawJSON(bag map[string]any) bool {
	v, ok := bag[JSONRequestBodyField]
	return ok && !isEmpty(v)
}

// decodeRawJSON parses a raw JSON string, keeping numbers verbatim.
// Structured values are taken as already decoded.
func decodeRawJSON(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return copyValue(v), nil
	}

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return out, nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

// stringify renders a scalar the way it is written by hand: numbers without
// exponent, booleans as true/false.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	case map[string]any, []any:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(t); err == nil {
			return strings.TrimSuffix(buf.String(), "\n")
		}
	}
	return fmt.Sprint(v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
