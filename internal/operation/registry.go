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
	"fmt"
	"regexp"
	"strings"
)

// Method is an HTTP method accepted by the registry.
type Method string

const (
	MethodGet    Method = "GET"
	MethodHead   Method = "HEAD"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// IsRead reports whether the method carries the query string.
func (m Method) IsRead() bool {
	return m == MethodGet || m == MethodHead
}

// HasBody reports whether the method carries a JSON body.
func (m Method) HasBody() bool {
	switch m {
	case MethodPost, MethodPut, MethodPatch, MethodDelete:
		return true
	default:
		return false
	}
}

func (m Method) valid() bool {
	return m.IsRead() || m.HasBody()
}

// ParameterType is the declared type of an operation parameter.
type ParameterType string

const (
	ParameterTypeString  ParameterType = "string"
	ParameterTypeNumber  ParameterType = "number"
	ParameterTypeBoolean ParameterType = "boolean"
	ParameterTypeJSON    ParameterType = "json"
	ParameterTypeOptions ParameterType = "options"
)

// Option is one choice of an options-typed parameter.
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Parameter describes one field of an operation's parameter schema.
type Parameter struct {
	Name        string        `json:"name"`
	DisplayName string        `json:"displayName,omitempty"`
	Type        ParameterType `json:"type"`
	Default     any           `json:"default,omitempty"`
	Required    bool          `json:"required,omitempty"`
	Description string        `json:"description,omitempty"`
	Options     []Option      `json:"options,omitempty"`
}

func (p Parameter) optionValues() []string {
	values := make([]string, len(p.Options))
	for i, o := range p.Options {
		values[i] = o.Value
	}
	return values
}

// Operation is one vendor API call.
type Operation struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Action      string      `json:"action,omitempty"`
	Method      Method      `json:"method"`
	Endpoint    string      `json:"endpoint"`
	Parameters  []Parameter `json:"parameters,omitempty"`
}

func (o Operation) clone() Operation {
	if o.Parameters != nil {
		params := make([]Parameter, len(o.Parameters))
		for i, p := range o.Parameters {
			if p.Options != nil {
				p.Options = append([]Option(nil), p.Options...)
			}
			params[i] = p
		}
		o.Parameters = params
	}
	return o
}

// Placeholders returns the distinct {name} placeholders of the endpoint in
// order of first appearance.
func (o Operation) Placeholders() []string {
	return placeholders(o.Endpoint)
}

// Resource groups the operations on one vendor entity.
type Resource struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// IDField names the host field carrying the resource-scoped identifier,
	// e.g. "companyId". Empty when the resource has none.
	IDField string `json:"idField,omitempty"`

	// InjectID copies the scoped identifier into body.data.id on writes.
	InjectID bool `json:"injectId,omitempty"`

	DefaultOperation string      `json:"defaultOperation,omitempty"`
	Operations       []Operation `json:"operations"`
}

func (r Resource) clone() Resource {
	if r.Operations != nil {
		ops := make([]Operation, len(r.Operations))
		for i, op := range r.Operations {
			ops[i] = op.clone()
		}
		r.Operations = ops
	}
	return r
}

// Registry is an immutable index of resources and their operations.
// It is safe for concurrent use.
type Registry struct {
	version    string
	resources  []Resource
	byResource map[string]int
	byPair     map[string]map[string]int
}

var placeholderPattern = regexp.MustCompile(`\{([^{}]*)\}`)

var placeholderName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func placeholders(endpoint string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(endpoint, -1)
	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}

// NewRegistry validates resources and indexes them. The resources are
// deep-copied; later changes by the caller do not reach the registry.
func NewRegistry(version string, resources []Resource) (*Registry, error) {
	r := &Registry{
		version:    version,
		resources:  make([]Resource, len(resources)),
		byResource: make(map[string]int, len(resources)),
		byPair:     make(map[string]map[string]int, len(resources)),
	}
	for i, res := range resources {
		r.resources[i] = res.clone()
	}

	for i, res := range r.resources {
		if res.ID == "" {
			return nil, fmt.Errorf("resource at index %d has no id", i)
		}
		if _, dup := r.byResource[res.ID]; dup {
			return nil, fmt.Errorf("duplicate resource %q", res.ID)
		}
		if res.InjectID && res.IDField == "" {
			return nil, fmt.Errorf("resource %q injects an id but declares no id field", res.ID)
		}
		r.byResource[res.ID] = i

		ops := make(map[string]int, len(res.Operations))
		for j, op := range res.Operations {
			if err := validateOperation(op); err != nil {
				return nil, fmt.Errorf("resource %q: %w", res.ID, err)
			}
			if _, dup := ops[op.ID]; dup {
				return nil, fmt.Errorf("resource %q: duplicate operation %q", res.ID, op.ID)
			}
			ops[op.ID] = j
		}
		if res.DefaultOperation != "" {
			if _, ok := ops[res.DefaultOperation]; !ok {
				return nil, fmt.Errorf("resource %q: default operation %q not found", res.ID, res.DefaultOperation)
			}
		}
		r.byPair[res.ID] = ops
	}

	return r, nil
}

func validateOperation(op Operation) error {
	if op.ID == "" {
		return fmt.Errorf("operation has no id")
	}
	if !op.Method.valid() {
		return fmt.Errorf("operation %q: unsupported method %q", op.ID, op.Method)
	}
	if !strings.HasPrefix(op.Endpoint, "/") {
		return fmt.Errorf("operation %q: endpoint %q must start with /", op.ID, op.Endpoint)
	}
	for _, m := range placeholderPattern.FindAllStringSubmatch(op.Endpoint, -1) {
		if !placeholderName.MatchString(m[1]) {
			return fmt.Errorf("operation %q: malformed placeholder %q", op.ID, m[0])
		}
	}
	rest := placeholderPattern.ReplaceAllString(op.Endpoint, "")
	if strings.ContainsAny(rest, "{}") {
		return fmt.Errorf("operation %q: unbalanced braces in endpoint %q", op.ID, op.Endpoint)
	}

	names := make(map[string]bool, len(op.Parameters))
	for _, p := range op.Parameters {
		if names[p.Name] {
			return fmt.Errorf("operation %q: duplicate parameter %q", op.ID, p.Name)
		}
		names[p.Name] = true
		if p.Type == ParameterTypeOptions && len(p.Options) == 0 {
			return fmt.Errorf("operation %q: options parameter %q declares no options", op.ID, p.Name)
		}
	}
	return nil
}

// Version returns the catalog version the registry was built from.
func (r *Registry) Version() string {
	return r.version
}

// Resources returns copies of the resources in declaration order.
func (r *Registry) Resources() []Resource {
	out := make([]Resource, len(r.resources))
	for i, res := range r.resources {
		out[i] = res.clone()
	}
	return out
}

// FindResource looks up a resource by id.
func (r *Registry) FindResource(resourceID string) (Resource, error) {
	i, ok := r.byResource[resourceID]
	if !ok {
		return Resource{}, NewUnknownResourceError(resourceID)
	}
	return r.resources[i].clone(), nil
}

// FindOperation looks up an operation by its (resource, operation) pair.
func (r *Registry) FindOperation(resourceID, operationID string) (Operation, error) {
	i, ok := r.byResource[resourceID]
	if !ok {
		return Operation{}, NewUnknownResourceError(resourceID)
	}
	j, ok := r.byPair[resourceID][operationID]
	if !ok {
		return Operation{}, NewUnknownOperationError(resourceID, operationID)
	}
	return r.resources[i].Operations[j].clone(), nil
}
