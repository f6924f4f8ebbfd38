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

package node

import (
	"github.com/tombee/connectsecure/internal/expression"
	"github.com/tombee/connectsecure/internal/operation"
)

// Planner evaluates an item's host expressions and builds its request
// without a token.
type Planner struct {
	builder   *operation.Builder
	evaluator *expression.Evaluator
	identity  operation.Identity
}

// NewPlanner creates a Planner. A nil registry selects the built-in catalog.
func NewPlanner(reg *operation.Registry, id operation.Identity) *Planner {
	return &Planner{
		builder:   operation.NewBuilder(reg),
		evaluator: expression.New(),
		identity:  id,
	}
}

// Registry returns the registry requests are built against.
func (p *Planner) Registry() *operation.Registry {
	return p.builder.Registry()
}

// Plan resolves the item at index and builds its request. The returned
// request carries an empty bearer token.
func (p *Planner) Plan(index int, item Item) (*operation.Request, error) {
	r, err := p.resolve(index, item)
	if err != nil {
		return nil, err
	}
	return p.build(r)
}

// resolved is an item with expressions evaluated.
type resolved struct {
	resource   string
	operation  string
	parameters map[string]any
	query      map[string]any
	body       map[string]any
	resourceID string
}

func (p *Planner) build(r *resolved) (*operation.Request, error) {
	return p.builder.Build(operation.BuildInput{
		Resource:   r.resource,
		Operation:  r.operation,
		Parameters: r.parameters,
		Query:      r.query,
		Body:       r.body,
		ResourceID: r.resourceID,
		Identity:   p.identity,
	})
}

func (p *Planner) resolve(index int, item Item) (*resolved, error) {
	env := expression.Env(item.JSON, index)

	str := func(v string) (string, error) {
		out, err := p.evaluator.Evaluate(v, env)
		if err != nil {
			return "", err
		}
		return scalarString(out), nil
	}

	r := &resolved{}
	var err error
	if r.resource, err = str(item.Resource); err != nil {
		return nil, err
	}
	if r.operation, err = str(item.Operation); err != nil {
		return nil, err
	}
	if r.parameters, err = p.evaluator.ResolveMap(item.Parameters, env); err != nil {
		return nil, err
	}
	if r.query, err = p.evaluator.ResolveMap(item.Query, env); err != nil {
		return nil, err
	}
	if r.body, err = p.evaluator.ResolveMap(item.Body, env); err != nil {
		return nil, err
	}

	idField := ""
	if res, err := p.Registry().FindResource(r.resource); err == nil {
		idField = res.IDField
	}
	if r.resourceID, err = str(item.ScopedID(idField)); err != nil {
		return nil, err
	}
	return r, nil
}
