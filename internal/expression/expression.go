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

// Package expression evaluates host expressions embedded in item values.
//
// A string value starting with "=" is an expression. Each {{ ... }} segment
// is evaluated with expr-lang against the item environment:
//
//	json   the item's input JSON
//	index  the zero-based item index
//
// A value consisting of exactly one segment, such as "={{ json.companyId }}",
// keeps the result's type. Otherwise segments are rendered as text and
// interpolated, so "=/tmp/{{ json.name }}.txt" yields a string.
package expression

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Prefix marks a string value as an expression.
const Prefix = "="

var segment = regexp.MustCompile(`\{\{(.*?)\}\}`)

// Error reports an expression that failed to compile or run.
type Error struct {
	Expression string
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("expression %q: %s: %v", e.Expression, e.Message, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Evaluator evaluates expressions and caches compiled programs.
type Evaluator struct {
	cache map[string]*vm.Program
	mu    sync.RWMutex
}

// New creates an evaluator.
func New() *Evaluator {
	return &Evaluator{cache: make(map[string]*vm.Program)}
}

// Env builds the evaluation environment for one item.
func Env(input map[string]any, index int) map[string]any {
	if input == nil {
		input = map[string]any{}
	}
	return map[string]any{
		"json":     input,
		"index":    index,
		"has":      hasFunc,
		"includes": hasFunc,
		"length":   lenFunc,
	}
}

// IsExpression reports whether v is a string expression.
func IsExpression(v any) bool {
	s, ok := v.(string)
	return ok && strings.HasPrefix(s, Prefix) && segment.MatchString(s)
}

// Evaluate returns v unchanged unless it is an expression, in which case
// it returns the evaluated result.
func (e *Evaluator) Evaluate(v any, env map[string]any) (any, error) {
	if !IsExpression(v) {
		return v, nil
	}
	template := strings.TrimPrefix(v.(string), Prefix)

	if m := segment.FindStringSubmatchIndex(template); m != nil && m[0] == 0 && m[1] == len(template) {
		return e.run(template[m[2]:m[3]], env)
	}

	var firstErr error
	out := segment.ReplaceAllStringFunc(template, func(match string) string {
		if firstErr != nil {
			return ""
		}
		result, err := e.run(match[2:len(match)-2], env)
		if err != nil {
			firstErr = err
			return ""
		}
		return render(result)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// ResolveAll walks maps and slices, evaluating every expression string. The
// input is not modified.
func (e *Evaluator) ResolveAll(v any, env map[string]any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return t, nil
		}
		out := make(map[string]any, len(t))
		for k, item := range t {
			resolved, err := e.ResolveAll(item, env)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			resolved, err := e.ResolveAll(item, env)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return e.Evaluate(v, env)
	}
}

// ResolveMap is ResolveAll for a map-valued bag.
func (e *Evaluator) ResolveMap(m map[string]any, env map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	resolved, err := e.ResolveAll(m, env)
	if err != nil {
		return nil, err
	}
	return resolved.(map[string]any), nil
}

func (e *Evaluator) run(code string, env map[string]any) (any, error) {
	code = strings.TrimSpace(code)
	program, err := e.compile(code)
	if err != nil {
		return nil, &Error{Expression: code, Message: "failed to compile", Cause: err}
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return nil, &Error{Expression: code, Message: "evaluation failed", Cause: err}
	}
	return result, nil
}

func (e *Evaluator) compile(code string) (*vm.Program, error) {
	e.mu.RLock()
	if prog, ok := e.cache[code]; ok {
		e.mu.RUnlock()
		return prog, nil
	}
	e.mu.RUnlock()

	prog, err := expr.Compile(code,
		expr.Env(Env(nil, 0)),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[code] = prog
	e.mu.Unlock()

	return prog, nil
}

// CacheSize returns the number of compiled programs held.
func (e *Evaluator) CacheSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.cache)
}

func render(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any, []any:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	default:
		return fmt.Sprint(t)
	}
}
