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

// Package jq applies jq filters to decoded API responses.
package jq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/itchyny/gojq"
)

const (
	// DefaultTimeout bounds a single filter run.
	DefaultTimeout = 1 * time.Second

	// DefaultMaxInputSize is the largest encoded input accepted (10MB).
	DefaultMaxInputSize = 10 * 1024 * 1024
)

// Filter is a compiled jq expression.
type Filter struct {
	expression   string
	code         *gojq.Code
	timeout      time.Duration
	maxInputSize int
}

// Compile parses and compiles expression. Zero limits select the defaults.
func Compile(expression string, timeout time.Duration, maxInputSize int) (*Filter, error) {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if maxInputSize == 0 {
		maxInputSize = DefaultMaxInputSize
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("jq compilation failed: %w", err)
	}

	return &Filter{
		expression:   expression,
		code:         code,
		timeout:      timeout,
		maxInputSize: maxInputSize,
	}, nil
}

// Validate reports whether expression compiles. The empty expression is valid.
func Validate(expression string) error {
	if expression == "" {
		return nil
	}
	_, err := Compile(expression, 0, 0)
	return err
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expression
}

// Apply runs the filter over data. No result yields nil, one result is
// returned as is, and several are returned as a slice.
func (f *Filter) Apply(ctx context.Context, data any) (any, error) {
	input, err := f.normalize(data)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	iter := f.code.RunWithContext(ctx, input)
	var results []any
	for {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("jq execution timeout after %v", f.timeout)
		}
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("jq execution timeout after %v", f.timeout)
			}
			return nil, err
		}
		results = append(results, v)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// normalize converts data into the plain JSON value types gojq accepts and
// enforces the input size limit.
func (f *Filter) normalize(data any) (any, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal data: %w", err)
	}
	if len(encoded) > f.maxInputSize {
		return nil, fmt.Errorf("data size (%d bytes) exceeds maximum (%d bytes)", len(encoded), f.maxInputSize)
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, fmt.Errorf("failed to normalize data: %w", err)
	}
	return out, nil
}
