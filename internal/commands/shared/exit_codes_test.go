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

package shared

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tombee/connectsecure/internal/config"
	"github.com/tombee/connectsecure/internal/node"
	"github.com/tombee/connectsecure/internal/operation"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "plain error", err: errors.New("boom"), want: ExitExecutionFailed},
		{name: "explicit exit error", err: NewInvalidInputError("bad flag", nil), want: ExitInvalidInput},
		{name: "wrapped exit error", err: fmt.Errorf("outer: %w", NewAuthError("no token", nil)), want: ExitAuthError},
		{name: "config error", err: &config.ConfigError{Key: "validation", Reason: "bad"}, want: ExitConfigError},
		{name: "unknown operation", err: operation.NewUnknownOperationError("company", "explode"), want: ExitConfigError},
		{name: "missing parameter", err: operation.NewMissingParameterError("company", "get", "id"), want: ExitInvalidInput},
		{name: "path injection", err: operation.NewPathInjectionError("company", "get", "id"), want: ExitInvalidInput},
		{name: "credential error", err: operation.NewCredentialError(errors.New("denied")), want: ExitAuthError},
		{
			name: "transport unauthorized",
			err:  &operation.Error{Type: operation.ErrorTypeTransport, StatusCode: 401},
			want: ExitAuthError,
		},
		{
			name: "transport server error",
			err:  &operation.Error{Type: operation.ErrorTypeTransport, StatusCode: 503},
			want: ExitExecutionFailed,
		},
		{
			name: "item error wrapping user error",
			err:  &node.ItemError{Index: 2, Err: operation.NewMissingParameterError("agent", "get", "id")},
			want: ExitInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	err := NewExecutionError("request failed", errors.New("timeout"))
	assert.Equal(t, "request failed: timeout", err.Error())
	assert.Equal(t, "request failed", NewExecutionError("request failed", nil).Error())
	assert.ErrorContains(t, errors.Unwrap(err), "timeout")
}

func TestPrintError(t *testing.T) {
	t.Run("with suggestion from chain", func(t *testing.T) {
		var buf bytes.Buffer
		opErr := operation.NewUnknownResourceError("widgets")
		PrintError(&buf, fmt.Errorf("build: %w", opErr))

		out := buf.String()
		assert.Contains(t, out, "Error: build:")
		if opErr.Suggestion() != "" {
			assert.Contains(t, out, "Suggestion: "+opErr.Suggestion())
		}
	})

	t.Run("item index", func(t *testing.T) {
		var buf bytes.Buffer
		PrintError(&buf, &node.ItemError{Index: 3, Err: errors.New("boom")})
		assert.Contains(t, buf.String(), "Failed on item 3")
	})

	t.Run("nil", func(t *testing.T) {
		var buf bytes.Buffer
		PrintError(&buf, nil)
		assert.Empty(t, buf.String())
	})
}
