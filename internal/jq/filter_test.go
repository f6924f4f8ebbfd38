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

package jq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		data       any
		want       any
	}{
		{
			name:       "identity",
			expression: ".",
			data:       map[string]any{"foo": "bar"},
			want:       map[string]any{"foo": "bar"},
		},
		{
			name:       "field extraction",
			expression: ".data.name",
			data:       map[string]any{"data": map[string]any{"name": "Acme"}},
			want:       "Acme",
		},
		{
			name:       "array map",
			expression: "map(.id)",
			data:       []any{map[string]any{"id": 1}, map[string]any{"id": 2}},
			want:       []any{float64(1), float64(2)},
		},
		{
			name:       "multiple results become a slice",
			expression: ".data[].name",
			data:       map[string]any{"data": []any{map[string]any{"name": "a"}, map[string]any{"name": "b"}}},
			want:       []any{"a", "b"},
		},
		{
			name:       "no results",
			expression: "empty",
			data:       map[string]any{},
			want:       nil,
		},
		{
			name:       "json numbers are normalized",
			expression: ".total + 1",
			data:       map[string]any{"total": json.Number("41")},
			want:       float64(42),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression, 0, 0)
			require.NoError(t, err)
			got, err := f.Apply(context.Background(), tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_RuntimeError(t *testing.T) {
	f, err := Compile(".foo + 1", 0, 0)
	require.NoError(t, err)
	_, err = f.Apply(context.Background(), map[string]any{"foo": "text"})
	assert.Error(t, err)
}

func TestFilter_InputTooLarge(t *testing.T) {
	f, err := Compile(".", 0, 8)
	require.NoError(t, err)
	_, err = f.Apply(context.Background(), map[string]any{"field": "long value"})
	assert.ErrorContains(t, err, "exceeds maximum")
}

func TestFilter_Timeout(t *testing.T) {
	f, err := Compile("0 | while(true; . + 1)", 50*time.Millisecond, 0)
	require.NoError(t, err)
	_, err = f.Apply(context.Background(), nil)
	assert.ErrorContains(t, err, "timeout")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(""))
	assert.NoError(t, Validate(".data | length"))
	assert.Error(t, Validate(".["))
	assert.Error(t, Validate("undefined_function(1)"))
}

func TestFilter_String(t *testing.T) {
	f, err := Compile(".data", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, ".data", f.String())
}
