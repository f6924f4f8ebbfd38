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

package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/connectsecure/internal/node"
	"github.com/tombee/connectsecure/internal/operation"
)

type fakeExecutor struct {
	items   []node.Item
	outputs []node.Output
	err     error
}

func (f *fakeExecutor) Execute(_ context.Context, items []node.Item) ([]node.Output, error) {
	f.items = append(f.items, items...)
	return f.outputs, f.err
}

func extractText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func makeCallToolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func newTestServer(t *testing.T, cfg ServerConfig) *Server {
	t.Helper()
	if cfg.Identity == (operation.Identity{}) {
		cfg.Identity = operation.Identity{Tenant: "acme", UserID: "7", BaseURL: "https://pod.example.com"}
	}
	s, err := NewServer(cfg)
	require.NoError(t, err)
	return s
}

func TestNewServer_Defaults(t *testing.T) {
	s := newTestServer(t, ServerConfig{})
	assert.Equal(t, "connectsecure", s.name)
	assert.Equal(t, "dev", s.version)
	assert.NotNil(t, s.MCPServer())
	assert.Same(t, operation.Default(), s.registry)
}

func TestHandleListOperations(t *testing.T) {
	s := newTestServer(t, ServerConfig{})

	result, err := s.handleListOperations(context.Background(), makeCallToolRequest(map[string]any{"resource": "company"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var rows []OperationSummary
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &rows))
	require.NotEmpty(t, rows)
	for _, row := range rows {
		assert.Equal(t, "company", row.Resource)
	}
	assert.Equal(t, "getAllCompanies", rows[0].Operation)
	assert.Equal(t, "GET", rows[0].Method)
	assert.Equal(t, "companyId", rows[0].IDField)

	result, err = s.handleListOperations(context.Background(), makeCallToolRequest(nil))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &rows))
	total := 0
	for _, r := range operation.Default().Resources() {
		total += len(r.Operations)
	}
	assert.Len(t, rows, total)

	result, err = s.handleListOperations(context.Background(), makeCallToolRequest(map[string]any{"resource": "nope"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleRequest_DryRun(t *testing.T) {
	exec := &fakeExecutor{}
	s := newTestServer(t, ServerConfig{Executor: exec})

	result, err := s.handleRequest(context.Background(), makeCallToolRequest(map[string]any{
		"resource":    "company",
		"operation":   "updateCompany",
		"resource_id": "123",
		"parameters":  map[string]any{"name": "Acme"},
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var got struct {
		Success bool   `json:"success"`
		Mode    string `json:"mode"`
		Request struct {
			Method  string            `json:"method"`
			URL     string            `json:"url"`
			Headers map[string]string `json:"headers"`
			Body    json.RawMessage   `json:"body"`
		} `json:"request"`
	}
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &got))
	assert.True(t, got.Success)
	assert.Equal(t, "dry_run", got.Mode)
	assert.Equal(t, "PUT", got.Request.Method)
	assert.Equal(t, "https://pod.example.com/w/company/companies/123", got.Request.URL)
	assert.Equal(t, "Bearer [REDACTED]", got.Request.Headers["Authorization"])
	assert.JSONEq(t, `{"data":{"name":"Acme","id":"123"}}`, string(got.Request.Body))
	assert.Empty(t, exec.items, "dry run never executes")
}

func TestHandleRequest_DryRunResolvesExpressions(t *testing.T) {
	s := newTestServer(t, ServerConfig{})

	result, err := s.handleRequest(context.Background(), makeCallToolRequest(map[string]any{
		"resource":    "company",
		"operation":   "updateCompany",
		"resource_id": "={{ json.cid }}",
		"parameters":  map[string]any{"name": "={{ json.name }} Ltd"},
		"input":       map[string]any{"cid": "55", "name": "Acme"},
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var got struct {
		Success bool `json:"success"`
		Request struct {
			URL  string          `json:"url"`
			Body json.RawMessage `json:"body"`
		} `json:"request"`
	}
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &got))
	assert.True(t, got.Success)
	assert.Equal(t, "https://pod.example.com/w/company/companies/55", got.Request.URL)
	assert.JSONEq(t, `{"data":{"name":"Acme Ltd","id":"55"}}`, string(got.Request.Body))
}

func TestHandleRequest_DryRunBuildError(t *testing.T) {
	s := newTestServer(t, ServerConfig{})

	result, err := s.handleRequest(context.Background(), makeCallToolRequest(map[string]any{
		"resource":  "company",
		"operation": "getCompany",
	}))
	require.NoError(t, err)

	var got RequestResult
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &got))
	assert.False(t, got.Success)
	require.NotNil(t, got.Error)
	assert.Equal(t, "missing_parameter", got.Error.Type)
	assert.NotEmpty(t, got.Error.Suggestion)
}

func TestHandleRequest_MissingArguments(t *testing.T) {
	s := newTestServer(t, ServerConfig{})

	result, err := s.handleRequest(context.Background(), makeCallToolRequest(map[string]any{"resource": "company"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleRequest_Execute(t *testing.T) {
	exec := &fakeExecutor{outputs: []node.Output{{JSON: map[string]any{"data": []any{}}}}}
	s := newTestServer(t, ServerConfig{Executor: exec})

	result, err := s.handleRequest(context.Background(), makeCallToolRequest(map[string]any{
		"resource":  "company",
		"operation": "getAllCompanies",
		"query":     map[string]any{"limit": float64(5)},
		"dry_run":   false,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	require.Len(t, exec.items, 1)
	assert.Equal(t, "getAllCompanies", exec.items[0].Operation)
	assert.Equal(t, map[string]any{"limit": float64(5)}, exec.items[0].Query)

	var got RequestResult
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &got))
	assert.True(t, got.Success)
	assert.Equal(t, "executed", got.Mode)
	assert.Equal(t, map[string]any{"data": []any{}}, got.Output)
}

func TestHandleRequest_ExecuteItemError(t *testing.T) {
	itemErr := operation.NewMissingParameterError("company", "getCompany", "id")
	exec := &fakeExecutor{outputs: []node.Output{{JSON: map[string]any{"error": itemErr.Error()}, Err: itemErr}}}
	s := newTestServer(t, ServerConfig{Executor: exec})

	result, err := s.handleRequest(context.Background(), makeCallToolRequest(map[string]any{
		"resource":  "company",
		"operation": "getCompany",
		"dry_run":   false,
	}))
	require.NoError(t, err)

	var got RequestResult
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &got))
	assert.False(t, got.Success)
	assert.Equal(t, "missing_parameter", got.Error.Type)
}

func TestHandleRequest_ExecuteDisabled(t *testing.T) {
	s := newTestServer(t, ServerConfig{})

	result, err := s.handleRequest(context.Background(), makeCallToolRequest(map[string]any{
		"resource":  "company",
		"operation": "getAllCompanies",
		"dry_run":   false,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleRequest_RunRateLimit(t *testing.T) {
	exec := &fakeExecutor{outputs: []node.Output{{JSON: map[string]any{}}}}
	s := newTestServer(t, ServerConfig{Executor: exec, RunsPerMinute: 1})

	args := map[string]any{"resource": "company", "operation": "getAllCompanies", "dry_run": false}

	first, err := s.handleRequest(context.Background(), makeCallToolRequest(args))
	require.NoError(t, err)
	assert.False(t, first.IsError)

	second, err := s.handleRequest(context.Background(), makeCallToolRequest(args))
	require.NoError(t, err)
	assert.True(t, second.IsError)
	assert.Len(t, exec.items, 1)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, 3)
	assert.True(t, rl.AllowRun())
	assert.True(t, rl.AllowRun())
	assert.False(t, rl.AllowRun())

	assert.True(t, rl.AllowCall())
	assert.True(t, rl.AllowCall())
	assert.True(t, rl.AllowCall())
	assert.False(t, rl.AllowCall())
}
