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
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tombee/connectsecure/internal/node"
	"github.com/tombee/connectsecure/internal/operation"
)

// OperationSummary is one row of the list_operations result.
type OperationSummary struct {
	Resource   string                `json:"resource"`
	Operation  string                `json:"operation"`
	Name       string                `json:"name"`
	Method     string                `json:"method"`
	Endpoint   string                `json:"endpoint"`
	IDField    string                `json:"id_field,omitempty"`
	Parameters []operation.Parameter `json:"parameters,omitempty"`
}

// RequestResult is the connectsecure_request result.
type RequestResult struct {
	Success bool               `json:"success"`
	Mode    string             `json:"mode"`
	Request *operation.Request `json:"request,omitempty"`
	Output  any                `json:"output,omitempty"`
	Error   *RequestError      `json:"error,omitempty"`
}

// RequestError describes a failed build or call.
type RequestError struct {
	Type       string `json:"type,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (s *Server) handleListOperations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.rateLimiter.AllowCall() {
		return errorResponse("Rate limit exceeded. Please try again later."), nil
	}

	filter := request.GetString("resource", "")
	resources := s.registry.Resources()
	if filter != "" {
		res, err := s.registry.FindResource(filter)
		if err != nil {
			return errorResponse(err.Error()), nil
		}
		resources = []operation.Resource{res}
	}

	var rows []OperationSummary
	for _, res := range resources {
		for _, op := range res.Operations {
			rows = append(rows, OperationSummary{
				Resource:   res.ID,
				Operation:  op.ID,
				Name:       op.Name,
				Method:     string(op.Method),
				Endpoint:   op.Endpoint,
				IDField:    res.IDField,
				Parameters: op.Parameters,
			})
		}
	}

	return jsonResponse(rows)
}

func (s *Server) handleRequest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.rateLimiter.AllowCall() {
		return errorResponse("Rate limit exceeded. Please try again later."), nil
	}

	resource, err := request.RequireString("resource")
	if err != nil {
		return errorResponse("Missing or invalid 'resource' argument"), nil
	}
	op, err := request.RequireString("operation")
	if err != nil {
		return errorResponse("Missing or invalid 'operation' argument"), nil
	}

	args := request.GetArguments()
	item := node.Item{
		JSON:       objectArg(args, "input"),
		Resource:   resource,
		Operation:  op,
		Parameters: objectArg(args, "parameters"),
		Query:      objectArg(args, "query"),
		Body:       objectArg(args, "body"),
		ResourceID: request.GetString("resource_id", ""),
	}

	if request.GetBool("dry_run", true) {
		return jsonResponse(s.dryRun(item))
	}

	if s.executor == nil {
		return errorResponse("Live requests are disabled: no credentials configured. Use dry_run=true."), nil
	}
	if !s.rateLimiter.AllowRun() {
		return errorResponse("Rate limit exceeded for live requests. Please try again later or use dry_run=true."), nil
	}

	execCtx, cancel := context.WithTimeout(ctx, executionTimeout)
	defer cancel()

	s.logger.Info("executing request",
		slog.String("resource", resource),
		slog.String("operation", op))

	result := RequestResult{Success: true, Mode: "executed"}
	outputs, err := s.executor.Execute(execCtx, []node.Item{item})
	switch {
	case err != nil:
		result.Success = false
		result.Error = requestError(err)
	case len(outputs) == 1 && outputs[0].Err != nil:
		result.Success = false
		result.Error = requestError(outputs[0].Err)
	case len(outputs) == 1:
		result.Output = outputs[0].JSON
	}
	return jsonResponse(result)
}

func (s *Server) dryRun(item node.Item) RequestResult {
	result := RequestResult{Success: true, Mode: "dry_run"}

	req, err := s.planner.Plan(0, item)
	if err != nil {
		result.Success = false
		result.Error = requestError(err)
		return result
	}
	result.Request = req.Redacted()
	return result
}

func requestError(err error) *RequestError {
	re := &RequestError{Message: err.Error()}
	var opErr *operation.Error
	if errors.As(err, &opErr) {
		re.Type = string(opErr.Type)
		re.Suggestion = opErr.Suggestion()
	}
	return re
}

func objectArg(args map[string]any, key string) map[string]any {
	if args == nil {
		return nil
	}
	m, _ := args[key].(map[string]any)
	return m
}

func jsonResponse(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResponse(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return textResponse(string(data)), nil
}
