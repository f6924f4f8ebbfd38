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

// Package server exposes Connect Secure operations as MCP tools over stdio.
package server

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tombee/connectsecure/internal/log"
	"github.com/tombee/connectsecure/internal/node"
	"github.com/tombee/connectsecure/internal/operation"
)

const (
	toolListOperations = "connectsecure_list_operations"
	toolRequest        = "connectsecure_request"

	executionTimeout = 2 * time.Minute
)

// Executor runs items against the live API.
type Executor interface {
	Execute(ctx context.Context, items []node.Item) ([]node.Output, error)
}

// Server wraps the MCP server and its tools.
type Server struct {
	mcpServer   *server.MCPServer
	name        string
	version     string
	registry    *operation.Registry
	planner     *node.Planner
	executor    Executor
	rateLimiter *RateLimiter
	logger      *slog.Logger
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	// Name is the server name (default: "connectsecure")
	Name string

	// Version is the connectsecure version
	Version string

	// Registry defaults to the built-in catalog.
	Registry *operation.Registry

	// Identity fills tenant, user and base URL for dry runs.
	Identity operation.Identity

	// Executor runs non-dry-run requests. When nil only dry runs are served.
	Executor Executor

	// RunsPerMinute limits live requests (default: 30).
	RunsPerMinute int

	// CallsPerMinute limits all tool calls (default: 120).
	CallsPerMinute int

	// Logger must not write to stdout, which carries the protocol.
	Logger *slog.Logger
}

// NewServer creates a new MCP server instance.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Name == "" {
		config.Name = "connectsecure"
	}
	if config.Version == "" {
		config.Version = "dev"
	}
	if config.Registry == nil {
		config.Registry = operation.Default()
	}
	if config.RunsPerMinute == 0 {
		config.RunsPerMinute = 30
	}
	if config.CallsPerMinute == 0 {
		config.CallsPerMinute = 120
	}
	if config.Logger == nil {
		config.Logger = log.Discard()
	}

	s := &Server{
		mcpServer:   server.NewMCPServer(config.Name, config.Version, server.WithToolCapabilities(false)),
		name:        config.Name,
		version:     config.Version,
		registry:    config.Registry,
		planner:     node.NewPlanner(config.Registry, config.Identity),
		executor:    config.Executor,
		rateLimiter: NewRateLimiter(config.RunsPerMinute, config.CallsPerMinute),
		logger:      log.WithComponent(config.Logger, "mcp"),
	}

	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(toolListOperations,
			mcp.WithDescription("List Connect Secure resources and their operations with HTTP method, endpoint and parameters."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithString("resource",
				mcp.Description("Only list operations of this resource (e.g. company, agent, asset)"),
			),
		),
		s.handleListOperations,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(toolRequest,
			mcp.WithDescription("Build, and optionally send, one Connect Secure API request. dry_run defaults to true and returns the request with the token redacted. Set dry_run=false to call the API."),
			mcp.WithString("resource", mcp.Required(), mcp.Description("Resource id, e.g. company")),
			mcp.WithString("operation", mcp.Required(), mcp.Description("Operation id, e.g. getAllCompanies")),
			mcp.WithObject("parameters", mcp.Description("Operation-specific parameters, including path ids such as jobId")),
			mcp.WithObject("query", mcp.Description("Query parameters for read operations, e.g. {\"limit\": 10}")),
			mcp.WithObject("body", mcp.Description("Body parameters; jsonRequestBody holds a raw JSON body")),
			mcp.WithString("resource_id", mcp.Description("Identifier substituted for {id}, e.g. the company ID")),
			mcp.WithObject("input", mcp.Description("Item input data referenced by ={{ }} expressions as json")),
			mcp.WithBoolean("dry_run", mcp.Description("If true, only build the request (default: true)"), mcp.DefaultBool(true)),
		),
		s.handleRequest,
	)
}

// MCPServer returns the underlying server, for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Run serves over stdio until the input closes.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server", slog.String("version", s.version))

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func errorResponse(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(message)
}

func textResponse(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}
