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

// Package mcp implements the mcp command, which serves the operation catalog
// and request tools over the Model Context Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tombee/connectsecure/internal/commands/shared"
	"github.com/tombee/connectsecure/internal/config"
	"github.com/tombee/connectsecure/internal/log"
	"github.com/tombee/connectsecure/internal/mcp/server"
	"github.com/tombee/connectsecure/internal/operation"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// NewMCPCommand creates the mcp command
func NewMCPCommand() *cobra.Command {
	var (
		metricsAddr string
		dryRunOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve MCP tools over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout.

The server exposes these tools:
  - connectsecure_list_operations: List resources and operations
  - connectsecure_request: Build a request, or send it with dry_run=false

connectsecure_request defaults to dry_run=true. Live requests need valid
credentials in the configuration; without them only dry runs are served.

Configuration example for an MCP client:
  {
    "mcpServers": {
      "connectsecure": {
        "command": "connectsecure",
        "args": ["mcp"]
      }
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shared.LoadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			return runMCP(cmd, cfg, dryRunOnly)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. 127.0.0.1:9464)")
	cmd.Flags().BoolVar(&dryRunOnly, "dry-run-only", false, "Never send live requests")

	return cmd
}

func runMCP(cmd *cobra.Command, cfg *config.Config, dryRunOnly bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stderr := cmd.ErrOrStderr()
	version, _, _ := shared.GetVersion()

	srvCfg := server.ServerConfig{
		Name:     "connectsecure",
		Version:  version,
		Registry: operation.Default(),
		Identity: operation.Identity{
			Tenant:  cfg.Credentials.Tenant,
			UserID:  cfg.Credentials.UserID,
			BaseURL: cfg.Credentials.BaseURL,
		},
	}

	var metricsHandler http.Handler
	if !dryRunOnly {
		rt, err := shared.NewRuntime(ctx, cfg, stderr)
		if err != nil {
			cfg.Log.Output = stderr
			log.New(&cfg.Log).Warn("live requests disabled", log.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := rt.Close(shutdownCtx); err != nil {
					rt.Logger.Warn("telemetry shutdown failed", log.Error(err))
				}
			}()

			n, err := rt.NewNode()
			if err != nil {
				return err
			}
			srvCfg.Executor = n
			srvCfg.Identity = rt.Credential.Identity()
			srvCfg.Logger = rt.Logger
			metricsHandler = rt.Provider.MetricsHandler()
		}
	}
	if srvCfg.Logger == nil {
		cfg.Log.Output = stderr
		srvCfg.Logger = log.New(&cfg.Log)
	}

	if cfg.Metrics.Addr != "" && metricsHandler != nil {
		metricsSrv := newMetricsServer(cfg.Metrics.Addr, metricsHandler)
		go func() {
			srvCfg.Logger.Info("serving metrics", slog.String("addr", cfg.Metrics.Addr))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				srvCfg.Logger.Error("metrics server failed", log.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	srv, err := server.NewServer(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

func newMetricsServer(addr string, handler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
