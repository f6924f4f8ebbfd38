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
	"context"
	"io"
	"log/slog"

	"github.com/tombee/connectsecure/internal/config"
	"github.com/tombee/connectsecure/internal/credentials"
	"github.com/tombee/connectsecure/internal/log"
	"github.com/tombee/connectsecure/internal/node"
	"github.com/tombee/connectsecure/internal/operation/transport"
	"github.com/tombee/connectsecure/internal/secrets"
	"github.com/tombee/connectsecure/internal/tracing"
)

// tracerName is the instrumentation scope for spans started by the CLI.
const tracerName = "github.com/tombee/connectsecure"

// LoadConfig loads configuration from --config, the default XDG path or
// the environment, and applies --verbose and --quiet to the log level.
func LoadConfig() (*config.Config, error) {
	path, err := config.ResolvePath(GetConfigPath())
	if err != nil {
		return nil, NewConfigError("failed to locate config file", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, NewConfigError("failed to load configuration", err)
	}

	switch {
	case GetVerbose():
		cfg.Log.Level = "debug"
	case GetQuiet():
		cfg.Log.Level = "error"
	}
	return cfg, nil
}

// Runtime holds everything a command needs to talk to the API.
type Runtime struct {
	Config     *config.Config
	Logger     *slog.Logger
	Credential credentials.Credential
	Transport  transport.Transport
	Provider   *tracing.Provider
}

// NewRuntime resolves credentials and builds the transport and telemetry
// provider. Diagnostics (logs and stdout spans) go to stderr so that
// stdout only carries command output.
func NewRuntime(ctx context.Context, cfg *config.Config, stderr io.Writer) (*Runtime, error) {
	cfg.Log.Output = stderr
	logger := log.New(&cfg.Log)

	cred, err := cfg.Credentials.Credential(ctx, secrets.DefaultResolver())
	if err != nil {
		return nil, NewAuthError("failed to resolve credentials", err)
	}

	tcfg := cfg.Tracing
	tcfg.ServiceVersion = version
	provider, err := tracing.NewProvider(ctx, tcfg, stderr)
	if err != nil {
		return nil, NewConfigError("failed to initialize telemetry", err)
	}

	tr, err := cfg.Transport.NewTransport(transport.WithTelemetry(provider.TracerProvider(), provider.MeterProvider()))
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, NewConfigError("failed to create transport", err)
	}

	logger.Debug("runtime initialized",
		slog.String("credential_type", string(cred.Type())),
		slog.String("transport", tr.Name()),
		slog.Bool("tracing", tcfg.Enabled))

	return &Runtime{
		Config:     cfg,
		Logger:     logger,
		Credential: cred,
		Transport:  tr,
		Provider:   provider,
	}, nil
}

// NewNode builds a node from the runtime. opts are applied after the
// configuration-derived options and can override them.
func (r *Runtime) NewNode(opts ...node.Option) (*node.Node, error) {
	base := []node.Option{
		node.WithContinueOnFail(r.Config.Node.ContinueOnFail),
		node.WithLogger(r.Logger),
		node.WithTracer(r.Provider.Tracer(tracerName)),
		node.WithMetrics(r.Provider.MetricsCollector()),
	}
	n, err := node.New(r.Credential, r.Transport, append(base, opts...)...)
	if err != nil {
		return nil, NewAuthError("invalid credentials", err)
	}
	return n, nil
}

// Close flushes and shuts down telemetry.
func (r *Runtime) Close(ctx context.Context) error {
	if r.Provider == nil {
		return nil
	}
	return r.Provider.Shutdown(ctx)
}
