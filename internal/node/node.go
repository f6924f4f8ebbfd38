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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/tombee/connectsecure/internal/credentials"
	"github.com/tombee/connectsecure/internal/jq"
	"github.com/tombee/connectsecure/internal/log"
	"github.com/tombee/connectsecure/internal/operation"
	"github.com/tombee/connectsecure/internal/operation/transport"
	"github.com/tombee/connectsecure/internal/tracing"
)

// Node executes Connect Secure operations.
type Node struct {
	planner        *Planner
	transport      transport.Transport
	tokens         credentials.TokenSource
	filter         *jq.Filter
	continueOnFail bool
	logger         *slog.Logger
	tracer         trace.Tracer
	metrics        *tracing.MetricsCollector
}

// Option configures a Node.
type Option func(*Node)

// WithRegistry replaces the built-in catalog.
func WithRegistry(r *operation.Registry) Option {
	return func(n *Node) { n.planner.builder = operation.NewBuilder(r) }
}

// WithContinueOnFail turns item failures into error records.
func WithContinueOnFail(enabled bool) Option {
	return func(n *Node) { n.continueOnFail = enabled }
}

// WithFilter applies a jq filter to every successful response.
func WithFilter(f *jq.Filter) Option {
	return func(n *Node) { n.filter = f }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(n *Node) { n.logger = l }
}

// WithTracer sets the tracer used for execution and item spans.
func WithTracer(t trace.Tracer) Option {
	return func(n *Node) { n.tracer = t }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *tracing.MetricsCollector) Option {
	return func(n *Node) { n.metrics = m }
}

// WithTokenSource overrides the credential's token source.
func WithTokenSource(ts credentials.TokenSource) Option {
	return func(n *Node) { n.tokens = ts }
}

// New creates a Node for the given credential and transport.
func New(cred credentials.Credential, tr transport.Transport, opts ...Option) (*Node, error) {
	if cred == nil {
		return nil, errors.New("credential is required")
	}
	if tr == nil {
		return nil, errors.New("transport is required")
	}
	if err := cred.Validate(); err != nil {
		return nil, err
	}

	n := &Node{
		planner:   NewPlanner(nil, cred.Identity()),
		transport: tr,
		logger:    log.Discard(),
		tracer:    noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(n)
	}

	if n.tokens == nil {
		ts, err := cred.TokenSource()
		if err != nil {
			return nil, err
		}
		n.tokens = ts
	}

	n.logger = log.WithComponent(n.logger, "node")
	return n, nil
}

// Registry returns the registry requests are built against.
func (n *Node) Registry() *operation.Registry {
	return n.planner.Registry()
}

// Execute processes items in order and returns one output per item.
func (n *Node) Execute(ctx context.Context, items []Item) ([]Output, error) {
	executionID := uuid.NewString()
	logger := log.WithExecution(n.logger, executionID)
	start := time.Now()

	ctx, span := n.tracer.Start(ctx, "connectsecure.execute", trace.WithAttributes(
		attribute.String("connectsecure.execution_id", executionID),
		attribute.Int("connectsecure.items", len(items)),
	))
	defer span.End()

	outputs := make([]Output, 0, len(items))
	failed := 0

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "cancelled")
			return outputs, &ItemError{Index: i, Err: err}
		}

		out, err := n.executeItem(ctx, logger, i, item)
		if err == nil {
			outputs = append(outputs, out)
			continue
		}

		failed++
		if n.continueOnFail {
			logger.Warn("item failed, continuing",
				slog.Int(log.ItemKey, i),
				log.Error(err))
			outputs = append(outputs, errorRecord(i, err))
			continue
		}

		logger.Error("item failed",
			slog.Int(log.ItemKey, i),
			log.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return outputs, &ItemError{Index: i, Err: err}
	}

	logger.Info("execution complete",
		slog.Int("items", len(items)),
		slog.Int("failed", failed),
		log.Duration("duration", time.Since(start).Milliseconds()))

	return outputs, nil
}

func (n *Node) executeItem(ctx context.Context, logger *slog.Logger, index int, item Item) (out Output, err error) {
	ctx, span := n.tracer.Start(ctx, "connectsecure.item",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("connectsecure.item", index)))
	defer span.End()

	r, err := n.planner.resolve(index, item)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		n.metrics.RecordItem(ctx, item.Resource, item.Operation, tracing.OutcomeFailed)
		return Output{}, err
	}

	span.SetAttributes(
		attribute.String("connectsecure.resource", r.resource),
		attribute.String("connectsecure.operation", r.operation),
	)
	logger = log.WithItem(logger, index, r.resource, r.operation)

	defer func() {
		outcome := tracing.OutcomeSuccess
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			outcome = tracing.OutcomeFailed
			if n.continueOnFail {
				outcome = tracing.OutcomeContinued
			}
		}
		n.metrics.RecordItem(ctx, r.resource, r.operation, outcome)
	}()

	req, err := n.planner.build(r)
	if err != nil {
		return Output{}, err
	}

	token, err := n.tokens.Token(ctx)
	if err != nil {
		if t, ok := operation.TypeOf(err); ok && t == operation.ErrorTypeInvalidCredentials {
			return Output{}, err
		}
		return Output{}, operation.NewCredentialError(err)
	}
	if err := req.SetToken(token); err != nil {
		return Output{}, err
	}

	treq, err := req.Transport()
	if err != nil {
		return Output{}, err
	}

	span.SetAttributes(attribute.String("http.request.method", treq.Method))
	logger.Debug("dispatching request",
		slog.String("method", treq.Method),
		slog.String("url", treq.URL))
	if len(treq.Body) > 0 {
		log.Trace(logger, "request body", slog.String("body", string(treq.Body)))
	}

	start := time.Now()
	resp, err := n.transport.Execute(ctx, treq)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	} else if te, ok := transport.AsTransportError(err); ok {
		status = te.StatusCode
	}
	n.metrics.RecordRequest(ctx, r.resource, r.operation, status, elapsed)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}

	if err != nil {
		return Output{}, operation.NewTransportFailureError(r.resource, r.operation, err)
	}

	logger.Debug("request complete",
		slog.Int("status", resp.StatusCode),
		log.Duration("duration", elapsed.Milliseconds()))
	log.Trace(logger, "response body", slog.String("body", string(resp.Body)))

	result := decodeResponse(resp.Body)
	if n.filter != nil {
		result, err = n.filter.Apply(ctx, result)
		if err != nil {
			return Output{}, fmt.Errorf("jq filter %q: %w", n.filter.String(), err)
		}
	}

	return Output{JSON: result, PairedItem: index}, nil
}

// decodeResponse returns the decoded JSON body with numbers kept verbatim.
// An empty body yields an empty object and a non-JSON body its text.
func decodeResponse(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return map[string]any{}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(body)
	}
	if _, err := dec.Token(); err != io.EOF {
		return string(body)
	}
	return v
}
