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

package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Provider owns the trace and meter providers for one process.
type Provider struct {
	tp       trace.TracerProvider
	sdk      *sdktrace.TracerProvider
	mp       *sdkmetric.MeterProvider
	registry *promclient.Registry
	metrics  *MetricsCollector
}

// NewProvider builds a Provider. Spans go to the configured exporter when
// cfg.Enabled is set; w receives stdout exporter output. Extra options are
// appended to the trace provider options.
func NewProvider(ctx context.Context, cfg Config, w io.Writer, opts ...sdktrace.TracerProviderOption) (*Provider, error) {
	cfg = cfg.withDefaults()

	// Empty schema URL so the merge with the default resource cannot conflict.
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes("",
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	p := &Provider{tp: noop.NewTracerProvider()}

	if cfg.Enabled {
		exporter, err := NewExporter(ctx, cfg, w)
		if err != nil {
			return nil, err
		}
		allOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
		if exporter != nil {
			if cfg.Exporter == ExporterStdout {
				allOpts = append(allOpts, sdktrace.WithSyncer(exporter))
			} else {
				allOpts = append(allOpts, sdktrace.WithBatcher(exporter))
			}
		}
		allOpts = append(allOpts, opts...)
		p.sdk = sdktrace.NewTracerProvider(allOpts...)
		p.tp = p.sdk
	}

	p.registry = promclient.NewRegistry()
	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	promExporter, err := prometheus.New(prometheus.WithRegisterer(p.registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	p.mp = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(promExporter),
	)

	p.metrics, err = NewMetricsCollector(p.mp)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics collector: %w", err)
	}

	return p, nil
}

// Tracer returns a tracer for the given instrumentation scope.
func (p *Provider) Tracer(name string) trace.Tracer {
	return p.tp.Tracer(name)
}

// TracerProvider returns the provider behind Tracer, a no-op one when
// tracing is disabled.
func (p *Provider) TracerProvider() trace.TracerProvider {
	return p.tp
}

// MeterProvider returns the meter provider exported to Prometheus.
func (p *Provider) MeterProvider() metric.MeterProvider {
	return p.mp
}

// MetricsCollector returns the collector backed by this provider's meter.
func (p *Provider) MetricsCollector() *MetricsCollector {
	return p.metrics
}

// MetricsHandler serves the provider's registry in Prometheus text format.
func (p *Provider) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// ForceFlush exports pending spans and metrics synchronously.
func (p *Provider) ForceFlush(ctx context.Context) error {
	var errs []error
	if p.sdk != nil {
		errs = append(errs, p.sdk.ForceFlush(ctx))
	}
	errs = append(errs, p.mp.ForceFlush(ctx))
	return errors.Join(errs...)
}

// Shutdown flushes and releases the providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.sdk != nil {
		errs = append(errs, p.sdk.Shutdown(ctx))
	}
	errs = append(errs, p.mp.Shutdown(ctx))
	return errors.Join(errs...)
}
