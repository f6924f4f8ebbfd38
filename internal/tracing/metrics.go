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
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Item outcomes recorded by RecordItem.
const (
	OutcomeSuccess   = "success"
	OutcomeFailed    = "failed"
	OutcomeContinued = "continued"
)

// MetricsCollector records request and item metrics. A nil collector
// discards everything.
type MetricsCollector struct {
	requestsTotal   metric.Int64Counter
	requestDuration metric.Float64Histogram
	itemsTotal      metric.Int64Counter
}

// NewMetricsCollector creates the instruments on the given meter provider.
func NewMetricsCollector(meterProvider metric.MeterProvider) (*MetricsCollector, error) {
	meter := meterProvider.Meter("connectsecure")

	mc := &MetricsCollector{}
	var err error

	mc.requestsTotal, err = meter.Int64Counter(
		"connectsecure_requests_total",
		metric.WithDescription("Total number of Connect Secure API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	mc.requestDuration, err = meter.Float64Histogram(
		"connectsecure_request_duration_seconds",
		metric.WithDescription("Connect Secure API request latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	mc.itemsTotal, err = meter.Int64Counter(
		"connectsecure_items_total",
		metric.WithDescription("Total number of node input items processed"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	return mc, nil
}

// RecordRequest records one dispatched request. statusCode is 0 when no
// response was received.
func (mc *MetricsCollector) RecordRequest(ctx context.Context, resource, operation string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.String("operation", operation),
		attribute.String("status", statusLabel(statusCode)),
	)
	mc.requestsTotal.Add(ctx, 1, attrs)
	mc.requestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordItem records the outcome of one input item.
func (mc *MetricsCollector) RecordItem(ctx context.Context, resource, operation, outcome string) {
	if mc == nil {
		return
	}
	mc.itemsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func statusLabel(code int) string {
	if code == 0 {
		return "error"
	}
	return strconv.Itoa(code)
}
