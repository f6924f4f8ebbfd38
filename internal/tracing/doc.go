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

/*
Package tracing sets up OpenTelemetry for connectsecure.

A Provider owns a trace provider, exporting spans to stdout or an OTLP
collector, and a meter provider whose instruments are exposed in Prometheus
text format through MetricsHandler. The node opens one span per item and
records request counts and latencies through a MetricsCollector.

# Usage

	p, err := tracing.NewProvider(ctx, tracing.Config{Enabled: true, Exporter: "stdout"}, os.Stderr)
	if err != nil {
		return err
	}
	defer p.Shutdown(ctx)

	tracer := p.Tracer("connectsecure/node")

When Enabled is false the tracer is a no-op and only metrics are recorded.
*/
package tracing
