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

// Exporter names.
const (
	ExporterStdout   = "stdout"
	ExporterOTLP     = "otlp"
	ExporterOTLPHTTP = "otlp-http"
	ExporterNone     = "none"
)

// Config holds tracing configuration.
type Config struct {
	// Enabled controls whether spans are recorded.
	Enabled bool `yaml:"enabled"`

	// Exporter selects the span destination: stdout, otlp, otlp-http or none.
	Exporter string `yaml:"exporter" validate:"omitempty,oneof=stdout otlp otlp-http none"`

	// Endpoint is the collector host:port for the OTLP exporters. When empty
	// the exporters read OTEL_EXPORTER_OTLP_ENDPOINT.
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure"`

	// Headers are sent with every OTLP export request.
	Headers map[string]string `yaml:"headers"`

	// ServiceName identifies this process in traces.
	ServiceName string `yaml:"service_name"`

	// ServiceVersion is the application version.
	ServiceVersion string `yaml:"-"`
}

func (c Config) withDefaults() Config {
	if c.Exporter == "" {
		c.Exporter = ExporterStdout
	}
	if c.ServiceName == "" {
		c.ServiceName = "connectsecure"
	}
	return c
}
