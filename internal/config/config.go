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

// Package config loads the connectsecure configuration from a YAML file and
// environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tombee/connectsecure/internal/credentials"
	"github.com/tombee/connectsecure/internal/log"
	"github.com/tombee/connectsecure/internal/operation/transport"
	"github.com/tombee/connectsecure/internal/secrets"
	"github.com/tombee/connectsecure/internal/tracing"
	"github.com/tombee/connectsecure/internal/validate"
)

// Credential types accepted in the credentials section.
const (
	CredentialTypeOAuth2 = "oauth2"
	CredentialTypeToken  = "token"
)

// Config is the complete configuration.
type Config struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	Transport   TransportConfig   `yaml:"transport"`
	Node        NodeConfig        `yaml:"node"`
	Log         log.Config        `yaml:"log"`
	Tracing     tracing.Config    `yaml:"tracing"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// CredentialsConfig selects and configures the Connect Secure credential.
// ClientID, ClientSecret and AccessToken may be secret references.
type CredentialsConfig struct {
	Type           string `yaml:"type" validate:"omitempty,oneof=oauth2 token"`
	Tenant         string `yaml:"tenant"`
	BaseURL        string `yaml:"base_url" validate:"omitempty,http_url"`
	UserID         string `yaml:"user_id"`
	ClientID       string `yaml:"client_id"`
	ClientSecret   string `yaml:"client_secret"`
	AuthURL        string `yaml:"auth_url" validate:"omitempty,http_url"`
	AccessTokenURL string `yaml:"access_token_url" validate:"omitempty,http_url"`
	Scope          string `yaml:"scope"`
	Authentication string `yaml:"authentication" validate:"omitempty,oneof=header body"`
	AccessToken    string `yaml:"access_token"`
}

// TransportConfig configures outbound HTTP.
type TransportConfig struct {
	Timeout           time.Duration          `yaml:"timeout" validate:"gte=0"`
	RequestsPerSecond float64                `yaml:"requests_per_second" validate:"gte=0"`
	Burst             int                    `yaml:"burst" validate:"gte=0"`
	Retry             *transport.RetryConfig `yaml:"retry"`
	AllowedHosts      []string               `yaml:"allowed_hosts"`
	TLSInsecure       bool                   `yaml:"tls_insecure"`
	UserAgent         string                 `yaml:"user_agent"`
}

// NodeConfig holds node execution settings.
type NodeConfig struct {
	ContinueOnFail bool `yaml:"continue_on_fail"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

// ConfigError reports a configuration problem.
type ConfigError struct {
	Key    string
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := "config error: " + e.Reason
	if e.Key != "" {
		msg = fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Default returns a Config with defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Credentials.Type == "" {
		c.Credentials.Type = CredentialTypeOAuth2
	}
	if c.Transport.Timeout == 0 {
		c.Transport.Timeout = 30 * time.Second
	}
	if c.Transport.RequestsPerSecond > 0 && c.Transport.Burst == 0 {
		c.Transport.Burst = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = log.FormatText
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = tracing.ExporterStdout
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "connectsecure"
	}
}

// Load reads configPath (if non-empty), applies defaults, then environment
// overrides, and validates the result.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath != "" {
		if err := cfg.loadFromFile(configPath); err != nil {
			return nil, &ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", configPath),
				Cause:  err,
			}
		}
	}

	cfg.applyDefaults()
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// loadFromEnv applies CONNECTSECURE_* and LOG_* overrides.
func (c *Config) loadFromEnv() {
	strs := map[string]*string{
		"CONNECTSECURE_CREDENTIAL_TYPE":  &c.Credentials.Type,
		"CONNECTSECURE_TENANT":           &c.Credentials.Tenant,
		"CONNECTSECURE_BASE_URL":         &c.Credentials.BaseURL,
		"CONNECTSECURE_USER_ID":          &c.Credentials.UserID,
		"CONNECTSECURE_CLIENT_ID":        &c.Credentials.ClientID,
		"CONNECTSECURE_CLIENT_SECRET":    &c.Credentials.ClientSecret,
		"CONNECTSECURE_ACCESS_TOKEN_URL": &c.Credentials.AccessTokenURL,
		"CONNECTSECURE_ACCESS_TOKEN":     &c.Credentials.AccessToken,
		"CONNECTSECURE_METRICS_ADDR":     &c.Metrics.Addr,
	}
	for key, dst := range strs {
		if val := os.Getenv(key); val != "" {
			*dst = val
		}
	}

	if val := os.Getenv("CONNECTSECURE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.Transport.Timeout = d
		}
	}
	if val := os.Getenv("CONNECTSECURE_REQUESTS_PER_SECOND"); val != "" {
		if rps, err := strconv.ParseFloat(val, 64); err == nil {
			c.Transport.RequestsPerSecond = rps
			if c.Transport.Burst == 0 {
				c.Transport.Burst = 1
			}
		}
	}
	if val := os.Getenv("CONNECTSECURE_CONTINUE_ON_FAIL"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Node.ContinueOnFail = b
		}
	}
	if val := os.Getenv("CONNECTSECURE_TRACING"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Tracing.Enabled = b
		}
	}

	log.ApplyEnv(&c.Log)
}

// Validate checks struct constraints and the nested retry policy.
func (c *Config) Validate() error {
	var errs []error
	if err := validate.Struct(c); err != nil {
		errs = append(errs, err)
	}
	if c.Transport.Retry != nil {
		if err := c.Transport.Retry.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("transport.retry: %w", err))
		}
	}
	if err := transport.ValidatePatterns(c.Transport.AllowedHosts); err != nil {
		errs = append(errs, fmt.Errorf("transport.allowed_hosts: %w", err))
	}
	return errors.Join(errs...)
}

// Credential builds the configured credential, resolving secret references.
func (c *CredentialsConfig) Credential(ctx context.Context, resolver *secrets.Resolver) (credentials.Credential, error) {
	if resolver == nil {
		resolver = secrets.DefaultResolver()
	}

	cc := *c
	if err := resolver.ResolveAll(ctx, &cc.ClientID, &cc.ClientSecret, &cc.AccessToken); err != nil {
		return nil, &ConfigError{Key: "credentials", Reason: "failed to resolve secret reference", Cause: err}
	}

	switch cc.Type {
	case CredentialTypeToken:
		return &credentials.StaticToken{
			Tenant:      cc.Tenant,
			BaseURL:     cc.BaseURL,
			UserID:      cc.UserID,
			AccessToken: cc.AccessToken,
		}, nil
	case CredentialTypeOAuth2, "":
		return &credentials.ConnectSecureAPI{
			Tenant:         cc.Tenant,
			ClientID:       cc.ClientID,
			ClientSecret:   cc.ClientSecret,
			BaseURL:        cc.BaseURL,
			UserID:         cc.UserID,
			AuthURL:        cc.AuthURL,
			AccessTokenURL: cc.AccessTokenURL,
			Scope:          cc.Scope,
			Authentication: cc.Authentication,
		}, nil
	default:
		return nil, &ConfigError{Key: "credentials.type", Reason: fmt.Sprintf("unknown credential type %q", cc.Type)}
	}
}

// HTTPConfig converts the transport section for transport.NewHTTPTransport.
func (t *TransportConfig) HTTPConfig() *transport.HTTPTransportConfig {
	return &transport.HTTPTransportConfig{
		Timeout:      t.Timeout,
		TLSInsecure:  t.TLSInsecure,
		UserAgent:    t.UserAgent,
		AllowedHosts: t.AllowedHosts,
		Retry:        t.Retry,
	}
}

// NewTransport builds the HTTP transport with its rate limiter installed.
func (t *TransportConfig) NewTransport(opts ...transport.Option) (*transport.HTTPTransport, error) {
	hc := t.HTTPConfig()
	for _, opt := range opts {
		opt(hc)
	}
	tr, err := transport.NewHTTPTransport(hc)
	if err != nil {
		return nil, &ConfigError{Key: "transport", Reason: "invalid transport configuration", Cause: err}
	}
	if limiter := transport.NewRateLimiter(t.RequestsPerSecond, t.Burst); limiter != nil {
		tr.SetRateLimiter(limiter)
	}
	return tr, nil
}
