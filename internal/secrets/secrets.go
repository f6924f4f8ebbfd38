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

// Package secrets resolves secret references in configuration values.
//
// Supported forms:
//   - ${VAR}          environment variable
//   - env:VAR         environment variable
//   - file:/abs/path  file contents, trailing whitespace trimmed
//   - keychain:name   system keychain entry under the "connectsecure" service
//
// Any other value is returned unchanged.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrSecretNotFound is returned when a referenced secret does not exist.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrBackendUnavailable is returned when a provider cannot be used here.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrInvalidReference is returned for malformed references.
	ErrInvalidReference = errors.New("invalid secret reference")
)

// Provider resolves references for one scheme.
type Provider interface {
	// Scheme returns the reference prefix without the colon, e.g. "env".
	Scheme() string

	// Resolve returns the secret named by reference (the part after the colon).
	Resolve(ctx context.Context, reference string) (string, error)
}

var envBraces = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// Resolver dispatches references to providers by scheme.
type Resolver struct {
	providers map[string]Provider
}

// NewResolver creates a resolver. Later providers replace earlier ones with
// the same scheme.
func NewResolver(providers ...Provider) *Resolver {
	r := &Resolver{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Scheme()] = p
	}
	return r
}

// DefaultResolver returns a resolver with the env, file and keychain providers.
func DefaultResolver() *Resolver {
	return NewResolver(NewEnvProvider(), NewFileProvider(0), NewKeychainProvider())
}

// IsReference reports whether value is a secret reference.
func IsReference(value string) bool {
	if envBraces.MatchString(value) {
		return true
	}
	scheme, _, ok := strings.Cut(value, ":")
	if !ok {
		return false
	}
	switch scheme {
	case "env", "file", "keychain":
		return true
	}
	return false
}

// Resolve returns the secret for value, or value itself when it is not a
// reference.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	if m := envBraces.FindStringSubmatch(value); m != nil {
		return r.resolveWith(ctx, "env", m[1], value)
	}
	if !IsReference(value) {
		return value, nil
	}
	scheme, ref, _ := strings.Cut(value, ":")
	return r.resolveWith(ctx, scheme, ref, value)
}

func (r *Resolver) resolveWith(ctx context.Context, scheme, ref, raw string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: %q has an empty name", ErrInvalidReference, raw)
	}
	p, ok := r.providers[scheme]
	if !ok {
		return "", fmt.Errorf("%w: no %s provider", ErrBackendUnavailable, scheme)
	}
	value, err := p.Resolve(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("resolve %s:%s: %w", scheme, ref, err)
	}
	return value, nil
}

// ResolveAll resolves every pointer in place, stopping at the first error.
func (r *Resolver) ResolveAll(ctx context.Context, values ...*string) error {
	for _, v := range values {
		if v == nil || *v == "" {
			continue
		}
		resolved, err := r.Resolve(ctx, *v)
		if err != nil {
			return err
		}
		*v = resolved
	}
	return nil
}
