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

package secrets

import (
	"context"
	"fmt"
	"os"
)

// EnvProvider resolves env:VAR references.
type EnvProvider struct {
	lookup func(string) (string, bool)
}

// NewEnvProvider creates a provider backed by the process environment.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{lookup: os.LookupEnv}
}

// Scheme returns "env".
func (e *EnvProvider) Scheme() string {
	return "env"
}

// Resolve returns the variable's value. Unset and empty variables are
// reported as not found.
func (e *EnvProvider) Resolve(_ context.Context, reference string) (string, error) {
	value, ok := e.lookup(reference)
	if !ok || value == "" {
		return "", fmt.Errorf("%w: environment variable %s not set", ErrSecretNotFound, reference)
	}
	return value, nil
}
