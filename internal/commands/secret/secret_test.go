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

package secret

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/tombee/connectsecure/internal/commands/shared"
	"github.com/tombee/connectsecure/internal/secrets"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewSecretCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSecretLifecycle(t *testing.T) {
	keyring.MockInit()

	out, err := execute(t, "super-secret-value\n", "set", "client-secret")
	require.NoError(t, err)
	assert.Contains(t, out, "keychain:client-secret")

	value, err := secrets.NewKeychainProvider().Resolve(t.Context(), "client-secret")
	require.NoError(t, err)
	assert.Equal(t, "super-secret-value", value)

	out, err = execute(t, "", "check", "client-secret")
	require.NoError(t, err)
	assert.Contains(t, out, "supe...alue")
	assert.NotContains(t, out, "super-secret-value")

	_, err = execute(t, "", "delete", "client-secret")
	require.NoError(t, err)

	_, err = execute(t, "", "check", "client-secret")
	require.Error(t, err)
	assert.Equal(t, shared.ExitInvalidInput, shared.ExitCodeFor(err))
}

func TestSecretSet_Errors(t *testing.T) {
	keyring.MockInit()

	_, err := execute(t, "", "set", "empty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")

	_, err = execute(t, "value", "set", "has space")
	require.Error(t, err)
	assert.Equal(t, shared.ExitInvalidInput, shared.ExitCodeFor(err))

	_, err = execute(t, "value", "set")
	assert.Error(t, err)
}

func TestReadSecretValue_Limit(t *testing.T) {
	_, err := readSecretValue(strings.NewReader(strings.Repeat("x", maxSecretSize+1)), &bytes.Buffer{})
	assert.ErrorContains(t, err, "exceeds")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "abcd...mnop", maskSecret("abcdefghijklmnop"))
}
