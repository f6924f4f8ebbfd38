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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestIsReference(t *testing.T) {
	assert.True(t, IsReference("${CS_SECRET}"))
	assert.True(t, IsReference("env:CS_SECRET"))
	assert.True(t, IsReference("file:/run/secrets/cs"))
	assert.True(t, IsReference("keychain:cs"))

	assert.False(t, IsReference("plain-secret"))
	assert.False(t, IsReference("https://pod1.myconnectsecure.com"))
	assert.False(t, IsReference("${lower-case}"))
}

func TestResolver_Env(t *testing.T) {
	t.Setenv("CS_TEST_SECRET", "s3cret")
	r := DefaultResolver()

	v, err := r.Resolve(context.Background(), "${CS_TEST_SECRET}")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)

	v, err = r.Resolve(context.Background(), "env:CS_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)

	_, err = r.Resolve(context.Background(), "env:CS_TEST_MISSING_VAR")
	assert.True(t, errors.Is(err, ErrSecretNotFound))

	_, err = r.Resolve(context.Background(), "env:")
	assert.True(t, errors.Is(err, ErrInvalidReference))
}

func TestResolver_Plain(t *testing.T) {
	v, err := DefaultResolver().Resolve(context.Background(), "literal")
	require.NoError(t, err)
	assert.Equal(t, "literal", v)
}

func TestResolver_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret")
	require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))

	r := DefaultResolver()
	v, err := r.Resolve(context.Background(), "file:"+path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", v)

	_, err = r.Resolve(context.Background(), "file:relative/path")
	assert.True(t, errors.Is(err, ErrInvalidReference))

	_, err = r.Resolve(context.Background(), "file:"+dir+"/../x")
	assert.True(t, errors.Is(err, ErrInvalidReference))

	_, err = r.Resolve(context.Background(), "file:"+filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, ErrSecretNotFound))

	_, err = r.Resolve(context.Background(), "file:"+dir)
	assert.True(t, errors.Is(err, ErrInvalidReference))
}

func TestFileProvider_MaxSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big")
	require.NoError(t, os.WriteFile(path, make([]byte, 32), 0o600))

	_, err := NewFileProvider(16).Resolve(context.Background(), path)
	assert.Error(t, err)
}

func TestKeychainProvider(t *testing.T) {
	keyring.MockInit()

	k := NewKeychainProvider()
	require.NoError(t, k.Set("client-secret", "kc-value"))

	v, err := DefaultResolver().Resolve(context.Background(), "keychain:client-secret")
	require.NoError(t, err)
	assert.Equal(t, "kc-value", v)

	require.NoError(t, k.Delete("client-secret"))
	_, err = k.Resolve(context.Background(), "client-secret")
	assert.True(t, errors.Is(err, ErrSecretNotFound))
}

func TestResolveAll(t *testing.T) {
	t.Setenv("CS_TEST_ID", "client")
	id, secret, empty := "env:CS_TEST_ID", "literal", ""

	require.NoError(t, DefaultResolver().ResolveAll(context.Background(), &id, &secret, &empty, nil))
	assert.Equal(t, "client", id)
	assert.Equal(t, "literal", secret)
	assert.Equal(t, "", empty)
}

func TestResolver_MissingProvider(t *testing.T) {
	r := NewResolver(NewEnvProvider())
	_, err := r.Resolve(context.Background(), "keychain:x")
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
}
