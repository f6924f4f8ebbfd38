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
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeychainService is the service name used for keychain entries.
const KeychainService = "connectsecure"

// KeychainProvider resolves keychain:name references using the system
// keychain (macOS Keychain, Secret Service on Linux, Windows Credential
// Manager).
type KeychainProvider struct {
	service string
}

// NewKeychainProvider creates a provider for the default service.
func NewKeychainProvider() *KeychainProvider {
	return &KeychainProvider{service: KeychainService}
}

// Scheme returns "keychain".
func (k *KeychainProvider) Scheme() string {
	return "keychain"
}

// Resolve reads the named entry.
func (k *KeychainProvider) Resolve(_ context.Context, reference string) (string, error) {
	value, err := keyring.Get(k.service, reference)
	if err != nil {
		return "", keychainError(reference, err)
	}
	return value, nil
}

// Set stores value under name.
func (k *KeychainProvider) Set(name, value string) error {
	if err := keyring.Set(k.service, name, value); err != nil {
		return keychainError(name, err)
	}
	return nil
}

// Delete removes the named entry.
func (k *KeychainProvider) Delete(name string) error {
	if err := keyring.Delete(k.service, name); err != nil {
		return keychainError(name, err)
	}
	return nil
}

func keychainError(name string, err error) error {
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	if isKeychainUnavailable(err) {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, err.Error())
	}
	return fmt.Errorf("keychain error: %w", err)
}

// isKeychainUnavailable matches platform messages for a locked or missing
// keychain service.
func isKeychainUnavailable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"locked",
		"cannot access",
		"permission denied",
		"failed to unlock",
		"user interaction required",
		"secret service",
		"dbus",
	} {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
