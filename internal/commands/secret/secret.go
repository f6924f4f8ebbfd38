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

// Package secret implements the secret command, which manages credential
// values in the system keychain. Stored values are referenced from the
// configuration as keychain:NAME.
package secret

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tombee/connectsecure/internal/commands/shared"
	"github.com/tombee/connectsecure/internal/secrets"
)

// maxSecretSize bounds values read from stdin.
const maxSecretSize = 64 * 1024

type store interface {
	Set(name, value string) error
	Delete(name string) error
	Resolve(ctx context.Context, reference string) (string, error)
}

// NewSecretCommand creates the secret command
func NewSecretCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Store credentials in the system keychain",
		Long: `Manage credential values in the system keychain (macOS Keychain, Secret
Service on Linux, Windows Credential Manager).

Reference a stored value from the config file as keychain:NAME, e.g.

  credentials:
    client_secret: keychain:client-secret`,
	}

	kc := secrets.NewKeychainProvider()
	cmd.AddCommand(newSetCommand(kc), newDeleteCommand(kc), newCheckCommand(kc))
	return cmd
}

func newSetCommand(s store) *cobra.Command {
	return &cobra.Command{
		Use:   "set NAME",
		Short: "Store a secret",
		Long: `Store a secret under NAME. The value is read from stdin when piped,
otherwise it is prompted for with hidden input.`,
		Example: `  connectsecure secret set client-secret
  echo -n "$SECRET" | connectsecure secret set client-secret`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := validateName(name); err != nil {
				return shared.NewInvalidInputError("invalid secret name", err)
			}

			value, err := readSecretValue(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return shared.NewInvalidInputError("failed to read secret value", err)
			}
			if value == "" {
				return shared.NewInvalidInputError("secret value cannot be empty", nil)
			}

			if err := s.Set(name, value); err != nil {
				return keychainFailure("failed to store secret", err)
			}
			return report(cmd, "set", name, fmt.Sprintf("Stored %s (reference it as keychain:%s)", name, name))
		},
	}
}

func newDeleteCommand(s store) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := s.Delete(name); err != nil {
				return keychainFailure("failed to delete secret", err)
			}
			return report(cmd, "delete", name, "Deleted "+name)
		},
	}
}

func newCheckCommand(s store) *cobra.Command {
	return &cobra.Command{
		Use:   "check NAME",
		Short: "Check that a secret exists without printing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			value, err := s.Resolve(cmd.Context(), name)
			if err != nil {
				return keychainFailure("secret unavailable", err)
			}
			return report(cmd, "check", name, fmt.Sprintf("%s = %s", name, maskSecret(value)))
		},
	}
}

type secretResponse struct {
	shared.JSONResponse
	Name string `json:"name"`
}

func report(cmd *cobra.Command, action, name, text string) error {
	out := cmd.OutOrStdout()
	if shared.GetJSON() {
		return shared.EmitJSON(out, secretResponse{
			JSONResponse: shared.NewJSONResponse("secret " + action),
			Name:         name,
		})
	}
	if !shared.GetQuiet() {
		fmt.Fprintln(out, shared.RenderOK(text))
	}
	return nil
}

func keychainFailure(msg string, err error) error {
	switch {
	case errors.Is(err, secrets.ErrSecretNotFound):
		return shared.NewInvalidInputError(msg, err)
	case errors.Is(err, secrets.ErrBackendUnavailable):
		return shared.NewConfigError(msg, fmt.Errorf("%w\n\nUse env:VAR or file:PATH references instead", err))
	default:
		return shared.NewExecutionError(msg, err)
	}
}

// readSecretValue reads a piped value, or prompts with hidden input when
// in is a terminal.
func readSecretValue(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Enter secret value (hidden): ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	data, err := io.ReadAll(io.LimitReader(in, maxSecretSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxSecretSize {
		return "", fmt.Errorf("secret exceeds %d bytes", maxSecretSize)
	}
	return strings.TrimSpace(string(data)), nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name cannot be empty")
	}
	if strings.ContainsAny(name, " \t\r\n") {
		return errors.New("name cannot contain whitespace")
	}
	return nil
}

func maskSecret(value string) string {
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
