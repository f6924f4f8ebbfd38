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

package shared

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/tombee/connectsecure/internal/config"
	"github.com/tombee/connectsecure/internal/node"
	"github.com/tombee/connectsecure/internal/operation"
)

// Exit codes for connectsecure commands
const (
	ExitSuccess         = 0
	ExitExecutionFailed = 1
	ExitInvalidInput    = 2
	ExitConfigError     = 3
	ExitAuthError       = 4
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewExecutionError creates an error for request execution failures
func NewExecutionError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitExecutionFailed, Message: msg, Cause: cause}
}

// NewInvalidInputError creates an error for bad flags, items or parameters
func NewInvalidInputError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitInvalidInput, Message: msg, Cause: cause}
}

// NewConfigError creates an error for unreadable or invalid configuration
func NewConfigError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitConfigError, Message: msg, Cause: cause}
}

// NewAuthError creates an error for credential and token failures
func NewAuthError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitAuthError, Message: msg, Cause: cause}
}

// ExitCodeFor maps err to a process exit code. An explicit ExitError wins,
// then configuration errors, then the operation error classification.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfigError
	}

	var opErr *operation.Error
	if !errors.As(err, &opErr) {
		return ExitExecutionFailed
	}

	switch opErr.Type {
	case operation.ErrorTypeInvalidCredentials:
		return ExitAuthError
	case operation.ErrorTypeUnknownOperation:
		return ExitConfigError
	case operation.ErrorTypeTransport:
		if opErr.StatusCode == http.StatusUnauthorized || opErr.StatusCode == http.StatusForbidden {
			return ExitAuthError
		}
		return ExitExecutionFailed
	}
	if opErr.IsUserError() {
		return ExitInvalidInput
	}
	return ExitExecutionFailed
}

// PrintError writes err and, when one exists in the chain, its suggestion.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, RenderError("Error: "+err.Error()))

	var itemErr *node.ItemError
	if errors.As(err, &itemErr) {
		fmt.Fprintf(w, "%s\n", RenderLabel(fmt.Sprintf("Failed on item %d", itemErr.Index)))
	}

	if suggestion := suggestionOf(err); suggestion != "" {
		fmt.Fprintf(w, "\nSuggestion: %s\n", suggestion)
	}
}

// HandleExitError prints err to stderr and exits with the mapped code
func HandleExitError(err error) {
	if err == nil {
		return
	}
	PrintError(os.Stderr, err)
	os.Exit(ExitCodeFor(err))
}

type suggester interface {
	Suggestion() string
}

func suggestionOf(err error) string {
	for err != nil {
		if s, ok := err.(suggester); ok {
			if text := s.Suggestion(); text != "" {
				return text
			}
		}
		err = errors.Unwrap(err)
	}
	return ""
}
