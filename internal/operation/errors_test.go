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

package operation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/connectsecure/internal/operation/transport"
)

func TestNewTransportFailureError(t *testing.T) {
	tests := []struct {
		name           string
		cause          error
		wantStatus     int
		wantRequestID  string
		wantSuggestion bool
	}{
		{
			name:           "auth",
			cause:          &transport.TransportError{Type: transport.ErrorTypeAuth, StatusCode: 401, Message: "unauthorized", RequestID: "req-1"},
			wantStatus:     401,
			wantRequestID:  "req-1",
			wantSuggestion: true,
		},
		{
			name:           "wrapped rate limit",
			cause:          fmt.Errorf("dispatch: %w", &transport.TransportError{Type: transport.ErrorTypeRateLimit, StatusCode: 429, Message: "slow down"}),
			wantStatus:     429,
			wantSuggestion: true,
		},
		{
			name:       "server",
			cause:      &transport.TransportError{Type: transport.ErrorTypeServer, StatusCode: 502, Message: "bad gateway"},
			wantStatus: 502,
		},
		{
			name:  "plain error",
			cause: errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTransportFailureError("company", "getCompany", tt.cause)

			assert.Equal(t, ErrorTypeTransport, err.Type)
			assert.Equal(t, tt.wantStatus, err.StatusCode)
			assert.Equal(t, tt.wantRequestID, err.RequestID)
			assert.Equal(t, tt.wantSuggestion, err.Suggestion() != "")
			assert.False(t, err.IsUserError())
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{
		Type:       ErrorTypeTransport,
		Message:    "request failed",
		StatusCode: 404,
		RequestID:  "abc",
		Cause:      errors.New("not found"),
	}
	assert.Equal(t, "request failed [HTTP 404] (request-id: abc): not found", err.Error())
}

func TestErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("item 0: %w", NewMissingParameterError("agent", "getAgent", "id"))

	typ, ok := TypeOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrorTypeMissingParameter, typ)
	assert.True(t, IsMissingParameter(wrapped))
	assert.False(t, IsUnknownOperation(wrapped))

	_, ok = TypeOf(errors.New("plain"))
	assert.False(t, ok)

	cred := NewCredentialError(errors.New("denied"))
	assert.Equal(t, ErrorTypeInvalidCredentials, cred.Type)
	assert.False(t, cred.IsUserError())
	assert.True(t, NewPathInjectionError("company", "getCompany", "id").IsUserError())
}
