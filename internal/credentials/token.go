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

package credentials

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/tombee/connectsecure/internal/operation"
)

// TokenSource supplies the bearer token for outbound requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource always returns the same token.
type StaticTokenSource string

// Token implements TokenSource.
func (s StaticTokenSource) Token(context.Context) (string, error) {
	return string(s), nil
}

// clientCredentialsSource fetches tokens with the client-credentials grant
// and reuses them until they expire.
type clientCredentialsSource struct {
	config *clientcredentials.Config

	// HTTPClient overrides the client used for token requests.
	HTTPClient *http.Client

	mu    sync.Mutex
	token *oauth2.Token
}

func newClientCredentialsSource(c *ConnectSecureAPI) *clientCredentialsSource {
	config := &clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.ResolvedAccessTokenURL(),
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	if c.Authentication == "body" {
		config.AuthStyle = oauth2.AuthStyleInParams
	}
	if c.Scope != "" {
		config.Scopes = splitScopes(c.Scope)
	}
	return &clientCredentialsSource{config: config}
}

// WithHTTPClient returns ts using client for token requests when ts is a
// client-credentials source. Other sources are returned unchanged.
func WithHTTPClient(ts TokenSource, client *http.Client) TokenSource {
	if cc, ok := ts.(*clientCredentialsSource); ok {
		cc.HTTPClient = client
	}
	return ts
}

// Token implements TokenSource.
func (s *clientCredentialsSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token.Valid() {
		return s.token.AccessToken, nil
	}

	if s.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.HTTPClient)
	}
	tok, err := s.config.Token(ctx)
	if err != nil {
		return "", &operation.Error{
			Type:        operation.ErrorTypeInvalidCredentials,
			Message:     "failed to obtain access token",
			SuggestText: "Verify client id, client secret and access token URL",
			Cause:       err,
		}
	}
	s.token = tok
	return tok.AccessToken, nil
}

func splitScopes(scope string) []string {
	return strings.FieldsFunc(scope, func(r rune) bool {
		return r == ' ' || r == ','
	})
}
