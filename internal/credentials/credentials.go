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

// Package credentials declares the Connect Secure credential types and the
// token sources that back them.
package credentials

import (
	"fmt"
	"strings"

	"github.com/tombee/connectsecure/internal/operation"
	"github.com/tombee/connectsecure/internal/validate"
)

// Type names a credential type as declared to the host.
type Type string

const (
	// TypeOAuth2 is the OAuth2 client-credentials credential.
	TypeOAuth2 Type = "connectSecureApi"

	// TypeStaticToken carries a pre-issued access token.
	TypeStaticToken Type = "connectSecureToken"
)

// Default endpoint paths, relative to the base URL.
const (
	DefaultAuthPath  = "/w/authorize"
	DefaultTokenPath = "/w/auth/login"
)

// Credential is implemented by every credential type.
type Credential interface {
	Type() Type
	Validate() error
	Identity() operation.Identity
	TokenSource() (TokenSource, error)
}

// ConnectSecureAPI is the OAuth2 client-credentials credential.
type ConnectSecureAPI struct {
	Tenant       string `yaml:"tenant" json:"tenant" validate:"required"`
	ClientID     string `yaml:"client_id" json:"clientId" validate:"required"`
	ClientSecret string `yaml:"client_secret" json:"clientSecret" validate:"required"`
	BaseURL      string `yaml:"base_url" json:"baseUrl" validate:"required,http_url"`
	UserID       string `yaml:"user_id" json:"userId" validate:"required"`

	// AuthURL defaults to <base_url>/w/authorize.
	AuthURL string `yaml:"auth_url,omitempty" json:"authUrl,omitempty" validate:"omitempty,http_url"`

	// AccessTokenURL defaults to <base_url>/w/auth/login.
	AccessTokenURL string `yaml:"access_token_url,omitempty" json:"accessTokenUrl,omitempty" validate:"omitempty,http_url"`

	Scope string `yaml:"scope,omitempty" json:"scope,omitempty"`

	// Authentication selects where client credentials are sent: "header"
	// (basic auth, the default) or "body".
	Authentication string `yaml:"authentication,omitempty" json:"authentication,omitempty" validate:"omitempty,oneof=header body"`
}

// Type implements Credential.
func (c *ConnectSecureAPI) Type() Type { return TypeOAuth2 }

// Validate implements Credential.
func (c *ConnectSecureAPI) Validate() error {
	if err := validate.Struct(c); err != nil {
		return invalid(TypeOAuth2, err)
	}
	return nil
}

// Identity implements Credential.
func (c *ConnectSecureAPI) Identity() operation.Identity {
	return operation.Identity{Tenant: c.Tenant, UserID: c.UserID, BaseURL: c.BaseURL}
}

// ResolvedAuthURL returns the authorization URL with its default applied.
func (c *ConnectSecureAPI) ResolvedAuthURL() string {
	if c.AuthURL != "" {
		return c.AuthURL
	}
	return strings.TrimRight(c.BaseURL, "/") + DefaultAuthPath
}

// ResolvedAccessTokenURL returns the token URL with its default applied.
func (c *ConnectSecureAPI) ResolvedAccessTokenURL() string {
	if c.AccessTokenURL != "" {
		return c.AccessTokenURL
	}
	return strings.TrimRight(c.BaseURL, "/") + DefaultTokenPath
}

// TokenSource implements Credential.
func (c *ConnectSecureAPI) TokenSource() (TokenSource, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return newClientCredentialsSource(c), nil
}

// StaticToken authenticates with a pre-issued bearer token.
type StaticToken struct {
	Tenant      string `yaml:"tenant" json:"tenant" validate:"required"`
	BaseURL     string `yaml:"base_url" json:"baseUrl" validate:"required,http_url"`
	UserID      string `yaml:"user_id" json:"userId" validate:"required"`
	AccessToken string `yaml:"access_token" json:"accessToken" validate:"required"`
}

// Type implements Credential.
func (c *StaticToken) Type() Type { return TypeStaticToken }

// Validate implements Credential.
func (c *StaticToken) Validate() error {
	if err := validate.Struct(c); err != nil {
		return invalid(TypeStaticToken, err)
	}
	return nil
}

// Identity implements Credential.
func (c *StaticToken) Identity() operation.Identity {
	return operation.Identity{Tenant: c.Tenant, UserID: c.UserID, BaseURL: c.BaseURL}
}

// TokenSource implements Credential.
func (c *StaticToken) TokenSource() (TokenSource, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return StaticTokenSource(c.AccessToken), nil
}

func invalid(t Type, err error) error {
	return &operation.Error{
		Type:        operation.ErrorTypeInvalidCredentials,
		Message:     fmt.Sprintf("invalid %s credential", t),
		SuggestText: "Check the credential section of the configuration file",
		Cause:       err,
	}
}
