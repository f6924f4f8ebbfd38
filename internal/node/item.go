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

package node

import (
	"fmt"
	"strconv"
)

// Item is one unit of host input.
type Item struct {
	// JSON is the item's input data, visible to expressions as "json".
	JSON map[string]any `json:"json,omitempty" yaml:"json,omitempty"`

	Resource  string `json:"resource" yaml:"resource"`
	Operation string `json:"operation" yaml:"operation"`

	// Parameters is the operation-specific bag.
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`

	// Query is the generic query bag ("queryParameters").
	Query map[string]any `json:"query,omitempty" yaml:"query,omitempty"`

	// Body is the generic body bag ("bodyParameters"), which may hold
	// jsonRequestBody.
	Body map[string]any `json:"body,omitempty" yaml:"body,omitempty"`

	// ResourceID is used when the resource-specific id field is empty.
	ResourceID string `json:"resourceId,omitempty" yaml:"resourceId,omitempty"`

	CompanyID               string `json:"companyId,omitempty" yaml:"companyId,omitempty"`
	AgentID                 string `json:"agentId,omitempty" yaml:"agentId,omitempty"`
	CredentialID            string `json:"credentialId,omitempty" yaml:"credentialId,omitempty"`
	DiscoverySettingID      string `json:"discoverySettingId,omitempty" yaml:"discoverySettingId,omitempty"`
	AssetID                 string `json:"assetId,omitempty" yaml:"assetId,omitempty"`
	MappingID               string `json:"mappingId,omitempty" yaml:"mappingId,omitempty"`
	VulnerabilityID         string `json:"vulnerabilityId,omitempty" yaml:"vulnerabilityId,omitempty"`
	IntegrationCredentialID string `json:"integrationCredentialId,omitempty" yaml:"integrationCredentialId,omitempty"`
}

// ScopedID returns the identifier held in the named host field, falling back
// to ResourceID.
func (it Item) ScopedID(idField string) string {
	var v string
	switch idField {
	case "companyId":
		v = it.CompanyID
	case "agentId":
		v = it.AgentID
	case "credentialId":
		v = it.CredentialID
	case "discoverySettingId":
		v = it.DiscoverySettingID
	case "assetId":
		v = it.AssetID
	case "mappingId":
		v = it.MappingID
	case "vulnerabilityId":
		v = it.VulnerabilityID
	case "integrationCredentialId":
		v = it.IntegrationCredentialID
	}
	if v == "" {
		return it.ResourceID
	}
	return v
}

// Output is the result for one item.
type Output struct {
	// JSON is the decoded vendor response, or {"error": message}.
	JSON any `json:"json"`

	// PairedItem is the index of the input item.
	PairedItem int `json:"pairedItem"`

	// Err is set for error records.
	Err error `json:"-"`
}

// ItemError is returned by Execute when an item fails and continue on
// failure is off.
type ItemError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

// Unwrap returns the item's error.
func (e *ItemError) Unwrap() error {
	return e.Err
}

func errorRecord(index int, err error) Output {
	return Output{
		JSON:       map[string]any{"error": err.Error()},
		PairedItem: index,
		Err:        err,
	}
}

// scalarString renders an evaluated expression result for a string field.
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprint(t)
	}
}
