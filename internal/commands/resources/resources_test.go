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

package resources

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/connectsecure/internal/commands/shared"
	"github.com/tombee/connectsecure/internal/operation"
)

func TestRunResources_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runResources(&buf, operation.Default(), "company"))

	out := buf.String()
	assert.Contains(t, out, "Company (company)")
	assert.Contains(t, out, "getAllCompanies")
	assert.Contains(t, out, "/r/company/companies/{id}")
	assert.NotContains(t, out, "(agent)")
}

func TestRunResources_JSON(t *testing.T) {
	_, _, jsonPtr, _ := shared.RegisterFlagPointers()
	*jsonPtr = true
	defer shared.ResetFlagsForTest()

	var buf bytes.Buffer
	require.NoError(t, runResources(&buf, operation.Default(), ""))

	var resp ListResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, operation.CatalogVersion, resp.CatalogVersion)
	assert.Len(t, resp.Resources, len(operation.Default().Resources()))
}

func TestRunResources_UnknownResource(t *testing.T) {
	var buf bytes.Buffer
	err := runResources(&buf, operation.Default(), "widgets")
	require.Error(t, err)
	assert.Equal(t, shared.ExitInvalidInput, shared.ExitCodeFor(err))
}

func TestNewResourcesCommand(t *testing.T) {
	cmd := NewResourcesCommand()
	assert.Equal(t, "resources", cmd.Use)
	require.NotNil(t, cmd.Flags().Lookup("resource"))
}
