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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	require.NotNil(t, r)
	assert.Equal(t, CatalogVersion, r.Version())
	assert.Same(t, r, Default())

	resources := r.Resources()
	require.NotEmpty(t, resources)
	assert.Equal(t, "auth", resources[0].ID)
	assert.Equal(t, "company", resources[1].ID)
}

func TestRegistry_FindOperation(t *testing.T) {
	r := Default()

	op, err := r.FindOperation("company", "updateCompany")
	require.NoError(t, err)
	assert.Equal(t, MethodPut, op.Method)
	assert.Equal(t, "/w/company/companies/{id}", op.Endpoint)
	assert.Equal(t, "Update company", op.Action)

	t.Run("unknown resource", func(t *testing.T) {
		_, err := r.FindOperation("nope", "getCompany")
		require.Error(t, err)
		assert.True(t, IsUnknownOperation(err))
		assert.Contains(t, err.Error(), `"nope"`)
	})

	t.Run("unknown operation", func(t *testing.T) {
		_, err := r.FindOperation("company", "getAgent")
		require.Error(t, err)
		assert.True(t, IsUnknownOperation(err))
		assert.Contains(t, err.Error(), `"getAgent"`)
		assert.Contains(t, err.Error(), `"company"`)
	})
}

func TestRegistry_OperationIDsRepeatAcrossResources(t *testing.T) {
	r := Default()

	a, err := r.FindOperation("assetData", "getAssetSecurityReportData")
	require.NoError(t, err)
	b, err := r.FindOperation("reportQueries", "getAssetSecurityReportData")
	require.NoError(t, err)

	assert.NotEqual(t, a.Endpoint, b.Endpoint)
}

func TestRegistry_ResourcesIsCopy(t *testing.T) {
	r := Default()
	resources := r.Resources()
	resources[0].ID = "mutated"

	_, err := r.FindResource("auth")
	assert.NoError(t, err)
	assert.Equal(t, "auth", r.Resources()[0].ID)
}

func TestRegistry_ReturnedValuesDoNotAlias(t *testing.T) {
	r := Default()

	res, err := r.FindResource("company")
	require.NoError(t, err)
	for i := range res.Operations {
		res.Operations[i].Endpoint = "/changed/{id}"
	}

	resources := r.Resources()
	for i := range resources {
		if resources[i].ID == "company" {
			resources[i].Operations[0].Method = MethodDelete
		}
	}

	op, err := r.FindOperation("agent", "updateAgent")
	require.NoError(t, err)
	op.Parameters[0].Name = "changed"
	op.Parameters[2].Options[0].Value = "CHANGED"

	update, err := r.FindOperation("company", "updateCompany")
	require.NoError(t, err)
	assert.Equal(t, "/w/company/companies/{id}", update.Endpoint)

	list, err := r.FindOperation("company", "getAllCompanies")
	require.NoError(t, err)
	assert.Equal(t, MethodGet, list.Method)

	agent, err := r.FindOperation("agent", "updateAgent")
	require.NoError(t, err)
	assert.Equal(t, "name", agent.Parameters[0].Name)
	assert.Equal(t, "PROBE", agent.Parameters[2].Options[0].Value)
}

func TestNewRegistry_CopiesInput(t *testing.T) {
	resources := Catalog()
	r, err := NewRegistry("test", resources)
	require.NoError(t, err)

	for i := range resources {
		for j := range resources[i].Operations {
			resources[i].Operations[j].Endpoint = "/changed"
		}
	}

	op, err := r.FindOperation("company", "updateCompany")
	require.NoError(t, err)
	assert.Equal(t, "/w/company/companies/{id}", op.Endpoint)
}

func TestCatalog_Invariants(t *testing.T) {
	for _, res := range Default().Resources() {
		assert.NotEmpty(t, res.DefaultOperation, "resource %s", res.ID)
		for _, op := range res.Operations {
			for _, name := range op.Placeholders() {
				if name == "id" {
					assert.NotEmpty(t, res.IDField, "%s.%s uses {id} without an id field", res.ID, op.ID)
				}
			}
		}
	}
}

func TestOperation_Placeholders(t *testing.T) {
	op := Operation{Endpoint: "/a/{x}/b/{y}/{x}"}
	assert.Equal(t, []string{"x", "y"}, op.Placeholders())

	assert.Empty(t, Operation{Endpoint: "/r/company/companies"}.Placeholders())
}

func TestActionText(t *testing.T) {
	assert.Equal(t, "Get company stats", actionText("Get Company Stats"))
	assert.Equal(t, "Get BIOS info", actionText("Get BIOS Info"))
}

func TestNewRegistry_Validation(t *testing.T) {
	valid := func() Resource {
		return Resource{
			ID: "widget",
			Operations: []Operation{
				{ID: "get", Method: MethodGet, Endpoint: "/r/widgets/{id}"},
			},
			IDField: "widgetId",
		}
	}

	tests := []struct {
		name      string
		resources func() []Resource
		errMsg    string
	}{
		{
			name:      "valid",
			resources: func() []Resource { return []Resource{valid()} },
		},
		{
			name:      "duplicate resource",
			resources: func() []Resource { return []Resource{valid(), valid()} },
			errMsg:    `duplicate resource "widget"`,
		},
		{
			name: "missing resource id",
			resources: func() []Resource {
				r := valid()
				r.ID = ""
				return []Resource{r}
			},
			errMsg: "has no id",
		},
		{
			name: "duplicate operation",
			resources: func() []Resource {
				r := valid()
				r.Operations = append(r.Operations, r.Operations[0])
				return []Resource{r}
			},
			errMsg: `duplicate operation "get"`,
		},
		{
			name: "unsupported method",
			resources: func() []Resource {
				r := valid()
				r.Operations[0].Method = "TRACE"
				return []Resource{r}
			},
			errMsg: "unsupported method",
		},
		{
			name: "relative endpoint",
			resources: func() []Resource {
				r := valid()
				r.Operations[0].Endpoint = "r/widgets"
				return []Resource{r}
			},
			errMsg: "must start with /",
		},
		{
			name: "malformed placeholder",
			resources: func() []Resource {
				r := valid()
				r.Operations[0].Endpoint = "/r/widgets/{1bad}"
				return []Resource{r}
			},
			errMsg: "malformed placeholder",
		},
		{
			name: "empty placeholder",
			resources: func() []Resource {
				r := valid()
				r.Operations[0].Endpoint = "/r/widgets/{}"
				return []Resource{r}
			},
			errMsg: "malformed placeholder",
		},
		{
			name: "unbalanced braces",
			resources: func() []Resource {
				r := valid()
				r.Operations[0].Endpoint = "/r/widgets/{id"
				return []Resource{r}
			},
			errMsg: "unbalanced braces",
		},
		{
			name: "duplicate parameter",
			resources: func() []Resource {
				r := valid()
				r.Operations[0].Parameters = []Parameter{
					{Name: "name", Type: ParameterTypeString},
					{Name: "name", Type: ParameterTypeString},
				}
				return []Resource{r}
			},
			errMsg: `duplicate parameter "name"`,
		},
		{
			name: "options without choices",
			resources: func() []Resource {
				r := valid()
				r.Operations[0].Parameters = []Parameter{{Name: "kind", Type: ParameterTypeOptions}}
				return []Resource{r}
			},
			errMsg: "declares no options",
		},
		{
			name: "inject without id field",
			resources: func() []Resource {
				r := valid()
				r.IDField = ""
				r.InjectID = true
				return []Resource{r}
			},
			errMsg: "declares no id field",
		},
		{
			name: "unknown default operation",
			resources: func() []Resource {
				r := valid()
				r.DefaultOperation = "list"
				return []Resource{r}
			},
			errMsg: `default operation "list" not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry("test", tt.resources())
			if tt.errMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, "test", r.Version())
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
