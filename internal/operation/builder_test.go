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
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://api.example.com"

func testIdentity() Identity {
	return Identity{Tenant: "acme-tenant", UserID: "42", BaseURL: testBaseURL}
}

func encodedBody(t *testing.T, req *Request) string {
	t.Helper()
	b, err := req.EncodeBody()
	require.NoError(t, err)
	return string(b)
}

func TestBuild_PlaceholderPriority(t *testing.T) {
	tests := []struct {
		name       string
		params     map[string]any
		resourceID string
		query      map[string]any
		wantURL    string
	}{
		{
			name:       "operation bag wins",
			params:     map[string]any{"id": "A"},
			resourceID: "B",
			query:      map[string]any{"id": "C"},
			wantURL:    testBaseURL + "/r/company/companies/A",
		},
		{
			name:       "scoped id over query",
			resourceID: "B",
			query:      map[string]any{"id": "C"},
			wantURL:    testBaseURL + "/r/company/companies/B",
		},
		{
			name:    "query bag last",
			query:   map[string]any{"id": "C"},
			wantURL: testBaseURL + "/r/company/companies/C",
		},
		{
			name:       "empty string falls through",
			params:     map[string]any{"id": ""},
			resourceID: "B",
			wantURL:    testBaseURL + "/r/company/companies/B",
		},
		{
			name:    "nil falls through",
			params:  map[string]any{"id": nil},
			query:   map[string]any{"id": "C"},
			wantURL: testBaseURL + "/r/company/companies/C",
		},
		{
			name:    "numeric value",
			params:  map[string]any{"id": float64(123)},
			wantURL: testBaseURL + "/r/company/companies/123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Build(BuildInput{
				Resource:   "company",
				Operation:  "getCompany",
				Parameters: tt.params,
				Query:      tt.query,
				ResourceID: tt.resourceID,
				Identity:   testIdentity(),
				Token:      "tok",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, req.URL)
		})
	}
}

func TestBuild_ScopedIDOnlyForIDPlaceholder(t *testing.T) {
	// getJob takes {id} from companyId but {jobId} never does.
	_, err := Build(BuildInput{
		Resource:   "company",
		Operation:  "getJob",
		ResourceID: "7",
		Identity:   testIdentity(),
	})
	require.Error(t, err)
	assert.True(t, IsMissingParameter(err))

	var opErr *Error
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "jobId", opErr.Parameter)
	assert.Equal(t, "parameter jobId is required for this operation but was not provided", opErr.Message)

	req, err := Build(BuildInput{
		Resource:   "company",
		Operation:  "getJob",
		Parameters: map[string]any{"jobId": "99"},
		ResourceID: "7",
		Identity:   testIdentity(),
	})
	require.NoError(t, err)
	assert.Equal(t, testBaseURL+"/r/company/companies/7/jobs/99", req.URL)
}

func TestBuild_MissingParameter(t *testing.T) {
	_, err := Build(BuildInput{
		Resource:  "company",
		Operation: "getCompany",
		Identity:  testIdentity(),
	})
	require.Error(t, err)
	assert.True(t, IsMissingParameter(err))

	var opErr *Error
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "id", opErr.Parameter)
	assert.True(t, opErr.IsUserError())
	assert.NotEmpty(t, opErr.Suggestion())
}

func TestBuild_ResourceWithoutIDFieldIgnoresScopedID(t *testing.T) {
	_, err := Build(BuildInput{
		Resource:   "firewall",
		Operation:  "getFirewallGroupById",
		ResourceID: "5",
		Identity:   testIdentity(),
	})
	assert.True(t, IsMissingParameter(err))
}

func TestBuild_DeleteHasEmptyBody(t *testing.T) {
	req, err := Build(BuildInput{
		Resource:   "company",
		Operation:  "deleteCompany",
		Parameters: map[string]any{"name": "ignored"},
		Query:      map[string]any{"id": "1", "limit": 5},
		Body:       map[string]any{JSONRequestBodyField: `{"data":{"x":1}}`},
		ResourceID: "1",
		Identity:   testIdentity(),
	})
	require.NoError(t, err)
	assert.Equal(t, MethodDelete, req.Method)
	assert.Equal(t, testBaseURL+"/d/company/companies/1", req.URL)
	assert.Equal(t, "{}", encodedBody(t, req))
	assert.Nil(t, req.Query)
}

func TestBuild_RawJSONBodyVerbatim(t *testing.T) {
	raw := `{"data":{"name":"X","score":1.50,"tags":["a","b"]},"meta":{"dry":true}}`

	req, err := Build(BuildInput{
		Resource:  "company",
		Operation: "createCompany",
		Body:      map[string]any{JSONRequestBodyField: raw, "ignored": "yes"},
		Identity:  testIdentity(),
	})
	require.NoError(t, err)

	assert.JSONEq(t, raw, encodedBody(t, req))
	assert.Contains(t, encodedBody(t, req), `"score":1.50`)
}

func TestBuild_RawJSONNullUsesEmptyEnvelope(t *testing.T) {
	req, err := Build(BuildInput{
		Resource:  "company",
		Operation: "createCompany",
		Body:      map[string]any{JSONRequestBodyField: "null"},
		Identity:  testIdentity(),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{}}`, encodedBody(t, req))

	req, err = Build(BuildInput{
		Resource:   "company",
		Operation:  "updateCompany",
		Body:       map[string]any{JSONRequestBodyField: " null "},
		ResourceID: "9",
		Identity:   testIdentity(),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"id":"9"}}`, encodedBody(t, req))
}

func TestRequest_SetToken(t *testing.T) {
	req, err := Build(BuildInput{Resource: "company", Operation: "getAllCompanies", Identity: testIdentity()})
	require.NoError(t, err)

	require.NoError(t, req.SetToken("fresh"))
	assert.Equal(t, "Bearer fresh", req.Headers["Authorization"])

	err = req.SetToken("bad\r\ninjected")
	require.Error(t, err)
	assert.Equal(t, "Bearer fresh", req.Headers["Authorization"])
}

func TestBuild_InvalidRawJSON(t *testing.T) {
	for _, raw := range []string{`{"data":`, `not json`, `{} {}`} {
		_, err := Build(BuildInput{
			Resource:  "company",
			Operation: "createCompany",
			Body:      map[string]any{JSONRequestBodyField: raw},
			Identity:  testIdentity(),
		})
		require.Error(t, err, raw)
		assert.True(t, IsInvalidJSONBody(err), raw)
		assert.Contains(t, err.Error(), "invalid JSON in request body")
	}
}

func TestBuild_UpdateCompanyInjectsID(t *testing.T) {
	params := map[string]any{"name": "Acme"}

	req, err := Build(BuildInput{
		Resource:   "company",
		Operation:  "updateCompany",
		Parameters: params,
		ResourceID: "123",
		Identity:   testIdentity(),
		Token:      "tok",
	})
	require.NoError(t, err)

	assert.Equal(t, MethodPut, req.Method)
	assert.Equal(t, testBaseURL+"/w/company/companies/123", req.URL)
	assert.JSONEq(t, `{"data":{"name":"Acme","id":"123"}}`, encodedBody(t, req))
	assert.Nil(t, req.Query)

	// caller's map is untouched
	assert.Equal(t, map[string]any{"name": "Acme"}, params)
}

func TestBuild_BodySources(t *testing.T) {
	tests := []struct {
		name       string
		resource   string
		operation  string
		params     map[string]any
		body       map[string]any
		resourceID string
		want       string
	}{
		{
			name:      "default envelope",
			resource:  "company",
			operation: "createCompany",
			want:      `{"data":{}}`,
		},
		{
			name:       "default envelope with injected id",
			resource:   "company",
			operation:  "createCompany",
			resourceID: "9",
			want:       `{"data":{"id":"9"}}`,
		},
		{
			name:      "generic body bag",
			resource:  "company",
			operation: "createCompany",
			body:      map[string]any{"name": "Acme", JSONRequestBodyField: ""},
			want:      `{"data":{"name":"Acme"}}`,
		},
		{
			name:      "operation bag beats raw JSON",
			resource:  "company",
			operation: "createCompany",
			params:    map[string]any{"name": "Acme"},
			body:      map[string]any{JSONRequestBodyField: `{"data":{"name":"Other"}}`},
			want:      `{"data":{"name":"Acme"}}`,
		},
		{
			name:       "raw JSON gets injected id",
			resource:   "agent",
			operation:  "updateAgent",
			body:       map[string]any{JSONRequestBodyField: `{"data":{"name":"probe-1"}}`},
			resourceID: "55",
			want:       `{"data":{"name":"probe-1","id":"55"}}`,
		},
		{
			name:       "raw JSON without data object is left alone",
			resource:   "agent",
			operation:  "updateAgent",
			body:       map[string]any{JSONRequestBodyField: `{"data":[1,2]}`},
			resourceID: "55",
			want:       `{"data":[1,2]}`,
		},
		{
			name:      "structured raw body",
			resource:  "company",
			operation: "createCompany",
			body:      map[string]any{JSONRequestBodyField: map[string]any{"data": map[string]any{"name": "Y"}}},
			want:      `{"data":{"name":"Y"}}`,
		},
		{
			name:       "no injection for resources without it",
			resource:   "reportBuilder",
			operation:  "updateStandardReportSettings",
			params:     map[string]any{"schedule": "weekly"},
			resourceID: "1",
			want:       `{"data":{"schedule":"weekly"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := BuildInput{
				Resource:   tt.resource,
				Operation:  tt.operation,
				Parameters: tt.params,
				Body:       tt.body,
				ResourceID: tt.resourceID,
				Identity:   testIdentity(),
			}
			req, err := Build(in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, encodedBody(t, req))
		})
	}
}

func TestBuild_RawJSONNotMutatedAcrossBuilds(t *testing.T) {
	inner := map[string]any{"name": "Y"}
	body := map[string]any{JSONRequestBodyField: map[string]any{"data": inner}}

	_, err := Build(BuildInput{
		Resource:   "company",
		Operation:  "createCompany",
		Body:       body,
		ResourceID: "3",
		Identity:   testIdentity(),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Y"}, inner)
}

func TestBuild_ReadQuery(t *testing.T) {
	req, err := Build(BuildInput{
		Resource:  "company",
		Operation: "getAllCompanies",
		Query:     map[string]any{"limit": 10, "offset": 0},
		Identity:  testIdentity(),
		Token:     "tok",
	})
	require.NoError(t, err)

	assert.Equal(t, MethodGet, req.Method)
	assert.Nil(t, req.Body)
	assert.Equal(t, "limit=10&offset=0", req.Query.Encode())
	assert.Equal(t, testBaseURL+"/r/company/companies?limit=10&offset=0", req.FullURL())

	b, err := req.EncodeBody()
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestBuild_QueryStringification(t *testing.T) {
	req, err := Build(BuildInput{
		Resource:  "company",
		Operation: "getAllCompanies",
		Query: map[string]any{
			"limit":  float64(50),
			"ratio":  0.25,
			"big":    float64(1e21),
			"active": true,
			"sort":   "id:asc",
			"tags":   []any{"a", "b"},
			"skip":   nil,
		},
		Identity: testIdentity(),
	})
	require.NoError(t, err)

	assert.Equal(t, "50", req.Query.Get("limit"))
	assert.Equal(t, "0.25", req.Query.Get("ratio"))
	assert.Equal(t, "1000000000000000000000", req.Query.Get("big"))
	assert.Equal(t, "true", req.Query.Get("active"))
	assert.Equal(t, "id:asc", req.Query.Get("sort"))
	assert.Equal(t, []string{"a", "b"}, req.Query["tags"])
	_, ok := req.Query["skip"]
	assert.False(t, ok)
}

func TestBuild_NoQueryOnWrites(t *testing.T) {
	req, err := Build(BuildInput{
		Resource:  "company",
		Operation: "createCompany",
		Query:     map[string]any{"limit": 10},
		Identity:  testIdentity(),
	})
	require.NoError(t, err)
	assert.Nil(t, req.Query)
	assert.Equal(t, testBaseURL+"/w/company/companies", req.FullURL())
}

func TestBuild_Headers(t *testing.T) {
	req, err := Build(BuildInput{
		Resource:  "company",
		Operation: "getAllCompanies",
		Identity:  testIdentity(),
		Token:     "secret-token",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"X-Tenant":      "acme-tenant",
		"X-USER-ID":     "42",
		"Authorization": "Bearer secret-token",
	}, req.Headers)
}

func TestBuild_HeaderInjection(t *testing.T) {
	id := testIdentity()
	id.Tenant = "acme\r\nX-Evil: 1"

	_, err := Build(BuildInput{
		Resource:  "company",
		Operation: "getAllCompanies",
		Identity:  id,
	})
	require.Error(t, err)
	typ, ok := TypeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrorTypeInvalidHeader, typ)
}

func TestBuild_PathValues(t *testing.T) {
	t.Run("escaped", func(t *testing.T) {
		req, err := Build(BuildInput{
			Resource:   "company",
			Operation:  "getCompany",
			Parameters: map[string]any{"id": "a b/c"},
			Identity:   testIdentity(),
		})
		require.NoError(t, err)
		assert.Equal(t, testBaseURL+"/r/company/companies/a%20b%2Fc", req.URL)
	})

	for _, value := range []string{"..", ".", "../admin", "%2e%2e%2fadmin", "x%00"} {
		t.Run("rejects "+value, func(t *testing.T) {
			_, err := Build(BuildInput{
				Resource:   "company",
				Operation:  "getCompany",
				Parameters: map[string]any{"id": value},
				Identity:   testIdentity(),
			})
			require.Error(t, err)
			typ, _ := TypeOf(err)
			assert.Equal(t, ErrorTypePathInjection, typ)
			assert.NotContains(t, err.Error(), value)
		})
	}
}

func TestBuild_BaseURLJoin(t *testing.T) {
	id := testIdentity()
	id.BaseURL = testBaseURL + "//"

	req, err := Build(BuildInput{Resource: "bios", Operation: "getBiosInfo", Identity: id})
	require.NoError(t, err)
	assert.Equal(t, testBaseURL+"/r/asset/bios_info", req.URL)

	id.BaseURL = ""
	_, err = Build(BuildInput{Resource: "bios", Operation: "getBiosInfo", Identity: id})
	typ, _ := TypeOf(err)
	assert.Equal(t, ErrorTypeInvalidCredentials, typ)
}

func TestBuild_InvalidOption(t *testing.T) {
	_, err := Build(BuildInput{
		Resource:   "credentials",
		Operation:  "createCredential",
		Parameters: map[string]any{"credential_type": "kerberos"},
		Identity:   testIdentity(),
	})
	require.Error(t, err)
	typ, _ := TypeOf(err)
	assert.Equal(t, ErrorTypeInvalidParameter, typ)

	req, err := Build(BuildInput{
		Resource:   "credentials",
		Operation:  "createCredential",
		Parameters: map[string]any{"credential_type": "ssh"},
		Identity:   testIdentity(),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"credential_type":"ssh"}}`, encodedBody(t, req))
}

func TestBuild_UnknownPair(t *testing.T) {
	for _, in := range []BuildInput{
		{Resource: "company", Operation: "launchRocket"},
		{Resource: "spaceship", Operation: "getCompany"},
		{Resource: "agent", Operation: "getCompany"},
	} {
		in.Identity = testIdentity()
		_, err := Build(in)
		require.Error(t, err)
		assert.True(t, IsUnknownOperation(err), "%s/%s", in.Resource, in.Operation)
	}
}

func TestBuild_SameOperationIDDifferentResources(t *testing.T) {
	a, err := Build(BuildInput{
		Resource:   "assetData",
		Operation:  "getAssetSecurityReportData",
		Parameters: map[string]any{"assetId": "10"},
		Identity:   testIdentity(),
	})
	require.NoError(t, err)
	assert.Equal(t, testBaseURL+"/r/asset/assets/10/security_report_data", a.URL)

	b, err := Build(BuildInput{
		Resource:  "reportQueries",
		Operation: "getAssetSecurityReportData",
		Identity:  testIdentity(),
	})
	require.NoError(t, err)
	assert.Equal(t, testBaseURL+"/r/report_queries/asset_security_report_data", b.URL)
}

// Every placeholder in the catalog resolves from each source on its own.
func TestBuild_EveryPlaceholderResolvesFromEachSource(t *testing.T) {
	registry := Default()
	builder := NewBuilder(registry)

	for _, res := range registry.Resources() {
		for _, op := range res.Operations {
			names := op.Placeholders()
			if len(names) == 0 {
				continue
			}

			expected := op.Endpoint
			values := make(map[string]any, len(names))
			for _, name := range names {
				values[name] = "v-" + name
				expected = strings.ReplaceAll(expected, "{"+name+"}", "v-"+name)
			}
			expected = testBaseURL + expected

			t.Run(res.ID+"/"+op.ID+"/operation", func(t *testing.T) {
				req, err := builder.Build(BuildInput{
					Resource: res.ID, Operation: op.ID,
					Parameters: values, Identity: testIdentity(),
				})
				require.NoError(t, err)
				assert.Equal(t, expected, req.URL)
			})

			t.Run(res.ID+"/"+op.ID+"/query", func(t *testing.T) {
				req, err := builder.Build(BuildInput{
					Resource: res.ID, Operation: op.ID,
					Query: values, Identity: testIdentity(),
				})
				require.NoError(t, err)
				assert.Equal(t, expected, req.URL)
			})

			if res.IDField == "" || !containsString(names, "id") {
				continue
			}

			t.Run(res.ID+"/"+op.ID+"/scoped", func(t *testing.T) {
				others := make(map[string]any, len(values))
				for k, v := range values {
					if k != "id" {
						others[k] = v
					}
				}
				req, err := builder.Build(BuildInput{
					Resource: res.ID, Operation: op.ID,
					Parameters: others, ResourceID: "v-id", Identity: testIdentity(),
				})
				require.NoError(t, err)
				assert.Equal(t, expected, req.URL)
			})
		}
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestRequest_Redacted(t *testing.T) {
	req, err := Build(BuildInput{
		Resource:  "company",
		Operation: "getAllCompanies",
		Identity:  testIdentity(),
		Token:     "secret-token",
	})
	require.NoError(t, err)

	red := req.Redacted()
	assert.Equal(t, "Bearer [REDACTED]", red.Headers["Authorization"])
	assert.Equal(t, "Bearer secret-token", req.Headers["Authorization"])

	out, err := json.Marshal(red)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret-token")
}

func TestRequest_Transport(t *testing.T) {
	req, err := Build(BuildInput{
		Resource:   "company",
		Operation:  "updateCompany",
		Parameters: map[string]any{"name": "Acme"},
		ResourceID: "123",
		Identity:   testIdentity(),
		Token:      "tok",
	})
	require.NoError(t, err)

	tr, err := req.Transport()
	require.NoError(t, err)
	assert.Equal(t, "PUT", tr.Method)
	assert.Equal(t, testBaseURL+"/w/company/companies/123", tr.URL)
	assert.Equal(t, "Bearer tok", tr.Headers["Authorization"])
	assert.JSONEq(t, `{"data":{"name":"Acme","id":"123"}}`, string(tr.Body))
}
