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
	"strings"

	"github.com/tombee/connectsecure/internal/credentials"
	"github.com/tombee/connectsecure/internal/operation"
)

// Node type identity.
const (
	TypeName        = "connectSecure"
	TypeDisplayName = "Connect Secure"
	TypeVersion     = 1
)

// Description is the node-type declaration a host renders.
type Description struct {
	DisplayName    string            `json:"displayName"`
	Name           string            `json:"name"`
	Group          []string          `json:"group"`
	Version        int               `json:"version"`
	Subtitle       string            `json:"subtitle"`
	Description    string            `json:"description"`
	Defaults       map[string]string `json:"defaults"`
	Inputs         []string          `json:"inputs"`
	Outputs        []string          `json:"outputs"`
	Credentials    []CredentialRef   `json:"credentials"`
	CatalogVersion string            `json:"catalogVersion"`
	Properties     []Property        `json:"properties"`
}

// CredentialRef names a credential type the node accepts.
type CredentialRef struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// Property is one field of the node's parameter form.
type Property struct {
	DisplayName      string           `json:"displayName"`
	Name             string           `json:"name"`
	Type             string           `json:"type"`
	Default          any              `json:"default"`
	Required         bool             `json:"required,omitempty"`
	NoDataExpression bool             `json:"noDataExpression,omitempty"`
	Description      string           `json:"description,omitempty"`
	Placeholder      string           `json:"placeholder,omitempty"`
	Options          []PropertyOption `json:"options,omitempty"`
	Values           []Property       `json:"values,omitempty"`
	DisplayOptions   *DisplayOptions  `json:"displayOptions,omitempty"`
}

// PropertyOption is one choice of an options property.
type PropertyOption struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Action      string `json:"action,omitempty"`
	Method      string `json:"method,omitempty"`
}

// DisplayOptions shows a property only when every listed field holds one
// of the listed values.
type DisplayOptions struct {
	Show map[string][]string `json:"show"`
}

// Property names shared by every operation.
const (
	PropertyResource  = "resource"
	PropertyOperation = "operation"
	PropertyQuery     = "queryParameters"
	PropertyBody      = "bodyParameters"
)

// Description returns the declaration for the node's registry.
func (n *Node) Description() Description {
	return Describe(n.Registry())
}

// Describe derives the node-type declaration from a registry.
func Describe(reg *operation.Registry) Description {
	if reg == nil {
		reg = operation.Default()
	}
	resources := reg.Resources()

	d := Description{
		DisplayName:    TypeDisplayName,
		Name:           TypeName,
		Group:          []string{"transform"},
		Version:        TypeVersion,
		Subtitle:       `={{$parameter["operation"] + ": " + $parameter["resource"]}}`,
		Description:    "Consume Connect Secure API",
		Defaults:       map[string]string{"name": TypeDisplayName},
		Inputs:         []string{"main"},
		Outputs:        []string{"main"},
		Credentials:    []CredentialRef{{Name: string(credentials.TypeOAuth2), Required: true}},
		CatalogVersion: reg.Version(),
	}

	d.Properties = append(d.Properties, resourceProperty(resources))
	for _, res := range resources {
		d.Properties = append(d.Properties, operationProperty(res))
	}
	d.Properties = append(d.Properties, idFieldProperties(resources)...)
	d.Properties = append(d.Properties, queryProperty(), bodyProperty())
	for _, res := range resources {
		for _, op := range res.Operations {
			if len(op.Parameters) == 0 {
				continue
			}
			d.Properties = append(d.Properties, parametersProperty(res, op))
		}
	}
	return d
}

func resourceProperty(resources []operation.Resource) Property {
	p := Property{
		DisplayName:      "Resource",
		Name:             PropertyResource,
		Type:             string(operation.ParameterTypeOptions),
		Default:          "company",
		Required:         true,
		NoDataExpression: true,
	}
	for _, res := range resources {
		p.Options = append(p.Options, PropertyOption{
			Name:        res.Name,
			Value:       res.ID,
			Description: res.Description,
		})
	}
	return p
}

func operationProperty(res operation.Resource) Property {
	p := Property{
		DisplayName:      "Operation",
		Name:             PropertyOperation,
		Type:             string(operation.ParameterTypeOptions),
		Default:          res.DefaultOperation,
		NoDataExpression: true,
		DisplayOptions:   show(PropertyResource, res.ID),
	}
	for _, op := range res.Operations {
		p.Options = append(p.Options, PropertyOption{
			Name:        op.Name,
			Value:       op.ID,
			Description: op.Description,
			Action:      op.Action,
			Method:      string(op.Method),
		})
	}
	return p
}

// idFieldProperties declares one field per distinct resource id field, shown
// for the operations whose endpoint uses {id}.
func idFieldProperties(resources []operation.Resource) []Property {
	var order []string
	byField := map[string]*DisplayOptions{}

	for _, res := range resources {
		if res.IDField == "" {
			continue
		}
		var ops []string
		for _, op := range res.Operations {
			for _, name := range op.Placeholders() {
				if name == "id" {
					ops = append(ops, op.ID)
					break
				}
			}
		}
		if len(ops) == 0 {
			continue
		}
		opts, ok := byField[res.IDField]
		if !ok {
			opts = &DisplayOptions{Show: map[string][]string{}}
			byField[res.IDField] = opts
			order = append(order, res.IDField)
		}
		opts.Show[PropertyResource] = append(opts.Show[PropertyResource], res.ID)
		opts.Show[PropertyOperation] = append(opts.Show[PropertyOperation], ops...)
	}

	props := make([]Property, 0, len(order))
	for _, field := range order {
		props = append(props, Property{
			DisplayName:    fieldDisplayName(field),
			Name:           field,
			Type:           string(operation.ParameterTypeString),
			Default:        "",
			Required:       true,
			DisplayOptions: byField[field],
		})
	}
	return props
}

func queryProperty() Property {
	return Property{
		DisplayName: "Query Parameters",
		Name:        PropertyQuery,
		Type:        "collection",
		Default:     map[string]any{},
		Placeholder: "Add Parameter",
		Values: []Property{
			{DisplayName: "Limit", Name: "limit", Type: string(operation.ParameterTypeNumber), Default: 50, Description: "Max number of results to return"},
			{DisplayName: "Offset", Name: "offset", Type: string(operation.ParameterTypeNumber), Default: 0, Description: "Number of results to skip"},
			{DisplayName: "Sort", Name: "sort", Type: string(operation.ParameterTypeString), Default: "", Description: "Field to sort by"},
			{DisplayName: "Filter", Name: "filter", Type: string(operation.ParameterTypeString), Default: "", Description: "Filter expression"},
		},
	}
}

func bodyProperty() Property {
	return Property{
		DisplayName: "Body Parameters",
		Name:        PropertyBody,
		Type:        "collection",
		Default:     map[string]any{},
		Placeholder: "Add Parameter",
		Values: []Property{
			{
				DisplayName: "JSON Request Body",
				Name:        operation.JSONRequestBodyField,
				Type:        string(operation.ParameterTypeJSON),
				Default:     `{"data": {}}`,
				Description: "Raw JSON body sent as-is",
			},
		},
	}
}

func parametersProperty(res operation.Resource, op operation.Operation) Property {
	p := Property{
		DisplayName: "Operation Parameters",
		Name:        op.ID + "Parameters",
		Type:        "collection",
		Default:     map[string]any{},
		Placeholder: "Add Parameter",
		DisplayOptions: &DisplayOptions{Show: map[string][]string{
			PropertyResource:  {res.ID},
			PropertyOperation: {op.ID},
		}},
	}
	for _, param := range op.Parameters {
		field := Property{
			DisplayName: param.DisplayName,
			Name:        param.Name,
			Type:        string(param.Type),
			Default:     param.Default,
			Required:    param.Required,
			Description: param.Description,
		}
		if field.Default == nil {
			field.Default = ""
		}
		for _, o := range param.Options {
			field.Options = append(field.Options, PropertyOption{Name: o.Name, Value: o.Value})
		}
		p.Values = append(p.Values, field)
	}
	return p
}

func show(field string, values ...string) *DisplayOptions {
	return &DisplayOptions{Show: map[string][]string{field: values}}
}

// fieldDisplayName turns "discoverySettingId" into "Discovery Setting ID".
func fieldDisplayName(field string) string {
	base := strings.TrimSuffix(field, "Id")
	var b strings.Builder
	for i, r := range base {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		if i == 0 {
			b.WriteString(strings.ToUpper(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	b.WriteString(" ID")
	return b.String()
}
