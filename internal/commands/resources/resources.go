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

// Package resources implements the resources command.
package resources

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tombee/connectsecure/internal/commands/completion"
	"github.com/tombee/connectsecure/internal/commands/shared"
	"github.com/tombee/connectsecure/internal/operation"
)

// ListResponse is the JSON output of the resources command.
type ListResponse struct {
	shared.JSONResponse
	CatalogVersion string               `json:"catalog_version"`
	Resources      []operation.Resource `json:"resources"`
}

// NewResourcesCommand creates the resources command
func NewResourcesCommand() *cobra.Command {
	var resource string

	cmd := &cobra.Command{
		Use:   "resources",
		Short: "List resources and their operations",
		Long: `List the Connect Secure resources known to this build, with the method
and endpoint of every operation.

Use --resource to show a single resource.`,
		Example: `  connectsecure resources
  connectsecure resources --resource company
  connectsecure resources --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResources(cmd.OutOrStdout(), operation.Default(), resource)
		},
	}

	cmd.Flags().StringVarP(&resource, "resource", "r", "", "Only list operations of this resource")
	_ = cmd.RegisterFlagCompletionFunc("resource", completion.CompleteResources)
	return cmd
}

func runResources(out io.Writer, reg *operation.Registry, resourceID string) error {
	resources := reg.Resources()
	if resourceID != "" {
		res, err := reg.FindResource(resourceID)
		if err != nil {
			return shared.NewInvalidInputError("unknown resource", err)
		}
		resources = []operation.Resource{res}
	}

	if shared.GetJSON() {
		return shared.EmitJSON(out, ListResponse{
			JSONResponse:   shared.NewJSONResponse("resources"),
			CatalogVersion: reg.Version(),
			Resources:      resources,
		})
	}

	for i, res := range resources {
		if i > 0 {
			fmt.Fprintln(out)
		}
		title := fmt.Sprintf("%s (%s)", res.Name, res.ID)
		if res.IDField != "" {
			title += " " + shared.RenderLabel("id: "+res.IDField)
		}
		fmt.Fprintln(out, shared.Header.Render(title))
		for _, op := range res.Operations {
			fmt.Fprintf(out, "  %s %-28s %s\n", shared.Method.Render(string(op.Method)), op.ID, shared.RenderLabel(op.Endpoint))
		}
	}
	return nil
}
