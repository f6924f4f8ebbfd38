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

package completion

import (
	"github.com/spf13/cobra"

	"github.com/tombee/connectsecure/internal/operation"
)

// CompleteResources completes --resource with the catalog's resource IDs.
func CompleteResources(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		resources := operation.Default().Resources()
		out := make([]string, 0, len(resources))
		for _, res := range resources {
			out = append(out, res.ID+"\t"+res.Description)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
}

// CompleteOperations completes --operation with the operations of the
// resource given in --resource, or of every resource when it is unset.
func CompleteOperations(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		reg := operation.Default()
		resources := reg.Resources()

		if cmd != nil {
			if id, err := cmd.Flags().GetString("resource"); err == nil && id != "" {
				res, err := reg.FindResource(id)
				if err != nil {
					return nil, cobra.ShellCompDirectiveNoFileComp
				}
				resources = []operation.Resource{res}
			}
		}

		var out []string
		for _, res := range resources {
			for _, op := range res.Operations {
				out = append(out, op.ID+"\t"+string(op.Method)+" "+op.Endpoint)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
}

// CompleteItemsFiles restricts file completion to JSON and YAML.
func CompleteItemsFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"json", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}

// SafeCompletionWrapper runs fn and turns panics and nil results into an
// empty completion list.
func SafeCompletionWrapper(fn func() ([]string, cobra.ShellCompDirective)) (results []string, directive cobra.ShellCompDirective) {
	results = []string{}
	directive = cobra.ShellCompDirectiveNoFileComp

	defer func() {
		if r := recover(); r != nil {
			results = []string{}
			directive = cobra.ShellCompDirectiveNoFileComp
		}
	}()

	results, directive = fn()
	if results == nil {
		return []string{}, cobra.ShellCompDirectiveNoFileComp
	}
	return results, directive
}
