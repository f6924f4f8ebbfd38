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

// Package describe implements the describe command.
package describe

import (
	"github.com/spf13/cobra"
	"github.com/tombee/connectsecure/internal/commands/shared"
	"github.com/tombee/connectsecure/internal/node"
	"github.com/tombee/connectsecure/internal/operation"
)

// NewDescribeCommand creates the describe command
func NewDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the node description",
		Long: `Print the node description as JSON: its name, credential reference and
the property schema a workflow editor renders for resource, operation,
identifier, query and body fields.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shared.EmitJSON(cmd.OutOrStdout(), node.Describe(operation.Default()))
		},
	}
}
