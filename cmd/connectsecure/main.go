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

package main

import (
	"github.com/tombee/connectsecure/internal/cli"
	"github.com/tombee/connectsecure/internal/commands/build"
	"github.com/tombee/connectsecure/internal/commands/completion"
	"github.com/tombee/connectsecure/internal/commands/describe"
	"github.com/tombee/connectsecure/internal/commands/mcp"
	"github.com/tombee/connectsecure/internal/commands/resources"
	"github.com/tombee/connectsecure/internal/commands/run"
	"github.com/tombee/connectsecure/internal/commands/secret"
	versioncmd "github.com/tombee/connectsecure/internal/commands/version"
)

// Version information (injected via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildDate)

	rootCmd := cli.NewRootCommand()
	rootCmd.AddCommand(
		resources.NewResourcesCommand(),
		describe.NewDescribeCommand(),
		build.NewBuildCommand(),
		run.NewRunCommand(),
		mcp.NewMCPCommand(),
		secret.NewSecretCommand(),
		versioncmd.NewVersionCommand(),
		completion.NewCommand(),
	)

	cli.HandleExitError(rootCmd.Execute())
}
