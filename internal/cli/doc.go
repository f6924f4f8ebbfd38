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

/*
Package cli provides the root command for the connectsecure CLI.

This package creates the Cobra root command and handles global concerns like
version information, persistent flags, and error handling. Individual commands
are implemented in the internal/commands subpackages and attached in main.

# Command Tree

	connectsecure
	├── resources     List resources and operations
	├── describe      Print the node description
	├── build         Build a request without sending it
	├── run           Execute items against the API
	├── mcp           Serve MCP tools over stdio
	├── secret        Store credentials in the system keychain
	├── completion    Generate shell completion scripts
	└── version       Show version

# Global Flags

	--config   Path to config file
	--verbose  Enable debug logging
	--quiet    Only log errors
	--json     Output in JSON format
*/
package cli
