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
Package node runs Connect Secure operations for a batch of workflow items.

Each Item selects a resource and operation and carries the parameter bags
the host collected for it. Node.Execute processes items sequentially: it
evaluates "={{ ... }}" expressions against the item's input JSON, obtains a
bearer token from the credential, builds the request descriptor with the
operation package, and dispatches it through a transport.Transport.

For N items Execute returns N outputs in input order. When continue on
failure is enabled a failed item yields {"error": message}; otherwise the
first failure stops the batch and is returned as an *ItemError.

Description returns the node-type declaration derived from the registry, for
hosts that render the parameter form.
*/
package node
