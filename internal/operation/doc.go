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

// Package operation maps Connect Secure resources and operations to HTTP
// endpoints and builds one outbound request per workflow item.
//
// The package has two parts:
//   - Registry: a static, read-only table of resources. Each resource holds an
//     ordered list of operations, and each operation carries an HTTP method, an
//     endpoint template with {name} placeholders and a parameter schema.
//   - Builder: resolves a (resource, operation) pair plus the host-supplied
//     parameter bags into a Request descriptor (method, URL, headers, query,
//     body).
//
// Placeholder values are resolved in a fixed order: the operation parameter
// bag, then the resource-scoped identifier (placeholder "id" only), then the
// generic query bag. Every placeholder is mandatory.
//
// Build performs no I/O and holds no shared mutable state. Dispatching the
// request is the job of a transport.Transport.
package operation
