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
	"fmt"
	"strings"
)

// traversalPatterns are path traversal sequences rejected in path values,
// compared case-insensitively.
var traversalPatterns = []string{
	"../",
	"..\\",
	"%2e%2e/",
	"%2e%2e\\",
	"%2e%2e%2f",
	"%2e%2e%5c",
	"..%2f",
	"..%5c",
}

// validatePathValue rejects values that could escape the endpoint path once
// substituted into a template.
func validatePathValue(value string) bool {
	if value == "." || value == ".." {
		return false
	}

	lower := strings.ToLower(value)
	for _, pattern := range traversalPatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}

	// Null bytes
	if strings.Contains(value, "\x00") || strings.Contains(lower, "%00") {
		return false
	}

	return true
}

// sanitizeHeaderValue checks a header value for injection characters.
func sanitizeHeaderValue(name, value string) error {
	for i, c := range value {
		if c == '\r' || c == '\n' || c == '\x00' {
			return &Error{
				Type:        ErrorTypeInvalidHeader,
				Message:     fmt.Sprintf("header %q contains invalid character at position %d", name, i),
				Parameter:   name,
				SuggestText: "Remove line breaks from the credential tenant, user id and token",
			}
		}
	}
	return nil
}

// validateOptions checks options-typed parameters in the operation bag
// against their declared choices. Empty values are not checked.
func validateOptions(resource string, op Operation, bag map[string]any) error {
	for _, p := range op.Parameters {
		if p.Type != ParameterTypeOptions || len(p.Options) == 0 {
			continue
		}
		v, ok := bag[p.Name]
		if !ok || isEmpty(v) {
			continue
		}
		s := stringify(v)
		valid := false
		for _, choice := range p.Options {
			if choice.Value == s {
				valid = true
				break
			}
		}
		if !valid {
			return NewInvalidParameterError(resource, op.ID, p.Name, v, p.optionValues())
		}
	}
	return nil
}
