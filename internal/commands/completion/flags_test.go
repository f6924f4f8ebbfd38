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
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func ids(completions []string) []string {
	out := make([]string, len(completions))
	for i, c := range completions {
		out[i], _, _ = strings.Cut(c, "\t")
	}
	return out
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func TestCompleteResources(t *testing.T) {
	completions, directive := CompleteResources(nil, nil, "")

	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("expected ShellCompDirectiveNoFileComp, got %v", directive)
	}
	if !contains(ids(completions), "company") {
		t.Errorf("expected company in %v", completions)
	}
}

func TestCompleteOperations(t *testing.T) {
	cmd := &cobra.Command{Use: "build"}
	cmd.Flags().String("resource", "", "")

	all, _ := CompleteOperations(cmd, nil, "")

	if err := cmd.Flags().Set("resource", "company"); err != nil {
		t.Fatal(err)
	}
	scoped, _ := CompleteOperations(cmd, nil, "")

	if !contains(ids(scoped), "getCompany") {
		t.Errorf("expected getCompany in %v", scoped)
	}
	if len(scoped) >= len(all) {
		t.Errorf("expected scoped list (%d) to be shorter than full list (%d)", len(scoped), len(all))
	}

	if err := cmd.Flags().Set("resource", "widgets"); err != nil {
		t.Fatal(err)
	}
	none, _ := CompleteOperations(cmd, nil, "")
	if len(none) != 0 {
		t.Errorf("expected no completions for unknown resource, got %v", none)
	}
}

func TestSafeCompletionWrapper(t *testing.T) {
	results, directive := SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		panic("boom")
	})
	if len(results) != 0 || directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("expected empty results after panic, got %v %v", results, directive)
	}
}

func TestCompletionCommand(t *testing.T) {
	root := &cobra.Command{Use: "connectsecure"}
	root.AddCommand(NewCommand())

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	if !strings.Contains(buf.String(), "connectsecure") {
		t.Error("expected bash completion script to reference the command name")
	}

	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.Execute(); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
