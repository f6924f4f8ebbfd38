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

// Package build implements the build command, which prints the request an
// item would produce without sending it.
package build

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tombee/connectsecure/internal/commands/completion"
	"github.com/tombee/connectsecure/internal/commands/shared"
	"github.com/tombee/connectsecure/internal/operation"
)

// Response is the JSON output of the build command.
type Response struct {
	shared.JSONResponse
	Request *operation.Request `json:"request"`
}

type options struct {
	resource  string
	operation string
	params    []string
	query     []string
	body      []string
	jsonBody  string
	id        string
	baseURL   string
	tenant    string
	userID    string
}

// NewBuildCommand creates the build command
func NewBuildCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a request without sending it",
		Long: `Build the HTTP request for one resource and operation and print it with
the bearer token redacted. No credentials are exchanged and nothing is sent.

Values given as key=value are decoded as JSON when they parse, so
limit=10 is a number and enabled=true a boolean; anything else is a string.`,
		Example: `  connectsecure build -r company -o getCompany --id 42
  connectsecure build -r asset -o getAllAssets --query limit=10 --query skip=20
  connectsecure build -r company -o createCompany --param name=Acme
  connectsecure build -r agent -o updateAgent --id 7 --json-body '{"data":{"name":"x"}}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shared.LoadConfig()
			if err != nil {
				return err
			}
			identity := operation.Identity{
				Tenant:  cfg.Credentials.Tenant,
				UserID:  cfg.Credentials.UserID,
				BaseURL: cfg.Credentials.BaseURL,
			}
			return runBuild(cmd.OutOrStdout(), opts, identity)
		},
	}

	bindFlags(cmd.Flags(), &opts)
	_ = cmd.MarkFlagRequired("resource")
	_ = cmd.MarkFlagRequired("operation")
	_ = cmd.RegisterFlagCompletionFunc("resource", completion.CompleteResources)
	_ = cmd.RegisterFlagCompletionFunc("operation", completion.CompleteOperations)

	return cmd
}

func bindFlags(f *pflag.FlagSet, opts *options) {
	f.StringVarP(&opts.resource, "resource", "r", "", "Resource ID (see 'connectsecure resources')")
	f.StringVarP(&opts.operation, "operation", "o", "", "Operation ID")
	f.StringArrayVarP(&opts.params, "param", "p", nil, "Operation parameter as key=value (repeatable)")
	f.StringArrayVar(&opts.query, "query", nil, "Query parameter as key=value (repeatable)")
	f.StringArrayVar(&opts.body, "body", nil, "Body parameter as key=value (repeatable)")
	f.StringVar(&opts.jsonBody, "json-body", "", "Raw JSON request body")
	f.StringVar(&opts.id, "id", "", "Resource-scoped identifier")
	f.StringVar(&opts.baseURL, "base-url", "", "Override the API base URL")
	f.StringVar(&opts.tenant, "tenant", "", "Override the tenant header")
	f.StringVar(&opts.userID, "user-id", "", "Override the user ID header")
}

func runBuild(out io.Writer, opts options, identity operation.Identity) error {
	in, err := opts.input(identity)
	if err != nil {
		return shared.NewInvalidInputError("invalid flags", err)
	}

	req, err := operation.Build(in)
	if err != nil {
		return err
	}
	req = req.Redacted()

	if shared.GetJSON() {
		return shared.EmitJSON(out, Response{
			JSONResponse: shared.NewJSONResponse("build"),
			Request:      req,
		})
	}
	return printRequest(out, req)
}

func (o options) input(identity operation.Identity) (operation.BuildInput, error) {
	if o.baseURL != "" {
		identity.BaseURL = o.baseURL
	}
	if o.tenant != "" {
		identity.Tenant = o.tenant
	}
	if o.userID != "" {
		identity.UserID = o.userID
	}

	in := operation.BuildInput{
		Resource:   o.resource,
		Operation:  o.operation,
		ResourceID: o.id,
		Identity:   identity,
	}

	var err error
	if in.Parameters, err = parseKeyValues(o.params); err != nil {
		return in, fmt.Errorf("--param: %w", err)
	}
	if in.Query, err = parseKeyValues(o.query); err != nil {
		return in, fmt.Errorf("--query: %w", err)
	}
	if in.Body, err = parseKeyValues(o.body); err != nil {
		return in, fmt.Errorf("--body: %w", err)
	}
	if o.jsonBody != "" {
		if in.Body == nil {
			in.Body = map[string]any{}
		}
		in.Body[operation.JSONRequestBodyField] = o.jsonBody
	}
	return in, nil
}

// parseKeyValues parses key=value pairs. Values that are valid JSON are
// decoded, preserving number text.
func parseKeyValues(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid format %q (expected key=value)", pair)
		}
		values[key] = decodeValue(raw)
	}
	return values, nil
}

func decodeValue(raw string) any {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	return v
}

func printRequest(out io.Writer, req *operation.Request) error {
	fmt.Fprintf(out, "%s %s\n", shared.Method.Render(string(req.Method)), req.FullURL())

	names := make([]string, 0, len(req.Headers))
	for name := range req.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%s %s\n", shared.RenderLabel(name+":"), req.Headers[name])
	}

	if req.Body == nil {
		return nil
	}
	body, err := req.EncodeBody()
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s\n", pretty.String())
	return nil
}
