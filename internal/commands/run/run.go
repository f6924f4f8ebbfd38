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

// Package run implements the run command, which executes items against the
// Connect Secure API.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tombee/connectsecure/internal/commands/completion"
	"github.com/tombee/connectsecure/internal/commands/shared"
	"github.com/tombee/connectsecure/internal/jq"
	"github.com/tombee/connectsecure/internal/node"
)

const shutdownTimeout = 5 * time.Second

// Response is the JSON output of the run command.
type Response struct {
	shared.JSONResponse
	Outputs []node.Output      `json:"outputs"`
	Failed  int                `json:"failed"`
	Errors  []shared.JSONError `json:"errors,omitempty"`
}

type executor interface {
	Execute(ctx context.Context, items []node.Item) ([]node.Output, error)
}

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var (
		itemsPath      string
		continueOnFail bool
		jqExpr         string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute items against the API",
		Long: `Execute a list of items read from a JSON or YAML file. Each item selects a
resource and operation and carries its parameters; string values starting
with '=' are expressions evaluated against the item's json field.

Items run in order. Without --continue-on-fail the first failure stops the
run; with it, failures become {"error": message} records.

Use '-' to read JSON items from stdin.`,
		Example: `  connectsecure run --items items.yaml
  connectsecure run --items items.json --continue-on-fail
  connectsecure run --items items.yaml --jq '.data[] | {id, name}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadItems(itemsPath, cmd.InOrStdin())
			if err != nil {
				return shared.NewInvalidInputError("failed to load items", err)
			}

			cfg, err := shared.LoadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("continue-on-fail") {
				cfg.Node.ContinueOnFail = continueOnFail
			}

			var opts []node.Option
			if jqExpr != "" {
				filter, err := jq.Compile(jqExpr, 0, 0)
				if err != nil {
					return shared.NewInvalidInputError("invalid --jq expression", err)
				}
				opts = append(opts, node.WithFilter(filter))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := shared.NewRuntime(ctx, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := rt.Close(shutdownCtx); err != nil {
					rt.Logger.Warn("telemetry shutdown failed", "error", err)
				}
			}()

			n, err := rt.NewNode(opts...)
			if err != nil {
				return err
			}
			return runItems(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), n, items)
		},
	}

	cmd.Flags().StringVarP(&itemsPath, "items", "i", "", "Items file (.json, .yaml or '-' for stdin)")
	cmd.Flags().BoolVar(&continueOnFail, "continue-on-fail", false, "Record failures as error items instead of stopping")
	cmd.Flags().StringVar(&jqExpr, "jq", "", "jq expression applied to every response")
	_ = cmd.MarkFlagRequired("items")
	_ = cmd.RegisterFlagCompletionFunc("items", completion.CompleteItemsFiles)

	return cmd
}

func runItems(ctx context.Context, out, errOut io.Writer, ex executor, items []node.Item) error {
	outputs, err := ex.Execute(ctx, items)

	failed := 0
	var errs []shared.JSONError
	for _, o := range outputs {
		if o.Err != nil {
			failed++
			errs = append(errs, shared.ToJSONError(&node.ItemError{Index: o.PairedItem, Err: o.Err}))
		}
	}

	if shared.GetJSON() {
		resp := Response{
			JSONResponse: shared.NewJSONResponse("run"),
			Outputs:      outputs,
			Failed:       failed,
			Errors:       errs,
		}
		if err != nil {
			resp.Success = false
			resp.Errors = append(resp.Errors, shared.ToJSONError(err))
		}
		if emitErr := shared.EmitJSON(out, resp); emitErr != nil {
			return emitErr
		}
		return err
	}

	if err != nil {
		if isCancelled(err) {
			return shared.NewExecutionError("run interrupted", err)
		}
		return err
	}

	records := make([]any, len(outputs))
	for i, o := range outputs {
		records[i] = o.JSON
	}
	if err := shared.EmitJSON(out, records); err != nil {
		return err
	}

	if !shared.GetQuiet() {
		summary := fmt.Sprintf("%d items processed", len(items))
		if failed > 0 {
			fmt.Fprintln(errOut, shared.RenderWarn(fmt.Sprintf("%s, %d failed", summary, failed)))
		} else {
			fmt.Fprintln(errOut, shared.RenderOK(summary))
		}
	}
	return nil
}

// isCancelled reports whether err stems from an interrupted run.
func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
