//go:build !windows

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmora/rhinoline"
)

func newCallCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "call METHOD [PARAMS]",
		Short: "Send a raw request to the server",
		Long: `Send one request with the given method name and optional JSON params
object, and print the response result. Useful for server methods that have
no dedicated subcommand yet.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := args[0]
			var params map[string]any
			if len(args) == 2 {
				if err := json.Unmarshal([]byte(args[1]), &params); err != nil {
					return fmt.Errorf("params must be a JSON object: %w", err)
				}
			}
			return ctx.withClient(func(reqCtx context.Context, client *rhinoline.Client) error {
				resp, err := client.Invoke(reqCtx, method, params)
				if err != nil {
					return err
				}
				return printResult(cmd, resp)
			})
		},
	}
}
