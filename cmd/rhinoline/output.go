//go:build !windows

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dmora/rhinoline"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult renders a response result as indented JSON. A server error
// member becomes a command failure.
func printResult(cmd *cobra.Command, resp *rhinoline.Response) error {
	if resp.Err != nil {
		return fmt.Errorf("server rejected request: %s", resp.Err.Error())
	}
	if len(resp.Result) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(resp.Result, &v); err != nil {
		// Not valid JSON; show it raw rather than failing.
		fmt.Fprintln(cmd.OutOrStdout(), string(resp.Result))
		return nil
	}
	return writeJSON(cmd, v)
}

// isTerminal reports whether writer is an interactive terminal, which
// selects table rendering over raw JSON.
func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
