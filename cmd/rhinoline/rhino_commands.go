//go:build !windows

package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/dmora/rhinoline"
)

func newLayersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "layers",
		Short: "List the layers in the Rhino document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(reqCtx context.Context, client *rhinoline.Client) error {
				resp, err := client.Layers(reqCtx)
				if err != nil {
					return err
				}
				if resp.Err == nil && isTerminal(cmd.OutOrStdout()) {
					if out, ok := layersTable(resp); ok {
						fmt.Fprintln(cmd.OutOrStdout(), out)
						return nil
					}
				}
				return printResult(cmd, resp)
			})
		},
	}
}

// layersTable renders the layers array as a table when the result has the
// expected shape. Other shapes fall back to JSON output.
func layersTable(resp *rhinoline.Response) (string, bool) {
	layers := resp.Get("layers")
	if !layers.IsArray() {
		return "", false
	}
	var rows [][]string
	layers.ForEach(func(_, layer gjson.Result) bool {
		if layer.Type == gjson.String {
			rows = append(rows, []string{layer.String(), ""})
			return true
		}
		rows = append(rows, []string{
			layer.Get("name").String(),
			layer.Get("id").String(),
		})
		return true
	})
	if rows == nil {
		return "", false
	}
	return renderTable([]string{"NAME", "ID"}, rows), true
}

func newSceneInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scene-info",
		Short: "Show basic information about the current Rhino scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(reqCtx context.Context, client *rhinoline.Client) error {
				resp, err := client.SceneInfo(reqCtx)
				if err != nil {
					return err
				}
				return printResult(cmd, resp)
			})
		},
	}
}

func newObjectsCommand(ctx *commandContext) *cobra.Command {
	var filterFlags []string
	var fieldFlags []string

	cmd := &cobra.Command{
		Use:   "objects",
		Short: "List scene objects with their metadata",
		Long: `List objects in the Rhino scene. Filters are key=value pairs matched
server-side; values support the server's wildcard syntax (e.g. --filter
'name=Cube*'). --field limits the metadata returned per object.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := rhinoline.ObjectQuery{}
			if len(filterFlags) > 0 {
				query.Filters = make(map[string]any, len(filterFlags))
				for _, f := range filterFlags {
					key, value, ok := strings.Cut(f, "=")
					if !ok {
						return fmt.Errorf("filter %q is not key=value", f)
					}
					query.Filters[key] = value
				}
			}
			if len(fieldFlags) > 0 {
				query.MetadataFields = fieldFlags
			}
			return ctx.withClient(func(reqCtx context.Context, client *rhinoline.Client) error {
				resp, err := client.SceneObjects(reqCtx, query)
				if err != nil {
					return err
				}
				return printResult(cmd, resp)
			})
		},
	}

	cmd.Flags().StringArrayVar(&filterFlags, "filter", nil, "Object filter as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&fieldFlags, "field", nil, "Metadata field to include (repeatable)")
	return cmd
}

func newExecCommand(ctx *commandContext) *cobra.Command {
	var fileFlag string

	cmd := &cobra.Command{
		Use:   "exec [CODE]",
		Short: "Run an IronPython snippet inside Rhino",
		Long: `Run an IronPython snippet inside Rhino. Code comes from the argument,
from --file, or from stdin when the argument is "-". Assign to a variable
named result to get a value back.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readCode(cmd, args, fileFlag)
			if err != nil {
				return err
			}
			return ctx.withClient(func(reqCtx context.Context, client *rhinoline.Client) error {
				resp, err := client.ExecuteCode(reqCtx, code)
				if err != nil {
					return err
				}
				return printResult(cmd, resp)
			})
		},
	}

	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the snippet from a file")
	return cmd
}

func readCode(cmd *cobra.Command, args []string, file string) (string, error) {
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read snippet: %w", err)
		}
		return string(data), nil
	case len(args) == 1 && args[0] == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case len(args) == 1:
		return args[0], nil
	}
	return "", fmt.Errorf("no code given: pass an argument, --file, or \"-\" for stdin")
}

func newViewportCommand(ctx *commandContext) *cobra.Command {
	var layerFlag string
	var noAnnotations bool
	var maxSize int
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "viewport",
		Short: "Capture the current Rhino viewport as an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(reqCtx context.Context, client *rhinoline.Client) error {
				resp, err := client.CaptureViewport(reqCtx, rhinoline.ViewportCapture{
					Layer:           layerFlag,
					HideAnnotations: noAnnotations,
					MaxSize:         maxSize,
				})
				if err != nil {
					return err
				}
				if outputFlag == "" {
					return printResult(cmd, resp)
				}
				return saveViewportImage(resp, outputFlag)
			})
		},
	}

	cmd.Flags().StringVar(&layerFlag, "layer", "", "Only annotate objects on this layer")
	cmd.Flags().BoolVar(&noAnnotations, "no-annotations", false, "Suppress object annotations")
	cmd.Flags().IntVar(&maxSize, "max-size", 0, "Maximum image dimension in pixels (default 800)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the decoded image to a file")
	return cmd
}

// saveViewportImage decodes the base64 image member of a capture result and
// writes it to path.
func saveViewportImage(resp *rhinoline.Response, path string) error {
	if resp.Err != nil {
		return fmt.Errorf("server rejected request: %s", resp.Err.Error())
	}
	data := resp.Get("image_data")
	if !data.Exists() {
		data = resp.Get("image")
	}
	if !data.Exists() {
		return fmt.Errorf("capture result has no image data")
	}
	decoded, err := base64.StdEncoding.DecodeString(data.String())
	if err != nil {
		return fmt.Errorf("decode image data: %w", err)
	}
	if err := os.WriteFile(path, decoded, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}
