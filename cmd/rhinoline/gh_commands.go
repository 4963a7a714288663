//go:build !windows

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmora/rhinoline"
)

func newGHCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gh",
		Short: "Work with Grasshopper definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newGHAvailableCommand(ctx))
	cmd.AddCommand(newGHExecCommand(ctx))
	cmd.AddCommand(newGHContextCommand(ctx))
	cmd.AddCommand(newGHObjectsCommand(ctx))
	cmd.AddCommand(newGHSelectedCommand(ctx))
	cmd.AddCommand(newGHUpdateCommand(ctx))
	cmd.AddCommand(newGHReferenceCommand(ctx))
	cmd.AddCommand(newGHExpireCommand(ctx))
	return cmd
}

func newGHAvailableCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "available",
		Short: "Check whether the Grasshopper side of the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(reqCtx context.Context, client *rhinoline.Client) error {
				resp, err := client.GHAvailable(reqCtx)
				if err != nil {
					return err
				}
				return printResult(cmd, resp)
			})
		},
	}
}

func newGHExecCommand(ctx *commandContext) *cobra.Command {
	var fileFlag string

	cmd := &cobra.Command{
		Use:   "exec [CODE]",
		Short: "Run an IronPython snippet inside Grasshopper",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readCode(cmd, args, fileFlag)
			if err != nil {
				return err
			}
			return ctx.withClient(func(reqCtx context.Context, client *rhinoline.Client) error {
				resp, err := client.ExecuteGHCode(reqCtx, code)
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

func newGHContextCommand(ctx *commandContext) *cobra.Command {
	var simplified bool

	cmd := &cobra.Command{
		Use:   "context",
		Short: "Show the Grasshopper document state and definition graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(reqCtx context.Context, client *rhinoline.Client) error {
				resp, err := client.GHContext(reqCtx, simplified)
				if err != nil {
					return err
				}
				return printResult(cmd, resp)
			})
		},
	}

	cmd.Flags().BoolVar(&simplified, "simplified", false, "Request minimal per-component info")
	return cmd
}

func newGHObjectsCommand(ctx *commandContext) *cobra.Command {
	var guids []string
	var simplified bool
	var depth int

	cmd := &cobra.Command{
		Use:   "objects",
		Short: "Show Grasshopper components by instance GUID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(reqCtx context.Context, client *rhinoline.Client) error {
				resp, err := client.GHObjects(reqCtx, rhinoline.ComponentQuery{
					InstanceGUIDs: guids,
					Simplified:    simplified,
					ContextDepth:  depth,
				})
				if err != nil {
					return err
				}
				return printResult(cmd, resp)
			})
		},
	}

	cmd.Flags().StringArrayVar(&guids, "guid", nil, "Component instance GUID (repeatable)")
	cmd.Flags().BoolVar(&simplified, "simplified", false, "Request minimal component info")
	cmd.Flags().IntVar(&depth, "depth", 0, "Levels of connected components to include (0-3)")
	return cmd
}

func newGHSelectedCommand(ctx *commandContext) *cobra.Command {
	var simplified bool
	var depth int

	cmd := &cobra.Command{
		Use:   "selected",
		Short: "Show the currently selected Grasshopper components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(reqCtx context.Context, client *rhinoline.Client) error {
				resp, err := client.GHSelected(reqCtx, simplified, depth)
				if err != nil {
					return err
				}
				return printResult(cmd, resp)
			})
		},
	}

	cmd.Flags().BoolVar(&simplified, "simplified", false, "Request minimal component info")
	cmd.Flags().IntVar(&depth, "depth", 0, "Levels of connected components to include (0-3)")
	return cmd
}

// parseParamDefinitions decodes the --params flag, a JSON array of parameter
// definition objects.
func parseParamDefinitions(raw string) ([]map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var defs []map[string]any
	if err := json.Unmarshal([]byte(raw), &defs); err != nil {
		return nil, fmt.Errorf("params must be a JSON array of objects: %w", err)
	}
	return defs, nil
}

func newGHUpdateCommand(ctx *commandContext) *cobra.Command {
	var update rhinoline.ScriptUpdate
	var codeFile string
	var paramsJSON string

	cmd := &cobra.Command{
		Use:   "update GUID",
		Short: "Update a Grasshopper script component in place",
		Long: `Update a Grasshopper script component. Only the given flags change;
everything else is left as is. --params redefines ALL parameters of the
component.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update.InstanceGUID = args[0]
			if codeFile != "" {
				code, err := readCode(cmd, nil, codeFile)
				if err != nil {
					return err
				}
				update.Code = code
			}
			defs, err := parseParamDefinitions(paramsJSON)
			if err != nil {
				return err
			}
			update.ParamDefinitions = defs

			return ctx.withClient(func(reqCtx context.Context, client *rhinoline.Client) error {
				resp, err := client.UpdateScript(reqCtx, update)
				if err != nil {
					return err
				}
				return printResult(cmd, resp)
			})
		},
	}

	cmd.Flags().StringVar(&update.Code, "code", "", "New component code")
	cmd.Flags().StringVarP(&codeFile, "file", "f", "", "Read the new code from a file")
	cmd.Flags().StringVar(&update.Description, "description", "", "New component description")
	cmd.Flags().StringVar(&update.MessageToUser, "message", "", "Message shown to the user in Grasshopper")
	cmd.Flags().StringVar(&paramsJSON, "params", "", "Parameter definitions as a JSON array")
	return cmd
}

func newGHReferenceCommand(ctx *commandContext) *cobra.Command {
	var ref rhinoline.ScriptReference
	var paramsJSON string

	cmd := &cobra.Command{
		Use:   "reference GUID FILE",
		Short: "Point a script component at an external Python file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref.InstanceGUID = args[0]
			ref.FilePath = args[1]
			defs, err := parseParamDefinitions(paramsJSON)
			if err != nil {
				return err
			}
			ref.ParamDefinitions = defs

			return ctx.withClient(func(reqCtx context.Context, client *rhinoline.Client) error {
				resp, err := client.UpdateScriptWithCodeReference(reqCtx, ref)
				if err != nil {
					return err
				}
				return printResult(cmd, resp)
			})
		},
	}

	cmd.Flags().BoolVar(&ref.ForceCodeReference, "force", false, "Switch the component to referenced-code mode")
	cmd.Flags().StringVar(&ref.Description, "description", "", "New component description")
	cmd.Flags().StringVar(&ref.Name, "name", "", "New component name")
	cmd.Flags().StringVar(&paramsJSON, "params", "", "Parameter definitions as a JSON array")
	return cmd
}

func newGHExpireCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "expire GUID",
		Short: "Expire a component and show its updated state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guid := args[0]
			return ctx.withClient(func(reqCtx context.Context, client *rhinoline.Client) error {
				resp, err := client.ExpireComponent(reqCtx, guid)
				if err != nil {
					return err
				}
				return printResult(cmd, resp)
			})
		},
	}
}
