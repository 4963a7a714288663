//go:build !windows

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmora/rhinoline"
	"github.com/dmora/rhinoline/internal/config"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var verboseFlag bool

	ctx := &commandContext{configFlag: &configFlag, verboseFlag: &verboseFlag}

	rootCmd := &cobra.Command{
		Use:           "rhinoline",
		Short:         "Drive a Rhino bridge server from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newCallCommand(ctx))
	rootCmd.AddCommand(newLayersCommand(ctx))
	rootCmd.AddCommand(newSceneInfoCommand(ctx))
	rootCmd.AddCommand(newObjectsCommand(ctx))
	rootCmd.AddCommand(newExecCommand(ctx))
	rootCmd.AddCommand(newViewportCommand(ctx))
	rootCmd.AddCommand(newGHCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, _, _, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if c.verboseFlag != nil && *c.verboseFlag {
		level = slog.LevelDebug
	} else {
		switch cfg.Logging.Level {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// withClient spawns a server for the duration of fn. The context cancels on
// SIGINT/SIGTERM and carries the configured per-request timeout.
func (c *commandContext) withClient(fn func(context.Context, *rhinoline.Client) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := append(cfg.ClientOptions(), rhinoline.WithLogger(c.logger(cfg)))
	return rhinoline.Run(ctx, func(client *rhinoline.Client) error {
		reqCtx := ctx
		if timeout := cfg.RequestTimeout(); timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return fn(reqCtx, client)
	}, opts...)
}
