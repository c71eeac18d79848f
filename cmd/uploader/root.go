package main

import (
	"sync"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/uploader"
)

// commandContext loads the configuration once per invocation.
type commandContext struct {
	configFlag *string
	environ    map[string]string
	dialog     uploader.Dialog

	once sync.Once
	cfg  Config
	err  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (Config, error) {
	c.once.Do(func() {
		c.cfg, c.err = loadConfig(*c.configFlag, c.environ)
	})
	return c.cfg, c.err
}

func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := newCommandContext(&configFlag)
	return buildRootCommand(ctx)
}

func buildRootCommand(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "uploader",
		Short:         "Validate and upload files to object storage",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(ctx.configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newPickCommand(ctx))
	rootCmd.AddCommand(newPutCommand(ctx))

	return rootCmd
}
