// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath, logLevel string
	root := &cobra.Command{
		Use:          "gpbinfo",
		Short:        "Inspect bundles and compose scenes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if err := c.resolve(logLevel); err != nil {
				return err
			}
			return c.install(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "TOML configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.AddCommand(newRefsCmd(), newTreeCmd(), newFontCmd(), newComposeCmd())
	return root
}
