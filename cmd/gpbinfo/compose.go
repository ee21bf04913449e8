// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/gviegas/gpb/scene"
)

func newComposeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compose DESCRIPTION",
		Short: "Compose a scene from a YAML description and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scene.NewLoader(nil).LoadFile(args[0])
			if err != nil {
				return err
			}
			printScene(cmd.OutOrStdout(), sc)
			return nil
		},
	}
}
