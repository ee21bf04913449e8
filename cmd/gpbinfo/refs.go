// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/gviegas/gpb"
)

func newRefsCmd() *cobra.Command {
	var match, typ string
	cmd := &cobra.Command{
		Use:   "refs FILE",
		Short: "List the references of a bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var g glob.Glob
			if match != "" {
				var err error
				if g, err = glob.Compile(match); err != nil {
					return fmt.Errorf("invalid pattern %q: %w", match, err)
				}
			}
			b, err := gpb.Open(args[0])
			if err != nil {
				return err
			}
			defer b.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "# %s (version %d.%d)\n", args[0], b.VersionMajor(), b.VersionMinor())
			fmt.Fprintln(w, "INDEX\tTYPE\tOFFSET\tID")
			for i, ref := range b.References() {
				if g != nil && !g.Match(ref.ID) {
					continue
				}
				if typ != "" && !strings.EqualFold(typ, ref.Type.String()) {
					continue
				}
				fmt.Fprintf(w, "%d\t%v\t%d\t%s\n", i, ref.Type, ref.Offset, ref.ID)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&match, "match", "", "only list identifiers matching a glob pattern")
	cmd.Flags().StringVar(&typ, "type", "", "only list references of a type (e.g. Node, Mesh)")
	return cmd
}
