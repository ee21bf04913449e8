// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gviegas/gpb"
	"github.com/gviegas/gpb/node"
)

func newTreeCmd() *cobra.Command {
	var sceneID, nodeID string
	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the node hierarchy of a scene or node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := gpb.Open(args[0])
			if err != nil {
				return err
			}
			defer b.Close()
			if nodeID != "" {
				n, err := b.LoadNode(nodeID)
				if err != nil {
					return err
				}
				printNode(cmd.OutOrStdout(), n, 0)
				return nil
			}
			sc, err := b.LoadScene(sceneID)
			if err != nil {
				return err
			}
			printScene(cmd.OutOrStdout(), sc)
			return nil
		},
	}
	cmd.Flags().StringVar(&sceneID, "scene", "", "scene identifier (default: first scene)")
	cmd.Flags().StringVar(&nodeID, "node", "", "print a standalone node instead of a scene")
	cmd.MarkFlagsMutuallyExclusive("scene", "node")
	return cmd
}

func printScene(w io.Writer, sc *node.Scene) {
	fmt.Fprintf(w, "scene %q: %d nodes", sc.ID(), sc.NodeCount())
	if c := sc.ActiveCamera(); c != nil && c.Node() != nil {
		fmt.Fprintf(w, ", camera %q", c.Node().ID())
	}
	fmt.Fprintln(w)
	for n := range sc.Nodes() {
		printNode(w, n, 1)
	}
	for _, a := range sc.Animations() {
		fmt.Fprintf(w, "animation %q: %d channels, %dms\n", a.ID(), len(a.Channels()), a.Duration())
	}
}

func printNode(w io.Writer, n *node.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	kind := "node"
	if n.Joint() != nil {
		kind = "joint"
	}
	fmt.Fprintf(w, "%s%s %q", indent, kind, n.ID())
	if c := n.Camera(); c != nil {
		fmt.Fprintf(w, " camera=%d", c.Type())
	}
	if l := n.Light(); l != nil {
		fmt.Fprintf(w, " light=%d", l.Type())
	}
	m := n.Model()
	if m != nil {
		fmt.Fprintf(w, " mesh=%q", m.Mesh().ID)
		if s := m.Skin(); s != nil {
			fmt.Fprintf(w, " joints=%d", s.JointCount())
			if r := s.RootJoint(); r != nil {
				fmt.Fprintf(w, " root=%q", r.ID())
			}
		}
	}
	fmt.Fprintln(w)
	if m != nil && m.Skin() != nil {
		if r := m.Skin().RootNode(); r != nil && r.Parent() == nil && r.Scene() == nil {
			fmt.Fprintf(w, "%s  (skeleton)\n", indent)
			printNode(w, r, depth+2)
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		printNode(w, c, depth+1)
	}
}
