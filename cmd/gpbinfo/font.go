// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/spf13/cobra"

	"github.com/gviegas/gpb"
	"github.com/gviegas/gpb/font"
)

func newFontCmd() *cobra.Command {
	var out string
	var size uint32
	cmd := &cobra.Command{
		Use:   "font FILE ID",
		Short: "Describe a font and optionally export its atlas",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := gpb.Open(args[0])
			if err != nil {
				return err
			}
			defer b.Close()
			f, err := b.LoadFont(args[1])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, x := range append([]*font.Font{f}, f.Sizes()...) {
				r := x.Atlas().Bounds()
				fmt.Fprintf(w, "%s %v size=%d glyphs=%d atlas=%dx%d\n", x.Family(), x.Style(), x.Size(), x.GlyphCount(), r.Dx(), r.Dy())
			}
			if out == "" {
				return nil
			}
			if size != 0 {
				f = f.ForSize(size)
			}
			return exportAtlas(out, f)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "export the atlas to a .webp or .tga file")
	cmd.Flags().Uint32Var(&size, "size", 0, "export the atlas of the size closest to this one")
	return cmd
}

func exportAtlas(path string, f *font.Font) (err error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".webp" && ext != ".tga" {
		return fmt.Errorf("unsupported atlas format %q", ext)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	if ext == ".webp" {
		return nativewebp.Encode(file, f.Atlas(), nil)
	}
	return tga.Encode(file, f.Atlas())
}
