package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/measure"
	"github.com/vanderheijden86/mindmap/pkg/persist"
	"github.com/vanderheijden86/mindmap/pkg/render"
	"github.com/vanderheijden86/mindmap/pkg/render/svg"
)

func newExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Render a map to SVG",
		Long: `The export command lays the map out with the configured font and
writes it as a standalone SVG document.

Example:
  mm export ideas.json -o ideas.svg
  mm export ideas.json > ideas.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" || output == "-" {
				return a.export(cmd.OutOrStdout(), args[0])
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := a.export(f, args[0]); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func (a *app) export(w io.Writer, path string) error {
	t, err := persist.Load(path)
	if err != nil {
		return err
	}
	font, err := measure.NewFont(a.cfg.FontOptions())
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	layout.New(a.cfg.LayoutEngine(), font).Apply(t, a.cfg.Center())

	bw := bufio.NewWriter(w)
	svg.Write(bw, render.Scene{Tree: t}, font, svg.DefaultTheme())
	return bw.Flush()
}
