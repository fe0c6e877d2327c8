package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/persist"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate map files",
		Long: `The check command loads each file and verifies the tree structure:
every topic reachable once, parent links consistent and sides assigned.

Example:
  mm check ideas.json plans/*.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(cmd.OutOrStdout(), args)
		},
	}
}

// mapStats summarises one tree.
type mapStats struct {
	Topics    int
	Depth     int
	Left      int
	Right     int
	Collapsed int
}

func statsOf(t *model.Tree) mapStats {
	var s mapStats
	t.Walk(func(n *model.Node, depth int) bool {
		s.Topics++
		s.Depth = max(s.Depth, depth)
		if n.Collapsed {
			s.Collapsed++
		}
		if depth == 1 {
			if n.Side.IsLeft() {
				s.Left++
			} else {
				s.Right++
			}
		}
		return true
	})
	return s
}

func check(out io.Writer, paths []string) error {
	failed := 0
	for _, p := range paths {
		t, err := persist.Load(p)
		if err == nil {
			err = t.Validate()
		}
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", p, err)
			continue
		}
		s := statsOf(t)
		fmt.Fprintf(out, "ok   %s: %d topics, depth %d, %d left / %d right, %d collapsed\n",
			p, s.Topics, s.Depth, s.Left, s.Right, s.Collapsed)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}
