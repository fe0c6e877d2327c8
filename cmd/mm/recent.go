package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/mindmap/pkg/library"
)

func newRecentCmd(a *app) *cobra.Command {
	var (
		limit   int
		prune   bool
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently opened maps",
		Long: `The recent command lists the maps most recently opened or saved in
the editor, newest first.

Example:
  mm recent
  mm recent --prune --limit 5
  mm recent --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := library.Open(a.cfg.Library.Path)
			if err != nil {
				return err
			}
			defer lib.Close()

			ctx := cmd.Context()
			if prune {
				n, err := lib.Prune(ctx)
				if err != nil {
					return err
				}
				if !jsonOut {
					fmt.Fprintf(cmd.OutOrStdout(), "Forgot %d missing maps\n", n)
				}
			}
			entries, err := lib.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return printRecentJSON(cmd.OutOrStdout(), entries)
			}
			return printRecent(cmd.OutOrStdout(), entries, time.Now())
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "how many maps to list")
	cmd.Flags().BoolVar(&prune, "prune", false, "forget maps that no longer exist")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}

func printRecent(out io.Writer, entries []library.Entry, now time.Time) error {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No recent maps")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tTOPICS\tOPENED\tPATH")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", firstLine(e.Title), e.Nodes, humanize.RelTime(e.OpenedAt, now, "ago", "from now"), e.Path)
	}
	return tw.Flush()
}

type recentJSON struct {
	Path     string    `json:"path"`
	Title    string    `json:"title"`
	Topics   int       `json:"topics"`
	OpenedAt time.Time `json:"opened_at"`
}

func printRecentJSON(out io.Writer, entries []library.Entry) error {
	rows := make([]recentJSON, len(entries))
	for i, e := range entries {
		rows[i] = recentJSON{Path: e.Path, Title: e.Title, Topics: e.Nodes, OpenedAt: e.OpenedAt.UTC()}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
