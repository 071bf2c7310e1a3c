package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/shipctl/pkg/history"
	"github.com/jaspreet-dot-casa/shipctl/pkg/utils"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent deploys and builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.NewStore(nil)
			if err != nil {
				return err
			}
			runs, err := store.List(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}

			fmt.Fprintf(out, "%-16s %-7s %-7s %-8s %s\n", "WHEN", "KIND", "STATUS", "TIME", "COMMAND")
			for _, r := range runs {
				fmt.Fprintf(out, "%-16s %-7s %-7s %-8s %s\n",
					utils.FormatTimeAgo(r.StartedAt),
					r.Kind,
					r.Status(),
					r.Duration.Round(100*time.Millisecond),
					r.Command)
			}
			fmt.Fprintf(out, "\n%s runs shown.\n", humanize.Comma(int64(len(runs))))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 = all)")

	return cmd
}
