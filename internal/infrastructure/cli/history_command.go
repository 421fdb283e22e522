package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/exa-go/internal/app"
	"github.com/doeshing/exa-go/internal/domain"
)

func newHistoryCommand(container *app.Container) *cobra.Command {
	var limit int
	var search string

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent invocations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := container.History.Records(limit, search)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(w, "No history yet.")
				return nil
			}
			for _, rec := range records {
				origin := "live"
				if rec.CacheHit {
					origin = "cache"
				}
				fmt.Fprintf(w, "%-14s %-8s %-9s %-5s %5dms  %s\n",
					humanize.Time(rec.Timestamp), rec.Command, rec.Status, origin, rec.DurationMS, rec.Query)
			}
			return nil
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Maximum records to show")
	historyCmd.Flags().StringVar(&search, "search", "", "Filter by query or command substring")
	return historyCmd
}
