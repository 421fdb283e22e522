package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/exa-go/internal/app"
)

func newCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the response cache",
	}
	cacheCmd.AddCommand(
		newCacheListCommand(container),
		newCacheStatsCommand(container),
		newCacheClearCommand(container),
	)
	return cacheCmd
}

func newCacheListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached responses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := container.Cache.Entries()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(w, "Cache is empty.")
				return nil
			}
			for _, entry := range entries {
				fmt.Fprintf(w, "%s  %8s  %s\n",
					entry.Digest,
					humanize.Bytes(uint64(entry.Size)),
					humanize.Time(entry.WrittenAt))
			}
			return nil
		},
	}
}

func newCacheStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache size and location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := container.Cache.Entries()
			if err != nil {
				return err
			}
			var total uint64
			for _, entry := range entries {
				total += uint64(entry.Size)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Entries: %d (max %d)\n", len(entries), container.Config.Cache.MaxEntries)
			fmt.Fprintf(w, "Total Size: %s\n", humanize.Bytes(total))
			fmt.Fprintf(w, "TTL: %d minutes\n", container.Config.Cache.TTLMinutes)
			fmt.Fprintf(w, "Location: %s\n", container.Cache.Dir())
			return nil
		},
	}
}

func newCacheClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.Cache.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	}
}
