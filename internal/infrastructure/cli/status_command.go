package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/exa-go/internal/app"
	"github.com/doeshing/exa-go/internal/domain"
)

func newStatusCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show API key pool status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderKeyStatus(cmd.OutOrStdout(), container.Keys.Status(), container.ConfigDir)
			return nil
		},
	}
}

func renderKeyStatus(w io.Writer, status domain.KeyPoolStatus, configDir string) {
	fmt.Fprintln(w, "Exa API Key Status")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total Keys: %d\n", status.TotalKeys)
	fmt.Fprintf(w, "Next Key Index: %d\n", status.NextIndex)
	fmt.Fprintf(w, "Last Validated: %s (%s)\n",
		status.LastValidated.UTC().Format("2006-01-02 15:04:05 MST"),
		humanize.Time(status.LastValidated))
	fmt.Fprintf(w, "State Stale: %s\n", yesNo(status.Stale))
	fmt.Fprintln(w)

	for _, entry := range status.Entries {
		fmt.Fprintf(w, "Key %d: %s - %s\n", entry.Index, entry.Masked, keyCondition(entry))
		fmt.Fprintf(w, "  Requests: %d | Success: %d | Errors: %d\n",
			entry.Usage.Requests, entry.Usage.Successes, entry.Usage.Errors)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Config Dir: %s\n", configDir)
}

func keyCondition(entry domain.KeyStatusEntry) string {
	switch {
	case !entry.Valid:
		return "INVALID"
	case entry.CooldownRemaining > 0:
		return fmt.Sprintf("COOLDOWN (%ds remaining)", int(entry.CooldownRemaining.Seconds())+1)
	default:
		return "READY"
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func newResetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear key cooldowns and usage counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.Keys.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Key state reset: cooldowns cleared, counters zeroed.")
			return nil
		},
	}
}
