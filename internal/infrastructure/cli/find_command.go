package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doeshing/exa-go/internal/app"
	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/pkg/fingerprint"
	"github.com/doeshing/exa-go/internal/services"
)

func newFindCommand(container *app.Container, flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "find <url>",
		Short: "Find pages similar to a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, container, flags, args[0])
		},
	}
}

func runFind(cmd *cobra.Command, container *app.Container, flags *Flags, url string) error {
	if err := container.Validator.Run(cmd.Context()); err != nil {
		return err
	}

	maxAge := maxAgeHours(cmd, flags)
	req := domain.FindSimilarRequest{
		URL:         url,
		NumResults:  flags.Num,
		Contents:    buildContents(cmd, flags),
		Type:        flags.Type,
		Category:    flags.Category,
		MaxAgeHours: maxAge,
	}

	digest := fingerprint.Digest("find",
		url,
		strconv.Itoa(flags.Num),
		flags.Type,
		flags.Category,
		maxAgeField(maxAge),
		boolField(flags.Content),
		highlightsField(cmd, flags),
		flags.Verbosity,
	)

	result, err := dispatch(cmd, container, services.Operation{
		Name:        "find",
		Fingerprint: digest,
		TTL:         flags.TTL(),
		BypassCache: flags.NoCache,
		Call: func(ctx context.Context, key string) ([]byte, error) {
			return container.Client.FindSimilar(ctx, key, req)
		},
	}, url)
	if err != nil {
		return err
	}

	var resp domain.SearchResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return fmt.Errorf("parse findSimilar response: %w", err)
	}
	return renderResults(cmd.OutOrStdout(), flags.renderOptions(), &resp)
}
