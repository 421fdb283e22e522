package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/exa-go/internal/app"
	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/pkg/fingerprint"
	"github.com/doeshing/exa-go/internal/services"
)

func newSearchCommand(container *app.Container, flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>...",
		Short: "Search the web",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, container, flags, args)
		},
	}
}

func runSearch(cmd *cobra.Command, container *app.Container, flags *Flags, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return errors.New("no query provided")
	}
	if err := container.Validator.Run(cmd.Context()); err != nil {
		return err
	}

	maxAge := maxAgeHours(cmd, flags)
	req := domain.SearchRequest{
		Query:              query,
		NumResults:         flags.Num,
		Contents:           buildContents(cmd, flags),
		StartPublishedDate: flags.After,
		EndPublishedDate:   flags.Before,
		Type:               flags.Type,
		Category:           flags.Category,
		MaxAgeHours:        maxAge,
	}
	if flags.Domain != "" {
		req.IncludeDomains = []string{flags.Domain}
	}

	digest := fingerprint.Digest("search",
		query,
		strconv.Itoa(flags.Num),
		flags.Domain,
		flags.After,
		flags.Before,
		flags.Type,
		flags.Category,
		maxAgeField(maxAge),
		boolField(flags.Content),
		highlightsField(cmd, flags),
		flags.Verbosity,
	)

	result, err := dispatch(cmd, container, services.Operation{
		Name:        "search",
		Fingerprint: digest,
		TTL:         flags.TTL(),
		BypassCache: flags.NoCache,
		Call: func(ctx context.Context, key string) ([]byte, error) {
			return container.Client.Search(ctx, key, req)
		},
	}, query)
	if err != nil {
		return err
	}

	var resp domain.SearchResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return fmt.Errorf("parse search response: %w", err)
	}
	return renderResults(cmd.OutOrStdout(), flags.renderOptions(), &resp)
}
