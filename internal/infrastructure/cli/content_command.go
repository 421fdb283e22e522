package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/exa-go/internal/app"
	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/pkg/fingerprint"
	"github.com/doeshing/exa-go/internal/services"
)

func newContentCommand(container *app.Container, flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "content <url>",
		Short: "Fetch the full text of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContent(cmd, container, flags, args[0])
		},
	}
}

func runContent(cmd *cobra.Command, container *app.Container, flags *Flags, url string) error {
	if err := container.Validator.Run(cmd.Context()); err != nil {
		return err
	}

	req := domain.ContentsRequest{URLs: []string{url}, Text: true}

	result, err := dispatch(cmd, container, services.Operation{
		Name:        "content",
		Fingerprint: fingerprint.Digest("content", url),
		TTL:         flags.TTL(),
		BypassCache: flags.NoCache,
		Call: func(ctx context.Context, key string) ([]byte, error) {
			return container.Client.Contents(ctx, key, req)
		},
	}, url)
	if err != nil {
		return err
	}

	var resp domain.SearchResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return fmt.Errorf("parse contents response: %w", err)
	}
	return renderContent(cmd.OutOrStdout(), flags.renderOptions(), &resp)
}
