package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/exa-go/internal/app"
	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/services"
)

func newAnswerCommand(container *app.Container, flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "answer <question>...",
		Short: "Answer a question from search highlights",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnswer(cmd, container, flags, args)
		},
	}
}

// runAnswer issues a fixed-shape search (five results, text plus 2000-char
// highlights) and synthesizes a short answer. Answers are never cached:
// the synthesized text depends on ranking, which shifts too quickly for a
// stale answer to be worth anything.
func runAnswer(cmd *cobra.Command, container *app.Container, flags *Flags, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New("no question provided")
	}
	if err := container.Validator.Run(cmd.Context()); err != nil {
		return err
	}

	text := true
	req := domain.SearchRequest{
		Query:      question,
		NumResults: 5,
		Contents: &domain.ContentsConfig{
			Text:       &text,
			Highlights: &domain.HighlightsConfig{MaxCharacters: 2000},
		},
		Type: flags.Type,
	}

	result, err := dispatch(cmd, container, services.Operation{
		Name: "answer",
		Call: func(ctx context.Context, key string) ([]byte, error) {
			return container.Client.Search(ctx, key, req)
		},
	}, question)
	if err != nil {
		return err
	}

	var resp domain.SearchResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return fmt.Errorf("parse search response: %w", err)
	}
	return renderAnswer(cmd.OutOrStdout(), flags.renderOptions(), &resp)
}
