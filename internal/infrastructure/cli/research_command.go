package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/exa-go/internal/app"
	"github.com/doeshing/exa-go/internal/domain"
)

func newResearchCommand(container *app.Container, flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "research <instructions>...",
		Short: "Run an asynchronous deep-research task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResearch(cmd, container, flags, args)
		},
	}
}

func runResearch(cmd *cobra.Command, container *app.Container, flags *Flags, args []string) error {
	instructions := strings.TrimSpace(strings.Join(args, " "))
	if instructions == "" {
		return errors.New("no instructions provided")
	}
	if err := container.Validator.Run(cmd.Context()); err != nil {
		return err
	}

	req := domain.ResearchRequest{
		Instructions: instructions,
		Model:        researchModel(flags.Model),
	}
	if flags.Schema != "" {
		schema, err := loadSchema(flags.Schema)
		if err != nil {
			return err
		}
		req.OutputSchema = schema
	}

	quiet := flags.JSON || flags.Compact
	if !quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), "Starting research task (this can take several minutes)...")
		container.Research.Progress = func() { fmt.Fprint(cmd.ErrOrStderr(), ".") }
	}

	start := time.Now()
	status, err := container.Research.Run(cmd.Context(), req)
	if !quiet {
		fmt.Fprintln(cmd.ErrOrStderr())
	}

	recStatus := string(domain.StatusSuccess)
	if err != nil {
		recStatus = string(domain.StatusError)
	}
	if saveErr := container.History.Save(domain.InvocationRecord{
		Timestamp:  start,
		Command:    "research",
		Query:      instructions,
		Status:     recStatus,
		DurationMS: time.Since(start).Milliseconds(),
	}); saveErr != nil {
		container.Logger.Warn("record invocation failed", map[string]interface{}{"error": saveErr.Error()})
	}

	if err != nil {
		return err
	}
	return renderResearch(cmd.OutOrStdout(), flags.renderOptions(), &status)
}

// researchModel normalizes the --model flag; anything that is not the pro
// tier falls back to the base model.
func researchModel(model string) string {
	if model == "exa-research-pro" {
		return model
	}
	return "exa-research"
}

func loadSchema(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("schema file %s is not valid JSON", path)
	}
	return json.RawMessage(data), nil
}
