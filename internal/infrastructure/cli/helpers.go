package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/exa-go/internal/app"
	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/services"
)

// dispatch runs the operation and records the invocation in history,
// including failed runs.
func dispatch(cmd *cobra.Command, container *app.Container, op services.Operation, query string) (domain.Result, error) {
	start := time.Now()
	result, err := container.Dispatcher.Do(cmd.Context(), op)

	status := string(result.Status)
	if err != nil {
		status = string(domain.StatusError)
	}
	if saveErr := container.History.Save(domain.InvocationRecord{
		Timestamp:  start,
		Command:    op.Name,
		Query:      query,
		Status:     status,
		KeyIndex:   result.KeyIndex,
		CacheHit:   result.FromCache,
		DurationMS: time.Since(start).Milliseconds(),
	}); saveErr != nil {
		container.Logger.Warn("record invocation failed", map[string]interface{}{"error": saveErr.Error()})
	}
	return result, err
}

// maxAgeHours returns the --max-age value only when the flag was given;
// 0 and -1 are meaningful values, so absence must stay distinguishable.
func maxAgeHours(cmd *cobra.Command, flags *Flags) *int {
	if !cmd.Flags().Changed("max-age") {
		return nil
	}
	v := flags.MaxAge
	return &v
}

// buildContents translates the content flags into the request shape.
// --highlights wins over --content; neither leaves contents out entirely.
func buildContents(cmd *cobra.Command, flags *Flags) *domain.ContentsConfig {
	if cmd.Flags().Changed("highlights") {
		return &domain.ContentsConfig{
			Highlights: &domain.HighlightsConfig{MaxCharacters: flags.Highlights},
			Verbosity:  flags.Verbosity,
		}
	}
	if flags.Content {
		text := true
		return &domain.ContentsConfig{Text: &text, Verbosity: flags.Verbosity}
	}
	if flags.Verbosity != "" {
		return &domain.ContentsConfig{Verbosity: flags.Verbosity}
	}
	return nil
}

// Fingerprint field encoders. An unset optional flag must digest
// differently from any set value, so absence encodes as the empty string.

func maxAgeField(maxAge *int) string {
	if maxAge == nil {
		return ""
	}
	return strconv.Itoa(*maxAge)
}

func highlightsField(cmd *cobra.Command, flags *Flags) string {
	if !cmd.Flags().Changed("highlights") {
		return ""
	}
	return strconv.Itoa(flags.Highlights)
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return ""
}
