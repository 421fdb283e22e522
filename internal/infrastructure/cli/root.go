// Package cli wires the cobra command tree and renders results. All
// presentation logic lives here; the services layer only hands back
// normalized results.
package cli

import (
	"context"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/doeshing/exa-go/internal/app"
)

const version = "1.3.0"

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// Flags are the global options shared by every subcommand.
type Flags struct {
	Num        int
	Content    bool
	Domain     string
	After      string
	Before     string
	JSON       bool
	Model      string
	Schema     string
	NoSources  bool
	Compact    bool
	MaxChars   int
	Fields     string
	NoCache    bool
	CacheTTL   int
	TSV        bool
	Verbose    bool
	Type       string
	Category   string
	MaxAge     int
	Highlights int
	Verbosity  string
}

// TTL converts the cache-ttl flag into a duration.
func (f *Flags) TTL() time.Duration {
	return time.Duration(f.CacheTTL) * time.Minute
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	flags := &Flags{}
	root := &cobra.Command{
		Use:     "exa",
		Short:   "AI-powered web search via the Exa API",
		Long:    "exa searches the web through the Exa API, spreading requests across multiple API keys and caching responses locally.",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.Verbose {
				container.Logger.SetVerbose(true)
			}
			// Agents read stdout through a pipe; give them compact
			// output without asking.
			if !flags.Compact && !stdoutIsTerminal() {
				flags.Compact = true
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			container.History.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	registerGlobalFlags(root, flags, container.Config.Cache.TTLMinutes)

	root.AddCommand(
		newSearchCommand(container, flags),
		newFindCommand(container, flags),
		newContentCommand(container, flags),
		newAnswerCommand(container, flags),
		newResearchCommand(container, flags),
		newStatusCommand(container),
		newResetCommand(container),
		newCacheCommand(container),
		newHistoryCommand(container),
	)
	return root, nil
}

func registerGlobalFlags(root *cobra.Command, flags *Flags, defaultTTLMinutes int) {
	pf := root.PersistentFlags()
	pf.IntVarP(&flags.Num, "num", "n", 5, "Number of results")
	pf.BoolVar(&flags.Content, "content", false, "Include page content")
	pf.StringVar(&flags.Domain, "domain", "", "Filter to domain")
	pf.StringVar(&flags.After, "after", "", "Results after YYYY-MM-DD")
	pf.StringVar(&flags.Before, "before", "", "Results before YYYY-MM-DD")
	pf.BoolVar(&flags.JSON, "json", false, "Output as JSON")
	pf.StringVar(&flags.Model, "model", "exa-research", "Research model (exa-research, exa-research-pro)")
	pf.StringVar(&flags.Schema, "schema", "", "JSON schema file for structured research output")
	pf.BoolVar(&flags.NoSources, "no-sources", false, "Hide sources in output")
	pf.BoolVar(&flags.Compact, "compact", false, "Compact output for AI/LLM consumption (minimal tokens)")
	pf.IntVar(&flags.MaxChars, "max-chars", 0, "Max characters of content per result (default: 300 compact, 500 normal)")
	pf.StringVar(&flags.Fields, "fields", "", "Only output specific fields (comma-separated: title,url,date,content)")
	pf.BoolVar(&flags.NoCache, "no-cache", false, "Disable response caching")
	pf.IntVar(&flags.CacheTTL, "cache-ttl", defaultTTLMinutes, "Cache TTL in minutes")
	pf.BoolVar(&flags.TSV, "tsv", false, "Tab-separated output (one result per line)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Verbose output for debugging")
	pf.StringVar(&flags.Type, "type", "instant", "Search type: instant, auto, fast, deep, neural")
	pf.StringVar(&flags.Category, "category", "", "Content category filter: company, people, tweet, news, research paper, personal site, financial report")
	pf.IntVar(&flags.MaxAge, "max-age", 0, "Max content age in hours (0=always live, -1=cache only)")
	pf.IntVar(&flags.Highlights, "highlights", 0, "Key excerpts instead of full text (max chars)")
	pf.Lookup("highlights").NoOptDefVal = "2000"
	pf.StringVar(&flags.Verbosity, "verbosity", "", "Content verbosity: compact, standard, full")
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
