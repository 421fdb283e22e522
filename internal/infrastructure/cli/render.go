package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/exa-go/internal/domain"
)

// Default content truncation per output mode.
const (
	compactContentChars = 300
	normalContentChars  = 500
)

// renderOptions is the flattened view of the output flags.
type renderOptions struct {
	JSON      bool
	Compact   bool
	TSV       bool
	NoSources bool
	MaxChars  int
	Fields    map[string]bool
}

func (f *Flags) renderOptions() renderOptions {
	opts := renderOptions{
		JSON:      f.JSON,
		Compact:   f.Compact,
		TSV:       f.TSV,
		NoSources: f.NoSources,
		MaxChars:  f.MaxChars,
		Fields:    parseFields(f.Fields),
	}
	if opts.MaxChars <= 0 {
		if opts.Compact {
			opts.MaxChars = compactContentChars
		} else {
			opts.MaxChars = normalContentChars
		}
	}
	return opts
}

// parseFields turns "title,url,date" into a set; empty means all fields.
func parseFields(raw string) map[string]bool {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	fields := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		if name := strings.ToLower(strings.TrimSpace(part)); name != "" {
			fields[name] = true
		}
	}
	return fields
}

func (o renderOptions) show(field string) bool {
	return o.Fields == nil || o.Fields[field]
}

// renderResults renders a search or findSimilar response. An empty result
// set is an error for every mode except JSON, where the caller gets the
// empty structure to inspect.
func renderResults(w io.Writer, opts renderOptions, resp *domain.SearchResponse) error {
	if opts.JSON {
		return writeJSON(w, opts, resp)
	}
	if len(resp.Results) == 0 {
		return domain.ErrNoResults
	}
	if opts.TSV {
		renderTSV(w, resp.Results)
		return nil
	}
	if opts.Compact {
		renderCompact(w, opts, resp.Results)
		return nil
	}
	renderHuman(w, opts, resp.Results)
	return nil
}

func renderTSV(w io.Writer, results []domain.SearchResult) {
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\n", flatten(r.Title), r.URL, r.PublishedDate)
	}
}

func renderCompact(w io.Writer, opts renderOptions, results []domain.SearchResult) {
	for i, r := range results {
		if opts.show("title") {
			fmt.Fprintf(w, "%d. %s\n", i+1, r.Title)
		}
		if opts.show("url") {
			line := r.URL
			if opts.show("date") && r.PublishedDate != "" {
				line += " (" + r.PublishedDate + ")"
			}
			fmt.Fprintln(w, line)
		} else if opts.show("date") && r.PublishedDate != "" {
			fmt.Fprintln(w, r.PublishedDate)
		}
		if opts.show("content") {
			for _, h := range r.Highlights {
				fmt.Fprintln(w, flatten(h))
			}
			if len(r.Highlights) == 0 && r.Text != "" {
				fmt.Fprintln(w, truncateText(flatten(r.Text), opts.MaxChars))
			}
		}
		renderEntitiesCompact(w, r.Entities)
		if i < len(results)-1 {
			fmt.Fprintln(w)
		}
	}
}

func renderHuman(w io.Writer, opts renderOptions, results []domain.SearchResult) {
	for i, r := range results {
		fmt.Fprintf(w, "--- Result %d ---\n", i+1)
		if opts.show("title") && r.Title != "" {
			fmt.Fprintf(w, "Title: %s\n", r.Title)
		}
		if opts.show("url") {
			fmt.Fprintf(w, "Link: %s\n", r.URL)
		}
		if opts.show("date") && r.PublishedDate != "" {
			fmt.Fprintf(w, "Date: %s\n", r.PublishedDate)
		}
		if opts.show("content") {
			if len(r.Highlights) > 0 {
				fmt.Fprintln(w, "Highlights:")
				for _, h := range r.Highlights {
					fmt.Fprintf(w, "  - %s\n", flatten(h))
				}
			} else if r.Text != "" {
				fmt.Fprintf(w, "Content: %s\n", truncateText(flatten(r.Text), opts.MaxChars))
			}
		}
		renderEntitiesHuman(w, r.Entities)
		fmt.Fprintln(w)
	}
}

// renderContent prints the fetched page text in full; truncation limits
// only apply to search snippets.
func renderContent(w io.Writer, opts renderOptions, resp *domain.SearchResponse) error {
	if opts.JSON {
		return writeJSON(w, opts, resp)
	}
	if len(resp.Results) == 0 {
		return domain.ErrNoResults
	}
	r := resp.Results[0]
	if opts.Compact || opts.TSV {
		fmt.Fprintln(w, r.Text)
		return nil
	}
	if r.Title != "" {
		fmt.Fprintf(w, "Title: %s\n", r.Title)
	}
	fmt.Fprintf(w, "Link: %s\n\n", r.URL)
	fmt.Fprintln(w, r.Text)
	return nil
}

// renderAnswer synthesizes a short answer from the highlights of the top
// results, falling back to the first result's text.
func renderAnswer(w io.Writer, opts renderOptions, resp *domain.SearchResponse) error {
	if opts.JSON {
		return writeJSON(w, opts, resp)
	}
	if len(resp.Results) == 0 {
		return domain.ErrNoResults
	}

	var lines []string
	for _, r := range resp.Results {
		for _, h := range r.Highlights {
			lines = append(lines, flatten(h))
			if len(lines) == 3 {
				break
			}
		}
		if len(lines) == 3 {
			break
		}
	}
	if len(lines) == 0 && resp.Results[0].Text != "" {
		lines = append(lines, truncateText(flatten(resp.Results[0].Text), opts.MaxChars))
	}
	if len(lines) == 0 {
		return domain.ErrNoResults
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}

	if !opts.NoSources {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Sources:")
		for i, r := range resp.Results {
			if i == 3 {
				break
			}
			fmt.Fprintf(w, "  %s\n", r.URL)
		}
	}
	return nil
}

// renderResearch prints the terminal state of a research task.
func renderResearch(w io.Writer, opts renderOptions, status *domain.ResearchStatus) error {
	if opts.JSON {
		return writeJSON(w, opts, status)
	}

	printed := false
	if status.Output != nil && status.Output.Content != "" {
		fmt.Fprintln(w, status.Output.Content)
		printed = true
	}
	for _, raw := range status.Outputs {
		fmt.Fprintln(w, string(raw))
		printed = true
	}
	if !printed {
		fmt.Fprintln(w, "Research completed with no output.")
	}

	if opts.Compact {
		return nil
	}
	if !opts.NoSources && len(status.Citations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Citations:")
		for _, c := range status.Citations {
			fmt.Fprintf(w, "  %s\n", c.URL)
		}
	}
	if status.CostDollars != nil && status.CostDollars.Total != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Cost: $%.2f\n", *status.CostDollars.Total)
	}
	return nil
}

func renderEntitiesHuman(w io.Writer, entities []domain.Entity) {
	for _, e := range entities {
		p := e.Properties
		if p == nil {
			continue
		}
		if p.Name != "" {
			fmt.Fprintf(w, "Company: %s%s\n", p.Name, foundedSuffix(p.FoundedYear))
		}
		if p.Description != "" {
			fmt.Fprintf(w, "About: %s\n", flatten(p.Description))
		}
		if p.Workforce != nil && p.Workforce.Total != nil {
			fmt.Fprintf(w, "Employees: %s\n", humanize.Comma(int64(*p.Workforce.Total)))
		}
		if p.Headquarters != nil && (p.Headquarters.City != "" || p.Headquarters.Country != "") {
			fmt.Fprintf(w, "HQ: %s\n", joinNonEmpty(p.Headquarters.City, p.Headquarters.Country))
		}
		renderFinancials(w, p.Financials)
		if p.WebTraffic != nil && p.WebTraffic.VisitsMonthly != nil {
			fmt.Fprintf(w, "Monthly Visits: %s\n", humanize.Comma(int64(*p.WebTraffic.VisitsMonthly)))
		}
	}
}

func renderEntitiesCompact(w io.Writer, entities []domain.Entity) {
	for _, e := range entities {
		p := e.Properties
		if p == nil {
			continue
		}
		var parts []string
		if p.Name != "" {
			parts = append(parts, p.Name+foundedSuffix(p.FoundedYear))
		}
		if p.Workforce != nil && p.Workforce.Total != nil {
			parts = append(parts, humanize.Comma(int64(*p.Workforce.Total))+" employees")
		}
		if p.Headquarters != nil && (p.Headquarters.City != "" || p.Headquarters.Country != "") {
			parts = append(parts, joinNonEmpty(p.Headquarters.City, p.Headquarters.Country))
		}
		if p.Financials != nil && p.Financials.FundingTotal != nil {
			parts = append(parts, formatDollars(*p.Financials.FundingTotal)+" raised")
		}
		if len(parts) > 0 {
			fmt.Fprintln(w, strings.Join(parts, " | "))
		}
	}
}

func renderFinancials(w io.Writer, fin *domain.EntityFinancials) {
	if fin == nil {
		return
	}
	if len(fin.RevenueAnnual) > 0 {
		var revenue float64
		if err := json.Unmarshal(fin.RevenueAnnual, &revenue); err == nil {
			fmt.Fprintf(w, "Annual Revenue: %s\n", formatDollars(revenue))
		}
	}
	if fin.FundingTotal != nil {
		fmt.Fprintf(w, "Total Funding: %s\n", formatDollars(*fin.FundingTotal))
	}
	if round := fin.FundingLatestRound; round != nil && round.Name != "" {
		line := round.Name
		if round.Amount != nil {
			line += " " + formatDollars(*round.Amount)
		}
		if round.Date != "" {
			line += " (" + round.Date + ")"
		}
		fmt.Fprintf(w, "Latest Round: %s\n", line)
	}
}

// foundedSuffix renders the founded year, which the API returns as either
// a number or a string.
func foundedSuffix(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return fmt.Sprintf(" (founded %d)", int(asNumber))
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil && asString != "" {
		return fmt.Sprintf(" (founded %s)", asString)
	}
	return ""
}

// formatDollars renders an amount with a magnitude suffix: $2.5B, $340M,
// $75K, or plain dollars below a thousand.
func formatDollars(amount float64) string {
	switch {
	case amount >= 1e9:
		return trimZero(fmt.Sprintf("$%.1fB", amount/1e9))
	case amount >= 1e6:
		return trimZero(fmt.Sprintf("$%.1fM", amount/1e6))
	case amount >= 1e3:
		return trimZero(fmt.Sprintf("$%.1fK", amount/1e3))
	default:
		return fmt.Sprintf("$%.0f", amount)
	}
}

func trimZero(s string) string {
	return strings.Replace(s, ".0", "", 1)
}

// truncateText cuts text at limit characters, preferring a sentence end
// and then a word boundary in the second half of the window.
func truncateText(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	cut := text[:limit]
	if idx := strings.LastIndex(cut, ". "); idx > limit/2 {
		return cut[:idx+1]
	}
	if idx := strings.LastIndex(cut, " "); idx > limit/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}

// flatten collapses runs of whitespace so multi-line API text stays on one
// output line.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

func writeJSON(w io.Writer, opts renderOptions, v interface{}) error {
	var (
		data []byte
		err  error
	)
	if opts.Compact {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
