package domain

import "encoding/json"

// SearchResponse is the shared response shape of /search, /findSimilar and /contents.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// SearchResult is a single hit, optionally with content and entity data.
type SearchResult struct {
	Title         string   `json:"title,omitempty"`
	URL           string   `json:"url"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Text          string   `json:"text,omitempty"`
	Highlights    []string `json:"highlights,omitempty"`
	Entities      []Entity `json:"entities,omitempty"`
}

// Entity carries structured company data attached to a result.
type Entity struct {
	Type       string            `json:"type,omitempty"`
	Properties *EntityProperties `json:"properties,omitempty"`
}

type EntityProperties struct {
	Name         string            `json:"name,omitempty"`
	FoundedYear  json.RawMessage   `json:"foundedYear,omitempty"`
	Description  string            `json:"description,omitempty"`
	Workforce    *EntityWorkforce  `json:"workforce,omitempty"`
	Headquarters *EntityHQ         `json:"headquarters,omitempty"`
	Financials   *EntityFinancials `json:"financials,omitempty"`
	WebTraffic   *EntityWebTraffic `json:"webTraffic,omitempty"`
}

type EntityWorkforce struct {
	Total *uint64 `json:"total,omitempty"`
}

type EntityHQ struct {
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

type EntityFinancials struct {
	RevenueAnnual      json.RawMessage     `json:"revenueAnnual,omitempty"`
	FundingTotal       *float64            `json:"fundingTotal,omitempty"`
	FundingLatestRound *EntityFundingRound `json:"fundingLatestRound,omitempty"`
}

type EntityFundingRound struct {
	Name   string   `json:"name,omitempty"`
	Date   string   `json:"date,omitempty"`
	Amount *float64 `json:"amount,omitempty"`
}

type EntityWebTraffic struct {
	VisitsMonthly *uint64 `json:"visitsMonthly,omitempty"`
}

// ResearchCreateResponse acknowledges a new research task.
type ResearchCreateResponse struct {
	ResearchID string `json:"researchId"`
}

// ResearchStatus is the polled state of a research task.
type ResearchStatus struct {
	Status      string            `json:"status"`
	Error       string            `json:"error,omitempty"`
	Output      *ResearchOutput   `json:"output,omitempty"`
	Outputs     []json.RawMessage `json:"outputs,omitempty"`
	Citations   []Citation        `json:"citations,omitempty"`
	CostDollars *CostDollars      `json:"costDollars,omitempty"`
}

type ResearchOutput struct {
	Content string `json:"content,omitempty"`
}

type Citation struct {
	URL string `json:"url"`
}

type CostDollars struct {
	Total *float64 `json:"total,omitempty"`
}

// Research task terminal states.
const (
	ResearchCompleted = "completed"
	ResearchFailed    = "failed"
	ResearchCanceled  = "canceled"
)
