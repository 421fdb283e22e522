package domain

import "encoding/json"

// HighlightsConfig asks the API for key excerpts instead of full text.
type HighlightsConfig struct {
	MaxCharacters int `json:"maxCharacters"`
}

// ContentsConfig controls what page content the API attaches to results.
type ContentsConfig struct {
	Text       *bool             `json:"text,omitempty"`
	Highlights *HighlightsConfig `json:"highlights,omitempty"`
	Verbosity  string            `json:"verbosity,omitempty"`
}

// SearchRequest is the POST /search body.
type SearchRequest struct {
	Query              string          `json:"query"`
	NumResults         int             `json:"numResults"`
	Contents           *ContentsConfig `json:"contents,omitempty"`
	IncludeDomains     []string        `json:"includeDomains,omitempty"`
	StartPublishedDate string          `json:"startPublishedDate,omitempty"`
	EndPublishedDate   string          `json:"endPublishedDate,omitempty"`
	Type               string          `json:"type,omitempty"`
	Category           string          `json:"category,omitempty"`
	MaxAgeHours        *int            `json:"maxAgeHours,omitempty"`
}

// FindSimilarRequest is the POST /findSimilar body.
type FindSimilarRequest struct {
	URL         string          `json:"url"`
	NumResults  int             `json:"numResults"`
	Contents    *ContentsConfig `json:"contents,omitempty"`
	Type        string          `json:"type,omitempty"`
	Category    string          `json:"category,omitempty"`
	MaxAgeHours *int            `json:"maxAgeHours,omitempty"`
}

// ContentsRequest is the POST /contents body.
type ContentsRequest struct {
	URLs []string `json:"urls"`
	Text bool     `json:"text"`
}

// ResearchRequest is the POST /research body.
type ResearchRequest struct {
	Instructions string          `json:"instructions"`
	Model        string          `json:"model"`
	OutputSchema json.RawMessage `json:"outputSchema,omitempty"`
}
