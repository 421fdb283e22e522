package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoAPIKeys means the environment supplies no credentials at all.
	ErrNoAPIKeys = errors.New("no API keys found: set EXA_API_KEYS (comma-separated) or EXA_API_KEY")

	// ErrAllKeysInvalid means every configured key has been marked invalid.
	ErrAllKeysInvalid = errors.New("no valid API keys available")

	// ErrNoResults signals an empty upstream result set; main maps it to exit code 3.
	ErrNoResults = errors.New("no results found")
)

// RateLimitError is returned by the upstream client when the API answers
// HTTP 429. RetryAfter carries the server's hint when one was parseable.
type RateLimitError struct {
	RetryAfter *time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter != nil {
		return fmt.Sprintf("rate limited (retry after %s)", *e.RetryAfter)
	}
	return "rate limited"
}
