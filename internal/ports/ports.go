// Package ports defines the interfaces between the application core and
// its adapters. Services depend on these abstractions; the infrastructure
// layer provides the concrete implementations.
package ports

import (
	"context"
	"time"

	"github.com/doeshing/exa-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.config/exa/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// KeyRotator hands out API keys and records call outcomes against them.
// Selection never mutates usage counters; only the Record methods do.
type KeyRotator interface {
	Next() (idx int, key string, err error)
	KeyAt(idx int) (string, bool)
	PoolSize() int
	RecordSuccess(idx int)
	RecordRateLimited(idx int, retryAfter *time.Duration)
	MarkInvalid(idx int)
	Persist() error
}

// CacheStore persists raw upstream responses keyed by request fingerprint.
// The cache is strictly an optimization: Read never fails, it only misses,
// and Write never propagates an error to the caller.
type CacheStore interface {
	Read(digest string, ttl time.Duration) ([]byte, bool)
	Write(digest string, payload []byte)
	Entries() ([]domain.CacheEntryInfo, error)
	Clear() error
	Dir() string
}

// UpstreamClient wraps the remote search API. Every call takes the key to
// use; a 429 comes back as *domain.RateLimitError, anything else >= 400 as
// a plain error. Payloads are returned raw so they can be cached verbatim.
type UpstreamClient interface {
	Search(ctx context.Context, key string, req domain.SearchRequest) ([]byte, error)
	FindSimilar(ctx context.Context, key string, req domain.FindSimilarRequest) ([]byte, error)
	Contents(ctx context.Context, key string, req domain.ContentsRequest) ([]byte, error)
	ResearchCreate(ctx context.Context, key string, req domain.ResearchRequest) ([]byte, error)
	ResearchStatus(ctx context.Context, key string, id string) ([]byte, error)
	Probe(ctx context.Context, key string) (statusCode int, err error)
}

// RequestLogger appends one entry per upstream call when logging is enabled.
type RequestLogger interface {
	Log(maskedKey, cmd string, status int)
}

// HistoryRepository stores completed invocation records.
type HistoryRepository interface {
	Save(domain.InvocationRecord) error
	Records(limit int, search string) ([]domain.InvocationRecord, error)
	Close() error
}

// Logger provides leveled diagnostics for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
