package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
	// CacheFilePermissions is the permission for cached response files
	CacheFilePermissions = 0o644
)

// Timeout and duration constants
const (
	// DefaultHTTPTimeout is the timeout for a single upstream API call
	DefaultHTTPTimeout = 30 * time.Second
	// DefaultCooldown is applied after a rate limit without a Retry-After hint
	DefaultCooldown = 60 * time.Second
	// StaleThreshold is how old the rotation state may get before keys are revalidated
	StaleThreshold = 24 * time.Hour
	// ResearchPollInterval is the delay between research status polls
	ResearchPollInterval = 5 * time.Second
	// DefaultResearchTimeout bounds the whole research create-and-poll flow
	DefaultResearchTimeout = 15 * time.Minute
)

// Cache constants
const (
	// DefaultCacheTTLMinutes is how long a cached response stays fresh
	DefaultCacheTTLMinutes = 60
	// MaxCacheEntries caps the response cache; oldest entries beyond it are evicted
	MaxCacheEntries = 50
)

// Request log constants
const (
	// RequestLogMaxMegabytes triggers rotation of the request log
	RequestLogMaxMegabytes = 5
	// RequestLogMaxBackups is how many rotated request logs are kept
	RequestLogMaxBackups = 1
)

// History constants
const (
	// DefaultHistoryLimit is the default number of invocation records to display
	DefaultHistoryLimit = 20
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
