package domain

import "time"

// CacheEntryInfo describes one on-disk cache entry for inspection commands.
// Write time comes from the file's own metadata, not the payload.
type CacheEntryInfo struct {
	Digest    string
	Size      int64
	WrittenAt time.Time
}
