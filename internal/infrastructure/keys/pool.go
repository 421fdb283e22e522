// Package keys owns the API key pool, the durable rotation state, and the
// selection policy that spreads requests across keys.
package keys

import (
	"os"
	"strings"

	"github.com/doeshing/exa-go/internal/domain"
)

// Environment variables the pool is loaded from.
const (
	EnvAPIKeys = "EXA_API_KEYS"
	EnvAPIKey  = "EXA_API_KEY"
)

// LoadPool reads the credential pool once at startup: EXA_API_KEYS as a
// comma-separated list, falling back to the single EXA_API_KEY. Keys are
// identified by their position for the lifetime of the run.
func LoadPool() ([]string, error) {
	if raw := os.Getenv(EnvAPIKeys); raw != "" {
		var pool []string
		for _, part := range strings.Split(raw, ",") {
			if key := strings.TrimSpace(part); key != "" {
				pool = append(pool, key)
			}
		}
		if len(pool) > 0 {
			return pool, nil
		}
	}
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return []string{key}, nil
	}
	return nil, domain.ErrNoAPIKeys
}

// Mask hides a key except for its last three characters. Keys are never
// logged or printed in full.
func Mask(key string) string {
	if len(key) <= 3 {
		return "***"
	}
	return "..." + key[len(key)-3:]
}
