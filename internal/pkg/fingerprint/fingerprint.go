// Package fingerprint derives cache keys from request parameters.
package fingerprint

import (
	"fmt"
	"hash/fnv"
)

// sep keeps adjacent fields from running together ("ab","c" vs "a","bc").
const sep = 0x1f

// Digest hashes a command name and the ordered option values that affect
// the upstream response into a fixed-length cache key. Callers supply the
// fields in a fixed order, so no normalization happens here. FNV-1a is
// deliberate: this is a convenience key for a local single-user cache, not
// a security boundary.
func Digest(command string, fields ...string) string {
	h := fnv.New64a()
	h.Write([]byte(command))
	for _, f := range fields {
		h.Write([]byte{sep})
		h.Write([]byte(f))
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
