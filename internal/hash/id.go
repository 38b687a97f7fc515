// Package hash derives stable numeric identifiers for spins.
package hash

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// SpinID returns the xxHash64 of a spin identifier with surrounding
// whitespace removed.
func SpinID(spin string) uint64 {
	return xxhash.Sum64String(strings.TrimSpace(spin))
}

// Sum64 returns the xxHash64 of b.
func Sum64(b []byte) uint64 {
	return xxhash.Sum64(b)
}
