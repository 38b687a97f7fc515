// Package format defines the enum values stored in archive record headers.
package format

import (
	"fmt"
	"strings"

	"github.com/arloliu/relaxfit/errs"
)

// CompressionType identifies the codec applied to a record payload.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone stores the payload as is.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 block compression.
)

var compressionNames = map[CompressionType]string{
	CompressionNone: "none",
	CompressionZstd: "zstd",
	CompressionS2:   "s2",
	CompressionLZ4:  "lz4",
}

func (c CompressionType) String() string {
	if name, ok := compressionNames[c]; ok {
		return name
	}

	return "unknown"
}

// Valid reports whether c is a known compression type.
func (c CompressionType) Valid() bool {
	_, ok := compressionNames[c]
	return ok
}

// ParseCompression returns the CompressionType for a name such as "zstd".
func ParseCompression(name string) (CompressionType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for c, cn := range compressionNames {
		if cn == n {
			return c, nil
		}
	}

	return 0, fmt.Errorf("compression %q: %w", name, errs.ErrUnsupportedCompression)
}
